package simulation

import (
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
	"gonum.org/v1/gonum/stat"
)

// Aggregate holds the swarm-wide statistics of one tick.
// MeanOrientation is the component-wise mean of Euler angles in degrees. It is an
// approximation that ignores wraparound (350 and 10 average to 180, not 0).
type Aggregate struct {
	MeanPosition    geometry.Vector3D `json:"meanPosition"`
	MeanOrientation geometry.Vector3D `json:"meanOrientation"`
	Count           int               `json:"count"`
}

// Empty reports the degenerate zero-agent aggregate.
func (a Aggregate) Empty() bool {
	return a.Count == 0
}

// Aggregator recomputes the means once per tick.
// Its column buffers are reused between ticks to avoid allocating per agent.
type Aggregator struct {
	cols [6][]float64
}

// Recompute returns the mean position and orientation of agents.
// An empty slice yields zero vectors and Count 0, never NaN.
func (g *Aggregator) Recompute(agents []*Agent) Aggregate {
	n := len(agents)
	if n == 0 {
		return Aggregate{}
	}
	for i := range g.cols {
		g.cols[i] = g.cols[i][:0]
	}
	for _, a := range agents {
		e := a.Rot.Euler()
		g.cols[0] = append(g.cols[0], a.Pos.X)
		g.cols[1] = append(g.cols[1], a.Pos.Y)
		g.cols[2] = append(g.cols[2], a.Pos.Z)
		g.cols[3] = append(g.cols[3], e.X)
		g.cols[4] = append(g.cols[4], e.Y)
		g.cols[5] = append(g.cols[5], e.Z)
	}
	return Aggregate{
		MeanPosition: geometry.Vector3D{
			X: stat.Mean(g.cols[0], nil),
			Y: stat.Mean(g.cols[1], nil),
			Z: stat.Mean(g.cols[2], nil),
		},
		MeanOrientation: geometry.Vector3D{
			X: stat.Mean(g.cols[3], nil),
			Y: stat.Mean(g.cols[4], nil),
			Z: stat.Mean(g.cols[5], nil),
		},
		Count: n,
	}
}
