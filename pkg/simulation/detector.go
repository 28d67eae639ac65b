package simulation

import (
	"math"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
)

type gridKey struct {
	x, y, z int
}

// ProximityDetector stands in for the physics trigger layer: it finds every
// pair of agents whose avoidance spheres overlap and reports them as events.
// It uses a spatial hash whose cells are as wide as the avoidance radius, so a
// 3x3x3 scan around an agent covers every candidate.
type ProximityDetector struct {
	radius float64
	grid   map[gridKey][]*Agent
}

func NewProximityDetector(radius float64) *ProximityDetector {
	return &ProximityDetector{
		radius: radius,
		grid:   make(map[gridKey][]*Agent),
	}
}

func (d *ProximityDetector) cellSize() float64 {
	return math.Max(d.radius, 1e-3)
}

func (d *ProximityDetector) cellOf(p geometry.Vector3D) gridKey {
	cs := d.cellSize()
	return gridKey{
		x: int(math.Floor(p.X / cs)),
		y: int(math.Floor(p.Y / cs)),
		z: int(math.Floor(p.Z / cs)),
	}
}

// rebuildGrid re-buckets agents. Slices are truncated, not dropped, so their
// backing arrays are reused from one pass to the next.
func (d *ProximityDetector) rebuildGrid(agents []*Agent) {
	for k := range d.grid {
		d.grid[k] = d.grid[k][:0]
	}
	for _, a := range agents {
		key := d.cellOf(a.Pos)
		d.grid[key] = append(d.grid[key], a)
	}
}

// nearby returns the agents in the 3x3x3 block of cells around p.
func (d *ProximityDetector) nearby(p geometry.Vector3D) []*Agent {
	c := d.cellOf(p)
	var out []*Agent
	for i := c.x - 1; i <= c.x+1; i++ {
		for j := c.y - 1; j <= c.y+1; j++ {
			for k := c.z - 1; k <= c.z+1; k++ {
				out = append(out, d.grid[gridKey{x: i, y: j, z: k}]...)
			}
		}
	}
	return out
}

// Detect returns one event per ordered pair (a, b) with |a-b| < radius, so both
// agents learn about each other, as with two overlapping triggers.
func (d *ProximityDetector) Detect(agents []*Agent) []ProximityEvent {
	d.rebuildGrid(agents)
	radiusSq := d.radius * d.radius
	var events []ProximityEvent
	for _, me := range agents {
		for _, other := range d.nearby(me.Pos) {
			if other.ID == me.ID {
				continue
			}
			if me.Pos.DistanceSquaredTo(other.Pos) < radiusSq {
				events = append(events, ProximityEvent{Agent: me.ID, Other: other.ID})
			}
		}
	}
	return events
}
