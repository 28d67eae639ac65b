package simulation

import (
	"fmt"
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
)

const tolerance = 1e-9

func TestAggregator_Recompute(t *testing.T) {
	tests := []struct {
		name     string
		agents   []*Agent
		wantPos  geometry.Vector3D
		wantEul  geometry.Vector3D
		wantSize int
	}{
		{
			name: "three agents on the x axis",
			agents: []*Agent{
				NewAgent("a", "A", geometry.NewVector(0, 0, 0)),
				NewAgent("b", "B", geometry.NewVector(10, 0, 0)),
				NewAgent("c", "C", geometry.NewVector(-10, 0, 0)),
			},
			wantPos:  geometry.Zero,
			wantEul:  geometry.Zero,
			wantSize: 3,
		},
		{
			name: "off-center cluster",
			agents: []*Agent{
				NewAgent("a", "A", geometry.NewVector(0, 0, 0)),
				NewAgent("b", "B", geometry.NewVector(3, 0, 0)),
				NewAgent("c", "C", geometry.NewVector(0, 3, 6)),
			},
			wantPos:  geometry.NewVector(1, 1, 2),
			wantEul:  geometry.Zero,
			wantSize: 3,
		},
		{
			name:     "single agent",
			agents:   []*Agent{NewAgent("a", "A", geometry.NewVector(4, -2, 7))},
			wantPos:  geometry.NewVector(4, -2, 7),
			wantEul:  geometry.Zero,
			wantSize: 1,
		},
	}

	var g Aggregator
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Recompute(tt.agents)
			if !got.MeanPosition.EqWithin(tt.wantPos, tolerance) {
				t.Errorf("MeanPosition = %v; want %v", got.MeanPosition, tt.wantPos)
			}
			if !got.MeanOrientation.EqWithin(tt.wantEul, 1e-6) {
				t.Errorf("MeanOrientation = %v; want %v", got.MeanOrientation, tt.wantEul)
			}
			if got.Count != tt.wantSize {
				t.Errorf("Count = %d; want %d", got.Count, tt.wantSize)
			}
		})
	}
}

func TestAggregator_MeanOrientation(t *testing.T) {
	a := NewAgent("a", "A", geometry.Zero)
	a.Rot = geometry.FromEuler(geometry.NewVector(0, 10, 0))
	b := NewAgent("b", "B", geometry.Zero)
	b.Rot = geometry.FromEuler(geometry.NewVector(0, 30, 0))

	var g Aggregator
	got := g.Recompute([]*Agent{a, b})
	if math.Abs(got.MeanOrientation.Y-20) > 1e-6 {
		t.Errorf("mean yaw = %v; want 20", got.MeanOrientation.Y)
	}
}

func TestAggregator_Empty(t *testing.T) {
	var g Aggregator
	got := g.Recompute(nil)
	if !got.Empty() {
		t.Fatalf("expected empty aggregate, got count %d", got.Count)
	}
	if got.MeanPosition.HasNaN() || got.MeanOrientation.HasNaN() {
		t.Errorf("empty aggregate must not contain NaN: %+v", got)
	}
}

func TestAggregator_ReusesBuffers(t *testing.T) {
	var g Aggregator
	big := make([]*Agent, 0, 100)
	for i := 0; i < 100; i++ {
		big = append(big, NewAgent(AgentID(fmt.Sprintf("a%d", i)), "", geometry.NewVector(float64(i), 0, 0)))
	}
	g.Recompute(big)
	got := g.Recompute(big[:2])
	if !got.MeanPosition.EqWithin(geometry.NewVector(0.5, 0, 0), tolerance) {
		t.Errorf("stale buffer leaked into mean: %v", got.MeanPosition)
	}
}

func BenchmarkAggregator_Recompute(b *testing.B) {
	agents := make([]*Agent, 1000)
	for i := range agents {
		agents[i] = NewAgent(AgentID(fmt.Sprintf("a%d", i)), "", geometry.NewVector(float64(i), float64(i%7), float64(i%13)))
	}
	var g Aggregator

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Recompute(agents)
	}
}
