package simulation

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
)

// Spawner instantiates the population once at startup.
type Spawner interface {
	Spawn(count int, bounds float64) []*Agent
}

// RandomSpawner places agents uniformly in [-bounds, bounds]^3 with identity orientation.
type RandomSpawner struct {
	rng *rand.Rand
}

func NewRandomSpawner(rng *rand.Rand) *RandomSpawner {
	return &RandomSpawner{rng: rng}
}

func (s *RandomSpawner) Spawn(count int, bounds float64) []*Agent {
	agents := make([]*Agent, 0, count)
	for i := 0; i < count; i++ {
		pos := geometry.Vector3D{
			X: s.uniform(bounds),
			Y: s.uniform(bounds),
			Z: s.uniform(bounds),
		}
		agents = append(agents, NewAgent(AgentID(uuid.NewString()), fmt.Sprintf("Agent-%03d", i), pos))
	}
	return agents
}

func (s *RandomSpawner) uniform(bounds float64) float64 {
	return (s.rng.Float64()*2 - 1) * bounds
}

// FixedSpawner hands out a predefined population, ignoring count and bounds.
type FixedSpawner []*Agent

func (f FixedSpawner) Spawn(int, float64) []*Agent {
	return f
}
