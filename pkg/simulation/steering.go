package simulation

import (
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
)

// Locator answers distance queries about other agents.
// During a tick it serves positions frozen at the start of that tick.
type Locator interface {
	PositionOf(id AgentID) (geometry.Vector3D, bool)
}

// StepResult describes what one controller step did, for logs and tests.
type StepResult struct {
	RecallFactor    float64
	AvoidanceFactor float64
	Avoided         AgentID // empty when the avoidance term was skipped
	Pruned          int
	Turned          float64 // degrees actually rotated this step
	Moved           float64 // distance travelled this step
}

// Controller steers a single agent. It owns its random source and writes only
// to its own agent, so controllers of one swarm can step in parallel.
type Controller struct {
	agent        *Agent
	cfg          *Config
	settings     behavior.Settings
	rng          *rand.Rand
	avoidNearest bool
}

// NewController binds a controller to agent. cfg is shared read-only.
func NewController(agent *Agent, cfg *Config, rng *rand.Rand) *Controller {
	return &Controller{
		agent:        agent,
		cfg:          cfg,
		settings:     cfg.Settings(),
		rng:          rng,
		avoidNearest: cfg.AvoidNearest,
	}
}

// Step runs recall, avoidance, jitter, turn clamp and integration for one tick.
func (c *Controller) Step(dt float64, agg Aggregate, loc Locator) StepResult {
	var res StepResult
	a := c.agent

	// the working target starts at the group's mean heading
	target := geometry.FromEuler(agg.MeanOrientation)

	// 1. Recall
	if c.cfg.HomeRecall {
		target, _ = behavior.Recall(target, a.Pos, geometry.Zero, c.settings)
	}
	target, res.RecallFactor = behavior.Recall(target, a.Pos, agg.MeanPosition, c.settings)

	// 2. Avoidance
	res.Pruned = len(c.pruneProximity(loc))
	if id, pos, ok := c.selectNeighbour(loc); ok {
		target, res.AvoidanceFactor = behavior.Avoid(target, a.Pos, pos, c.settings)
		res.Avoided = id
	}

	// 3. Jitter
	target = behavior.ApplyJitter(target, behavior.Jitter(c.rng, c.settings.RandomFactor))

	// 4. Turn-rate clamp
	a.Rot, res.Turned = behavior.Turn(a.Rot, target, dt, c.settings)

	// 5. Integration
	before := a.Pos
	a.Pos = behavior.Advance(a.Pos, a.Rot, dt, behavior.SpeedMultiplier(c.rng, c.settings.RandomFactor), c.settings)
	res.Moved = a.Pos.DistanceTo(before)

	return res
}

// pruneProximity drops neighbours that left the avoidance radius or are unknown.
func (c *Controller) pruneProximity(loc Locator) []AgentID {
	limitSq := c.cfg.AvoidanceDistance * c.cfg.AvoidanceDistance
	return c.agent.proximity.Prune(func(id AgentID) bool {
		pos, ok := loc.PositionOf(id)
		if !ok {
			return true
		}
		return c.agent.Pos.DistanceSquaredTo(pos) > limitSq
	})
}

// selectNeighbour picks the neighbour that drives avoidance: the farthest
// member of the proximity set, or the nearest when AvoidNearest is set.
// A neighbour at distance 0 is never selected.
func (c *Controller) selectNeighbour(loc Locator) (AgentID, geometry.Vector3D, bool) {
	var (
		bestID  AgentID
		bestPos geometry.Vector3D
		found   bool
	)
	bestDist := 0.0
	if c.avoidNearest {
		bestDist = math.MaxFloat64
	}
	for _, id := range c.agent.proximity.Members() {
		pos, ok := loc.PositionOf(id)
		if !ok {
			continue
		}
		d := c.agent.Pos.DistanceTo(pos)
		if d == 0 {
			continue
		}
		better := d > bestDist
		if c.avoidNearest {
			better = d < bestDist
		}
		// ties broken by id so the choice does not depend on set iteration order
		if better || (found && d == bestDist && id < bestID) {
			bestID, bestPos, bestDist, found = id, pos, d, true
		}
	}
	return bestID, bestPos, found
}
