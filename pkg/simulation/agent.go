package simulation

import "github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"

// AgentID is the opaque handle of an agent.
type AgentID string

// Agent is one member of the swarm. Pos and Rot are written only by the
// agent's own controller and by the world clamp, never concurrently.
type Agent struct {
	ID   AgentID
	Name string
	Pos  geometry.Vector3D
	Rot  geometry.Quaternion

	proximity *ProximitySet
}

// NewAgent creates an agent at pos with identity orientation.
func NewAgent(id AgentID, name string, pos geometry.Vector3D) *Agent {
	return &Agent{
		ID:        id,
		Name:      name,
		Pos:       pos,
		Rot:       geometry.Identity,
		proximity: NewProximitySet(),
	}
}

// Proximity gives access to the neighbours currently inside the avoidance radius.
func (a *Agent) Proximity() *ProximitySet {
	return a.proximity
}

// Forward is the direction the agent faces.
func (a *Agent) Forward() geometry.Vector3D {
	return a.Rot.Forward()
}

// State is a copy of the agent safe to hand out of the simulation.
func (a *Agent) State() AgentState {
	return AgentState{
		ID:        a.ID,
		Name:      a.Name,
		Pos:       a.Pos,
		Euler:     a.Rot.Euler(),
		Forward:   a.Forward(),
		Neighbors: a.proximity.Len(),
	}
}

// AgentState is the read-only view of an agent at the end of a tick.
type AgentState struct {
	ID        AgentID           `json:"id"`
	Name      string            `json:"name"`
	Pos       geometry.Vector3D `json:"position"`
	Euler     geometry.Vector3D `json:"euler"`
	Forward   geometry.Vector3D `json:"forward"`
	Neighbors int               `json:"neighbors"`
}
