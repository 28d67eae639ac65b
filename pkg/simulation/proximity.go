package simulation

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// ProximitySet is the per-agent record of neighbours inside the avoidance radius.
// It is safe for concurrent use; Add is idempotent so re-fired overlap events are harmless.
type ProximitySet struct {
	members mapset.Set[AgentID]
}

// NewProximitySet returns an empty set.
func NewProximitySet() *ProximitySet {
	return &ProximitySet{members: mapset.NewSet[AgentID]()}
}

// Add inserts id and reports whether it was new.
func (p *ProximitySet) Add(id AgentID) bool {
	return p.members.Add(id)
}

func (p *ProximitySet) Contains(id AgentID) bool {
	return p.members.Contains(id)
}

func (p *ProximitySet) Len() int {
	return p.members.Cardinality()
}

// Members returns a copy of the current members, in no particular order.
func (p *ProximitySet) Members() []AgentID {
	return p.members.ToSlice()
}

// Prune removes every member for which drop returns true and returns them.
// Matches are collected on a copy first and removed afterwards, so the set is
// never mutated while being traversed.
func (p *ProximitySet) Prune(drop func(AgentID) bool) []AgentID {
	var stale []AgentID
	for _, id := range p.members.ToSlice() {
		if drop(id) {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		p.members.Remove(id)
	}
	return stale
}
