package simulation

import (
	"slices"
	"testing"
)

func TestProximitySet_AddIsIdempotent(t *testing.T) {
	p := NewProximitySet()
	if !p.Add("b") {
		t.Error("first Add should report a new member")
	}
	if p.Add("b") {
		t.Error("second Add of the same id should report false")
	}
	if p.Len() != 1 {
		t.Errorf("Len = %d; want 1", p.Len())
	}
	if !p.Contains("b") {
		t.Error("expected b in set")
	}
}

func TestProximitySet_Prune(t *testing.T) {
	p := NewProximitySet()
	for _, id := range []AgentID{"a", "b", "c", "d"} {
		p.Add(id)
	}

	// drop every member at once: removal must not disturb the traversal
	removed := p.Prune(func(AgentID) bool { return true })
	if len(removed) != 4 {
		t.Errorf("removed %d members; want 4", len(removed))
	}
	if p.Len() != 0 {
		t.Errorf("Len after full prune = %d; want 0", p.Len())
	}

	for _, id := range []AgentID{"a", "b", "c", "d"} {
		p.Add(id)
	}
	removed = p.Prune(func(id AgentID) bool { return id == "b" || id == "d" })
	slices.Sort(removed)
	if !slices.Equal(removed, []AgentID{"b", "d"}) {
		t.Errorf("removed = %v; want [b d]", removed)
	}
	members := p.Members()
	slices.Sort(members)
	if !slices.Equal(members, []AgentID{"a", "c"}) {
		t.Errorf("members = %v; want [a c]", members)
	}
}
