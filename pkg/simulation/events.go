package simulation

// ProximityEvent signals that Other entered the avoidance sphere of Agent.
type ProximityEvent struct {
	Agent AgentID
	Other AgentID
}

// minEventQueue is the smallest inbound event buffer a swarm is created with.
const minEventQueue = 1024

func eventQueueSize(agents int) int {
	// a dense cluster can report every agent against a handful of neighbours per pass
	return max(minEventQueue, agents*16)
}
