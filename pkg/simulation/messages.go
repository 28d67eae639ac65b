package simulation

import (
	"time"

	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages understood by WorldActor. They are protobuf well-known types so
// they travel through the actor system without generated code:
//
//	*durationpb.Duration  one frame, carrying the frame's delta time
//	*structpb.Struct      a proximity-enter event (kind "proximityEnter")
//	*emptypb.Empty        a snapshot request, answered with a *structpb.Struct
const proximityEnterKind = "proximityEnter"

// NewTickMessage wraps a frame duration.
func NewTickMessage(dt time.Duration) *durationpb.Duration {
	return durationpb.New(dt)
}

// NewProximityEnterMessage reports that other entered the avoidance sphere of agent.
func NewProximityEnterMessage(agent, other AgentID) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"kind":  structpb.NewStringValue(proximityEnterKind),
			"agent": structpb.NewStringValue(string(agent)),
			"other": structpb.NewStringValue(string(other)),
		},
	}
}

// ParseProximityEnter extracts the event carried by msg.
// It reports false for structs of any other kind.
func ParseProximityEnter(msg *structpb.Struct) (ProximityEvent, bool) {
	f := msg.GetFields()
	if f["kind"].GetStringValue() != proximityEnterKind {
		return ProximityEvent{}, false
	}
	ev := ProximityEvent{
		Agent: AgentID(f["agent"].GetStringValue()),
		Other: AgentID(f["other"].GetStringValue()),
	}
	if ev.Agent == "" || ev.Other == "" {
		return ProximityEvent{}, false
	}
	return ev, true
}

// NewSnapshotRequest asks the world for its current state.
func NewSnapshotRequest() *emptypb.Empty {
	return &emptypb.Empty{}
}
