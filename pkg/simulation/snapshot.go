package simulation

import (
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
	"google.golang.org/protobuf/types/known/structpb"
)

// SwarmSnapshot is what the world pushes to observers after every tick.
type SwarmSnapshot struct {
	Tick      uint64       `json:"tick"`
	FixedTick uint64       `json:"fixedTick"`
	Aggregate Aggregate    `json:"aggregate"`
	Agents    []AgentState `json:"agents"`
}

// ToProto converts the snapshot into a protobuf Struct, the payload of
// snapshot replies sent through the actor system.
func (s *SwarmSnapshot) ToProto() *structpb.Struct {
	agents := make([]*structpb.Value, 0, len(s.Agents))
	for _, a := range s.Agents {
		agents = append(agents, structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{
				"id":        structpb.NewStringValue(string(a.ID)),
				"name":      structpb.NewStringValue(a.Name),
				"position":  vectorValue(a.Pos),
				"euler":     vectorValue(a.Euler),
				"forward":   vectorValue(a.Forward),
				"neighbors": structpb.NewNumberValue(float64(a.Neighbors)),
			},
		}))
	}
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"tick":      structpb.NewNumberValue(float64(s.Tick)),
			"fixedTick": structpb.NewNumberValue(float64(s.FixedTick)),
			"aggregate": structpb.NewStructValue(&structpb.Struct{
				Fields: map[string]*structpb.Value{
					"meanPosition":    vectorValue(s.Aggregate.MeanPosition),
					"meanOrientation": vectorValue(s.Aggregate.MeanOrientation),
					"count":           structpb.NewNumberValue(float64(s.Aggregate.Count)),
				},
			}),
			"agents": structpb.NewListValue(&structpb.ListValue{Values: agents}),
		},
	}
}

// SnapshotFromProto is the inverse of ToProto. Missing fields decode to zero values.
func SnapshotFromProto(st *structpb.Struct) *SwarmSnapshot {
	f := st.GetFields()
	agg := f["aggregate"].GetStructValue().GetFields()
	snap := &SwarmSnapshot{
		Tick:      uint64(f["tick"].GetNumberValue()),
		FixedTick: uint64(f["fixedTick"].GetNumberValue()),
		Aggregate: Aggregate{
			MeanPosition:    vectorFromValue(agg["meanPosition"]),
			MeanOrientation: vectorFromValue(agg["meanOrientation"]),
			Count:           int(agg["count"].GetNumberValue()),
		},
	}
	for _, v := range f["agents"].GetListValue().GetValues() {
		af := v.GetStructValue().GetFields()
		snap.Agents = append(snap.Agents, AgentState{
			ID:        AgentID(af["id"].GetStringValue()),
			Name:      af["name"].GetStringValue(),
			Pos:       vectorFromValue(af["position"]),
			Euler:     vectorFromValue(af["euler"]),
			Forward:   vectorFromValue(af["forward"]),
			Neighbors: int(af["neighbors"].GetNumberValue()),
		})
	}
	return snap
}

func vectorValue(v geometry.Vector3D) *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{Values: []*structpb.Value{
		structpb.NewNumberValue(v.X),
		structpb.NewNumberValue(v.Y),
		structpb.NewNumberValue(v.Z),
	}})
}

func vectorFromValue(v *structpb.Value) geometry.Vector3D {
	xs := v.GetListValue().GetValues()
	if len(xs) != 3 {
		return geometry.Zero
	}
	return geometry.Vector3D{X: xs[0].GetNumberValue(), Y: xs[1].GetNumberValue(), Z: xs[2].GetNumberValue()}
}
