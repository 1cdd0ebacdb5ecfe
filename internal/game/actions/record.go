package actions

import (
	"fmt"

	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

// Record is the wire form of an action. Which optional fields are required
// depends on ActionType.
type Record struct {
	Player     int       `json:"player"`
	ActionType Type      `json:"actiontype"`
	ObjectType *int      `json:"objecttype,omitempty"`
	PlanetID   *int      `json:"planetid,omitempty"`
	ResourceID *int      `json:"resourceid,omitempty"`
	AgentType  *int      `json:"agenttype,omitempty"`
	TargetID   *FleetRef `json:"targetid,omitempty"`
	Choice     *bool     `json:"choice,omitempty"`
	Give       *int      `json:"give,omitempty"`
	Take       *int      `json:"take,omitempty"`
}

// FleetRef names a fleet on the wire.
type FleetRef struct {
	Player int `json:"player"`
	Slot   int `json:"slot"`
}

// DecodeError is returned for records that cannot describe a legal action.
// Its message is the reason reported to the player.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string { return e.Reason }

// ReasonUnknownAction is reported for unrecognised action types.
const ReasonUnknownAction = "That is an unknown action"

func missing(field string) error {
	return &DecodeError{Reason: fmt.Sprintf("Missing %s for this action", field)}
}

// Decode converts a wire record into an Action.
func Decode(r Record) (Action, error) {
	base := Base{Player: r.Player}

	switch r.ActionType {
	case TypeLoadedAssets:
		return LoadedAssets{base}, nil
	case TypeTurnDone:
		return TurnDone{base}, nil
	case TypeCollectResources:
		return CollectResources{base}, nil
	case TypePayUpkeep:
		return PayUpkeep{base}, nil
	case TypeViewedMissions:
		return ViewedMissions{base}, nil
	case TypeResolveMission:
		return ResolveMission{base}, nil

	case TypePlace, TypeBuild, TypeRemove:
		if r.ObjectType == nil {
			return nil, missing("objecttype")
		}
		if r.PlanetID == nil {
			return nil, missing("planetid")
		}
		slot := state.NoResource
		if r.ResourceID != nil {
			slot = *r.ResourceID
		}
		kind := state.StructureKind(*r.ObjectType)
		switch r.ActionType {
		case TypePlace:
			return Place{Base: base, Kind: kind, Planet: *r.PlanetID, Slot: slot}, nil
		case TypeBuild:
			return Build{Base: base, Kind: kind, Planet: *r.PlanetID, Slot: slot}, nil
		default:
			return Remove{Base: base, Kind: kind, Planet: *r.PlanetID, Slot: slot}, nil
		}

	case TypeRecruit, TypeMoveAgent, TypeLaunchMission:
		if r.AgentType == nil {
			return nil, missing("agenttype")
		}
		if r.PlanetID == nil {
			return nil, missing("planetid")
		}
		agent := state.AgentType(*r.AgentType)
		switch r.ActionType {
		case TypeRecruit:
			return Recruit{Base: base, Agent: agent, Planet: *r.PlanetID}, nil
		case TypeMoveAgent:
			return MoveAgent{Base: base, Agent: agent, Planet: *r.PlanetID}, nil
		default:
			return LaunchMission{Base: base, Agent: agent, Planet: *r.PlanetID}, nil
		}

	case TypeRetire:
		if r.AgentType == nil {
			return nil, missing("agenttype")
		}
		return Retire{Base: base, Agent: state.AgentType(*r.AgentType)}, nil

	case TypeRemoveFleet:
		if r.TargetID == nil {
			return nil, &DecodeError{Reason: "No fleet id chosen."}
		}
		if r.PlanetID == nil {
			return nil, missing("planetid")
		}
		return RemoveFleet{
			Base:   base,
			Planet: *r.PlanetID,
			Fleet:  state.FleetID{Player: r.TargetID.Player, Slot: r.TargetID.Slot},
		}, nil

	case TypeBlockMission:
		if r.Choice == nil {
			return nil, missing("choice")
		}
		return BlockMission{Base: base, Block: *r.Choice}, nil

	case TypeExchange:
		if r.Give == nil {
			return nil, missing("give")
		}
		if r.Take == nil {
			return nil, missing("take")
		}
		return Exchange{Base: base, Give: state.ResourceKind(*r.Give), Take: state.ResourceKind(*r.Take)}, nil

	default:
		return nil, &DecodeError{Reason: ReasonUnknownAction}
	}
}

// Encode converts an Action back into its wire record.
func Encode(a Action) Record {
	r := Record{Player: a.Actor(), ActionType: a.Type()}
	switch v := a.(type) {
	case Place:
		r.ObjectType, r.PlanetID, r.ResourceID = intp(int(v.Kind)), intp(v.Planet), slotp(v.Slot)
	case Build:
		r.ObjectType, r.PlanetID, r.ResourceID = intp(int(v.Kind)), intp(v.Planet), slotp(v.Slot)
	case Remove:
		r.ObjectType, r.PlanetID, r.ResourceID = intp(int(v.Kind)), intp(v.Planet), slotp(v.Slot)
	case Recruit:
		r.AgentType, r.PlanetID = intp(int(v.Agent)), intp(v.Planet)
	case MoveAgent:
		r.AgentType, r.PlanetID = intp(int(v.Agent)), intp(v.Planet)
	case LaunchMission:
		r.AgentType, r.PlanetID = intp(int(v.Agent)), intp(v.Planet)
	case Retire:
		r.AgentType = intp(int(v.Agent))
	case RemoveFleet:
		r.PlanetID = intp(v.Planet)
		r.TargetID = &FleetRef{Player: v.Fleet.Player, Slot: v.Fleet.Slot}
	case BlockMission:
		choice := v.Block
		r.Choice = &choice
	case Exchange:
		r.Give, r.Take = intp(int(v.Give)), intp(int(v.Take))
	}
	return r
}

func intp(v int) *int { return &v }

func slotp(slot int) *int {
	if slot == state.NoResource {
		return nil
	}
	return &slot
}
