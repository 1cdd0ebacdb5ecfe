// Package actions defines the action vocabulary shared by human and AI
// players and the validator/applier that enforces the game rules for each
// action against a game state.
package actions

import (
	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

// Type tags an action on the wire.
type Type string

const (
	TypeLoadedAssets     Type = "loaded_assets"
	TypeTurnDone         Type = "turn_done"
	TypePlace            Type = "place"
	TypeBuild            Type = "build"
	TypeRecruit          Type = "recruit"
	TypeRetire           Type = "retire"
	TypeRemoveFleet      Type = "remove_fleet"
	TypeRemove           Type = "remove"
	TypeMoveAgent        Type = "move_agent"
	TypeLaunchMission    Type = "launch_mission"
	TypeCollectResources Type = "collect_resources"
	TypePayUpkeep        Type = "pay_upkeep"
	TypeViewedMissions   Type = "viewed_missions"
	TypeBlockMission     Type = "block_mission"
	TypeResolveMission   Type = "resolve_mission"
	TypeExchange         Type = "exchange"
)

// Action is one decoded player action. The set of implementations is closed;
// Apply handles every one of them.
type Action interface {
	Actor() int
	Type() Type
	action()
}

// Base carries the acting player.
type Base struct {
	Player int
}

// Actor returns the acting player's seat.
func (b Base) Actor() int { return b.Player }

func (Base) action() {}

// LoadedAssets tells the server a client is ready and wants the current state.
type LoadedAssets struct{ Base }

// TurnDone ends the acting player's turn in a turn-ordered phase.
type TurnDone struct{ Base }

// Place drops a mine during the placement draft.
type Place struct {
	Base
	Kind   state.StructureKind
	Planet int
	Slot   int
}

// Build constructs a structure. Slot is state.NoResource for bases and
// fleets.
type Build struct {
	Base
	Kind   state.StructureKind
	Planet int
	Slot   int
}

// Recruit brings an off-board agent onto a planet.
type Recruit struct {
	Base
	Agent  state.AgentType
	Planet int
}

// Retire permanently removes an on-board agent.
type Retire struct {
	Base
	Agent state.AgentType
}

// RemoveFleet returns a fleet on a planet to reserve.
type RemoveFleet struct {
	Base
	Planet int
	Fleet  state.FleetID
}

// Remove tears down a structure. Slot is state.NoResource to target the
// planet's base.
type Remove struct {
	Base
	Kind   state.StructureKind
	Planet int
	Slot   int
}

// MoveAgent moves an agent to a bordering planet.
type MoveAgent struct {
	Base
	Agent  state.AgentType
	Planet int
}

// LaunchMission sends an agent on a mission to its own or a bordering
// planet.
type LaunchMission struct {
	Base
	Agent  state.AgentType
	Planet int
}

// CollectResources credits the player's collect projection.
type CollectResources struct{ Base }

// PayUpkeep debits the player's upkeep projection.
type PayUpkeep struct{ Base }

// ViewedMissions acknowledges the mission currently being resolved.
type ViewedMissions struct{ Base }

// BlockMission answers the current mission: Block true blocks it, false
// allows it.
type BlockMission struct {
	Base
	Block bool
}

// ResolveMission settles the owner's allowed mission.
type ResolveMission struct{ Base }

// Exchange trades state.ExchangeRate of one resource for one of another with
// the bank.
type Exchange struct {
	Base
	Give state.ResourceKind
	Take state.ResourceKind
}

func (LoadedAssets) Type() Type     { return TypeLoadedAssets }
func (TurnDone) Type() Type         { return TypeTurnDone }
func (Place) Type() Type            { return TypePlace }
func (Build) Type() Type            { return TypeBuild }
func (Recruit) Type() Type          { return TypeRecruit }
func (Retire) Type() Type           { return TypeRetire }
func (RemoveFleet) Type() Type      { return TypeRemoveFleet }
func (Remove) Type() Type           { return TypeRemove }
func (MoveAgent) Type() Type        { return TypeMoveAgent }
func (LaunchMission) Type() Type    { return TypeLaunchMission }
func (CollectResources) Type() Type { return TypeCollectResources }
func (PayUpkeep) Type() Type        { return TypePayUpkeep }
func (ViewedMissions) Type() Type   { return TypeViewedMissions }
func (BlockMission) Type() Type     { return TypeBlockMission }
func (ResolveMission) Type() Type   { return TypeResolveMission }
func (Exchange) Type() Type         { return TypeExchange }
