package actions

import (
	"fmt"

	"github.com/starsettlers/settlers-server-go/internal/game/rules"
	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

// Result is the outcome of applying an action. Illegal actions carry a
// reason suitable for showing to the acting player and leave the game
// untouched.
type Result struct {
	Legal  bool   `json:"legal"`
	Reason string `json:"reason,omitempty"`
}

// Shared reasons.
const (
	ReasonGameEnded     = "The game has ended"
	ReasonUnknownPlayer = "That player is not in this game"
	ReasonNotYourTurn   = "it is not your turn"
	ReasonNoPlanet      = "That planet does not exist"
	ReasonNoSlot        = "You must place this on a resource"
	ReasonUnknownAgent  = "Unknown agent type"
	ReasonUnknownKind   = "Unknown building type"
)

func legal() Result {
	return Result{Legal: true}
}

// reject is illegal for a reason that is already formatted.
func reject(reason string) Result {
	return Result{Reason: reason}
}

func illegal(format string, args ...any) Result {
	if len(args) == 0 {
		return Result{Reason: format}
	}
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// Apply validates a against g and, when every precondition holds, mutates g
// in place. After a legal action the end condition is evaluated.
func Apply(g *state.Game, a Action) Result {
	if g.Ended {
		return illegal(ReasonGameEnded)
	}
	if !g.ValidPlayer(a.Actor()) {
		return illegal(ReasonUnknownPlayer)
	}

	var res Result
	switch v := a.(type) {
	case LoadedAssets:
		res = legal()
	case TurnDone:
		res = applyTurnDone(g, v)
	case Place:
		res = applyPlace(g, v)
	case Build:
		res = applyBuild(g, v)
	case Recruit:
		res = applyRecruit(g, v)
	case Retire:
		res = applyRetire(g, v)
	case RemoveFleet:
		res = applyRemoveFleet(g, v)
	case Remove:
		res = applyRemove(g, v)
	case MoveAgent:
		res = applyMoveAgent(g, v)
	case LaunchMission:
		res = applyLaunchMission(g, v)
	case CollectResources:
		res = applyCollect(g, v)
	case PayUpkeep:
		res = applyUpkeep(g, v)
	case Exchange:
		res = applyExchange(g, v)
	case ViewedMissions:
		res = applyViewed(g, v)
	case BlockMission:
		res = applyBlock(g, v)
	case ResolveMission:
		res = applyResolve(g, v)
	default:
		return illegal(ReasonUnknownAction)
	}

	if res.Legal {
		rules.CheckEnd(g)
	}
	return res
}

// ApplyRecord decodes r and applies it. Undecodable records are illegal.
func ApplyRecord(g *state.Game, r Record) (Action, Result) {
	a, err := Decode(r)
	if err != nil {
		if g.Ended {
			return nil, illegal(ReasonGameEnded)
		}
		return nil, reject(err.Error())
	}
	return a, Apply(g, a)
}

func applyTurnDone(g *state.Game, a TurnDone) Result {
	if g.Phase != state.PhaseBuild && g.Phase != state.PhaseActions {
		return illegal("You can only end your turn during the build or actions phase")
	}
	if !rules.IsTurn(g, a.Player) {
		return illegal(ReasonNotYourTurn)
	}
	rules.AdvanceTurn(g)
	return legal()
}

// removalWindow reports whether p may tear things down now: before
// collecting or paying upkeep, or on p's own build turn.
func removalWindow(g *state.Game, p int) bool {
	switch g.Phase {
	case state.PhaseResource, state.PhaseUpkeep:
		return !g.PhaseDone[p]
	case state.PhaseBuild:
		return rules.IsTurn(g, p)
	default:
		return false
	}
}

const reasonRemovalWindow = "You can only do this before collecting or paying upkeep, or during your build turn"
