package rules

import (
	"github.com/starsettlers/settlers-server-go/internal/game/missions"
	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

// phaseSequence is the repeating round cycle. Placing precedes it once.
var phaseSequence = []state.Phase{
	state.PhaseResource,
	state.PhaseUpkeep,
	state.PhaseBuild,
	state.PhaseActions,
	state.PhaseMissions,
}

// NextPhase returns the phase that follows p.
func NextPhase(p state.Phase) state.Phase {
	if p == state.PhasePlacing {
		return state.PhaseResource
	}
	for i, phase := range phaseSequence {
		if phase == p {
			return phaseSequence[(i+1)%len(phaseSequence)]
		}
	}
	return state.PhaseResource
}

// TurnOrdered reports whether p is played one player at a time.
func TurnOrdered(p state.Phase) bool {
	switch p {
	case state.PhasePlacing, state.PhaseBuild, state.PhaseActions:
		return true
	default:
		return false
	}
}

// DoneGated reports whether p advances once every player signals done.
func DoneGated(p state.Phase) bool {
	switch p {
	case state.PhaseResource, state.PhaseUpkeep, state.PhaseMissions:
		return true
	default:
		return false
	}
}

// IsTurn reports whether it is player p's turn.
func IsTurn(g *state.Game, p int) bool {
	return g.Turn == p
}

// AdvanceTurn passes the turn to the next player and advances the phase when
// the last player has finished.
//
// Placing is a snake draft: forward through the players, then the last
// player starts the backward pass.
func AdvanceTurn(g *state.Game) {
	switch g.Phase {
	case state.PhasePlacing:
		if g.SecondMines {
			g.Turn--
			if g.Turn < 0 {
				AdvancePhase(g)
			}
			return
		}
		g.Turn++
		if g.Turn >= g.NumPlayers() {
			g.Turn = g.NumPlayers() - 1
			g.SecondMines = true
		}

	case state.PhaseBuild, state.PhaseActions:
		g.Turn++
		if g.Turn >= g.NumPlayers() {
			AdvancePhase(g)
		}
	}
}

// AdvancePhase moves to the next phase. Done-gated phases only advance once
// every player is done. Leaving Actions or Placing starts a new round.
func AdvancePhase(g *state.Game) {
	if DoneGated(g.Phase) && !AllDone(g) {
		return
	}

	g.Turn = 0
	if g.Phase == state.PhaseActions || g.Phase == state.PhasePlacing {
		advanceRound(g)
	}
	g.Phase = NextPhase(g.Phase)
	clearDone(g)
}

// MarkDone records that p has finished the current done-gated phase and
// advances the phase if everyone has.
func MarkDone(g *state.Game, p int) {
	g.PhaseDone[p] = true
	AdvancePhase(g)
}

// AllDone reports whether every player has signalled done.
func AllDone(g *state.Game) bool {
	for _, done := range g.PhaseDone {
		if !done {
			return false
		}
	}
	return true
}

func clearDone(g *state.Game) {
	for i := range g.PhaseDone {
		g.PhaseDone[i] = false
	}
}

// advanceRound increments the round, frees every agent not committed to a
// mission, readies fleets and opens an empty mission list.
func advanceRound(g *state.Game) {
	g.Round++
	g.MissionIndex = 0
	missions.ResetResponses(g)

	for i := range g.Board.Agents {
		agent := &g.Board.Agents[i]
		if !agent.OnMission() {
			agent.Used = false
		}
	}
	for i := range g.Board.Fleets {
		g.Board.Fleets[i].Used = false
	}
	for len(g.Missions) <= g.Round {
		g.Missions = append(g.Missions, []state.Mission{})
	}
}

// CheckEnd ends the game once a player has enough points, or once the round
// limit is reached and the final round's missions are settled. The winner is
// the player with the most points, the earliest seat breaking ties.
func CheckEnd(g *state.Game) bool {
	if g.Ended {
		return true
	}
	reached := g.Round >= g.RoundLimit && g.Phase != state.PhaseMissions
	for _, pts := range g.Points {
		if pts.Total() >= g.PointsToWin {
			reached = true
		}
	}
	if !reached {
		return false
	}

	g.Ended = true
	winner := 0
	for p := range g.Points {
		if g.Points[p].Total() > g.Points[winner].Total() {
			winner = p
		}
	}
	g.Winner = state.IntPtr(winner)
	return true
}
