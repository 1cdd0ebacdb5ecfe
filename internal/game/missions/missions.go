// Package missions manages the per-round mission queue and the block/allow
// espionage exchange that settles each mission.
//
// Missions launched during round r are appended to Missions[r]. The round
// advances when the Actions phase ends, so during the Missions phase the
// queue being resolved is Missions[Round-1], walked in launch order by
// MissionIndex.
package missions

import (
	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

// Reasons returned by the Check functions.
const (
	ReasonNoMission       = "There is no mission to resolve"
	ReasonAlreadyAnswered = "You have already done this action"
	ReasonOwnMission      = "You cannot block your own mission"
	ReasonNotResolved     = "This mission has not been resolved yet"
	ReasonAlreadyResolved = "This mission has already been resolved"
	ReasonAlreadyViewed   = "Waiting for other players to finish viewing"
	ReasonNotOwner        = "Only the agent's owner can resolve this mission"
	ReasonStillPending    = "Other players have not responded to this mission"
)

// Launch records a new mission for the agent and commits the agent to it.
func Launch(g *state.Game, agent *state.Agent, to int) {
	for len(g.Missions) <= g.Round {
		g.Missions = append(g.Missions, []state.Mission{})
	}
	g.Missions[g.Round] = append(g.Missions[g.Round], state.Mission{
		Player:    agent.ID.Player,
		AgentType: agent.ID.Type,
		From:      *agent.Planet,
		To:        to,
	})
	agent.Used = true
	agent.MissionRound = state.IntPtr(g.Round)
}

// Pending returns the queue being resolved this Missions phase.
func Pending(g *state.Game) []state.Mission {
	r := g.Round - 1
	if r < 0 || r >= len(g.Missions) {
		return nil
	}
	return g.Missions[r]
}

// Current returns the mission currently being resolved, if any.
func Current(g *state.Game) (*state.Mission, bool) {
	r := g.Round - 1
	if r < 0 || r >= len(g.Missions) {
		return nil, false
	}
	if g.MissionIndex < 0 || g.MissionIndex >= len(g.Missions[r]) {
		return nil, false
	}
	return &g.Missions[r][g.MissionIndex], true
}

// CheckAnswer returns why p may not answer the current mission, or "".
func CheckAnswer(g *state.Game, p int) string {
	mission, ok := Current(g)
	if !ok {
		return ReasonNoMission
	}
	if mission.Player == p {
		return ReasonOwnMission
	}
	if g.MissionAnswers[p] != state.Unanswered {
		return ReasonAlreadyAnswered
	}
	return ""
}

// Answer records p's block or allow choice. The first block settles the
// mission; later answers are recorded but never change who blocked it.
// Callers check CheckAnswer first.
func Answer(g *state.Game, p int, block bool) {
	mission, _ := Current(g)
	if !block {
		g.MissionAnswers[p] = state.Allowed
		return
	}
	g.MissionAnswers[p] = state.Blocked
	if mission.Resolution.Resolved {
		return
	}
	mission.Resolution = state.Resolution{
		Resolved:  true,
		Blocked:   true,
		BlockedBy: state.IntPtr(p),
	}
	release(g, mission)
}

// AwaitingResolve reports whether every other player has allowed the current
// mission, leaving it to its owner to resolve.
func AwaitingResolve(g *state.Game) bool {
	mission, ok := Current(g)
	if !ok || mission.Resolution.Resolved {
		return false
	}
	for p := range g.Players {
		if p == mission.Player {
			continue
		}
		if g.MissionAnswers[p] != state.Allowed {
			return false
		}
	}
	return true
}

// CheckResolve returns why p may not resolve the current mission, or "".
func CheckResolve(g *state.Game, p int) string {
	mission, ok := Current(g)
	if !ok {
		return ReasonNoMission
	}
	if mission.Resolution.Resolved {
		return ReasonAlreadyResolved
	}
	if mission.Player != p {
		return ReasonNotOwner
	}
	if !AwaitingResolve(g) {
		return ReasonStillPending
	}
	return ""
}

// Resolve settles an allowed mission. Mission effects beyond settlement are
// not modelled yet.
func Resolve(g *state.Game) {
	mission, ok := Current(g)
	if !ok {
		return
	}
	mission.Resolution = state.Resolution{Resolved: true}
	release(g, mission)
}

// CheckView returns why p may not mark the current mission viewed, or "".
func CheckView(g *state.Game, p int) string {
	mission, ok := Current(g)
	if !ok {
		if g.PhaseDone[p] {
			return ReasonAlreadyViewed
		}
		return ""
	}
	if !mission.Resolution.Resolved {
		return ReasonNotResolved
	}
	if g.MissionViewed[p] {
		return ReasonAlreadyViewed
	}
	return ""
}

// View marks the current mission viewed by p. Once every player has viewed
// it the queue moves to the next mission. It reports whether the queue is
// exhausted, in which case p is done with the phase.
func View(g *state.Game, p int) (exhausted bool) {
	if _, ok := Current(g); !ok {
		g.PhaseDone[p] = true
		return true
	}
	g.MissionViewed[p] = true
	for _, viewed := range g.MissionViewed {
		if !viewed {
			return false
		}
	}

	g.MissionIndex++
	ResetResponses(g)
	if _, ok := Current(g); ok {
		return false
	}
	for i := range g.PhaseDone {
		g.PhaseDone[i] = true
	}
	return true
}

// ResetResponses clears every player's answer and viewed flag.
func ResetResponses(g *state.Game) {
	for i := range g.MissionAnswers {
		g.MissionAnswers[i] = state.Unanswered
	}
	for i := range g.MissionViewed {
		g.MissionViewed[i] = false
	}
}

// release frees the mission's agent for its next action.
func release(g *state.Game, mission *state.Mission) {
	agent, ok := g.Board.Agent(state.AgentID{Player: mission.Player, Type: mission.AgentType})
	if !ok {
		return
	}
	agent.MissionRound = nil
	agent.Used = false
}
