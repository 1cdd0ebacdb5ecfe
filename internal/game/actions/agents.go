package actions

import (
	"github.com/starsettlers/settlers-server-go/internal/game/economy"
	"github.com/starsettlers/settlers-server-go/internal/game/lifecycle"
	"github.com/starsettlers/settlers-server-go/internal/game/missions"
	"github.com/starsettlers/settlers-server-go/internal/game/rules"
	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

const (
	reasonAgentOffBoard = "This agent is not on the board."
	reasonOnMission     = "This agent is on a pending mission"
	reasonAgentUsed     = "This agent can only do one action per round"
)

func lookupAgent(g *state.Game, p int, t state.AgentType) (*state.Agent, bool) {
	return g.Board.Agent(state.AgentID{Player: p, Type: t})
}

func applyRecruit(g *state.Game, a Recruit) Result {
	p := a.Player
	if g.Phase != state.PhaseBuild {
		return illegal("You must recruit new agents during the build phase")
	}
	if !rules.IsTurn(g, p) {
		return illegal("You must recruit agents during your turn")
	}
	agent, ok := lookupAgent(g, p, a.Agent)
	if !ok {
		return illegal(ReasonUnknownAgent)
	}
	if _, ok := g.Board.Planet(a.Planet); !ok {
		return illegal(ReasonNoPlanet)
	}
	switch agent.Status {
	case state.AgentDead:
		return illegal("Your %s cannot return during this game.", a.Agent)
	case state.AgentOn:
		return illegal("Your %s is already on the board.", a.Agent)
	}
	kind := a.Agent.RecruitKind()
	if !lifecycle.HasStructure(g, p, a.Planet, kind) {
		return illegal("You must recruit a new %s at your %s", a.Agent, kind)
	}

	lifecycle.RecruitAgent(g, agent, a.Planet)
	economy.RefreshUpkeep(g, p)
	return legal()
}

func applyRetire(g *state.Game, a Retire) Result {
	p := a.Player
	if !removalWindow(g, p) {
		return illegal(reasonRemovalWindow)
	}
	agent, ok := lookupAgent(g, p, a.Agent)
	if !ok {
		return illegal(ReasonUnknownAgent)
	}
	switch agent.Status {
	case state.AgentDead:
		return illegal("This agent is already retired.")
	case state.AgentOff:
		return illegal(reasonAgentOffBoard)
	}

	lifecycle.RetireAgent(g, agent)
	economy.RefreshUpkeep(g, p)
	return legal()
}

func applyMoveAgent(g *state.Game, a MoveAgent) Result {
	p := a.Player
	if g.Phase != state.PhaseActions {
		return illegal("This action must be done during the actions phase")
	}
	if !rules.IsTurn(g, p) {
		return illegal(ReasonNotYourTurn)
	}
	agent, ok := lookupAgent(g, p, a.Agent)
	if !ok {
		return illegal(ReasonUnknownAgent)
	}
	if agent.Status != state.AgentOn || agent.Planet == nil {
		return illegal(reasonAgentOffBoard)
	}
	if _, ok := g.Board.Planet(a.Planet); !ok {
		return illegal(ReasonNoPlanet)
	}
	from, _ := g.Board.Planet(*agent.Planet)
	border, ok := from.BorderWith(a.Planet)
	if !ok {
		return illegal("Agents can only move to adjacent planets")
	}
	if border == state.BorderBlocked {
		return illegal("Agents cannot move through blocked borders")
	}
	if agent.OnMission() {
		return illegal(reasonOnMission)
	}
	if agent.Used {
		return illegal(reasonAgentUsed)
	}

	lifecycle.MoveAgent(g, agent, a.Planet)
	return legal()
}

func applyLaunchMission(g *state.Game, a LaunchMission) Result {
	p := a.Player
	if g.Phase != state.PhaseActions {
		return illegal("This action must be done during the actions phase")
	}
	if !rules.IsTurn(g, p) {
		return illegal(ReasonNotYourTurn)
	}
	agent, ok := lookupAgent(g, p, a.Agent)
	if !ok {
		return illegal(ReasonUnknownAgent)
	}
	if agent.Status != state.AgentOn || agent.Planet == nil {
		return illegal(reasonAgentOffBoard)
	}
	if _, ok := g.Board.Planet(a.Planet); !ok {
		return illegal(ReasonNoPlanet)
	}
	if a.Planet != *agent.Planet {
		from, _ := g.Board.Planet(*agent.Planet)
		if _, ok := from.BorderWith(a.Planet); !ok {
			return illegal("Choose a location within one space of your agent")
		}
	}
	if agent.OnMission() {
		return illegal(reasonOnMission)
	}
	if agent.Used {
		return illegal(reasonAgentUsed)
	}

	missions.Launch(g, agent, a.Planet)
	return legal()
}
