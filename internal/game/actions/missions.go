package actions

import (
	"github.com/starsettlers/settlers-server-go/internal/game/missions"
	"github.com/starsettlers/settlers-server-go/internal/game/rules"
	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

const reasonMissionsOver = "The resolve missions phase is complete"

func applyViewed(g *state.Game, a ViewedMissions) Result {
	if g.Phase != state.PhaseMissions {
		return illegal(reasonMissionsOver)
	}
	if reason := missions.CheckView(g, a.Player); reason != "" {
		return reject(reason)
	}
	if missions.View(g, a.Player) {
		rules.AdvancePhase(g)
	}
	return legal()
}

func applyBlock(g *state.Game, a BlockMission) Result {
	if g.Phase != state.PhaseMissions {
		return illegal(reasonMissionsOver)
	}
	if reason := missions.CheckAnswer(g, a.Player); reason != "" {
		return reject(reason)
	}
	missions.Answer(g, a.Player, a.Block)
	return legal()
}

func applyResolve(g *state.Game, a ResolveMission) Result {
	if g.Phase != state.PhaseMissions {
		return illegal(reasonMissionsOver)
	}
	if reason := missions.CheckResolve(g, a.Player); reason != "" {
		return reject(reason)
	}
	missions.Resolve(g)
	return legal()
}
