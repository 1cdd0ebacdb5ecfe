package actions

import (
	"github.com/starsettlers/settlers-server-go/internal/game/economy"
	"github.com/starsettlers/settlers-server-go/internal/game/rules"
	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

func applyCollect(g *state.Game, a CollectResources) Result {
	p := a.Player
	if g.Phase != state.PhaseResource {
		return illegal("The resource phase is complete")
	}
	if g.PhaseDone[p] {
		return illegal("You have already collected resources")
	}
	collect := economy.Collect(g, p)
	if _, over := economy.OverCap(g.Resources[p], collect); over {
		return illegal("You must trade or 4 to 1 before collecting more")
	}

	g.ResourceCollect[p] = collect
	g.Resources[p] = g.Resources[p].Add(collect)
	rules.MarkDone(g, p)
	return legal()
}

func applyUpkeep(g *state.Game, a PayUpkeep) Result {
	p := a.Player
	if g.Phase != state.PhaseUpkeep {
		return illegal("The upkeep phase is complete")
	}
	if g.PhaseDone[p] {
		return illegal("You have already paid upkeep")
	}
	upkeep := economy.Upkeep(g, p)
	if _, short := economy.Shortfall(g.Resources[p], upkeep); short {
		return illegal("You do not have enough resources to pay upkeep")
	}

	g.ResourceUpkeep[p] = upkeep
	g.Resources[p] = g.Resources[p].Sub(upkeep)
	rules.MarkDone(g, p)
	return legal()
}

func applyExchange(g *state.Game, a Exchange) Result {
	p := a.Player
	open := (g.Phase == state.PhaseResource && !g.PhaseDone[p]) ||
		(g.Phase == state.PhaseBuild && rules.IsTurn(g, p))
	if !open {
		return illegal("You can only trade before collecting or during your build turn")
	}
	if !a.Give.Valid() || !a.Take.Valid() {
		return illegal("Unknown resource type")
	}
	if a.Give == a.Take {
		return illegal("You must trade for a different resource")
	}
	if g.Resources[p][a.Give] < state.ExchangeRate {
		return illegal("You need %d %s to trade", state.ExchangeRate, a.Give)
	}
	if g.Resources[p][a.Take]+1 > state.HoldingCap {
		return illegal("You cannot hold any more %s", a.Take)
	}

	g.Resources[p][a.Give] -= state.ExchangeRate
	g.Resources[p][a.Take]++
	return legal()
}
