// Package ai plays computer seats. Decide picks one action for a seat from
// the current state; Runner polls the game manager and submits those
// actions on a timer.
package ai

import (
	"math/rand"

	"github.com/starsettlers/settlers-server-go/internal/game/actions"
	"github.com/starsettlers/settlers-server-go/internal/game/economy"
	"github.com/starsettlers/settlers-server-go/internal/game/missions"
	"github.com/starsettlers/settlers-server-go/internal/game/rules"
	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

// Decide returns the next action for player p, or false when p has nothing
// to do right now.
func Decide(g *state.Game, p int, rng *rand.Rand) (actions.Record, bool) {
	if g.Ended || !g.ValidPlayer(p) {
		return actions.Record{}, false
	}

	switch g.Phase {
	case state.PhasePlacing:
		if !rules.IsTurn(g, p) {
			return actions.Record{}, false
		}
		return bestMine(g, p, actions.TypePlace, rng)
	case state.PhaseResource:
		if g.PhaseDone[p] {
			return actions.Record{}, false
		}
		return collect(g, p)
	case state.PhaseUpkeep:
		if g.PhaseDone[p] {
			return actions.Record{}, false
		}
		return upkeep(g, p)
	case state.PhaseBuild:
		if !rules.IsTurn(g, p) {
			return actions.Record{}, false
		}
		return build(g, p, rng), true
	case state.PhaseActions:
		if !rules.IsTurn(g, p) {
			return actions.Record{}, false
		}
		return simple(p, actions.TypeTurnDone), true
	case state.PhaseMissions:
		return respond(g, p)
	}
	return actions.Record{}, false
}

func simple(p int, t actions.Type) actions.Record {
	return actions.Record{Player: p, ActionType: t}
}

func intp(v int) *int { return &v }

type site struct {
	planet int
	slot   int
	kind   state.ResourceKind
}

// bestMine picks the free slot whose resource p needs most after paying for
// one more mine. Ties go to whichever shuffled candidate came first.
func bestMine(g *state.Game, p int, t actions.Type, rng *rand.Rand) (actions.Record, bool) {
	var sites []site
	for _, planet := range g.Board.Planets {
		if !planet.Explored {
			continue
		}
		if t == actions.TypeBuild && !planet.BuildableBy[p] {
			continue
		}
		for i, slot := range planet.Resources {
			if slot.Structure == nil && slot.Kind.Valid() {
				sites = append(sites, site{planet: planet.ID, slot: i, kind: slot.Kind})
			}
		}
	}
	if len(sites) == 0 {
		return actions.Record{}, false
	}
	rng.Shuffle(len(sites), func(i, j int) { sites[i], sites[j] = sites[j], sites[i] })

	needs := economy.Needs(g, p, state.StructureMine)
	best, lowest := -1, 1000
	for i, s := range sites {
		if needs[s.kind] < lowest {
			best, lowest = i, needs[s.kind]
		}
	}
	s := sites[best]
	return actions.Record{
		Player:     p,
		ActionType: t,
		ObjectType: intp(int(state.StructureMine)),
		PlanetID:   intp(s.planet),
		ResourceID: intp(s.slot),
	}, true
}

func collect(g *state.Game, p int) (actions.Record, bool) {
	stock := g.Resources[p]
	capped, over := economy.OverCap(stock, economy.Collect(g, p))
	if !over {
		return simple(p, actions.TypeCollectResources), true
	}
	if stock[capped] < state.ExchangeRate {
		return shed(g, p, capped)
	}

	take := -1
	for r := range stock {
		if state.ResourceKind(r) == capped || stock[r]+1 > state.HoldingCap {
			continue
		}
		if take < 0 || stock[r] < stock[take] {
			take = r
		}
	}
	if take < 0 {
		return shed(g, p, capped)
	}
	return actions.Record{
		Player:     p,
		ActionType: actions.TypeExchange,
		Give:       intp(int(capped)),
		Take:       intp(take),
	}, true
}

// shed removes one of p's structures producing kind, mines first, so that
// collecting no longer overflows the holding cap.
func shed(g *state.Game, p int, kind state.ResourceKind) (actions.Record, bool) {
	var tiered *actions.Record
	for _, planet := range g.Board.Planets {
		if !planet.Explored {
			continue
		}
		for i, slot := range planet.Resources {
			s := slot.Structure
			if s == nil || s.Owner != p || slot.Kind != kind {
				continue
			}
			rec := actions.Record{
				Player:     p,
				ActionType: actions.TypeRemove,
				ObjectType: intp(int(s.Kind)),
				PlanetID:   intp(planet.ID),
				ResourceID: intp(i),
			}
			if s.Kind == state.StructureMine {
				return rec, true
			}
			if tiered == nil {
				tiered = &rec
			}
		}
	}
	if tiered == nil {
		return actions.Record{}, false
	}
	return *tiered, true
}

// upkeep pays when p can afford it, and otherwise gives up whatever costs
// the missing resource.
func upkeep(g *state.Game, p int) (actions.Record, bool) {
	short, ok := economy.Shortfall(g.Resources[p], economy.Upkeep(g, p))
	if !ok {
		return simple(p, actions.TypePayUpkeep), true
	}

	switch short {
	case state.ResourceFood:
		for _, agent := range g.Board.Agents {
			if agent.ID.Player == p && agent.Status == state.AgentOn {
				return actions.Record{
					Player:     p,
					ActionType: actions.TypeRetire,
					AgentType:  intp(int(agent.ID.Type)),
				}, true
			}
		}
		return removeOwned(g, p, state.StructureEmbassy)
	case state.ResourceFuel:
		for _, fleet := range g.Board.Fleets {
			if fleet.ID.Player == p && fleet.Planet != nil {
				return actions.Record{
					Player:     p,
					ActionType: actions.TypeRemoveFleet,
					PlanetID:   intp(*fleet.Planet),
					TargetID:   &actions.FleetRef{Player: p, Slot: fleet.ID.Slot},
				}, true
			}
		}
		return removeOwned(g, p, state.StructureFactory)
	case state.ResourceMetal:
		return removeOwned(g, p, state.StructureBase)
	}
	return actions.Record{}, false
}

func removeOwned(g *state.Game, p int, kind state.StructureKind) (actions.Record, bool) {
	for _, planet := range g.Board.Planets {
		if kind == state.StructureBase {
			if planet.Base != nil && planet.Base.Owner == p {
				return actions.Record{
					Player:     p,
					ActionType: actions.TypeRemove,
					ObjectType: intp(int(kind)),
					PlanetID:   intp(planet.ID),
				}, true
			}
			continue
		}
		for i, slot := range planet.Resources {
			if s := slot.Structure; s != nil && s.Owner == p && s.Kind == kind {
				return actions.Record{
					Player:     p,
					ActionType: actions.TypeRemove,
					ObjectType: intp(int(kind)),
					PlanetID:   intp(planet.ID),
					ResourceID: intp(i),
				}, true
			}
		}
	}
	return actions.Record{}, false
}

// build expands with a mine when it can, otherwise upgrades a random owned
// mine, otherwise ends the turn.
func build(g *state.Game, p int, rng *rand.Rand) actions.Record {
	if g.Structures[p][state.StructureMine] > 0 && economy.CanAfford(g, p, state.StructureMine) {
		if rec, ok := bestMine(g, p, actions.TypeBuild, rng); ok {
			return rec
		}
	}

	var tiers []state.StructureKind
	for _, kind := range []state.StructureKind{state.StructureFactory, state.StructureEmbassy} {
		if g.Structures[p][kind] > 0 && economy.CanAfford(g, p, kind) {
			tiers = append(tiers, kind)
		}
	}
	if len(tiers) > 0 {
		var mines []site
		for _, planet := range g.Board.Planets {
			for i, slot := range planet.Resources {
				if s := slot.Structure; s != nil && s.Owner == p && s.Kind == state.StructureMine {
					mines = append(mines, site{planet: planet.ID, slot: i})
				}
			}
		}
		if len(mines) > 0 {
			kind := tiers[rng.Intn(len(tiers))]
			m := mines[rng.Intn(len(mines))]
			return actions.Record{
				Player:     p,
				ActionType: actions.TypeBuild,
				ObjectType: intp(int(kind)),
				PlanetID:   intp(m.planet),
				ResourceID: intp(m.slot),
			}
		}
	}
	return simple(p, actions.TypeTurnDone)
}

// respond walks p through the mission queue: allow others' missions,
// resolve its own once allowed, and acknowledge each outcome.
func respond(g *state.Game, p int) (actions.Record, bool) {
	if missions.CheckView(g, p) == "" {
		return simple(p, actions.TypeViewedMissions), true
	}
	if missions.CheckResolve(g, p) == "" {
		return simple(p, actions.TypeResolveMission), true
	}
	if missions.CheckAnswer(g, p) == "" {
		choice := false
		return actions.Record{Player: p, ActionType: actions.TypeBlockMission, Choice: &choice}, true
	}
	return actions.Record{}, false
}
