// Package economy derives resource projections from board state. Every
// function here is read-only over the game except the Refresh helpers, which
// only overwrite the stored projections.
package economy

import (
	"fmt"

	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

// Collect returns what player p would collect from the current board.
// Mines yield their slot's declared amount; tiered structures a flat
// state.TieredYield. Unexplored planets yield nothing.
func Collect(g *state.Game, p int) state.Stock {
	var collect state.Stock
	for i := range g.Board.Planets {
		planet := &g.Board.Planets[i]
		if !planet.Explored {
			continue
		}
		for _, slot := range planet.Resources {
			if slot.Structure == nil || slot.Structure.Owner != p {
				continue
			}
			if !slot.Kind.Valid() {
				continue
			}
			amount := state.TieredYield
			if slot.Structure.Kind == state.StructureMine {
				amount = slot.Yield
			}
			collect[slot.Kind] += amount
		}
	}
	return collect
}

// Upkeep returns what player p owes for everything it has on the board:
// each kind's per-unit upkeep for every unit built, plus food per on-board
// agent.
func Upkeep(g *state.Game, p int) state.Stock {
	var upkeep state.Stock
	pool := g.Structures[p]
	for k := 0; k < state.NumStructureKinds; k++ {
		kind := state.StructureKind(k)
		built := pool.OnBoard(kind)
		per := state.RequirementFor(kind).Upkeep
		for r := range upkeep {
			upkeep[r] += per[r] * built
		}
	}
	for t := 0; t < state.NumAgentTypes; t++ {
		agent, ok := g.Board.Agent(state.AgentID{Player: p, Type: state.AgentType(t)})
		if ok && agent.Status == state.AgentOn {
			upkeep[state.ResourceFood] += state.AgentFoodUpkeep
		}
	}
	return upkeep
}

// RefreshCollect recomputes and stores p's collect projection.
func RefreshCollect(g *state.Game, p int) {
	g.ResourceCollect[p] = Collect(g, p)
}

// RefreshUpkeep recomputes and stores p's upkeep projection.
func RefreshUpkeep(g *state.Game, p int) {
	g.ResourceUpkeep[p] = Upkeep(g, p)
}

// Refresh recomputes both of p's projections.
func Refresh(g *state.Game, p int) {
	RefreshCollect(g, p)
	RefreshUpkeep(g, p)
}

// BuildCost returns the resources needed to build kind.
func BuildCost(kind state.StructureKind) state.Stock {
	return state.RequirementFor(kind).Build
}

// CanAfford reports whether p holds enough to build kind.
func CanAfford(g *state.Game, p int, kind state.StructureKind) bool {
	return g.Resources[p].Covers(BuildCost(kind))
}

// PayToBuild debits the build cost of kind from p. Callers check
// CanAfford first.
func PayToBuild(g *state.Game, p int, kind state.StructureKind) {
	g.Resources[p] = g.Resources[p].Sub(BuildCost(kind))
}

// OverCap returns the first resource that would exceed state.HoldingCap if
// add were credited to stock.
func OverCap(stock, add state.Stock) (state.ResourceKind, bool) {
	for r := range stock {
		if stock[r]+add[r] > state.HoldingCap {
			return state.ResourceKind(r), true
		}
	}
	return 0, false
}

// Shortfall returns the first resource stock cannot cover.
func Shortfall(stock, owed state.Stock) (state.ResourceKind, bool) {
	for r := range stock {
		if stock[r] < owed[r] {
			return state.ResourceKind(r), true
		}
	}
	return 0, false
}

// Needs ranks resources by projected surplus after one more structure of
// kind is paid for: lower values are greater needs. Used to pick where to
// build next.
func Needs(g *state.Game, p int, kind state.StructureKind) state.Stock {
	future := g.Resources[p].Add(Collect(g, p)).Sub(Upkeep(g, p))
	return future.Sub(BuildCost(kind)).Sub(state.RequirementFor(kind).Upkeep)
}

// Describe formats a stock for log output.
func Describe(s state.Stock) string {
	return fmt.Sprintf("metal=%d water=%d fuel=%d food=%d",
		s[state.ResourceMetal], s[state.ResourceWater], s[state.ResourceFuel], s[state.ResourceFood])
}
