package actions

import (
	"github.com/starsettlers/settlers-server-go/internal/game/economy"
	"github.com/starsettlers/settlers-server-go/internal/game/lifecycle"
	"github.com/starsettlers/settlers-server-go/internal/game/rules"
	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

func applyPlace(g *state.Game, a Place) Result {
	p := a.Player
	if g.Phase != state.PhasePlacing {
		return illegal("You can only place mines during the placement phase")
	}
	if !rules.IsTurn(g, p) {
		return illegal(ReasonNotYourTurn)
	}
	if a.Kind != state.StructureMine {
		return illegal("You can only place mines now")
	}
	planet, ok := g.Board.Planet(a.Planet)
	if !ok {
		return illegal(ReasonNoPlanet)
	}
	if !planet.Explored {
		return illegal("You must place this on an explored planet")
	}
	if a.Slot < 0 || a.Slot >= len(planet.Resources) || !planet.Resources[a.Slot].Kind.Valid() {
		return illegal(ReasonNoSlot)
	}
	if planet.Resources[a.Slot].Structure != nil {
		return illegal("You cannot place this on another structure")
	}
	if g.Structures[p][state.StructureMine] <= 0 {
		return illegal("You cannot build another %s", state.StructureMine)
	}

	lifecycle.PlaceStructure(g, p, a.Planet, a.Slot, state.StructureMine)
	economy.RefreshCollect(g, p)
	rules.AdvanceTurn(g)
	return legal()
}

func applyBuild(g *state.Game, a Build) Result {
	p := a.Player
	if g.Phase != state.PhaseBuild {
		return illegal("This action must be done during the build phase")
	}
	if !rules.IsTurn(g, p) {
		return illegal("This action must be done during your turn")
	}
	if !a.Kind.Valid() {
		return illegal(ReasonUnknownKind)
	}
	planet, ok := g.Board.Planet(a.Planet)
	if !ok {
		return illegal(ReasonNoPlanet)
	}
	if g.Structures[p][a.Kind] <= 0 {
		return illegal("You cannot build another %s", a.Kind)
	}

	var slot *state.ResourceSlot
	if a.Kind.SlotKind() {
		if a.Slot < 0 || a.Slot >= len(planet.Resources) || !planet.Resources[a.Slot].Kind.Valid() {
			return illegal(ReasonNoSlot)
		}
		slot = &planet.Resources[a.Slot]
	}
	if a.Kind.Tiered() {
		if slot.Structure == nil || slot.Structure.Kind != state.StructureMine {
			return illegal("Choose an existing mine to build your %s", a.Kind)
		}
		if slot.Structure.Owner != p {
			return illegal("You must build this structure on your own mine.")
		}
	}
	if !economy.CanAfford(g, p, a.Kind) {
		return illegal("You do not have enough resources to build a new %s", a.Kind)
	}

	var fleet *state.Fleet
	switch a.Kind {
	case state.StructureMine:
		if !planet.Explored {
			return illegal("You must build on an explored planet")
		}
		if !planet.BuildableBy[p] {
			return illegal("You must build on or next to a planet you have settled")
		}
		if slot.Structure != nil {
			return illegal("You cannot place this on another structure")
		}
	case state.StructureBase:
		if !planet.SettledBy[p] {
			return illegal("Your base must be built on a planet you have settled")
		}
		if planet.Base != nil {
			return illegal("Only one base can be built on a planet")
		}
	case state.StructureFleet:
		if !lifecycle.HasBase(planet, p) {
			return illegal("You must build fleets where you have a base")
		}
		fleet, ok = lifecycle.ReserveFleet(g, p)
		if !ok {
			return illegal("You cannot build another %s", a.Kind)
		}
	}

	economy.PayToBuild(g, p, a.Kind)
	switch a.Kind {
	case state.StructureBase:
		lifecycle.PlaceBase(g, p, a.Planet)
	case state.StructureFleet:
		lifecycle.DeployFleet(g, fleet, a.Planet)
	default:
		lifecycle.PlaceStructure(g, p, a.Planet, a.Slot, a.Kind)
	}
	g.Points[p].Structures += state.RequirementFor(a.Kind).Value
	economy.Refresh(g, p)
	return legal()
}

func applyRemove(g *state.Game, a Remove) Result {
	p := a.Player
	if !removalWindow(g, p) {
		return illegal(reasonRemovalWindow)
	}
	if !a.Kind.Valid() {
		return illegal(ReasonUnknownKind)
	}
	planet, ok := g.Board.Planet(a.Planet)
	if !ok {
		return illegal(ReasonNoPlanet)
	}

	var target *state.Structure
	onBase := a.Slot == state.NoResource
	if onBase {
		target = planet.Base
	} else {
		if a.Slot < 0 || a.Slot >= len(planet.Resources) {
			return illegal("There is no structure to remove here.")
		}
		target = planet.Resources[a.Slot].Structure
	}
	if target == nil {
		return illegal("There is no structure to remove here.")
	}
	if target.Owner != p {
		return illegal("You cannot remove another player's structure.")
	}
	if target.Kind != a.Kind {
		return illegal("This does not match the structure type for this location.")
	}

	if onBase {
		lifecycle.ClearBase(g, a.Planet)
	} else {
		lifecycle.ClearSlot(g, a.Planet, a.Slot)
	}
	lifecycle.ForceOffAgents(g, p, a.Kind)
	economy.Refresh(g, p)
	return legal()
}

func applyRemoveFleet(g *state.Game, a RemoveFleet) Result {
	p := a.Player
	if !removalWindow(g, p) {
		return illegal(reasonRemovalWindow)
	}
	planet, ok := g.Board.Planet(a.Planet)
	if !ok {
		return illegal(ReasonNoPlanet)
	}
	fleet, ok := g.Board.Fleet(a.Fleet)
	if !ok {
		return illegal("No fleet id chosen.")
	}
	if fleet.Planet == nil || *fleet.Planet != a.Planet {
		return illegal("This fleet is not on this planet.")
	}
	if fleet.ID.Player != p {
		return illegal("You cannot remove another player's fleet.")
	}
	registered := false
	for _, id := range planet.Fleets {
		if id == fleet.ID {
			registered = true
			break
		}
	}
	if !registered {
		return illegal("This fleet is not registered with this planet.")
	}

	lifecycle.RecallFleet(g, fleet)
	economy.RefreshUpkeep(g, p)
	return legal()
}
