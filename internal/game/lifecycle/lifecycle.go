// Package lifecycle owns the structure and agent bookkeeping shared by
// several actions: pool counts, settlement and buildability flags, fleet
// deployment and agent availability.
//
// Nothing here validates legality. Callers check every precondition first
// and then use these primitives to mutate the game.
package lifecycle

import (
	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

// UpdateSettlement recomputes SettledBy[p] on planetID and BuildableBy[p] on
// planetID and each of its neighbours.
func UpdateSettlement(g *state.Game, p, planetID int) {
	planet, ok := g.Board.Planet(planetID)
	if !ok {
		return
	}
	planet.SettledBy[p] = IsSettled(planet, p)

	UpdateBuildable(g, p, planetID)
	for nb := range planet.Borders {
		UpdateBuildable(g, p, nb)
	}
}

// IsSettled reports whether p owns a slot structure on planet. Bases and
// fleets do not settle a planet.
func IsSettled(planet *state.Planet, p int) bool {
	for _, slot := range planet.Resources {
		if slot.Structure != nil && slot.Structure.Owner == p {
			return true
		}
	}
	return false
}

// UpdateBuildable recomputes BuildableBy[p] on planetID: the planet itself or
// an open-bordered neighbour must be settled by p.
func UpdateBuildable(g *state.Game, p, planetID int) {
	planet, ok := g.Board.Planet(planetID)
	if !ok {
		return
	}
	planet.BuildableBy[p] = IsBuildable(g, planet, p)
}

// IsBuildable reports whether p may place new structures on planet.
func IsBuildable(g *state.Game, planet *state.Planet, p int) bool {
	if planet.SettledBy[p] {
		return true
	}
	for nb, border := range planet.Borders {
		if border != state.BorderOpen {
			continue
		}
		if other, ok := g.Board.Planet(nb); ok && other.SettledBy[p] {
			return true
		}
	}
	return false
}

// PlaceStructure puts a new structure of kind on a slot and takes one unit
// from p's pool. A tiered structure replaces the mine beneath it, returning
// that mine to the pool.
func PlaceStructure(g *state.Game, p, planetID, slot int, kind state.StructureKind) {
	planet := &g.Board.Planets[planetID]
	existing := planet.Resources[slot].Structure
	if kind.Tiered() && existing != nil && existing.Kind == state.StructureMine && existing.Owner == p {
		g.Structures[p][state.StructureMine]++
	}
	planet.Resources[slot].Structure = &state.Structure{Owner: p, Kind: kind}
	g.Structures[p][kind]--
	UpdateSettlement(g, p, planetID)
}

// ClearSlot removes the structure on a slot and returns it to its owner's
// pool. A tiered structure is downgraded to a mine when the owner still has
// one available. Returns the removed structure.
func ClearSlot(g *state.Game, planetID, slot int) *state.Structure {
	planet := &g.Board.Planets[planetID]
	removed := planet.Resources[slot].Structure
	if removed == nil {
		return nil
	}
	owner := removed.Owner
	planet.Resources[slot].Structure = nil
	g.Structures[owner][removed.Kind]++

	if removed.Kind.Tiered() && g.Structures[owner][state.StructureMine] >= 1 {
		planet.Resources[slot].Structure = &state.Structure{Owner: owner, Kind: state.StructureMine}
		g.Structures[owner][state.StructureMine]--
	}
	UpdateSettlement(g, owner, planetID)
	return removed
}

// PlaceBase builds p's base on planetID.
func PlaceBase(g *state.Game, p, planetID int) {
	g.Board.Planets[planetID].Base = &state.Structure{Owner: p, Kind: state.StructureBase}
	g.Structures[p][state.StructureBase]--
}

// ClearBase removes the base on planetID and recalls every fleet its owner
// has anywhere on the board.
func ClearBase(g *state.Game, planetID int) *state.Structure {
	planet := &g.Board.Planets[planetID]
	removed := planet.Base
	if removed == nil {
		return nil
	}
	planet.Base = nil
	g.Structures[removed.Owner][state.StructureBase]++
	RecallAllFleets(g, removed.Owner)
	UpdateSettlement(g, removed.Owner, planetID)
	return removed
}

// HasBase reports whether p owns the base on planet.
func HasBase(planet *state.Planet, p int) bool {
	return planet.Base != nil && planet.Base.Owner == p
}

// HasStructure reports whether p owns a structure of kind on planetID,
// either on a slot or as its base.
func HasStructure(g *state.Game, p, planetID int, kind state.StructureKind) bool {
	planet, ok := g.Board.Planet(planetID)
	if !ok {
		return false
	}
	if kind == state.StructureBase {
		return HasBase(planet, p)
	}
	for _, slot := range planet.Resources {
		if slot.Structure != nil && slot.Structure.Owner == p && slot.Structure.Kind == kind {
			return true
		}
	}
	return false
}

// ReserveFleet returns p's first fleet not on the board.
func ReserveFleet(g *state.Game, p int) (*state.Fleet, bool) {
	for slot := 0; slot < state.FleetsPerPlayer; slot++ {
		fleet, ok := g.Board.Fleet(state.FleetID{Player: p, Slot: slot})
		if ok && fleet.Planet == nil {
			return fleet, true
		}
	}
	return nil, false
}

// DeployFleet moves fleet from reserve onto planetID.
func DeployFleet(g *state.Game, fleet *state.Fleet, planetID int) {
	fleet.Planet = state.IntPtr(planetID)
	fleet.Used = false
	planet := &g.Board.Planets[planetID]
	planet.Fleets = append(planet.Fleets, fleet.ID)
	g.Structures[fleet.ID.Player][state.StructureFleet]--
}

// RecallFleet returns a deployed fleet to reserve.
func RecallFleet(g *state.Game, fleet *state.Fleet) {
	if fleet.Planet == nil {
		return
	}
	if planet, ok := g.Board.Planet(*fleet.Planet); ok {
		planet.Fleets = removeFleetID(planet.Fleets, fleet.ID)
	}
	fleet.Planet = nil
	fleet.Used = false
	g.Structures[fleet.ID.Player][state.StructureFleet]++
}

// RecallAllFleets returns every fleet p has on the board to reserve.
func RecallAllFleets(g *state.Game, p int) {
	for slot := 0; slot < state.FleetsPerPlayer; slot++ {
		if fleet, ok := g.Board.Fleet(state.FleetID{Player: p, Slot: slot}); ok {
			RecallFleet(g, fleet)
		}
	}
}

// RecruitAgent puts an off-board agent onto planetID.
func RecruitAgent(g *state.Game, agent *state.Agent, planetID int) {
	agent.Planet = state.IntPtr(planetID)
	agent.Used = false
	agent.Status = state.AgentOn
	planet := &g.Board.Planets[planetID]
	planet.Agents = append(planet.Agents, agent.ID)
}

// RetireAgent removes agent from the board for the rest of the game.
func RetireAgent(g *state.Game, agent *state.Agent) {
	detachAgent(g, agent)
	agent.Status = state.AgentDead
}

// MoveAgent relocates an on-board agent and spends its action.
func MoveAgent(g *state.Game, agent *state.Agent, planetID int) {
	detachAgent(g, agent)
	agent.Planet = state.IntPtr(planetID)
	agent.Used = true
	planet := &g.Board.Planets[planetID]
	planet.Agents = append(planet.Agents, agent.ID)
}

// ForceOffAgents sends p's agents recruited at kind off the board once p has
// none of kind left on it. They are not killed and may be recruited again.
func ForceOffAgents(g *state.Game, p int, kind state.StructureKind) {
	if kind == state.StructureFleet {
		return
	}
	if g.Structures[p].OnBoard(kind) > 0 {
		return
	}
	for t := 0; t < state.NumAgentTypes; t++ {
		agentType := state.AgentType(t)
		if agentType.RecruitKind() != kind {
			continue
		}
		agent, ok := g.Board.Agent(state.AgentID{Player: p, Type: agentType})
		if !ok || agent.Status != state.AgentOn {
			continue
		}
		detachAgent(g, agent)
		agent.Status = state.AgentOff
		agent.Used = false
		agent.MissionRound = nil
	}
}

func detachAgent(g *state.Game, agent *state.Agent) {
	if agent.Planet != nil {
		if planet, ok := g.Board.Planet(*agent.Planet); ok {
			planet.Agents = removeAgentID(planet.Agents, agent.ID)
		}
	}
	agent.Planet = nil
}

func removeFleetID(ids []state.FleetID, id state.FleetID) []state.FleetID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func removeAgentID(ids []state.AgentID, id state.AgentID) []state.AgentID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
