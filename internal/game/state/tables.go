package state

// HoldingCap is the most of any single resource a player may hold.
const HoldingCap = 10

// TieredYield is what a factory or embassy produces regardless of the slot's
// declared yield.
const TieredYield = 2

// AgentFoodUpkeep is the food owed per on-board agent.
const AgentFoodUpkeep = 1

// ExchangeRate is how many units of one resource the bank takes for one unit
// of another.
const ExchangeRate = 4

// StartingStock is what every player holds of each resource at game start.
const StartingStock = 2

// FleetsPerPlayer is the fixed number of fleets each player owns.
const FleetsPerPlayer = 4

// Requirement describes the fixed rules for one structure kind.
type Requirement struct {
	Max    int
	Build  Stock
	Upkeep Stock
	Value  int
}

var requirements = [NumStructureKinds]Requirement{
	StructureMine: {
		Max:   7,
		Build: Stock{ResourceMetal: 1, ResourceFuel: 1},
		Value: 1,
	},
	StructureFactory: {
		Max:    4,
		Build:  Stock{ResourceMetal: 2, ResourceWater: 1},
		Upkeep: Stock{ResourceFuel: 1},
		Value:  2,
	},
	StructureEmbassy: {
		Max:    4,
		Build:  Stock{ResourceWater: 1, ResourceFood: 2},
		Upkeep: Stock{ResourceFood: 1},
		Value:  2,
	},
	StructureBase: {
		Max:    2,
		Build:  Stock{ResourceMetal: 3, ResourceFuel: 2},
		Upkeep: Stock{ResourceMetal: 1},
		Value:  3,
	},
	StructureFleet: {
		Max:    FleetsPerPlayer,
		Build:  Stock{ResourceMetal: 1, ResourceFuel: 2},
		Upkeep: Stock{ResourceFuel: 1},
		Value:  1,
	},
}

// RequirementFor returns the fixed rules for kind k.
func RequirementFor(k StructureKind) Requirement {
	return requirements[k]
}

// Stock is an amount of each resource kind.
type Stock [NumResources]int

// Add returns s + o.
func (s Stock) Add(o Stock) Stock {
	for i := range s {
		s[i] += o[i]
	}
	return s
}

// Sub returns s - o.
func (s Stock) Sub(o Stock) Stock {
	for i := range s {
		s[i] -= o[i]
	}
	return s
}

// Covers reports whether s holds at least o of every kind.
func (s Stock) Covers(o Stock) bool {
	for i := range s {
		if s[i] < o[i] {
			return false
		}
	}
	return true
}

// Total sums every kind.
func (s Stock) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// Pool counts the not-yet-built units of each structure kind for one player.
type Pool [NumStructureKinds]int

// FullPool returns a pool with every kind at its maximum.
func FullPool() Pool {
	var p Pool
	for k := range p {
		p[k] = requirements[k].Max
	}
	return p
}

// OnBoard returns how many units of kind k are built.
func (p Pool) OnBoard(k StructureKind) int {
	return requirements[k].Max - p[k]
}
