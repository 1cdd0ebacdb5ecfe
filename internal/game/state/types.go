package state

import "fmt"

// Phase represents one stage of the repeating round cycle.
type Phase int

const (
	PhaseResource Phase = iota
	PhaseUpkeep
	PhaseBuild
	PhaseActions
	PhaseMissions
	PhasePlacing
)

// NumCyclePhases is the number of phases in the repeating cycle. Placing is
// played once before round 1 and is not part of it.
const NumCyclePhases = 5

var phaseNames = map[Phase]string{
	PhaseResource: "RESOURCE",
	PhaseUpkeep:   "UPKEEP",
	PhaseBuild:    "BUILD",
	PhaseActions:  "ACTIONS",
	PhaseMissions: "MISSIONS",
	PhasePlacing:  "PLACING",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// ResourceKind is one of the fixed resource taxonomy.
type ResourceKind int

const (
	ResourceMetal ResourceKind = iota
	ResourceWater
	ResourceFuel
	ResourceFood
)

// NumResources is the size of the resource taxonomy.
const NumResources = 4

// NoResource marks a missing slot index.
const NoResource = -1

var resourceNames = map[ResourceKind]string{
	ResourceMetal: "metal",
	ResourceWater: "water",
	ResourceFuel:  "fuel",
	ResourceFood:  "food",
}

func (r ResourceKind) String() string {
	if name, ok := resourceNames[r]; ok {
		return name
	}
	return fmt.Sprintf("resource_%d", int(r))
}

// Valid reports whether r names a resource.
func (r ResourceKind) Valid() bool {
	return r >= 0 && int(r) < NumResources
}

// StructureKind is the kind of a structure. Factories and embassies are the
// tiered kinds, built over an existing mine.
type StructureKind int

const (
	StructureMine StructureKind = iota
	StructureFactory
	StructureEmbassy
	StructureBase
	StructureFleet
)

// NumStructureKinds is the number of structure kinds.
const NumStructureKinds = 5

var structureNames = map[StructureKind]string{
	StructureMine:    "mine",
	StructureFactory: "factory",
	StructureEmbassy: "embassy",
	StructureBase:    "base",
	StructureFleet:   "fleet",
}

func (k StructureKind) String() string {
	if name, ok := structureNames[k]; ok {
		return name
	}
	return fmt.Sprintf("structure_%d", int(k))
}

// Valid reports whether k names a structure kind.
func (k StructureKind) Valid() bool {
	return k >= 0 && int(k) < NumStructureKinds
}

// Tiered reports whether k upgrades an existing mine.
func (k StructureKind) Tiered() bool {
	return k == StructureFactory || k == StructureEmbassy
}

// SlotKind reports whether k occupies a resource slot.
func (k StructureKind) SlotKind() bool {
	return k == StructureMine || k.Tiered()
}

// AgentType is one of the fixed set of agent types. Every player owns exactly
// one agent of each type.
type AgentType int

const (
	AgentExplorer AgentType = iota
	AgentMiner
	AgentSurveyor
	AgentSmuggler
	AgentAmbassador
	AgentSaboteur
)

// NumAgentTypes is the number of agent types.
const NumAgentTypes = 6

var agentNames = map[AgentType]string{
	AgentExplorer:   "explorer",
	AgentMiner:      "miner",
	AgentSurveyor:   "surveyor",
	AgentSmuggler:   "smuggler",
	AgentAmbassador: "ambassador",
	AgentSaboteur:   "saboteur",
}

func (a AgentType) String() string {
	if name, ok := agentNames[a]; ok {
		return name
	}
	return fmt.Sprintf("agent_%d", int(a))
}

// Valid reports whether a names an agent type.
func (a AgentType) Valid() bool {
	return a >= 0 && int(a) < NumAgentTypes
}

// agentRecruitKinds maps each agent type to the structure it is recruited at.
var agentRecruitKinds = [NumAgentTypes]StructureKind{
	AgentExplorer:   StructureBase,
	AgentMiner:      StructureMine,
	AgentSurveyor:   StructureBase,
	AgentSmuggler:   StructureFactory,
	AgentAmbassador: StructureEmbassy,
	AgentSaboteur:   StructureFactory,
}

// RecruitKind returns the structure kind required to recruit a.
func (a AgentType) RecruitKind() StructureKind {
	return agentRecruitKinds[a]
}

// AgentStatus tracks whether an agent is in play.
type AgentStatus int

const (
	AgentOff AgentStatus = iota
	AgentOn
	AgentDead
)

func (s AgentStatus) String() string {
	switch s {
	case AgentOff:
		return "OFF"
	case AgentOn:
		return "ON"
	case AgentDead:
		return "DEAD"
	default:
		return "UNKNOWN"
	}
}

// Border is the state of the border between two planets.
type Border int

const (
	BorderOpen Border = iota
	BorderBlocked
	BorderUnexplored
)

func (b Border) String() string {
	switch b {
	case BorderOpen:
		return "OPEN"
	case BorderBlocked:
		return "BLOCKED"
	case BorderUnexplored:
		return "UNEXPLORED"
	default:
		return "UNKNOWN"
	}
}

// Answer is a player's response to the mission currently being resolved.
type Answer int

const (
	Unanswered Answer = iota
	Allowed
	Blocked
)

func (a Answer) String() string {
	switch a {
	case Unanswered:
		return "UNANSWERED"
	case Allowed:
		return "ALLOWED"
	case Blocked:
		return "BLOCKED"
	default:
		return "UNKNOWN"
	}
}
