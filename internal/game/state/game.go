package state

// Structure is a built unit on a resource slot or a planet's base site.
type Structure struct {
	Owner int           `json:"owner"`
	Kind  StructureKind `json:"kind"`
}

// ResourceSlot is one resource site on a planet. It holds at most one
// structure.
type ResourceSlot struct {
	Kind      ResourceKind `json:"kind"`
	Yield     int          `json:"yield"`
	Structure *Structure   `json:"structure,omitempty"`
}

// FleetID identifies a fleet by owner and slot.
type FleetID struct {
	Player int `json:"player"`
	Slot   int `json:"slot"`
}

// AgentID identifies an agent by owner and type.
type AgentID struct {
	Player int       `json:"player"`
	Type   AgentType `json:"type"`
}

// Fleet is a player's ship group. A nil Planet means it is in reserve.
type Fleet struct {
	ID     FleetID `json:"id"`
	Planet *int    `json:"planet,omitempty"`
	Used   bool    `json:"used"`
}

// Agent is a player's operative.
type Agent struct {
	ID           AgentID     `json:"id"`
	Status       AgentStatus `json:"status"`
	Planet       *int        `json:"planet,omitempty"`
	Used         bool        `json:"used"`
	MissionRound *int        `json:"missionround,omitempty"`
}

// OnMission reports whether the agent is committed to an in-flight mission.
func (a *Agent) OnMission() bool {
	return a.MissionRound != nil
}

// Planet is a board location.
type Planet struct {
	ID          int            `json:"planetid"`
	Size        int            `json:"size"`
	Explored    bool           `json:"explored"`
	Resources   []ResourceSlot `json:"resources"`
	Base        *Structure     `json:"base,omitempty"`
	Fleets      []FleetID      `json:"fleets"`
	Agents      []AgentID      `json:"agents"`
	Borders     map[int]Border `json:"borders"`
	SettledBy   []bool         `json:"settledBy"`
	BuildableBy []bool         `json:"buildableBy"`
}

// BorderWith reports whether other shares a border with p, and its state.
func (p *Planet) BorderWith(other int) (Border, bool) {
	b, ok := p.Borders[other]
	return b, ok
}

// Board owns every planet, fleet and agent of a game.
type Board struct {
	Planets []Planet `json:"planets"`
	Fleets  []Fleet  `json:"fleets"`
	Agents  []Agent  `json:"agents"`
}

// Planet returns the planet with id, if any.
func (b *Board) Planet(id int) (*Planet, bool) {
	if id < 0 || id >= len(b.Planets) {
		return nil, false
	}
	return &b.Planets[id], true
}

// Fleet returns the fleet with id, if any.
func (b *Board) Fleet(id FleetID) (*Fleet, bool) {
	if id.Slot < 0 || id.Slot >= FleetsPerPlayer || id.Player < 0 {
		return nil, false
	}
	idx := id.Player*FleetsPerPlayer + id.Slot
	if idx >= len(b.Fleets) {
		return nil, false
	}
	return &b.Fleets[idx], true
}

// Agent returns the agent with id, if any.
func (b *Board) Agent(id AgentID) (*Agent, bool) {
	if !id.Type.Valid() || id.Player < 0 {
		return nil, false
	}
	idx := id.Player*NumAgentTypes + int(id.Type)
	if idx >= len(b.Agents) {
		return nil, false
	}
	return &b.Agents[idx], true
}

// Resolution records how a mission was settled.
type Resolution struct {
	Resolved  bool `json:"resolved"`
	Blocked   bool `json:"blocked"`
	BlockedBy *int `json:"blockedBy,omitempty"`
}

// Mission is an agent's covert action against a destination planet.
type Mission struct {
	Player     int        `json:"player"`
	AgentType  AgentType  `json:"agenttype"`
	From       int        `json:"planetFrom"`
	To         int        `json:"planetTo"`
	Resolution Resolution `json:"resolution"`
}

// Points tracks a player's victory points by source.
type Points struct {
	Structures int `json:"structures"`
	Missions   int `json:"missions"`
}

// Total sums every source.
func (p Points) Total() int {
	return p.Structures + p.Missions
}

// Game is the root aggregate for one match.
type Game struct {
	ID          string   `json:"gameid"`
	Players     []string `json:"players"`
	Round       int      `json:"round"`
	Phase       Phase    `json:"phase"`
	Turn        int      `json:"turn"`
	SecondMines bool     `json:"secondmines"`
	PhaseDone   []bool   `json:"phaseDone"`
	PointsToWin int      `json:"pointsToWin"`
	RoundLimit  int      `json:"roundLimit"`
	Ended       bool     `json:"isEnded"`
	Winner      *int     `json:"winner,omitempty"`

	Structures      []Pool   `json:"structures"`
	Resources       []Stock  `json:"resources"`
	ResourceCollect []Stock  `json:"resourceCollect"`
	ResourceUpkeep  []Stock  `json:"resourceUpkeep"`
	Points          []Points `json:"points"`

	Missions       [][]Mission `json:"missions"`
	MissionIndex   int         `json:"missionindex"`
	MissionAnswers []Answer    `json:"missionSpied"`
	MissionViewed  []bool      `json:"missionViewed"`

	Board Board `json:"board"`
}

// NumPlayers returns the number of seated players.
func (g *Game) NumPlayers() int {
	return len(g.Players)
}

// ValidPlayer reports whether p indexes a seated player.
func (g *Game) ValidPlayer(p int) bool {
	return p >= 0 && p < len(g.Players)
}

// PlayerIndex returns the seat of userID, or -1.
func (g *Game) PlayerIndex(userID string) int {
	for i, id := range g.Players {
		if id == userID {
			return i
		}
	}
	return -1
}
