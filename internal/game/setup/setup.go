// Package setup generates the initial board and per-player allocations for a
// new game. Generation is a pure function of its inputs and the injected
// random source.
package setup

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

const (
	// MinPlayers is the fewest players a game can seat.
	MinPlayers = 2
	// MaxPlayers is the most players a game can seat.
	MaxPlayers = 6
	// DefaultRoundLimit is used when Options.RoundLimit is unset.
	DefaultRoundLimit = 12
)

var (
	ErrMissingRand     = errors.New("setup: random source is required")
	ErrPlayerCount     = fmt.Errorf("setup: between %d and %d players required", MinPlayers, MaxPlayers)
	ErrMissingGameID   = errors.New("setup: game id is required")
	ErrPointsToWin     = errors.New("setup: points to win must be positive")
	ErrDuplicatePlayer = errors.New("setup: duplicate player id")
)

// Options controls game generation.
type Options struct {
	// Rand drives board layout and player order. The same seed always yields
	// the same game.
	Rand       *rand.Rand
	RoundLimit int
}

// InitializeGame creates a game for the given users. The users are seated in
// a shuffled order.
func InitializeGame(userIDs []string, gameID string, pointsToWin int, opts Options) (*state.Game, error) {
	if opts.Rand == nil {
		return nil, ErrMissingRand
	}
	if strings.TrimSpace(gameID) == "" {
		return nil, ErrMissingGameID
	}
	if len(userIDs) < MinPlayers || len(userIDs) > MaxPlayers {
		return nil, ErrPlayerCount
	}
	if pointsToWin <= 0 {
		return nil, ErrPointsToWin
	}
	seen := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
		}
		seen[id] = true
	}

	roundLimit := opts.RoundLimit
	if roundLimit <= 0 {
		roundLimit = DefaultRoundLimit
	}

	n := len(userIDs)
	g := &state.Game{
		ID:              gameID,
		Players:         PlayerOrder(userIDs, opts.Rand),
		Round:           0,
		Phase:           state.PhasePlacing,
		Turn:            0,
		PhaseDone:       make([]bool, n),
		PointsToWin:     pointsToWin,
		RoundLimit:      roundLimit,
		Structures:      make([]state.Pool, n),
		Resources:       make([]state.Stock, n),
		ResourceCollect: make([]state.Stock, n),
		ResourceUpkeep:  make([]state.Stock, n),
		Points:          make([]state.Points, n),
		Missions:        [][]state.Mission{{}},
		MissionAnswers:  make([]state.Answer, n),
		MissionViewed:   make([]bool, n),
		Board:           InitializeBoard(n, opts.Rand),
	}

	for p := 0; p < n; p++ {
		g.Structures[p] = state.FullPool()
		for r := range g.Resources[p] {
			g.Resources[p][r] = state.StartingStock
		}
	}

	return g, nil
}

// PlayerOrder returns a shuffled copy of userIDs.
func PlayerOrder(userIDs []string, rng *rand.Rand) []string {
	order := append([]string(nil), userIDs...)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// NumPlanets returns the board size for n players.
func NumPlanets(n int) int {
	return 3*n + 3
}

// NumExplored returns how many planets start explored for n players.
func NumExplored(n int) int {
	return 2*n + 2
}

// InitializeBoard lays out planets on a grid, rolls their resources, and
// creates every fleet and agent in reserve.
func InitializeBoard(numPlayers int, rng *rand.Rand) state.Board {
	count := NumPlanets(numPlayers)
	cols := int(math.Ceil(math.Sqrt(float64(count))))

	explored := make([]bool, count)
	for i, id := range rng.Perm(count) {
		if i < NumExplored(numPlayers) {
			explored[id] = true
		}
	}

	planets := make([]state.Planet, count)
	for id := range planets {
		planets[id] = newPlanet(id, numPlayers, explored[id], rng)
	}

	// grid neighbours share a border
	for id := range planets {
		row, col := id/cols, id%cols
		neighbours := []int{}
		if col > 0 {
			neighbours = append(neighbours, id-1)
		}
		if col < cols-1 && id+1 < count {
			neighbours = append(neighbours, id+1)
		}
		if row > 0 {
			neighbours = append(neighbours, id-cols)
		}
		if id+cols < count {
			neighbours = append(neighbours, id+cols)
		}
		for _, nb := range neighbours {
			border := state.BorderUnexplored
			if explored[id] && explored[nb] {
				border = state.BorderOpen
			}
			planets[id].Borders[nb] = border
		}
	}

	board := state.Board{
		Planets: planets,
		Fleets:  make([]state.Fleet, 0, numPlayers*state.FleetsPerPlayer),
		Agents:  make([]state.Agent, 0, numPlayers*state.NumAgentTypes),
	}
	for p := 0; p < numPlayers; p++ {
		for slot := 0; slot < state.FleetsPerPlayer; slot++ {
			board.Fleets = append(board.Fleets, state.Fleet{
				ID: state.FleetID{Player: p, Slot: slot},
			})
		}
		for t := 0; t < state.NumAgentTypes; t++ {
			board.Agents = append(board.Agents, state.Agent{
				ID:     state.AgentID{Player: p, Type: state.AgentType(t)},
				Status: state.AgentOff,
			})
		}
	}
	return board
}

func newPlanet(id, numPlayers int, explored bool, rng *rand.Rand) state.Planet {
	size := 1
	if rng.Intn(3) == 0 {
		size = 2
	}
	slots := make([]state.ResourceSlot, 2*size)
	for i := range slots {
		slots[i] = state.ResourceSlot{
			Kind:  state.ResourceKind(rng.Intn(state.NumResources)),
			Yield: 1 + rng.Intn(2),
		}
	}
	return state.Planet{
		ID:          id,
		Size:        size,
		Explored:    explored,
		Resources:   slots,
		Fleets:      []state.FleetID{},
		Agents:      []state.AgentID{},
		Borders:     make(map[int]state.Border),
		SettledBy:   make([]bool, numPlayers),
		BuildableBy: make([]bool, numPlayers),
	}
}
