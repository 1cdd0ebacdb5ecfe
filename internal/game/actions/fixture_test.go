package actions

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starsettlers/settlers-server-go/internal/game/lifecycle"
	"github.com/starsettlers/settlers-server-go/internal/game/setup"
	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

var testUsers = []string{"alice", "bob", "carol", "dave", "erin", "frank"}

// newTestGame returns a game in the placement phase on a fixed four planet
// board:
//
//	0 (explored, 4 slots) --open-- 1 (explored) --blocked-- 2 (explored) --unexplored-- 3
func newTestGame(t *testing.T, players int) *state.Game {
	t.Helper()
	g, err := setup.InitializeGame(testUsers[:players], "game-1", 20, setup.Options{
		Rand: rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)
	g.Board.Planets = fixturePlanets(players)
	return g
}

func fixturePlanets(players int) []state.Planet {
	planet := func(id int, explored bool, slots ...state.ResourceSlot) state.Planet {
		size := 1
		if len(slots) > 2 {
			size = 2
		}
		return state.Planet{
			ID:          id,
			Size:        size,
			Explored:    explored,
			Resources:   slots,
			Fleets:      []state.FleetID{},
			Agents:      []state.AgentID{},
			Borders:     map[int]state.Border{},
			SettledBy:   make([]bool, players),
			BuildableBy: make([]bool, players),
		}
	}
	slot := func(kind state.ResourceKind, yield int) state.ResourceSlot {
		return state.ResourceSlot{Kind: kind, Yield: yield}
	}

	planets := []state.Planet{
		planet(0, true,
			slot(state.ResourceMetal, 1),
			slot(state.ResourceWater, 1),
			slot(state.ResourceFuel, 2),
			slot(state.ResourceFood, 1),
		),
		planet(1, true, slot(state.ResourceMetal, 2), slot(state.ResourceFuel, 1)),
		planet(2, true, slot(state.ResourceWater, 1), slot(state.ResourceFood, 2)),
		planet(3, false, slot(state.ResourceMetal, 1), slot(state.ResourceMetal, 1)),
	}
	link := func(a, b int, border state.Border) {
		planets[a].Borders[b] = border
		planets[b].Borders[a] = border
	}
	link(0, 1, state.BorderOpen)
	link(1, 2, state.BorderBlocked)
	link(2, 3, state.BorderUnexplored)
	return planets
}

// atPhase moves g into phase with turn already set, as if the game had
// progressed there.
func atPhase(g *state.Game, phase state.Phase, turn int) {
	g.Phase = phase
	g.Turn = turn
	if g.Round == 0 {
		g.Round = 1
		g.Missions = append(g.Missions, []state.Mission{})
	}
}

func agentOf(t *testing.T, g *state.Game, p int, at state.AgentType) *state.Agent {
	t.Helper()
	agent, ok := g.Board.Agent(state.AgentID{Player: p, Type: at})
	require.True(t, ok)
	return agent
}

func snapshot(t *testing.T, g *state.Game) []byte {
	t.Helper()
	data, err := json.Marshal(g)
	require.NoError(t, err)
	return data
}

func requireLegal(t *testing.T, g *state.Game, a Action) {
	t.Helper()
	res := Apply(g, a)
	require.True(t, res.Legal, "expected %s to be legal, got %q", a.Type(), res.Reason)
}

// requireIllegal applies a and checks it was rejected with reason without
// touching the game.
func requireIllegal(t *testing.T, g *state.Game, a Action, reason string) {
	t.Helper()
	before := snapshot(t, g)
	res := Apply(g, a)
	require.False(t, res.Legal, "expected %s to be illegal", a.Type())
	require.Equal(t, reason, res.Reason)
	require.Equal(t, string(before), string(snapshot(t, g)), "illegal action mutated the game")
}

// checkInvariants verifies the pool counts and settlement flags agree with
// what is actually on the board.
func checkInvariants(t *testing.T, g *state.Game) {
	t.Helper()
	for p := range g.Players {
		var onBoard [state.NumStructureKinds]int
		for i := range g.Board.Planets {
			planet := &g.Board.Planets[i]
			for _, slot := range planet.Resources {
				if slot.Structure != nil && slot.Structure.Owner == p {
					onBoard[slot.Structure.Kind]++
				}
			}
			if lifecycle.HasBase(planet, p) {
				onBoard[state.StructureBase]++
			}
			require.Equal(t, lifecycle.IsSettled(planet, p), planet.SettledBy[p],
				"settled flag of player %d on planet %d", p, planet.ID)
			require.Equal(t, lifecycle.IsBuildable(g, planet, p), planet.BuildableBy[p],
				"buildable flag of player %d on planet %d", p, planet.ID)
		}
		for _, fleet := range g.Board.Fleets {
			if fleet.ID.Player == p && fleet.Planet != nil {
				onBoard[state.StructureFleet]++
			}
		}
		for k := 0; k < state.NumStructureKinds; k++ {
			kind := state.StructureKind(k)
			require.Equal(t, state.RequirementFor(kind).Max, g.Structures[p][kind]+onBoard[kind],
				"pool of %s for player %d", kind, p)
		}
		for r, amount := range g.Resources[p] {
			require.GreaterOrEqual(t, amount, 0, "resource %d of player %d", r, p)
			require.LessOrEqual(t, amount, state.HoldingCap, "resource %d of player %d", r, p)
		}
	}
}
