package ai

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/starsettlers/settlers-server-go/internal/game"
	"github.com/starsettlers/settlers-server-go/internal/game/actions"
	"github.com/starsettlers/settlers-server-go/internal/game/lifecycle"
	"github.com/starsettlers/settlers-server-go/internal/game/setup"
	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

var users = []string{"ann", "ben", "cat", "dan", "eve", "fay"}

func newGame(t *testing.T, players int, seed int64) *state.Game {
	t.Helper()
	g, err := setup.InitializeGame(users[:players], "ai-game", 15, setup.Options{
		Rand:       rand.New(rand.NewSource(seed)),
		RoundLimit: 6,
	})
	require.NoError(t, err)
	return g
}

func checkInvariants(t *testing.T, g *state.Game) {
	t.Helper()
	for p := range g.Players {
		for r, v := range g.Resources[p] {
			require.GreaterOrEqual(t, v, 0, "player %d resource %d", p, r)
			require.LessOrEqual(t, v, state.HoldingCap, "player %d resource %d", p, r)
		}
		for k := 0; k < state.NumStructureKinds; k++ {
			kind := state.StructureKind(k)
			require.GreaterOrEqual(t, g.Structures[p][kind], 0)
		}
		for _, planet := range g.Board.Planets {
			require.Equal(t, lifecycle.IsSettled(&planet, p), planet.SettledBy[p])
		}
	}
}

// play lets the AI act for every seat until the game ends or nobody can
// move. Every chosen action must be legal.
func play(t *testing.T, g *state.Game, rng *rand.Rand, maxSteps int) (steps int, stuck bool) {
	t.Helper()
	for steps = 0; steps < maxSteps && !g.Ended; steps++ {
		moved := false
		for p := range g.Players {
			rec, ok := Decide(g, p, rng)
			if !ok {
				continue
			}
			_, res := actions.ApplyRecord(g, rec)
			require.True(t, res.Legal, "step %d player %d %s: %s", steps, p, rec.ActionType, res.Reason)
			checkInvariants(t, g)
			moved = true
			break
		}
		if !moved {
			return steps, true
		}
	}
	return steps, false
}

func TestAIPlaysWholeGames(t *testing.T) {
	for players := 2; players <= 4; players++ {
		for seed := int64(1); seed <= 3; seed++ {
			g := newGame(t, players, seed)
			steps, stuck := play(t, g, rand.New(rand.NewSource(seed)), 5000)

			assert.GreaterOrEqual(t, g.Round, 2, "players %d seed %d", players, seed)
			assert.True(t, g.Ended || stuck, "players %d seed %d ran out of steps", players, seed)
			if stuck {
				assert.NotEqual(t, state.PhaseResource, g.Phase, "players %d seed %d stalled collecting", players, seed)
			}
			assert.Greater(t, steps, 0)
			if g.Ended {
				assert.NotNil(t, g.Winner)
			}
		}
	}
}

func TestDecideNothingWhenEnded(t *testing.T) {
	g := newGame(t, 2, 1)
	g.Ended = true
	_, ok := Decide(g, 0, rand.New(rand.NewSource(1)))
	assert.False(t, ok)
	_, ok = Decide(g, 7, rand.New(rand.NewSource(1)))
	assert.False(t, ok)
}

func TestPlacementTargetsFreeExploredSlot(t *testing.T) {
	g := newGame(t, 3, 4)
	rng := rand.New(rand.NewSource(4))

	_, ok := Decide(g, 1, rng)
	assert.False(t, ok, "not player 1's turn")

	rec, ok := Decide(g, 0, rng)
	require.True(t, ok)
	assert.Equal(t, actions.TypePlace, rec.ActionType)
	planet, found := g.Board.Planet(*rec.PlanetID)
	require.True(t, found)
	assert.True(t, planet.Explored)
	assert.Nil(t, planet.Resources[*rec.ResourceID].Structure)
}

func TestResourcePhaseTradesWhenCapped(t *testing.T) {
	g := newGame(t, 2, 2)
	rng := rand.New(rand.NewSource(2))
	play(t, g, rng, 4) // finish the placement draft
	require.Equal(t, state.PhaseResource, g.Phase)

	rec, ok := Decide(g, 0, rng)
	require.True(t, ok)
	assert.Equal(t, actions.TypeCollectResources, rec.ActionType)

	// fill every resource any mine of player 0 produces
	collect := g.ResourceCollect[0]
	for r := range g.Resources[0] {
		g.Resources[0][r] = 1
		if collect[r] > 0 {
			g.Resources[0][r] = state.HoldingCap
		}
	}
	rec, ok = Decide(g, 0, rng)
	require.True(t, ok)
	require.Equal(t, actions.TypeExchange, rec.ActionType)
	assert.Equal(t, state.HoldingCap, g.Resources[0][*rec.Give])
	assert.Equal(t, 1, g.Resources[0][*rec.Take])

	_, res := actions.ApplyRecord(g, rec)
	require.True(t, res.Legal, res.Reason)
}

func TestResourcePhaseShedsWhenNothingToTrade(t *testing.T) {
	g := newGame(t, 2, 2)
	rng := rand.New(rand.NewSource(2))
	play(t, g, rng, 4)
	require.Equal(t, state.PhaseResource, g.Phase)
	for r := range g.Resources[0] {
		g.Resources[0][r] = state.HoldingCap
	}

	rec, ok := Decide(g, 0, rng)
	require.True(t, ok)
	require.Equal(t, actions.TypeRemove, rec.ActionType)
	assert.Equal(t, int(state.StructureMine), *rec.ObjectType)
	_, res := actions.ApplyRecord(g, rec)
	require.True(t, res.Legal, res.Reason)

	for i := 0; i < 10 && !g.PhaseDone[0]; i++ {
		rec, ok = Decide(g, 0, rng)
		require.True(t, ok)
		_, res = actions.ApplyRecord(g, rec)
		require.True(t, res.Legal, "%s: %s", rec.ActionType, res.Reason)
	}
	assert.True(t, g.PhaseDone[0])
	checkInvariants(t, g)
}

func TestUpkeepShortfallGivesThingsUp(t *testing.T) {
	g := newGame(t, 2, 3)
	rng := rand.New(rand.NewSource(3))
	play(t, g, rng, 4)
	require.Equal(t, state.PhaseResource, g.Phase)
	g.Phase = state.PhaseUpkeep

	agent, ok := g.Board.Agent(state.AgentID{Player: 0, Type: state.AgentMiner})
	require.True(t, ok)
	var minePlanet int
	for _, planet := range g.Board.Planets {
		for _, slot := range planet.Resources {
			if slot.Structure != nil && slot.Structure.Owner == 0 {
				minePlanet = planet.ID
			}
		}
	}
	lifecycle.RecruitAgent(g, agent, minePlanet)
	g.Resources[0][state.ResourceFood] = 0

	rec, ok := Decide(g, 0, rng)
	require.True(t, ok)
	assert.Equal(t, actions.TypeRetire, rec.ActionType)
	assert.Equal(t, int(state.AgentMiner), *rec.AgentType)

	_, res := actions.ApplyRecord(g, rec)
	require.True(t, res.Legal, res.Reason)

	rec, ok = Decide(g, 0, rng)
	require.True(t, ok)
	assert.Equal(t, actions.TypePayUpkeep, rec.ActionType)
}

func TestMissionsPhaseAllowsAndResolves(t *testing.T) {
	g := newGame(t, 2, 5)
	g.Round = 1
	g.Phase = state.PhaseMissions
	g.Missions = [][]state.Mission{{{Player: 0, AgentType: state.AgentMiner, From: 0, To: 0}}}

	rng := rand.New(rand.NewSource(5))
	_, ok := Decide(g, 0, rng)
	assert.False(t, ok, "owner waits for the others")

	rec, ok := Decide(g, 1, rng)
	require.True(t, ok)
	assert.Equal(t, actions.TypeBlockMission, rec.ActionType)
	assert.False(t, *rec.Choice)
	_, res := actions.ApplyRecord(g, rec)
	require.True(t, res.Legal, res.Reason)

	rec, ok = Decide(g, 0, rng)
	require.True(t, ok)
	assert.Equal(t, actions.TypeResolveMission, rec.ActionType)
	_, res = actions.ApplyRecord(g, rec)
	require.True(t, res.Legal, res.Reason)

	for p := 0; p < 2; p++ {
		rec, ok = Decide(g, p, rng)
		require.True(t, ok)
		assert.Equal(t, actions.TypeViewedMissions, rec.ActionType)
		_, res = actions.ApplyRecord(g, rec)
		require.True(t, res.Legal, res.Reason)
	}
	assert.Equal(t, state.PhaseResource, g.Phase)
}

func TestRunnerDrivesComputerGames(t *testing.T) {
	ctx := context.Background()
	manager := game.NewManager(zaptest.NewLogger(t), game.Options{PointsToWin: 15, RoundLimit: 4, Seed: 9})
	t.Cleanup(manager.Close)

	id, err := manager.CreateGame(ctx, game.NewGame{Computers: 3})
	require.NoError(t, err)

	runner := NewRunner(manager, 0, 9, zaptest.NewLogger(t))
	for i := 0; i < 3000; i++ {
		if runner.Tick(ctx) == 0 {
			break
		}
	}

	g, err := manager.Snapshot(id)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, g.Round, 2)
}

func TestRunnerStopsOnCancel(t *testing.T) {
	manager := game.NewManager(zaptest.NewLogger(t), game.Options{PointsToWin: 10, Seed: 1})
	t.Cleanup(manager.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewRunner(manager, 0, 1, zaptest.NewLogger(t)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
