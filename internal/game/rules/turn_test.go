package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

func newGame(players int) *state.Game {
	g := &state.Game{
		Players:        make([]string, players),
		Phase:          state.PhasePlacing,
		PhaseDone:      make([]bool, players),
		PointsToWin:    10,
		RoundLimit:     12,
		Points:         make([]state.Points, players),
		Missions:       [][]state.Mission{{}},
		MissionAnswers: make([]state.Answer, players),
		MissionViewed:  make([]bool, players),
	}
	for p := 0; p < players; p++ {
		for at := 0; at < state.NumAgentTypes; at++ {
			g.Board.Agents = append(g.Board.Agents, state.Agent{ID: state.AgentID{Player: p, Type: state.AgentType(at)}})
		}
		for slot := 0; slot < state.FleetsPerPlayer; slot++ {
			g.Board.Fleets = append(g.Board.Fleets, state.Fleet{ID: state.FleetID{Player: p, Slot: slot}})
		}
	}
	return g
}

func TestPhaseCycle(t *testing.T) {
	expected := []state.Phase{
		state.PhaseResource,
		state.PhaseUpkeep,
		state.PhaseBuild,
		state.PhaseActions,
		state.PhaseMissions,
		state.PhaseResource,
	}
	phase := state.PhasePlacing
	for i, want := range expected {
		phase = NextPhase(phase)
		require.Equal(t, want, phase, "step %d", i)
	}
}

func TestPlacingSnakeOrder(t *testing.T) {
	g := newGame(3)

	var order []int
	for g.Phase == state.PhasePlacing {
		order = append(order, g.Turn)
		AdvanceTurn(g)
	}

	assert.Equal(t, []int{0, 1, 2, 2, 1, 0}, order)
	assert.Equal(t, state.PhaseResource, g.Phase)
	assert.Equal(t, 1, g.Round)
	assert.Equal(t, 0, g.Turn)
	assert.Len(t, g.Missions, 2)
}

func TestDoneGatedPhaseWaitsForEveryone(t *testing.T) {
	g := newGame(2)
	g.Phase = state.PhaseResource

	MarkDone(g, 1)
	assert.Equal(t, state.PhaseResource, g.Phase)
	AdvancePhase(g)
	assert.Equal(t, state.PhaseResource, g.Phase)

	MarkDone(g, 0)
	assert.Equal(t, state.PhaseUpkeep, g.Phase)
	assert.False(t, AllDone(g))
	assert.Equal(t, []bool{false, false}, g.PhaseDone)
}

func TestLeavingActionsStartsRound(t *testing.T) {
	g := newGame(2)
	g.Round = 1
	g.Missions = append(g.Missions, []state.Mission{})
	g.Phase = state.PhaseActions
	g.MissionIndex = 3
	g.MissionAnswers[0] = state.Blocked

	committed := &g.Board.Agents[0]
	committed.Used = true
	committed.MissionRound = state.IntPtr(1)
	moved := &g.Board.Agents[1]
	moved.Used = true
	g.Board.Fleets[0].Used = true

	AdvanceTurn(g)
	assert.Equal(t, 1, g.Turn)
	assert.Equal(t, state.PhaseActions, g.Phase)
	AdvanceTurn(g)

	assert.Equal(t, state.PhaseMissions, g.Phase)
	assert.Equal(t, 2, g.Round)
	assert.Equal(t, 0, g.Turn)
	assert.Equal(t, 0, g.MissionIndex)
	assert.Equal(t, state.Unanswered, g.MissionAnswers[0])
	assert.True(t, committed.Used)
	assert.False(t, moved.Used)
	assert.False(t, g.Board.Fleets[0].Used)
	assert.Len(t, g.Missions, 3)
}

func TestTurnPredicates(t *testing.T) {
	g := newGame(2)
	g.Turn = 1
	assert.True(t, IsTurn(g, 1))
	assert.False(t, IsTurn(g, 0))

	assert.True(t, TurnOrdered(state.PhaseBuild))
	assert.False(t, TurnOrdered(state.PhaseUpkeep))
	assert.True(t, DoneGated(state.PhaseMissions))
	assert.False(t, DoneGated(state.PhasePlacing))
}

func TestCheckEnd(t *testing.T) {
	t.Run("points threshold", func(t *testing.T) {
		g := newGame(3)
		g.Points[1] = state.Points{Structures: 6}
		g.Points[2] = state.Points{Structures: 8, Missions: 2}
		require.True(t, CheckEnd(g))
		assert.True(t, g.Ended)
		assert.Equal(t, 2, *g.Winner)
	})

	t.Run("round limit ties go to earliest seat", func(t *testing.T) {
		g := newGame(3)
		g.Round = g.RoundLimit
		g.Points[1] = state.Points{Structures: 4}
		g.Points[2] = state.Points{Structures: 4}
		require.True(t, CheckEnd(g))
		assert.Equal(t, 1, *g.Winner)
	})

	t.Run("round limit waits for the last missions", func(t *testing.T) {
		g := newGame(2)
		g.Phase = state.PhaseActions
		g.Round = g.RoundLimit - 1
		g.Turn = 1
		AdvanceTurn(g)
		require.Equal(t, state.PhaseMissions, g.Phase)
		require.Equal(t, g.RoundLimit, g.Round)
		assert.False(t, CheckEnd(g))

		MarkDone(g, 0)
		assert.False(t, CheckEnd(g))
		MarkDone(g, 1)
		require.Equal(t, state.PhaseResource, g.Phase)
		assert.True(t, CheckEnd(g))
		assert.Equal(t, 0, *g.Winner)
	})

	t.Run("still running", func(t *testing.T) {
		g := newGame(2)
		g.Round = 3
		assert.False(t, CheckEnd(g))
		assert.False(t, g.Ended)
		assert.Nil(t, g.Winner)
	})
}
