package tournament

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/starsettlers/settlers-server-go/internal/game"
	"github.com/starsettlers/settlers-server-go/internal/game/ai"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	logger := zaptest.NewLogger(t)
	games := game.NewManager(logger, game.Options{PointsToWin: 6, RoundLimit: 5, Seed: 42})
	t.Cleanup(games.Close)
	runner := ai.NewRunner(games, time.Millisecond, 42, logger)
	return NewManager(games, runner, logger)
}

func TestCreateTournamentValidates(t *testing.T) {
	m := newManager(t)

	_, err := m.CreateTournament("solo", 1, 3)
	assert.Error(t, err)
	_, err = m.CreateTournament("crowd", 5, 3)
	assert.Error(t, err)
	_, err = m.CreateTournament("empty", 2, 0)
	assert.Error(t, err)

	tour, err := m.CreateTournament("pair", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, StateWaiting, tour.Snapshot().State)
	assert.Len(t, tour.Snapshot().Players, 2)
	assert.Equal(t, "computer-1", tour.Snapshot().Players[0].Name)
	assert.Len(t, m.GetAllTournaments(), 1)

	m.RemoveTournament(tour.ID)
	_, ok := m.GetTournament(tour.ID)
	assert.False(t, ok)
}

func TestRunPlaysEveryRound(t *testing.T) {
	m := newManager(t)
	tour, err := m.CreateTournament("series", 3, 2)
	require.NoError(t, err)

	require.NoError(t, m.Run(context.Background(), tour.ID))

	snap := tour.Snapshot()
	assert.Equal(t, StateFinished, snap.State)
	require.NotNil(t, snap.StartTime)
	require.NotNil(t, snap.EndTime)
	require.Len(t, snap.Rounds, 2)
	for _, r := range snap.Rounds {
		assert.True(t, r.Finished)
		assert.NotEmpty(t, r.GameID)
		if r.Stalled {
			assert.Nil(t, r.Winner)
		} else {
			assert.NotNil(t, r.Winner)
		}
	}
	for _, p := range snap.Players {
		assert.Equal(t, 2, p.Wins+p.Losses+p.Draws, "seat %d", p.Seat)
	}

	standings := tour.Standings()
	require.Len(t, standings, 3)
	for i := 1; i < len(standings); i++ {
		assert.GreaterOrEqual(t, standings[i-1].Wins, standings[i].Wins)
	}
}

func TestRunRejectsUnknownAndRestart(t *testing.T) {
	m := newManager(t)

	err := m.Run(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	tour, err := m.CreateTournament("once", 2, 1)
	require.NoError(t, err)
	require.NoError(t, m.Run(context.Background(), tour.ID))
	assert.ErrorIs(t, m.Run(context.Background(), tour.ID), ErrAlreadyStarted)
}

func TestRunStopsOnCancel(t *testing.T) {
	m := newManager(t)
	tour, err := m.CreateTournament("cancelled", 2, 3)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, m.Run(ctx, tour.ID))
	assert.Equal(t, StateRunning, tour.Snapshot().State)
}
