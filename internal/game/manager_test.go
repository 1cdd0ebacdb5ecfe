package game

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/starsettlers/settlers-server-go/internal/game/actions"
	"github.com/starsettlers/settlers-server-go/internal/game/state"
	"github.com/starsettlers/settlers-server-go/internal/repository"
)

type capture struct {
	mu  sync.Mutex
	got []Resolution
}

func (c *capture) Deliver(_ string, res Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, res)
}

func (c *capture) events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, r := range c.got {
		out = append(out, r.Event)
	}
	return out
}

func newManager(t *testing.T, store repository.Store) *Manager {
	t.Helper()
	m := NewManager(zaptest.NewLogger(t), Options{
		PointsToWin: 10,
		RoundLimit:  8,
		Seed:        42,
		Store:       store,
	})
	t.Cleanup(m.Close)
	return m
}

func TestCreateGame(t *testing.T) {
	m := newManager(t, nil)

	id, err := m.CreateGame(context.Background(), NewGame{Players: []string{"alice"}, Computers: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{id}, m.Games())

	g, err := m.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, id, g.ID)
	assert.Len(t, g.Players, 3)
	assert.Equal(t, 10, g.PointsToWin)
	assert.Equal(t, 8, g.RoundLimit)
	assert.Equal(t, state.PhasePlacing, g.Phase)

	seats := m.ComputerSeats()
	require.Len(t, seats, 2)
	for _, seat := range seats {
		assert.Equal(t, id, seat.GameID)
		assert.True(t, strings.HasPrefix(g.Players[seat.Player], ComputerPrefix))
	}
}

func TestCreateGameRejectsBadInput(t *testing.T) {
	m := newManager(t, nil)

	_, err := m.CreateGame(context.Background(), NewGame{Players: []string{"solo"}})
	assert.Error(t, err)
	assert.Empty(t, m.Games())
}

func TestSameSeedSameGames(t *testing.T) {
	a := newManager(t, nil)
	b := newManager(t, nil)
	ng := NewGame{Players: []string{"alice", "bob", "carol"}}

	idA, err := a.CreateGame(context.Background(), ng)
	require.NoError(t, err)
	idB, err := b.CreateGame(context.Background(), ng)
	require.NoError(t, err)

	ga, _ := a.Snapshot(idA)
	gb, _ := b.Snapshot(idB)
	assert.Equal(t, ga.Players, gb.Players)
	assert.Equal(t, ga.Board, gb.Board)
}

func TestActAndListeners(t *testing.T) {
	m := newManager(t, nil)
	listener := &capture{}
	m.AddListener(listener)
	ctx := context.Background()

	id, err := m.CreateGame(ctx, NewGame{Players: []string{"alice", "bob"}})
	require.NoError(t, err)
	g, err := m.Snapshot(id)
	require.NoError(t, err)

	res, err := m.Act(ctx, id, placement(t, g))
	require.NoError(t, err)
	assert.Equal(t, EventGame, res.Event)

	res, err = m.Act(ctx, id, actions.Record{Player: g.Turn, ActionType: actions.TypeTurnDone})
	require.NoError(t, err)
	assert.Equal(t, EventIllegal, res.Event)

	assert.Equal(t, []string{EventGame, EventIllegal}, listener.events())
}

func TestSubmitUnknownGame(t *testing.T) {
	m := newManager(t, nil)

	_, err := m.Submit("nope", actions.Record{})
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = m.Snapshot("nope")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestActHonoursContext(t *testing.T) {
	m := newManager(t, nil)
	id, err := m.CreateGame(context.Background(), NewGame{Players: []string{"alice", "bob"}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Act(ctx, id, actions.Record{Player: 0, ActionType: actions.TypeLoadedAssets})
	// either the reply raced the cancellation or the context won
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestClose(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t), Options{PointsToWin: 10, Seed: 1})
	id, err := m.CreateGame(context.Background(), NewGame{Players: []string{"alice", "bob"}})
	require.NoError(t, err)

	m.Close()
	m.Close()

	_, err = m.Submit(id, actions.Record{})
	assert.ErrorIs(t, err, ErrManagerClosed)
	_, err = m.CreateGame(context.Background(), NewGame{Players: []string{"a", "b"}})
	assert.ErrorIs(t, err, ErrManagerClosed)
}

func TestActDuringCloseAlwaysReturns(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t), Options{PointsToWin: 10, Seed: 1, QueueSize: 8})
	id, err := m.CreateGame(context.Background(), NewGame{Players: []string{"alice", "bob"}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := m.Act(context.Background(), id, actions.Record{Player: 0, ActionType: actions.TypeLoadedAssets})
			if err != nil {
				assert.ErrorIs(t, err, ErrManagerClosed)
				return
			}
			assert.Equal(t, EventLoaded, res.Event)
		}()
	}
	m.Close()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Act blocked after Close")
	}
}

func TestPersistAndRestore(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	first := newManager(t, store)
	id, err := first.CreateGame(ctx, NewGame{Players: []string{"alice"}, Computers: 1})
	require.NoError(t, err)
	g, _ := first.Snapshot(id)
	_, err = first.Act(ctx, id, placement(t, g))
	require.NoError(t, err)

	want, err := first.Snapshot(id)
	require.NoError(t, err)
	first.Close()

	second := newManager(t, store)
	require.NoError(t, second.Restore(ctx, id))
	got, err := second.Snapshot(id)
	require.NoError(t, err)

	wantSum, _ := Checksum(want)
	gotSum, _ := Checksum(got)
	assert.Equal(t, wantSum, gotSum)
	assert.Len(t, second.ComputerSeats(), 1)

	assert.ErrorIs(t, second.Restore(ctx, id), ErrGameExists)
	assert.ErrorIs(t, second.Restore(ctx, "missing"), ErrGameNotFound)
}

func TestRestoreWithoutStore(t *testing.T) {
	m := newManager(t, nil)
	assert.Error(t, m.Restore(context.Background(), "any"))
}

func TestReplaySavedOnGameEnd(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := repository.NewMemoryStore()

	g := newGame(t)
	g.PointsToWin = 1
	g.Points[1].Missions = 1
	data, err := Encode(g)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, g.ID, data))

	recorder := NewReplayRecorder(zaptest.NewLogger(t), dir)
	m := NewManager(zaptest.NewLogger(t), Options{PointsToWin: 10, Seed: 3, Store: store, Recorder: recorder})
	t.Cleanup(m.Close)
	listener := &capture{}
	m.AddListener(listener)

	require.NoError(t, m.Restore(ctx, g.ID))
	require.True(t, recorder.IsRecording(g.ID))

	res, err := m.Act(ctx, g.ID, placement(t, g))
	require.NoError(t, err)
	assert.Equal(t, EventEnd, res.Event)

	// listeners run before the reply is sent, so the replay is on disk
	assert.Equal(t, []string{EventEnd}, listener.events())
	assert.False(t, recorder.IsRecording(g.ID))

	replay, err := LoadReplayFromFile(dir, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, replay.Size())
	assert.True(t, replay.StateAt(1).Ended)

	res, err = m.Act(ctx, g.ID, actions.Record{Player: 0, ActionType: actions.TypeTurnDone})
	require.NoError(t, err)
	assert.Equal(t, EventIllegal, res.Event)
	assert.Equal(t, actions.ReasonGameEnded, res.Content)
}
