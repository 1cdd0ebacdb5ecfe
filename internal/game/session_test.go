package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/starsettlers/settlers-server-go/internal/game/actions"
	"github.com/starsettlers/settlers-server-go/internal/game/setup"
	"github.com/starsettlers/settlers-server-go/internal/game/state"
)

func newGame(t *testing.T, users ...string) *state.Game {
	t.Helper()
	if len(users) == 0 {
		users = []string{"alice", "bob"}
	}
	g, err := setup.InitializeGame(users, "game-1", 10, setup.Options{
		Rand: rand.New(rand.NewSource(7)),
	})
	require.NoError(t, err)
	return g
}

func intp(v int) *int { return &v }

// placement returns a legal placement for the player whose turn it is.
func placement(t *testing.T, g *state.Game) actions.Record {
	t.Helper()
	for _, planet := range g.Board.Planets {
		if !planet.Explored {
			continue
		}
		for slot, r := range planet.Resources {
			if r.Structure == nil {
				return actions.Record{
					Player:     g.Turn,
					ActionType: actions.TypePlace,
					ObjectType: intp(int(state.StructureMine)),
					PlanetID:   intp(planet.ID),
					ResourceID: intp(slot),
				}
			}
		}
	}
	t.Fatal("no free slot on an explored planet")
	return actions.Record{}
}

func TestSessionLoadedAssets(t *testing.T) {
	g := newGame(t)
	s := NewSession(g, zaptest.NewLogger(t), nil)

	res := s.Resolve(actions.Record{Player: 1, ActionType: actions.TypeLoadedAssets})
	assert.Equal(t, ToOne, res.To)
	assert.Equal(t, 1, res.Player)
	assert.Equal(t, EventLoaded, res.Event)

	loaded, ok := res.Content.(Update)
	require.True(t, ok)
	require.NotNil(t, loaded.Game)
	assert.Equal(t, g.ID, loaded.Game.ID)
	assert.NotSame(t, g, loaded.Game)
	assert.Nil(t, loaded.Action)
	assert.Empty(t, loaded.Response)
}

func TestSessionLoadedAssetsAfterEnd(t *testing.T) {
	g := newGame(t)
	g.Ended = true
	s := NewSession(g, zaptest.NewLogger(t), nil)

	res := s.Resolve(actions.Record{Player: 0, ActionType: actions.TypeLoadedAssets})
	assert.Equal(t, EventLoaded, res.Event)

	res = s.Resolve(actions.Record{Player: 0, ActionType: actions.TypeTurnDone})
	assert.Equal(t, EventIllegal, res.Event)
	assert.Equal(t, actions.ReasonGameEnded, res.Content)
}

func TestSessionIllegalGoesToSender(t *testing.T) {
	g := newGame(t)
	s := NewSession(g, zaptest.NewLogger(t), nil)
	before, err := Checksum(g)
	require.NoError(t, err)

	rec := placement(t, g)
	rec.Player = 1 - g.Turn
	res := s.Resolve(rec)

	assert.Equal(t, ToOne, res.To)
	assert.Equal(t, rec.Player, res.Player)
	assert.Equal(t, EventIllegal, res.Event)
	assert.Equal(t, actions.ReasonNotYourTurn, res.Content)
	assert.False(t, res.Legal())

	after, err := Checksum(s.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSessionUnknownActionIsIllegal(t *testing.T) {
	s := NewSession(newGame(t), zaptest.NewLogger(t), nil)

	res := s.Resolve(actions.Record{Player: 0, ActionType: "warp"})
	assert.Equal(t, EventIllegal, res.Event)
	assert.Equal(t, actions.ReasonUnknownAction, res.Content)
}

func TestSessionLegalBroadcasts(t *testing.T) {
	g := newGame(t)
	s := NewSession(g, zaptest.NewLogger(t), nil)

	rec := placement(t, g)
	res := s.Resolve(rec)

	assert.Equal(t, ToAll, res.To)
	assert.Equal(t, EventGame, res.Event)
	assert.True(t, res.Legal())

	update, ok := res.Content.(Update)
	require.True(t, ok)
	require.NotNil(t, update.Action)
	assert.Equal(t, rec, *update.Action)
	assert.Contains(t, update.Response, "placed a mine")
	assert.Equal(t, 1, update.Game.Turn)

	// the broadcast state is detached from the live game
	update.Game.Turn = 99
	assert.Equal(t, 1, s.Snapshot().Turn)
}

func TestSessionReportsGameEnd(t *testing.T) {
	g := newGame(t)
	g.PointsToWin = 1
	g.Points[1].Missions = 1
	s := NewSession(g, zaptest.NewLogger(t), nil)

	res := s.Resolve(placement(t, g))
	assert.Equal(t, ToAll, res.To)
	assert.Equal(t, EventEnd, res.Event)

	update := res.Content.(Update)
	assert.True(t, update.Game.Ended)
	require.NotNil(t, update.Game.Winner)
	assert.Equal(t, 1, *update.Game.Winner)
}

func TestSessionRecordsReplay(t *testing.T) {
	g := newGame(t)
	recorder := NewReplayRecorder(zaptest.NewLogger(t), t.TempDir())
	s := NewSession(g, zaptest.NewLogger(t), recorder)

	s.Resolve(placement(t, g))
	s.Resolve(actions.Record{Player: 0, ActionType: actions.TypeTurnDone})

	replay, ok := recorder.Replay(g.ID)
	require.True(t, ok)
	// initial state plus the one legal action
	assert.Equal(t, 2, replay.Size())
	assert.Equal(t, 0, replay.StateAt(0).Turn)
	assert.Equal(t, 1, replay.StateAt(1).Turn)
}
