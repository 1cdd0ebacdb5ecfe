// Package tournament plays series of computer-only games and keeps
// standings per seat.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/starsettlers/settlers-server-go/internal/game"
	"github.com/starsettlers/settlers-server-go/internal/game/ai"
)

// State is where a tournament is in its lifecycle.
type State string

const (
	StateWaiting  State = "waiting"
	StateRunning  State = "running"
	StateFinished State = "finished"
)

const (
	defaultMaxTicks = 2000
	stallLimit      = 3
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrAlreadyStarted     = errors.New("tournament already started")
)

// Player is the standing of one seat across every round.
type Player struct {
	Seat   int    `json:"seat"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}

// Round is one game of the series.
type Round struct {
	Number     int    `json:"number"`
	GameID     string `json:"gameid"`
	Winner     *int   `json:"winner,omitempty"`
	GameRounds int    `json:"gameRounds"`
	Stalled    bool   `json:"stalled"`
	Finished   bool   `json:"finished"`
}

// Tournament is a fixed number of games between the same computer seats.
type Tournament struct {
	ID         string
	Name       string
	State      State
	Players    []*Player
	Rounds     []*Round
	NumRounds  int
	CreateTime time.Time
	StartTime  *time.Time
	EndTime    *time.Time

	mu sync.RWMutex
}

// Snapshot is a copy of a tournament safe to hand out.
type Snapshot struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	State      State      `json:"state"`
	Players    []Player   `json:"players"`
	Rounds     []Round    `json:"rounds"`
	NumRounds  int        `json:"numRounds"`
	CreateTime time.Time  `json:"createTime"`
	StartTime  *time.Time `json:"startTime,omitempty"`
	EndTime    *time.Time `json:"endTime,omitempty"`
}

func newTournament(name string, seats, numRounds int) *Tournament {
	t := &Tournament{
		ID:         uuid.New().String(),
		Name:       name,
		State:      StateWaiting,
		NumRounds:  numRounds,
		CreateTime: time.Now(),
	}
	for s := 0; s < seats; s++ {
		t.Players = append(t.Players, &Player{
			Seat: s,
			Name: fmt.Sprintf("%s%d", game.ComputerPrefix, s+1),
		})
	}
	return t
}

// Snapshot copies the tournament under its lock.
func (t *Tournament) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	players := make([]Player, len(t.Players))
	for i, p := range t.Players {
		players[i] = *p
	}
	rounds := make([]Round, len(t.Rounds))
	for i, r := range t.Rounds {
		rounds[i] = *r
		rounds[i].Winner = cloneInt(r.Winner)
	}
	return Snapshot{
		ID:         t.ID,
		Name:       t.Name,
		State:      t.State,
		Players:    players,
		Rounds:     rounds,
		NumRounds:  t.NumRounds,
		CreateTime: t.CreateTime,
		StartTime:  cloneTime(t.StartTime),
		EndTime:    cloneTime(t.EndTime),
	}
}

// Standings orders seats by wins, then points, then seat.
func (t *Tournament) Standings() []Player {
	players := t.Snapshot().Players
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Wins != players[j].Wins {
			return players[i].Wins > players[j].Wins
		}
		if players[i].Points != players[j].Points {
			return players[i].Points > players[j].Points
		}
		return players[i].Seat < players[j].Seat
	})
	return players
}

func (t *Tournament) start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != StateWaiting {
		return ErrAlreadyStarted
	}
	now := time.Now()
	t.State = StateRunning
	t.StartTime = &now
	return nil
}

func (t *Tournament) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.State = StateFinished
	t.EndTime = &now
}

func (t *Tournament) record(r *Round, points []int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for seat, p := range t.Players {
		if seat < len(points) {
			p.Points += points[seat]
		}
		switch {
		case r.Winner == nil:
			p.Draws++
		case *r.Winner == seat:
			p.Wins++
		default:
			p.Losses++
		}
	}
	r.Finished = true
}

func cloneInt(src *int) *int {
	if src == nil {
		return nil
	}
	v := *src
	return &v
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}

// Manager runs tournaments on a game manager with an AI runner driving the
// seats. The game manager should not carry other computer games, since the
// runner acts for all of them.
type Manager struct {
	games    *game.Manager
	runner   *ai.Runner
	maxTicks int

	tournaments map[string]*Tournament
	mu          sync.RWMutex
	logger      *zap.Logger
}

// NewManager creates a tournament manager.
func NewManager(games *game.Manager, runner *ai.Runner, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		games:       games,
		runner:      runner,
		maxTicks:    defaultMaxTicks,
		tournaments: make(map[string]*Tournament),
		logger:      logger,
	}
}

// CreateTournament registers a series of numRounds games between seats
// computer players.
func (m *Manager) CreateTournament(name string, seats, numRounds int) (*Tournament, error) {
	if seats < 2 || seats > 4 {
		return nil, fmt.Errorf("seats must be between 2 and 4, got %d", seats)
	}
	if numRounds < 1 {
		return nil, fmt.Errorf("rounds must be positive, got %d", numRounds)
	}

	t := newTournament(name, seats, numRounds)

	m.mu.Lock()
	m.tournaments[t.ID] = t
	m.mu.Unlock()

	m.logger.Info("tournament created",
		zap.String("tournament_id", t.ID),
		zap.String("name", name),
		zap.Int("seats", seats),
		zap.Int("rounds", numRounds),
	)
	return t, nil
}

// GetTournament retrieves a tournament by ID
func (m *Manager) GetTournament(tournamentID string) (*Tournament, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tournaments[tournamentID]
	return t, ok
}

// RemoveTournament removes a tournament
func (m *Manager) RemoveTournament(tournamentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tournaments, tournamentID)
	m.logger.Info("tournament removed", zap.String("tournament_id", tournamentID))
}

// GetAllTournaments returns all tournaments
func (m *Manager) GetAllTournaments() []*Tournament {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tournaments := make([]*Tournament, 0, len(m.tournaments))
	for _, t := range m.tournaments {
		tournaments = append(tournaments, t)
	}
	sort.Slice(tournaments, func(i, j int) bool {
		return tournaments[i].CreateTime.Before(tournaments[j].CreateTime)
	})
	return tournaments
}

// Run plays every round of a waiting tournament. It returns early with the
// context's error if ctx is cancelled.
func (m *Manager) Run(ctx context.Context, tournamentID string) error {
	t, ok := m.GetTournament(tournamentID)
	if !ok {
		return fmt.Errorf("%s: %w", tournamentID, ErrTournamentNotFound)
	}
	if err := t.start(); err != nil {
		return fmt.Errorf("%s: %w", tournamentID, err)
	}
	seats := len(t.Players)

	for n := 1; n <= t.NumRounds; n++ {
		gameID, err := m.games.CreateGame(ctx, game.NewGame{Computers: seats})
		if err != nil {
			return fmt.Errorf("round %d: %w", n, err)
		}
		r := &Round{Number: n, GameID: gameID}
		t.mu.Lock()
		t.Rounds = append(t.Rounds, r)
		t.mu.Unlock()

		if err := m.playRound(ctx, t, r); err != nil {
			return err
		}
	}

	t.finish()
	m.logger.Info("tournament finished",
		zap.String("tournament_id", t.ID),
		zap.Int("rounds", t.NumRounds),
	)
	return nil
}

func (m *Manager) playRound(ctx context.Context, t *Tournament, r *Round) error {
	stalled := 0
	for tick := 0; tick < m.maxTicks; tick++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, err := m.games.Snapshot(r.GameID)
		if err != nil {
			return err
		}
		if g.Ended {
			break
		}
		if m.runner.Tick(ctx) == 0 {
			stalled++
			if stalled >= stallLimit {
				break
			}
			continue
		}
		stalled = 0
	}

	g, err := m.games.Snapshot(r.GameID)
	if err != nil {
		return err
	}
	points := make([]int, len(g.Points))
	for p, pts := range g.Points {
		points[p] = pts.Total()
	}

	t.mu.Lock()
	r.GameRounds = g.Round
	r.Winner = cloneInt(g.Winner)
	r.Stalled = !g.Ended
	t.mu.Unlock()
	t.record(r, points)

	m.logger.Info("tournament round finished",
		zap.String("tournament_id", t.ID),
		zap.Int("round", r.Number),
		zap.String("game_id", r.GameID),
		zap.Intp("winner", r.Winner),
		zap.Bool("stalled", r.Stalled),
	)
	return nil
}
