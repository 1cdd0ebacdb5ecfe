// Package game runs game sessions: it owns every live game, serializes the
// actions submitted to each one and fans the resolutions out to listeners.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/starsettlers/settlers-server-go/internal/game/actions"
	"github.com/starsettlers/settlers-server-go/internal/game/setup"
	"github.com/starsettlers/settlers-server-go/internal/game/state"
	"github.com/starsettlers/settlers-server-go/internal/repository"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameExists    = errors.New("game already exists")
	ErrManagerClosed = errors.New("game manager closed")
)

// ComputerPrefix marks the user ids of computer-controlled seats.
const ComputerPrefix = "computer-"

const defaultQueueSize = 64

// Options configures a Manager.
type Options struct {
	PointsToWin int
	RoundLimit  int
	Seed        int64
	QueueSize   int
	Store       repository.Store
	Recorder    *ReplayRecorder
}

// NewGame describes a game to create.
type NewGame struct {
	Players     []string
	Computers   int
	PointsToWin int
}

// Seat identifies one player in one game.
type Seat struct {
	GameID string
	Player int
}

// Listener receives every resolution produced by the manager.
type Listener interface {
	Deliver(gameID string, res Resolution)
}

type request struct {
	rec   actions.Record
	reply chan Resolution
}

type entry struct {
	session   *Session
	computers []int
	queue     chan request
	quit      chan struct{}

	// senders hold mu for reading while they enqueue; the game loop takes it
	// for writing to set stopped once quit is closed.
	mu      sync.RWMutex
	stopped bool
}

// Manager owns the live games.
type Manager struct {
	logger *zap.Logger
	opts   Options

	mu        sync.RWMutex
	rng       *rand.Rand
	games     map[string]*entry
	listeners []Listener
	closed    bool
	wg        sync.WaitGroup
}

// NewManager creates a manager.
func NewManager(logger *zap.Logger, opts Options) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Manager{
		logger: logger,
		opts:   opts,
		rng:    rand.New(rand.NewSource(seed)),
		games:  make(map[string]*entry),
	}
}

// AddListener registers l for every future resolution.
func (m *Manager) AddListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listeners = append(m.listeners, l)
}

// CreateGame seats the players and computers of ng and starts the game.
func (m *Manager) CreateGame(ctx context.Context, ng NewGame) (string, error) {
	users := append([]string(nil), ng.Players...)
	for i := 1; i <= ng.Computers; i++ {
		users = append(users, fmt.Sprintf("%s%d", ComputerPrefix, i))
	}
	points := ng.PointsToWin
	if points <= 0 {
		points = m.opts.PointsToWin
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", ErrManagerClosed
	}
	seed := m.rng.Int63()
	m.mu.Unlock()

	gameID := uuid.NewString()
	g, err := setup.InitializeGame(users, gameID, points, setup.Options{
		Rand:       rand.New(rand.NewSource(seed)),
		RoundLimit: m.opts.RoundLimit,
	})
	if err != nil {
		return "", fmt.Errorf("create game: %w", err)
	}

	if err := m.persist(ctx, g); err != nil {
		return "", err
	}
	if err := m.register(g); err != nil {
		return "", err
	}

	m.logger.Info("game created",
		zap.String("game_id", gameID),
		zap.Strings("players", g.Players),
		zap.Int64("seed", seed),
	)
	return gameID, nil
}

// Restore loads gameID from the store and resumes it.
func (m *Manager) Restore(ctx context.Context, gameID string) error {
	if m.opts.Store == nil {
		return fmt.Errorf("restore %s: no store configured", gameID)
	}
	snap, err := m.opts.Store.Load(ctx, gameID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("restore %s: %w", gameID, ErrGameNotFound)
		}
		return fmt.Errorf("restore %s: %w", gameID, err)
	}
	g, err := Decode(snap.Data)
	if err != nil {
		return fmt.Errorf("restore %s: %w", gameID, err)
	}
	if err := m.register(g); err != nil {
		return err
	}
	m.logger.Info("game restored",
		zap.String("game_id", gameID),
		zap.Int("round", g.Round),
		zap.String("phase", g.Phase.String()),
	)
	return nil
}

func (m *Manager) register(g *state.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}
	if _, ok := m.games[g.ID]; ok {
		return fmt.Errorf("%s: %w", g.ID, ErrGameExists)
	}

	e := &entry{
		session: NewSession(g, m.logger, m.opts.Recorder),
		queue:   make(chan request, m.opts.QueueSize),
		quit:    make(chan struct{}),
	}
	for p, id := range g.Players {
		if strings.HasPrefix(id, ComputerPrefix) {
			e.computers = append(e.computers, p)
		}
	}
	m.games[g.ID] = e

	m.wg.Add(1)
	go m.processGameActions(g.ID, e)
	return nil
}

// Submit queues rec for gameID. The returned channel yields exactly one
// resolution, or is closed without one if the manager closes before the
// action runs.
func (m *Manager) Submit(gameID string, rec actions.Record) (<-chan Resolution, error) {
	m.mu.RLock()
	e, ok := m.games[gameID]
	closed := m.closed
	m.mu.RUnlock()

	if closed {
		return nil, ErrManagerClosed
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", gameID, ErrGameNotFound)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.stopped {
		return nil, ErrManagerClosed
	}

	req := request{rec: rec, reply: make(chan Resolution, 1)}
	select {
	case e.queue <- req:
		return req.reply, nil
	case <-e.quit:
		return nil, ErrManagerClosed
	}
}

// Act submits rec and waits for its resolution.
func (m *Manager) Act(ctx context.Context, gameID string, rec actions.Record) (Resolution, error) {
	reply, err := m.Submit(gameID, rec)
	if err != nil {
		return Resolution{}, err
	}
	select {
	case res, ok := <-reply:
		if !ok {
			return Resolution{}, ErrManagerClosed
		}
		return res, nil
	case <-ctx.Done():
		return Resolution{}, ctx.Err()
	}
}

func (m *Manager) processGameActions(gameID string, e *entry) {
	defer m.wg.Done()

	for {
		select {
		case <-e.quit:
			e.stop()
			return
		case req := <-e.queue:
			res := e.session.Resolve(req.rec)
			m.afterResolve(gameID, res)
			req.reply <- res
		}
	}
}

// stop refuses further submissions and closes the reply channel of every
// request still queued.
func (e *entry) stop() {
	e.mu.Lock()
	e.stopped = true
	e.mu.Unlock()

	for {
		select {
		case req := <-e.queue:
			close(req.reply)
		default:
			return
		}
	}
}

func (m *Manager) afterResolve(gameID string, res Resolution) {
	if update, ok := res.Content.(Update); ok && res.Event != EventLoaded {
		if err := m.persist(context.Background(), update.Game); err != nil {
			m.logger.Error("failed to persist game",
				zap.String("game_id", gameID),
				zap.Error(err),
			)
		}
	}
	if res.Event == EventEnd && m.opts.Recorder != nil {
		if err := m.opts.Recorder.SaveReplay(gameID); err != nil {
			m.logger.Error("failed to save replay",
				zap.String("game_id", gameID),
				zap.Error(err),
			)
		}
	}

	m.mu.RLock()
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.RUnlock()
	for _, l := range listeners {
		l.Deliver(gameID, res)
	}
}

func (m *Manager) persist(ctx context.Context, g *state.Game) error {
	if m.opts.Store == nil {
		return nil
	}
	data, err := Encode(g)
	if err != nil {
		return err
	}
	if err := m.opts.Store.Save(ctx, g.ID, data); err != nil {
		return fmt.Errorf("persist %s: %w", g.ID, err)
	}
	return nil
}

// Snapshot returns a copy of gameID's current state.
func (m *Manager) Snapshot(gameID string) (*state.Game, error) {
	m.mu.RLock()
	e, ok := m.games[gameID]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", gameID, ErrGameNotFound)
	}
	return e.session.Snapshot(), nil
}

// Games returns the ids of every live game in sorted order.
func (m *Manager) Games() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ComputerSeats lists every computer-controlled seat across live games.
func (m *Manager) ComputerSeats() []Seat {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var seats []Seat
	for id, e := range m.games {
		for _, p := range e.computers {
			seats = append(seats, Seat{GameID: id, Player: p})
		}
	}
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].GameID != seats[j].GameID {
			return seats[i].GameID < seats[j].GameID
		}
		return seats[i].Player < seats[j].Player
	})
	return seats
}

// Close stops every game loop and waits for them to exit.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	for _, e := range m.games {
		close(e.quit)
	}
	m.mu.Unlock()

	m.wg.Wait()
	m.logger.Info("game manager closed")
}
