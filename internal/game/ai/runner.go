package ai

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/starsettlers/settlers-server-go/internal/game"
)

// Runner drives every computer seat known to a manager.
type Runner struct {
	manager  *game.Manager
	interval time.Duration
	rng      *rand.Rand
	logger   *zap.Logger
}

// NewRunner creates a runner that acts once per seat every interval.
func NewRunner(manager *game.Manager, interval time.Duration, seed int64, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Runner{
		manager:  manager,
		interval: interval,
		rng:      rand.New(rand.NewSource(seed)),
		logger:   logger,
	}
}

// Run ticks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("ai runner started", zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("ai runner stopped")
			return ctx.Err()
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick gives every computer seat one chance to act and returns how many
// actions were accepted.
func (r *Runner) Tick(ctx context.Context) int {
	applied := 0
	for _, seat := range r.manager.ComputerSeats() {
		if ctx.Err() != nil {
			return applied
		}
		g, err := r.manager.Snapshot(seat.GameID)
		if err != nil {
			continue
		}
		rec, ok := Decide(g, seat.Player, r.rng)
		if !ok {
			continue
		}

		res, err := r.manager.Act(ctx, seat.GameID, rec)
		if err != nil {
			r.logger.Warn("ai action not submitted",
				zap.String("game_id", seat.GameID),
				zap.Int("player", seat.Player),
				zap.Error(err),
			)
			continue
		}
		if !res.Legal() {
			r.logger.Warn("ai chose an illegal action",
				zap.String("game_id", seat.GameID),
				zap.Int("player", seat.Player),
				zap.String("action", string(rec.ActionType)),
				zap.Any("reason", res.Content),
			)
			continue
		}
		applied++
	}
	return applied
}
