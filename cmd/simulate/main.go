package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/starsettlers/settlers-server-go/internal/game"
	"github.com/starsettlers/settlers-server-go/internal/game/ai"
	"github.com/starsettlers/settlers-server-go/internal/tournament"
)

var (
	seats       = flag.Int("seats", 4, "computer players per game (2-4)")
	rounds      = flag.Int("rounds", 10, "games to play")
	seed        = flag.Int64("seed", 1, "seed for boards and computer choices")
	pointsToWin = flag.Int("points", 10, "victory points needed to win")
	roundLimit  = flag.Int("round-limit", 12, "rounds before a game is called")
	replayDir   = flag.String("replays", "", "directory for replays of finished games (disabled when empty)")
	logLevel    = flag.String("log-level", "warn", "log level")
)

func main() {
	flag.Parse()

	level, err := zapcore.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level %q: %v\n", *logLevel, err)
		os.Exit(1)
	}
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorder *game.ReplayRecorder
	if *replayDir != "" {
		recorder = game.NewReplayRecorder(logger, *replayDir)
	}
	games := game.NewManager(logger, game.Options{
		PointsToWin: *pointsToWin,
		RoundLimit:  *roundLimit,
		Seed:        *seed,
		Recorder:    recorder,
	})
	defer games.Close()

	runner := ai.NewRunner(games, time.Millisecond, *seed, logger.Named("ai"))
	mgr := tournament.NewManager(games, runner, logger)

	tour, err := mgr.CreateTournament("simulation", *seats, *rounds)
	if err != nil {
		logger.Fatal("failed to create tournament", zap.Error(err))
	}
	if err := mgr.Run(ctx, tour.ID); err != nil {
		logger.Error("simulation interrupted", zap.Error(err))
	}

	printStandings(tour)
}

func printStandings(tour *tournament.Tournament) {
	snap := tour.Snapshot()
	stalled := 0
	for _, r := range snap.Rounds {
		if r.Stalled {
			stalled++
		}
	}
	fmt.Printf("%d games played, %d stalled\n\n", len(snap.Rounds), stalled)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEAT\tPLAYER\tWINS\tLOSSES\tDRAWS\tPOINTS")
	for _, p := range tour.Standings() {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\n", p.Seat, p.Name, p.Wins, p.Losses, p.Draws, p.Points)
	}
	w.Flush()
}
