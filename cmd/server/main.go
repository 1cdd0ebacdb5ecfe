package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/starsettlers/settlers-server-go/internal/config"
	"github.com/starsettlers/settlers-server-go/internal/game"
	"github.com/starsettlers/settlers-server-go/internal/game/ai"
	"github.com/starsettlers/settlers-server-go/internal/repository"
	"github.com/starsettlers/settlers-server-go/internal/server"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting settlers server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	store, err := repository.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to open snapshot store", zap.Error(err))
	}
	defer store.Close()
	logger.Info("snapshot store opened", zap.String("driver", cfg.Database.Driver))

	var recorder *game.ReplayRecorder
	if cfg.Replay.Enabled {
		recorder = game.NewReplayRecorder(logger, cfg.Replay.Dir)
		logger.Info("replay recording enabled", zap.String("dir", cfg.Replay.Dir))
	}

	gameMgr := game.NewManager(logger, game.Options{
		PointsToWin: cfg.Game.PointsToWin,
		RoundLimit:  cfg.Game.RoundLimit,
		Seed:        cfg.Game.Seed,
		QueueSize:   cfg.Game.QueueSize,
		Store:       store,
		Recorder:    recorder,
	})
	restoreGames(ctx, gameMgr, store, logger)

	wsServer, err := server.NewServer(gameMgr, cfg.Server.WebSocket, logger)
	if err != nil {
		logger.Fatal("failed to create websocket server", zap.Error(err))
	}
	httpServer := &http.Server{
		Addr:              cfg.Server.WebSocket.Address,
		Handler:           wsServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer, healthServer := server.NewGRPCServer(logger)
	lis, err := net.Listen("tcp", cfg.Server.GRPC.Address)
	if err != nil {
		logger.Fatal("failed to listen", zap.Error(err))
	}

	go func() {
		logger.Info("starting gRPC health server", zap.String("address", cfg.Server.GRPC.Address))
		if serveErr := grpcServer.Serve(lis); serveErr != nil {
			logger.Error("gRPC server error", zap.Error(serveErr))
		}
	}()

	go func() {
		logger.Info("starting WebSocket server",
			zap.String("address", cfg.Server.WebSocket.Address),
			zap.String("path", cfg.Server.WebSocket.Path),
		)
		if wsErr := httpServer.ListenAndServe(); wsErr != nil && !errors.Is(wsErr, http.ErrServerClosed) {
			logger.Error("WebSocket server error", zap.Error(wsErr))
		}
	}()

	runner := ai.NewRunner(gameMgr, cfg.Game.AIInterval, cfg.Game.Seed, logger.Named("ai"))
	go runner.Run(ctx)

	logger.Info("settlers server initialized",
		zap.String("version", version),
		zap.String("grpc_address", cfg.Server.GRPC.Address),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
		zap.Int("games", len(gameMgr.Games())),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("websocket server shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	gameMgr.Close()

	logger.Info("settlers server stopped")
}

// restoreGames reloads every stored snapshot into the manager.
func restoreGames(ctx context.Context, mgr *game.Manager, store repository.Store, logger *zap.Logger) {
	ids, err := store.List(ctx)
	if err != nil {
		logger.Warn("failed to list stored games", zap.Error(err))
		return
	}
	restored := 0
	for _, id := range ids {
		if err := mgr.Restore(ctx, id); err != nil {
			logger.Warn("failed to restore game", zap.String("game_id", id), zap.Error(err))
			continue
		}
		restored++
	}
	logger.Info("stored games restored", zap.Int("restored", restored), zap.Int("stored", len(ids)))
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
