// main.go
package main

import (
	"context"
	"log"
	"time"

	"cargo-booking/cmd"
	"cargo-booking/internal/data/repository"
	"cargo-booking/internal/ephemeral"
	"cargo-booking/internal/wire"
	"cargo-booking/pkg/cache"
	"cargo-booking/pkg/database"
	"cargo-booking/pkg/tasks"
	"cargo-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Ephemeral store: Redis when configured, in-memory otherwise
	var store ephemeral.Store
	if config.Redis.Addr != "" {
		client := cache.NewRedisClient(config.Redis)
		if err := cache.Ping(context.Background(), client); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer cache.Close(client)

		store = ephemeral.NewRedisStore(client, config.Draft.DefaultTTL, logger)
		logger.Info("Redis connected successfully", zap.String("addr", config.Redis.Addr))
	} else {
		store = ephemeral.NewMemoryStore(config.Draft.DefaultTTL, logger)
		logger.Info("Using in-memory ephemeral store")
	}

	// Background reaper for expired ephemeral records. Advisory only:
	// reads filter expired records regardless.
	go func() {
		ticker := time.NewTicker(config.Draft.ReapEvery)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := store.Reap(context.Background()); err != nil {
				logger.Warn("Ephemeral reap failed", zap.Error(err))
			}
		}
	}()

	// Fire-and-forget runner for best-effort side effects
	runner := tasks.NewRunner(64, 30*time.Second, logger)
	defer runner.Stop()

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, store, runner, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
