package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"pattern-engine/config"
	"pattern-engine/internal/analysis"
	"pattern-engine/internal/api"
	"pattern-engine/internal/cache"
	"pattern-engine/internal/database"
	"pattern-engine/internal/engine"
	"pattern-engine/internal/filters"
	"pattern-engine/internal/market"
	"pattern-engine/internal/notification"
	"pattern-engine/internal/patterns"
	"pattern-engine/internal/scoring"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatalLogger := zerolog.New(os.Stderr)
		fatalLogger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := newLogger(cfg.LoggingConfig)
	logger.Info().Msg("Pattern engine starting")

	// Database
	db, err := database.NewDB(database.Config{
		Host:     cfg.DatabaseConfig.Host,
		Port:     cfg.DatabaseConfig.Port,
		User:     cfg.DatabaseConfig.User,
		Password: cfg.DatabaseConfig.Password,
		Database: cfg.DatabaseConfig.Database,
		SSLMode:  cfg.DatabaseConfig.SSLMode,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.RunMigrations(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	repo := database.NewRepository(db)

	// Snapshot store
	store, err := cache.NewSnapshotStore(cfg.RedisConfig, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize snapshot store")
	}
	defer store.Close()

	// Notifications
	notifyManager := notification.NewManager(logger)
	if cfg.NotificationConfig.Enabled {
		if cfg.NotificationConfig.Telegram.Enabled {
			notifyManager.AddNotifier(notification.NewTelegramNotifier(notification.TelegramConfig{
				BotToken: cfg.NotificationConfig.Telegram.BotToken,
				ChatID:   cfg.NotificationConfig.Telegram.ChatID,
				Enabled:  true,
			}))
			logger.Info().Msg("Telegram notifications enabled")
		}
		if cfg.NotificationConfig.Discord.Enabled {
			notifyManager.AddNotifier(notification.NewDiscordNotifier(notification.DiscordConfig{
				WebhookURL: cfg.NotificationConfig.Discord.WebhookURL,
				Enabled:    true,
			}))
			logger.Info().Msg("Discord notifications enabled")
		}
	}

	// Scoring and detection
	scorer := scoring.NewScorer()
	if len(cfg.ScoringConfig.Weights) > 0 {
		weights := map[market.Timeframe]float64{}
		for tf, w := range cfg.ScoringConfig.Weights {
			weights[market.Timeframe(tf)] = w
		}
		if err := scorer.SetWeights(weights); err != nil {
			logger.Fatal().Err(err).Msg("Invalid scoring weights")
		}
	}

	eng := engine.New(
		patterns.NewAllDetectors(scorer),
		filters.NewCorrelationFilter(logger),
		filters.NewConsistencyFilter(scorer, logger),
		logger,
	)

	sinks := []engine.SignalSink{&repositorySink{repo: repo}}
	if cfg.NotificationConfig.Enabled {
		sinks = append(sinks, &notificationSink{manager: notifyManager})
	}

	runner := engine.NewRunner(
		eng,
		store,
		repo,
		analysis.NewClassifier(),
		sinks,
		cfg.EngineConfig.Symbols,
		cfg.EngineConfig.WorkerCount,
		logger,
	)

	// Scheduler
	var scheduler *cron.Cron
	if cfg.SchedulerConfig.Enabled {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.SchedulerConfig.Schedule, func() {
			runner.RunAll(ctx)
		})
		if err != nil {
			logger.Fatal().Err(err).Str("schedule", cfg.SchedulerConfig.Schedule).Msg("Invalid cron schedule")
		}
		scheduler.Start()
		logger.Info().Str("schedule", cfg.SchedulerConfig.Schedule).Msg("Detection scheduler started")
	}

	// HTTP server
	server := api.NewServer(api.ServerConfig{
		Host:           cfg.ServerConfig.Host,
		Port:           cfg.ServerConfig.Port,
		ProductionMode: cfg.ServerConfig.ProductionMode,
		AllowedOrigins: cfg.ServerConfig.AllowedOrigins,
	}, repo, eng, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down")
	cancel()

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.ServerConfig.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}

	logger.Info().Msg("Pattern engine stopped")
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.JSONFormat {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger.Level(level).With().Timestamp().Logger()
}
