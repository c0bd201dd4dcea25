// Package main implements the entry point for the mnemo study engine
// server, which schedules spaced repetition reviews and tracks study
// progress.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/lsandoval/mnemo/internal/config"
	"github.com/lsandoval/mnemo/internal/domain/srs"
	"github.com/lsandoval/mnemo/internal/events"
	"github.com/lsandoval/mnemo/internal/platform/logger"
	"github.com/lsandoval/mnemo/internal/platform/postgres"
	"github.com/lsandoval/mnemo/internal/service"
)

// application bundles the long-lived dependencies assembled at startup.
type application struct {
	config       *config.Config
	logger       *slog.Logger
	db           *sql.DB
	studyService service.StudyService
}

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	if err := app.serve(); err != nil {
		app.logger.Error("server terminated", slog.String("error", err.Error()))
		log.Fatalf("Server terminated: %v", err)
	}
}

// initializeApp loads configuration, sets up logging, connects to the
// database, runs migrations, and wires the service graph.
func initializeApp() (*application, error) {
	// A missing .env file is fine; environment variables take precedence
	// anyway.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, appLogger); err != nil {
		return nil, err
	}

	// Stores share the connection pool; per-request transactions go through
	// store.RunInTransaction with WithTx-bound instances.
	cardStore := postgres.NewPostgresCardStateStore(db, appLogger)
	deckStore := postgres.NewPostgresDeckStore(db, appLogger)
	streakStore := postgres.NewPostgresStreakStore(db, appLogger)
	activityStore := postgres.NewPostgresActivityStore(db, appLogger)

	scheduler := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		MasteryThresholdDays: cfg.Study.MasteryThresholdDays,
	}))

	emitter := events.NewInMemoryEventEmitter(appLogger)

	studyService := service.NewStudyService(
		cardStore,
		deckStore,
		streakStore,
		activityStore,
		scheduler,
		emitter,
		cfg.Study,
		appLogger,
		service.WithDB(db),
	)

	return &application{
		config:       cfg,
		logger:       appLogger,
		db:           db,
		studyService: studyService,
	}, nil
}
