package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/AleksandarPetrovv/NinetyPlus/external/footballdata"
	"github.com/AleksandarPetrovv/NinetyPlus/external/streamfinder"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/config"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/comment"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/user"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/infrastructure/repository/memory"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/infrastructure/repository/postgres"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/interfaces/httpapi"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/cache"
	idgen "github.com/AleksandarPetrovv/NinetyPlus/internal/platform/id"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/logging"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/resilience"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/usecase"
)

// App holds the wired HTTP server together with the resources that need
// an orderly shutdown.
type App struct {
	Server *http.Server

	db         *sqlx.DB
	enrichment *usecase.EnrichmentService
	appLogger  *logging.Logger
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	appLogger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(appLogger)

	var (
		db          *sqlx.DB
		userRepo    user.Repository
		commentRepo comment.Repository
	)
	if cfg.DBURL == "memory" {
		memUsers := memory.NewUserRepository()
		userRepo = memUsers
		commentRepo = memory.NewCommentRepository(func(userID int64) string {
			account, ok, err := memUsers.GetByID(context.Background(), userID)
			if err != nil || !ok {
				return ""
			}
			return account.Username
		})
	} else {
		opened, err := openDB(cfg.DBURL)
		if err != nil {
			return nil, err
		}
		db = opened
		userRepo = postgres.NewUserRepository(db)
		commentRepo = postgres.NewCommentRepository(db)
		logger.Info("database connected", "db", dbNameFromURL(cfg.DBURL))
	}

	store := cache.NewStore(cfg.MatchCacheTTL)

	footballClient := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:   cfg.FootballAPIBaseURL,
		AuthToken: cfg.FootballAPIKey,
		Timeout:   cfg.FootballAPITimeout,
		Logger:    appLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballCircuitEnabled,
			FailureThreshold: cfg.FootballCircuitFailureCount,
			OpenTimeout:      cfg.FootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballCircuitHalfOpenReq,
		},
	})

	var streams usecase.StreamFinder
	if cfg.StreamScheduleURL != "" {
		streams = streamfinder.NewClient(streamfinder.ClientConfig{
			ScheduleURL: cfg.StreamScheduleURL,
			Logger:      appLogger,
		})
	}

	enrichmentSvc := usecase.NewEnrichmentService(footballClient, commentRepo, store, usecase.EnrichmentConfig{
		CacheTTL:         cfg.MatchCacheTTL,
		WriteBackWorkers: cfg.SnapshotWriteBackWorkers,
	}, appLogger)

	userSvc := usecase.NewUserService(userRepo, idgen.NewRandomGenerator(), appLogger)
	commentSvc := usecase.NewCommentService(commentRepo, enrichmentSvc, appLogger)
	matchSvc := usecase.NewMatchService(footballClient, enrichmentSvc, streams, store, usecase.MatchProxyConfig{
		LiveTTL:        cfg.LiveCacheTTL,
		StandingsTTL:   cfg.StandingsCacheTTL,
		TeamMatchesTTL: cfg.TeamMatchesCacheTTL,
	}, appLogger)

	handler := httpapi.NewHandler(userSvc, commentSvc, matchSvc, appLogger)
	router := httpapi.NewRouter(handler, userSvc, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	app := &App{
		Server:     server,
		db:         db,
		enrichment: enrichmentSvc,
		appLogger:  appLogger,
	}

	if len(cfg.WarmupCompetitionIDs) > 0 {
		go func() {
			warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			matchSvc.WarmStandings(warmCtx, cfg.WarmupCompetitionIDs)
		}()
	}

	return app, nil
}

// Close releases the app's resources after the HTTP server has shut down.
func (a *App) Close() {
	a.enrichment.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.appLogger.Sync()
}

func openDB(dbURL string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
