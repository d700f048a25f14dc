package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kiln-games/depthforge/internal/config"
	"github.com/kiln-games/depthforge/internal/crafting"
	"github.com/kiln-games/depthforge/internal/database"
	"github.com/kiln-games/depthforge/internal/database/postgres"
	"github.com/kiln-games/depthforge/internal/event"
	"github.com/kiln-games/depthforge/internal/handler"
	"github.com/kiln-games/depthforge/internal/item"
	"github.com/kiln-games/depthforge/internal/metrics"
	"github.com/kiln-games/depthforge/internal/repository"
	"github.com/kiln-games/depthforge/internal/scheduler"
	"github.com/kiln-games/depthforge/internal/server"
	"github.com/kiln-games/depthforge/internal/session"
	"github.com/kiln-games/depthforge/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initLogger(cfg)
	handler.InitValidator()

	// Game data catalogs
	itemConfig, err := item.NewLoader().Load(cfg.ItemsConfigPath)
	if err != nil {
		log.Fatalf("Failed to load item config: %v", err)
	}
	catalog, err := item.NewLoader().BuildCatalog(itemConfig)
	if err != nil {
		log.Fatalf("Failed to build item catalog: %v", err)
	}
	factory := item.NewFactory(catalog)

	recipeConfig, err := crafting.NewLoader().Load(cfg.RecipesConfigPath)
	if err != nil {
		log.Fatalf("Failed to load recipe config: %v", err)
	}
	recipes, err := crafting.NewLoader().BuildRecipes(recipeConfig)
	if err != nil {
		log.Fatalf("Failed to build recipes: %v", err)
	}

	slog.Info("Game data loaded", "templates", catalog.Len(), "recipes", len(recipes))

	// Snapshot repository: postgres when reachable, in-memory otherwise
	var dbPool *pgxpool.Pool
	var sessionRepo repository.Session
	var healthPool database.Pool

	dbPool, err = database.NewPool(cfg.GetDBConnString(), database.DefaultMaxConnections,
		database.DefaultMaxIdleTime, database.DefaultMaxLifetime)
	if err != nil {
		slog.Warn("Database unavailable, using in-memory session store", "error", err)
		sessionRepo = repository.NewMemorySession()
	} else {
		defer dbPool.Close()
		sessionRepo = postgres.NewSessionRepository(dbPool)
		healthPool = dbPool
	}

	sessions := session.NewManager(factory, recipes, sessionRepo)

	// Event bus feeding the prometheus business metrics
	eventBus := event.NewMemoryBus()
	if err := metrics.NewEventMetricsCollector().Register(eventBus); err != nil {
		log.Fatalf("Failed to register metrics collector: %v", err)
	}

	// Background jobs: shop restock ticks and session autosave
	pool := worker.NewPool(worker.DefaultWorkers, worker.DefaultQueueSize)
	pool.Start()

	sched := scheduler.New(pool)
	sched.Schedule(cfg.ShopTickInterval, &worker.ShopTickJob{Manager: sessions, Delta: cfg.ShopTickInterval})
	sched.Schedule(cfg.AutosaveInterval, &worker.AutosaveJob{Manager: sessions})

	srv := server.NewServer(cfg.Port, cfg.APIKey, nil, healthPool, sessions, factory, eventBus)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed to start: %v", err)
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	sched.Stop()
	pool.Stop()

	// Final save so nothing persisted only in memory is lost
	if written := sessions.SaveAll(ctx); written > 0 {
		slog.Info("Final session save complete", "sessions_written", written)
	}
}
