package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"stockroom-api/internal/ai"
	"stockroom-api/internal/auth"
	"stockroom-api/internal/cache"
	"stockroom-api/internal/config"
	"stockroom-api/internal/handler"
	"stockroom-api/internal/inventory"
	"stockroom-api/internal/metrics"
	"stockroom-api/internal/repository"
	"stockroom-api/internal/router"
	"stockroom-api/internal/service"

	"golang.org/x/sync/errgroup"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Stockroom API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Snapshot backend. A backend that cannot be opened leaves the store
	// running in memory only.
	var slot inventory.Slot
	snapshots, err := openSnapshots(cfg.Storage)
	if err != nil {
		log.Printf("Warning: %s storage unavailable: %v", cfg.Storage.Type, err)
	} else {
		defer snapshots.Close()
		slot = snapshots
		log.Printf("%s snapshot repository initialized", cfg.Storage.Type)
	}

	store := inventory.Open(ctx, slot, inventory.Options{MaxSnapshotBytes: cfg.Storage.MaxBytes})
	session := auth.NewSession()
	collector := metrics.NewCollector(store)

	// Text generator. Without a key every AI call reports the missing key.
	gen, err := ai.NewOpenAI(ai.OpenAIConfig{
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
	})
	if err != nil {
		log.Printf("Warning: AI tasks disabled: %v", err)
		gen = ai.Unavailable(err)
	}
	dispatcher := ai.NewDispatcher(gen, cfg.AI.Timeout, collector)

	// Initialize services
	inventoryService := service.NewInventoryService(store, session, collector)
	assistantService := service.NewAssistantService(inventoryService, dispatcher)

	r := router.New(router.Config{
		Handler:          handler.New(store, cfg.App.Version),
		AIHandler:        handler.NewAIHandler(dispatcher, cfg.AI.MaxBodyBytes),
		InventoryHandler: handler.NewInventoryHandler(inventoryService, assistantService),
		SessionHandler:   handler.NewSessionHandler(session),
		AdminHandler:     handler.NewAdminHandler(store, snapshots, cfg.Storage.Type),
		Metrics:          collector.Handler(),
		RequestObserver:  collector,
		AllowedOrigins:   cfg.CORS.Origins(),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// Graceful shutdown
		<-gCtx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server stopped with error: %v", err)
		return
	}
	log.Println("Server stopped")
}

// openSnapshots opens the configured snapshot backend. The result is a nil
// interface on error.
func openSnapshots(cfg config.StorageConfig) (repository.SnapshotRepository, error) {
	switch cfg.Type {
	case config.StoragePostgres:
		repo, err := repository.NewPostgresSnapshotRepository(cfg.PostgresDSN(), cfg.SlotKey)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.StorageMySQL:
		repo, err := repository.NewMySQLSnapshotRepository(cfg.MySQLDSN(), cfg.SlotKey)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.StorageRedis:
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.RedisAddress(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return repository.NewCacheSnapshotRepository(rc, cfg.SlotKey, config.StorageRedis), nil
	case config.StorageMemory:
		return repository.NewCacheSnapshotRepository(cache.NewMemoryCache(), cfg.SlotKey, config.StorageMemory), nil
	default:
		repo, err := repository.NewSQLiteSnapshotRepository(cfg.Path, cfg.SlotKey)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
}
