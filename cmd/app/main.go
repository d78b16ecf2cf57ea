package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/CaseVault_Go/internal/bootstrap"
	"github.com/osse101/CaseVault_Go/internal/config"
	"github.com/osse101/CaseVault_Go/internal/database"
	"github.com/osse101/CaseVault_Go/internal/database/memory"
	"github.com/osse101/CaseVault_Go/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	envWarnings, err := config.ValidateEnv()
	if err != nil {
		return fmt.Errorf("environment validation failed: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()
	for _, w := range envWarnings {
		slog.Warn(bootstrap.LogMsgEnvWarning, "warning", w)
	}

	engine, err := config.LoadEngineConfig(cfg.EngineConfigPath)
	if err != nil {
		return err
	}
	slog.Info(bootstrap.LogMsgEngineConfigLoaded, "path", cfg.EngineConfigPath)

	ctx := context.Background()

	var (
		repos  *bootstrap.Repositories
		dbPool database.Pool
	)
	switch cfg.Storage {
	case config.StorageMemory:
		repos = bootstrap.InitializeMemoryRepositories(memory.New())
		if err := bootstrap.SyncDemoCatalog(ctx, repos.Seeder, cfg.DemoCatalogPath); err != nil {
			return err
		}
	default:
		pool, err := database.NewPool(ctx, database.PoolSettings{
			ConnString: cfg.GetDBConnString(),
			MaxConns:   cfg.DBMaxConns,
			MaxIdle:    cfg.DBMaxIdle,
			MaxLife:    cfg.DBMaxLife,
		})
		if err != nil {
			return err
		}
		dbPool = pool
		if cfg.AutoMigrate {
			n, err := database.Migrate(ctx, pool)
			if err != nil {
				pool.Close()
				return err
			}
			slog.Info(bootstrap.LogMsgMigrationsApplied, "count", n)
		}
		if repos, err = bootstrap.InitializeRepositories(pool); err != nil {
			pool.Close()
			return err
		}
	}

	bus := bootstrap.InitializeEventSystem()
	services := bootstrap.InitializeServices(repos, engine, bus)
	workerPool, sched := bootstrap.StartBackgroundJobs(services, engine)
	feed := bootstrap.InitializeLiveFeed(bus)
	routes := services.HTTP()
	routes.Feed = feed

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		AdminJWTSecret: cfg.AdminJWTSecret,
		AdminJWTIssuer: cfg.AdminJWTIssuer,
		TrustedProxies: cfg.TrustedProxies,
		CORSOrigins:    cfg.CORSOrigins,
		Storage:        cfg.Storage,
		Version:        cfg.Version,
		ReportWindow:   engine.Audit.ReportWindow,
	}, routes)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-stop:
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Feed:       feed,
		Server:     srv,
		Scheduler:  sched,
		WorkerPool: workerPool,
		DBPool:     dbPool,
	})
	return runErr
}
