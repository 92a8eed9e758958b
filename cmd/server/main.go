package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hoanghai1803/mealcraft/internal/ai"
	"github.com/hoanghai1803/mealcraft/internal/api"
	"github.com/hoanghai1803/mealcraft/internal/auth"
	"github.com/hoanghai1803/mealcraft/internal/cache"
	"github.com/hoanghai1803/mealcraft/internal/config"
	"github.com/hoanghai1803/mealcraft/internal/recipes"
	"github.com/hoanghai1803/mealcraft/internal/storage"
	"github.com/hoanghai1803/mealcraft/internal/storage/mongostore"
)

// appStore is what the services need from a backend, plus its lifecycle.
type appStore interface {
	auth.UserStore
	recipes.Store
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	envPath := flag.String("env-file", ".env", "path to an optional .env file")
	flag.Parse()

	if err := config.LoadDotEnv(*envPath); err != nil {
		slog.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	// Load configuration (auto-creates default if missing).
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Server)

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	tokens, err := auth.NewTokenService(cfg.Auth.TokenFormat, cfg.Auth.TokenSecret, cfg.Auth.TokenTTL())
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	authSvc := auth.NewService(store, tokens, cfg.Auth.BcryptCost)

	provider, err := ai.NewProvider(ai.ProviderConfig{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
		BaseURL:  cfg.AI.BaseURL,
		Timeout:  cfg.AI.Timeout(),
	})
	if err != nil {
		return fmt.Errorf("creating AI provider: %w", err)
	}
	slog.Info("AI provider configured", "provider", cfg.AI.Provider, "model", cfg.AI.Model)

	recipeStore, closeCache := withCache(ctx, store, cfg.Cache)
	defer closeCache()
	recipeSvc := recipes.NewService(recipeStore, provider)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(authSvc, recipeSvc, store, cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout(),
		WriteTimeout:      cfg.Server.WriteTimeout(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore picks the backend from the database URL scheme. SQL backends
// are migrated before use.
func openStore(ctx context.Context, dbCfg config.DatabaseConfig) (appStore, error) {
	driver, err := dbCfg.Driver()
	if err != nil {
		return nil, err
	}

	switch driver {
	case config.DriverMongo:
		store, err := mongostore.Open(ctx, dbCfg.URL)
		if err != nil {
			return nil, fmt.Errorf("opening mongodb: %w", err)
		}
		return store, nil

	case config.DriverPostgres:
		db, err := storage.OpenPostgres(ctx, dbCfg.URL)
		if err != nil {
			return nil, err
		}
		if err := storage.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return storage.NewStore(db), nil

	default:
		db, err := storage.OpenSQLite(dbCfg.SQLitePath())
		if err != nil {
			return nil, err
		}
		if err := storage.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return storage.NewStore(db), nil
	}
}

// withCache puts the Redis preference cache in front of store when one is
// configured. An unreachable server is logged and skipped. The returned
// func releases the cache connection.
func withCache(ctx context.Context, store recipes.Store, cacheCfg config.CacheConfig) (recipes.Store, func()) {
	noop := func() {}
	if cacheCfg.RedisURL == "" {
		return store, noop
	}
	rdb, err := cache.OpenRedis(ctx, cacheCfg.RedisURL)
	if err != nil {
		slog.Warn("redis unavailable, running without cache", "error", err)
		return store, noop
	}
	return cache.NewPreferenceCache(store, rdb, cacheCfg.TTL()), func() {
		if err := rdb.Close(); err != nil {
			slog.Error("failed to close redis", "error", err)
		}
	}
}

// setupLogger installs the default slog logger per the server config.
func setupLogger(cfg config.ServerConfig) {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
