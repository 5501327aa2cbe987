package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/emi-planner/internal/metrics"
	"github.com/iwvelando/emi-planner/internal/server"
	"github.com/iwvelando/emi-planner/internal/store"
	"github.com/iwvelando/emi-planner/internal/tracing"
	"github.com/iwvelando/emi-planner/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.Address = *address
	}

	logger, err := cfg.Logging.NewLogger(*logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func run(cfg *server.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := tracing.Init(ctx, cfg.Tracing, version, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to flush traces",
				zap.String("op", "main.run"),
				zap.Error(err),
			)
		}
	}()

	var loanStore store.LoanStore
	switch cfg.Store.Backend {
	case server.StoreRedis:
		redisStore, err := store.NewRedisStore(ctx, store.RedisOptions{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			Key:      cfg.Store.Redis.Key,
		}, logger)
		if err != nil {
			return err
		}
		defer func() {
			_ = redisStore.Close()
		}()
		loanStore = redisStore
	default:
		loanStore = store.NewMemoryStore()
	}

	handler := server.NewHandler(server.Options{
		Logger:        logger,
		MaxUploadSize: cfg.UploadSizeBytes(),
		Version:       version,
		Store:         loanStore,
		Metrics:       metrics.New(),
		Tracer:        provider.Tracer(),
	})

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "main.run"),
			zap.String("address", cfg.Address),
			zap.String("store", cfg.Store.Backend),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down",
			zap.String("op", "main.run"),
		)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
