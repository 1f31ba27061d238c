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

	"github.com/carlosfiori/viacep-go/api"
	"github.com/carlosfiori/viacep-go/internal"
	"github.com/carlosfiori/viacep-go/internal/telemetry"
	"github.com/carlosfiori/viacep-go/viacep"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	shutdownTimeout    = 10 * time.Second
	serverReadTimeout  = 10 * time.Second
	serverWriteTimeout = 10 * time.Second
	serverIdleTimeout  = 60 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Default().Error("Service stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.Level())
	slog.SetDefault(logger)

	ctx := context.Background()
	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to init tracer provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			logger.Error("Error shutting down tracer provider", slog.Any("error", err))
		}
	}()

	reg := prometheus.NewRegistry()
	metrics := viacep.NewMetrics("viacep", reg)

	var transport viacep.Transport = viacep.NewHTTPTransport(viacep.NewHTTPClient(cfg.ViaCEP.Timeout))
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("Redis unreachable, responses will not be cached until it recovers",
				slog.String("addr", cfg.Redis.Addr), slog.Any("error", err))
		}
		cancel()

		transport = viacep.NewCachingTransport(transport, viacep.NewRedisStore(rdb, "viacep:"), viacep.CacheOptions{
			TTL:     cfg.Redis.CacheTTL,
			Logger:  logger,
			Metrics: metrics,
		})
		logger.Info("Response cache enabled", slog.String("addr", cfg.Redis.Addr), slog.Duration("ttl", cfg.Redis.CacheTTL))
	}

	client := viacep.New(viacep.Config{
		Scheme:    viacep.Scheme(cfg.ViaCEP.Scheme),
		Host:      cfg.ViaCEP.Host,
		Transport: transport,
		Logger:    logger,
		Metrics:   metrics,
	})

	handler := api.NewHandler(client, logger, reg)
	router := api.SetupRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("ViaCEP service starting", slog.Int("port", int(cfg.Port)), slog.String("env", cfg.Env))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-shutdown:
		logger.Info("Received signal, shutting down gracefully...", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during shutdown", slog.Any("error", err))
			server.Close()
		}

		logger.Info("ViaCEP service stopped")
	}

	return nil
}
