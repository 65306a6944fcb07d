package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/packfinderz-configurator/api/controllers"
	"github.com/angelmondragon/packfinderz-configurator/api/routes"
	"github.com/angelmondragon/packfinderz-configurator/internal/backend"
	"github.com/angelmondragon/packfinderz-configurator/internal/catalog"
	"github.com/angelmondragon/packfinderz-configurator/internal/configurator"
	"github.com/angelmondragon/packfinderz-configurator/internal/media"
	"github.com/angelmondragon/packfinderz-configurator/pkg/config"
	"github.com/angelmondragon/packfinderz-configurator/pkg/logger"
	"github.com/angelmondragon/packfinderz-configurator/pkg/metrics"
	"github.com/angelmondragon/packfinderz-configurator/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "configurator"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "configurator",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		LevelSet:    true,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backendClient, err := backend.NewClient(cfg.Backend, nil)
	if err != nil {
		logg.Error(ctx, "failed to create backend client", err)
		os.Exit(1)
	}

	var (
		fetcher     catalog.Fetcher = backendClient
		redisPinger controllers.Pinger
	)
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()

		cached, err := catalog.NewRedisCache(backendClient, redisClient, cfg.Catalog.CacheTTL, logg)
		if err != nil {
			logg.Error(ctx, "failed to create option cache", err)
			os.Exit(1)
		}
		fetcher = cached
		redisPinger = redisClient
	} else {
		logg.Info(ctx, "redis disabled, option lists are cached per session only")
	}

	digester, err := media.NewDigester(cfg.Media.DigestAlgorithm)
	if err != nil {
		logg.Error(ctx, "failed to create digester", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	registry, err := configurator.NewRegistry(configurator.RegistryParams{
		Fetcher:           fetcher,
		Creator:           backendClient,
		Codec:             media.NewDataURICodec(cfg.Media.MaxUploadBytes()),
		Digester:          digester,
		Metrics:           metrics.NewConfiguratorMetrics(promRegistry),
		Logger:            logg,
		EncodeConcurrency: cfg.Submission.EncodeConcurrency,
		MultiDiscount:     cfg.Backend.MultiDiscount,
		SubmitTimeout:     cfg.Submission.Timeout,
		IdleTTL:           cfg.Sessions.IdleTTL,
	})
	if err != nil {
		logg.Error(ctx, "failed to create session registry", err)
		os.Exit(1)
	}
	go registry.Run(ctx, cfg.Sessions.SweepInterval)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Backend.BaseURL,
	})
	logg.Info(ctx, "starting configurator server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, registry, fetcher, redisPinger, promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "configurator server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down configurator server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
