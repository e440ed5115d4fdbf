package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridian-market/boardroom/cogctx"
	"github.com/meridian-market/boardroom/enrich"
	"github.com/meridian-market/boardroom/internal/api"
	"github.com/meridian-market/boardroom/internal/config"
	"github.com/meridian-market/boardroom/internal/handlers"
	"github.com/meridian-market/boardroom/netwatch"
	"github.com/meridian-market/boardroom/queue"
	"github.com/meridian-market/boardroom/replay"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize queue store
	var (
		store queue.Store
		lock  queue.ReplayLock
		err   error
	)
	switch cfg.QueueBackend {
	case "sqlite":
		store, err = queue.NewSQLiteStore(ctx, cfg.SQLitePath, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite queue store failed")
		}
		logger.Info().Str("path", cfg.SQLitePath).Msg("using sqlite queue store")
	case "postgres":
		store, err = queue.NewPostgresStore(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres queue store failed")
		}
		logger.Info().Msg("using postgres queue store")
	case "redis":
		redisStore, rerr := queue.NewRedisStore(ctx, cfg.RedisURL, cfg.Namespace, logger)
		if rerr != nil {
			logger.Fatal().Err(rerr).Msg("redis queue store failed")
		}
		// Shared stores need cross-process replay exclusion.
		lock = queue.NewRedisLock(redisStore.Client(), cfg.Namespace, 2*time.Minute)
		store = redisStore
		logger.Info().Str("namespace", cfg.Namespace).Msg("using redis queue store")
	default:
		store = queue.NewFileStore(cfg.QueuePath, logger)
		logger.Info().Str("path", cfg.QueuePath).Msg("using file queue store")
	}
	defer store.Close()

	// Connectivity monitor
	var probe netwatch.Probe
	if cfg.ProbeAddr != "" {
		probe = netwatch.DialProbe(cfg.ProbeAddr, 3*time.Second)
	}
	monitor := netwatch.NewMonitor(probe, cfg.ProbeInterval, logger)
	go monitor.Run(ctx)

	// Replay engine with an HTTP forwarder to the chat-send endpoint
	engineOpts := []replay.Option{}
	if lock != nil {
		engineOpts = append(engineOpts, replay.WithLock(lock))
	}
	engine := replay.NewEngine(store, monitor, logger, engineOpts...)

	var send replay.SendFunc
	if cfg.UpstreamURL != "" {
		send = replay.NewHTTPSender(cfg.UpstreamURL, nil)
	}

	// Connectivity returning is the natural replay trigger.
	if send != nil {
		cancelWatch := monitor.Watch(func() {
			go engine.Replay(ctx, send, nil, func(res replay.Result) {
				logger.Info().Int("sent", res.Sent).Int("failed", res.Failed).Msg("replay pass completed")
			})
		}, nil)
		defer cancelWatch()
	}

	// Cognitive context cache
	var fetch cogctx.FetchFunc
	if cfg.CognitiveURL != "" {
		fetch = cogctx.HTTPFetcher(cfg.CognitiveURL, nil)
	}
	cache := cogctx.NewCache(fetch, logger)

	// Intelligence orchestrator
	orch := enrich.NewOrchestrator(cache, monitor, enrich.WithDeviceClass(cfg.DeviceClass))

	// Create router
	h := handlers.NewHandler(store, engine, orch, cache, monitor, send, logger)
	router := api.NewRouter(logger, h)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // replay passes back off between attempts
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("backend", cfg.QueueBackend).
			Msg("starting boardroom sidecar")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down sidecar...")
	stop()

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("sidecar stopped")
}
