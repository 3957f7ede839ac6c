package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/rift/internal/adapters/http/api"
	"github.com/okian/rift/internal/adapters/http/swagger"
	"github.com/okian/rift/internal/adapters/upstream"
	app "github.com/okian/rift/internal/app"
	"github.com/okian/rift/internal/config"
	"github.com/okian/rift/pkg/logger"
	"github.com/okian/rift/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "rift exited", logger.Error(err))
		os.Exit(1)
	}
}

// run serves until ctx is cancelled, then shuts down within the configured
// timeout.
func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	source := newSource(cfg)
	if err := source.Warm(ctx); err != nil {
		// queries answer from whatever the first refresh brings in
		log.Warn(ctx, "upstream warm-up failed", logger.Error(err))
	}

	svc, err := newService(cfg, source, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := svc.Stop(shutdownCtx); err != nil {
			log.Error(ctx, "service stop failed", logger.Error(err))
		}
	}()

	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

func newSource(cfg *config.Config) *upstream.Source {
	common := []upstream.Option{
		upstream.WithRate(cfg.UpstreamRPS, cfg.UpstreamBurst),
		upstream.WithTimeout(cfg.UpstreamTimeout),
	}
	gg := upstream.NewChampionGG(cfg.ChampionGGURL, append(common, upstream.WithAPIKey(cfg.ChampionGGKey))...)
	riot := upstream.NewRiot(cfg.RiotURL, append(common, upstream.WithAPIKey(cfg.RiotKey))...)
	return upstream.NewSource(gg, riot)
}

func newService(cfg *config.Config, source *upstream.Source, log logger.Logger) (*app.Service, error) {
	return app.New(
		app.WithLogger(log),
		app.WithLoader(source),
		app.WithSummonerLookup(source),
		app.WithDatabasePath(cfg.DatabasePath),
		app.WithCacheTTL(cfg.CacheTTL),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupe(cfg.DedupeSize, cfg.DedupeLease),
		app.WithResolverThreshold(cfg.ResolverThreshold),
		app.WithMaxListSize(cfg.MaxListSize),
		app.WithRefreshSchedule(cfg.RefreshSchedule, cfg.Location(), cfg.RefreshOnStart),
	)
}

func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

// startServiceMetricsUpdater publishes service gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if workerCount, ok := stats["workerCount"].(int); ok {
		metrics.UpdateWorkerCount(workerCount)
	}
	if queueSize, ok := stats["queueSize"].(int); ok {
		metrics.UpdateQueueCapacity(queueSize)
	}
	if active, ok := stats["jobsActive"].(int64); ok {
		metrics.UpdateWorkerActiveCount(int(active))
	}
}
