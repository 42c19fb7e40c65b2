package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"rocket-tracker/internal/platform/config"
	"rocket-tracker/internal/platform/logger"
	"rocket-tracker/internal/platform/metrics"
	"rocket-tracker/internal/tracker"
	"rocket-tracker/internal/tracker/sqlite"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	_ = config.Load()

	cfg, err := config.Parse()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		log.Error("storage init failed", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	svc := tracker.NewService(repo)
	met := metrics.New()
	h := tracker.NewHandler(svc, log, met)

	limits := tracker.DefaultRateLimits
	if cfg.DisableLimits {
		limits = tracker.RateLimits{}
	}

	r := newRouter(log, met, svc, h, limits)

	addr := ":" + cfg.Port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", cfg.Port,
		"storage", cfg.StorageDriver,
		"log_level", cfg.LogLevel,
		"rate_limits", !cfg.DisableLimits,
		"dev", cfg.Dev,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		closeRepo()
		os.Exit(1)
	}

	log.Info("server stopped")
}

// openRepository builds the configured storage backend. The returned close
// func is safe to call more than once.
func openRepository(cfg config.Config) (tracker.Repository, func(), error) {
	if cfg.StorageDriver != config.StorageSQLite {
		return tracker.NewInMemoryRepository(), func() {}, nil
	}

	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	store, err := sqlite.Open(context.Background(), cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	closed := false
	return store, func() {
		if !closed {
			closed = true
			_ = store.Close()
		}
	}, nil
}

// newRouter wires the middleware chain and every route. RequestLogger sits
// outside Recoverer so that a recovered panic is still logged as a 500.
func newRouter(log *slog.Logger, met *metrics.Metrics, svc *tracker.Service, h *tracker.Handler, limits tracker.RateLimits) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logger.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() {
			f, err := svc.Fleet(r.Context())
			if err != nil {
				log.Warn("fleet gauge refresh failed", "error", err)
				return
			}
			met.SetFleetSize(len(f.Boosters), len(f.Ships))
		}).ServeHTTP(w, r)
	})
	h.Mount(r, limits)
	return r
}
