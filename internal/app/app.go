package app

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/yungbote/superfunded-backend/internal/chat"
	"github.com/yungbote/superfunded-backend/internal/config"
	"github.com/yungbote/superfunded-backend/internal/data/db"
	"github.com/yungbote/superfunded-backend/internal/http"
	"github.com/yungbote/superfunded-backend/internal/knowledge"
	"github.com/yungbote/superfunded-backend/internal/observability"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	DB       *db.Service
	Repos    Repos
	Services Services
	Server   *nethttp.Server

	cache        *knowledge.RedisCache
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: http.ServiceName,
		Environment: cfg.Env,
	})

	store, err := db.NewService(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := db.AutoMigrateAll(store.DB()); err != nil {
		_ = store.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	reposet := wireRepos(store.DB(), log)
	cache := wireCache(log, cfg.Redis)

	serviceset, err := wireServices(log, cfg, reposet, cache)
	if err != nil {
		if cache != nil {
			_ = cache.Close()
		}
		_ = store.Close()
		log.Sync()
		return nil, err
	}

	routerCfg := wireRouter(log, cfg, reposet, serviceset)

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           store,
		Repos:        reposet,
		Services:     serviceset,
		Server:       http.NewServer(cfg.HTTP, routerCfg),
		cache:        cache,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves until ctx is done, then drains in-flight requests and pending interaction writes.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("http server listening", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Log.Warn("http shutdown incomplete", "error", err)
	}
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()

	if r, ok := a.Services.Recorder.(*chat.AsyncRecorder); ok {
		if err := r.Close(ctx); err != nil {
			a.Log.Warn("interaction recorder did not drain", "error", err)
		}
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("db close failed", "error", err)
		}
	}
	a.Log.Sync()
}

func (a *App) shutdownTimeout() time.Duration {
	if a.Cfg != nil && a.Cfg.HTTP.ShutdownTimeout.Duration > 0 {
		return a.Cfg.HTTP.ShutdownTimeout.Duration
	}
	return 10 * time.Second
}
