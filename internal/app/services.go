package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/superfunded-backend/internal/auth"
	"github.com/yungbote/superfunded-backend/internal/chat"
	"github.com/yungbote/superfunded-backend/internal/config"
	"github.com/yungbote/superfunded-backend/internal/knowledge"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
	"github.com/yungbote/superfunded-backend/internal/upstream"
	"github.com/yungbote/superfunded-backend/internal/upstream/mock"
	"github.com/yungbote/superfunded-backend/internal/upstream/oaihttp"
)

type Services struct {
	Compositor *knowledge.Compositor
	Engine     upstream.Engine
	Recorder   chat.Recorder
	Chat       *chat.Service
	Verifier   auth.Verifier
}

func wireServices(log *logger.Logger, cfg *config.Config, r Repos, cache *knowledge.RedisCache) (Services, error) {
	log.Info("Wiring services...")

	opts := knowledge.Options{FetchTimeout: cfg.Knowledge.FetchTimeout.Duration}
	if cache != nil {
		opts.Cache = cache
	}
	compositor := knowledge.NewCompositor(log, r.FAQ, r.AiInfo, r.PromoCode, opts)

	engine, err := wireEngine(log, cfg.Upstream)
	if err != nil {
		return Services{}, err
	}

	recorder := chat.NewAsyncRecorder(log, r.ChatLog, chat.RecorderOptions{
		QueueSize: cfg.Chat.LogQueueSize,
		Workers:   cfg.Chat.LogWorkers,
		Timeout:   cfg.Chat.LogTimeout.Duration,
	})

	secret := strings.TrimSpace(cfg.Auth.JWTSecret)
	if secret == "" {
		log.Warn("ADMIN_JWT_SECRET not set; admin API will reject every request")
	}

	return Services{
		Compositor: compositor,
		Engine:     engine,
		Recorder:   recorder,
		Chat:       chat.NewService(log, compositor, engine, cfg.Upstream.Model, recorder),
		Verifier:   auth.NewJWTVerifier(secret),
	}, nil
}

func wireEngine(log *logger.Logger, cfg config.UpstreamConfig) (upstream.Engine, error) {
	switch cfg.Type {
	case "mock":
		log.Warn("using mock upstream engine")
		return mock.New(), nil
	case "", "oai_http":
		if strings.TrimSpace(cfg.APIKey) == "" {
			// Requests fail with a configuration error until a key is provided.
			log.Warn("AI gateway api key not configured")
		}
		e, err := oaihttp.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("init upstream engine: %w", err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown upstream type %q", cfg.Type)
	}
}

// wireCache connects the knowledge snapshot cache. Redis is optional; failures fall back to
// reading the store on every prompt.
func wireCache(log *logger.Logger, cfg config.RedisConfig) *knowledge.RedisCache {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil
	}
	cache, err := knowledge.NewRedisCache(log, cfg.Addr, cfg.Key, cfg.TTL.Duration)
	if err != nil {
		log.Warn("redis cache unavailable (continuing without cache)", "addr", cfg.Addr, "error", err)
		return nil
	}
	return cache
}
