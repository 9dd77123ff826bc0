package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/superfunded-backend/internal/platform/envutil"
)

const (
	DefaultBaseURL = "https://ai.gateway.lovable.dev"
	DefaultModel   = "google/gemini-3-flash-preview"
)

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	s := strings.TrimSpace(node.Value)
	if s == "" || s == "null" || s == "~" {
		d.Duration = 0
		return nil
	}
	if dd, err := time.ParseDuration(s); err == nil {
		d.Duration = dd
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or an integer of seconds: %q", s)
	}
	d.Duration = time.Duration(n) * time.Second
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   1 << 20,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DSN:    "file:superfunded.db?_busy_timeout=5000",
		},
		Redis: RedisConfig{
			Key: "superfunded:knowledge:snapshot",
			TTL: Duration{Duration: 30 * time.Second},
		},
		Upstream: UpstreamConfig{
			Type:                "oai_http",
			BaseURL:             DefaultBaseURL,
			ChatCompletionsPath: "/v1/chat/completions",
			Model:               DefaultModel,
			Timeout:             Duration{Duration: 60 * time.Second},
		},
		Knowledge: KnowledgeConfig{
			FetchTimeout: Duration{Duration: 3 * time.Second},
		},
		Chat: ChatConfig{
			LogQueueSize: 256,
			LogWorkers:   2,
			LogTimeout:   Duration{Duration: 5 * time.Second},
		},
	}
}

// Load resolves config as defaults, then an optional YAML file, then environment overrides.
func Load() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("SF_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
		// Decoding over the defaults keeps any key the file leaves out.
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)

	if err := normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String(cfg.Env, "LOG_MODE")
	cfg.HTTP.Addr = envutil.String(cfg.HTTP.Addr, "SF_HTTP_ADDR")
	cfg.DB.Driver = envutil.String(cfg.DB.Driver, "DB_DRIVER")
	cfg.DB.DSN = envutil.String(cfg.DB.DSN, "DATABASE_URL")
	cfg.Redis.Addr = envutil.String(cfg.Redis.Addr, "REDIS_ADDR")
	cfg.Upstream.APIKey = envutil.String(cfg.Upstream.APIKey, "AI_GATEWAY_API_KEY", "LOVABLE_API_KEY")
	cfg.Upstream.BaseURL = envutil.String(cfg.Upstream.BaseURL, "AI_GATEWAY_BASE_URL")
	cfg.Upstream.Model = envutil.String(cfg.Upstream.Model, "AI_MODEL")
	cfg.Upstream.Type = envutil.String(cfg.Upstream.Type, "AI_ENGINE")
	cfg.Chat.PublicKey = envutil.String(cfg.Chat.PublicKey, "CHAT_PUBLIC_KEY")
	cfg.Auth.JWTSecret = envutil.String(cfg.Auth.JWTSecret, "ADMIN_JWT_SECRET")
	cfg.Knowledge.FetchTimeout.Duration = envutil.Duration("KNOWLEDGE_FETCH_TIMEOUT", cfg.Knowledge.FetchTimeout.Duration)
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 1 << 20
	}

	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	switch cfg.DB.Driver {
	case "postgres", "sqlite":
	case "postgresql", "pg":
		cfg.DB.Driver = "postgres"
	default:
		return fmt.Errorf("invalid db.driver=%q", cfg.DB.Driver)
	}
	if strings.TrimSpace(cfg.DB.DSN) == "" {
		return fmt.Errorf("db.dsn is required")
	}

	if strings.TrimSpace(cfg.Redis.Key) == "" {
		cfg.Redis.Key = "superfunded:knowledge:snapshot"
	}
	if cfg.Redis.TTL.Duration <= 0 {
		cfg.Redis.TTL = Duration{Duration: 30 * time.Second}
	}

	u := &cfg.Upstream
	u.Type = strings.ToLower(strings.TrimSpace(u.Type))
	switch u.Type {
	case "", "oai_http", "openai_http":
		u.Type = "oai_http"
		u.BaseURL = strings.TrimRight(strings.TrimSpace(u.BaseURL), "/")
		if u.BaseURL == "" {
			return fmt.Errorf("upstream.base_url is required for oai_http")
		}
		if strings.TrimSpace(u.ChatCompletionsPath) == "" {
			u.ChatCompletionsPath = "/v1/chat/completions"
		}
	case "mock":
	default:
		return fmt.Errorf("invalid upstream.type=%q", u.Type)
	}
	if strings.TrimSpace(u.Model) == "" {
		u.Model = DefaultModel
	}
	if u.Timeout.Duration <= 0 {
		u.Timeout = Duration{Duration: 60 * time.Second}
	}
	if u.StreamTimeout.Duration < 0 {
		return fmt.Errorf("invalid upstream.stream_timeout")
	}

	if cfg.Knowledge.FetchTimeout.Duration <= 0 {
		cfg.Knowledge.FetchTimeout = Duration{Duration: 3 * time.Second}
	}

	if cfg.Chat.LogQueueSize <= 0 {
		cfg.Chat.LogQueueSize = 256
	}
	if cfg.Chat.LogWorkers <= 0 {
		cfg.Chat.LogWorkers = 2
	}
	if cfg.Chat.LogTimeout.Duration <= 0 {
		cfg.Chat.LogTimeout = Duration{Duration: 5 * time.Second}
	}
	return nil
}
