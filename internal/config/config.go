package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `yaml:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
	IdleTimeout       Duration `yaml:"idle_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout"`
	MaxRequestBytes   int64    `yaml:"max_request_bytes"`
}

type DBConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	// Addr enables the knowledge snapshot cache when set.
	Addr string   `yaml:"addr"`
	Key  string   `yaml:"key"`
	TTL  Duration `yaml:"ttl"`
}

type UpstreamConfig struct {
	// Type is "oai_http" or "mock".
	Type                string   `yaml:"type"`
	BaseURL             string   `yaml:"base_url"`
	ChatCompletionsPath string   `yaml:"chat_completions_path"`
	APIKey              string   `yaml:"api_key"`
	Model               string   `yaml:"model"`
	Timeout             Duration `yaml:"timeout"`
	// StreamTimeout bounds a whole streamed response. Zero means no bound beyond the caller.
	StreamTimeout Duration `yaml:"stream_timeout"`
}

type KnowledgeConfig struct {
	FetchTimeout Duration `yaml:"fetch_timeout"`
}

type ChatConfig struct {
	// PublicKey, when set, must match the bearer token on chat requests.
	PublicKey    string   `yaml:"public_key"`
	LogQueueSize int      `yaml:"log_queue_size"`
	LogWorkers   int      `yaml:"log_workers"`
	LogTimeout   Duration `yaml:"log_timeout"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type Config struct {
	Env       string          `yaml:"env"`
	HTTP      HTTPConfig      `yaml:"http"`
	DB        DBConfig        `yaml:"db"`
	Redis     RedisConfig     `yaml:"redis"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Chat      ChatConfig      `yaml:"chat"`
	Auth      AuthConfig      `yaml:"auth"`
}
