package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// APIBaseURL is the backend API root, e.g. http://192.168.43.5:8000/api.
	APIBaseURL string `env:"FIXIT_API_URL,   default=http://localhost:8000/api"`
	// ServerURL is the bare server root; uploaded images are served from
	// here, not from under the API prefix.
	ServerURL   string        `env:"FIXIT_SERVER_URL, default=http://localhost:8000"`
	HTTPTimeout time.Duration `env:"FIXIT_HTTP_TIMEOUT, default=30s"`

	PollInterval time.Duration `env:"FIXIT_POLL_INTERVAL, default=5s"`

	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=true"`

	// MetricsAddr, when set (e.g. ":9091"), exposes Prometheus metrics for
	// long-running commands.
	MetricsAddr string `env:"FIXIT_METRICS_ADDR"`

	Store StoreConfig
}

type StoreConfig struct {
	// Driver selects the session store backend: "sqlite" (embedded,
	// per-device default) or "redis" (shared, for headless fleets).
	Driver     string `env:"FIXIT_STORE_DRIVER, default=sqlite"`
	SQLitePath string `env:"FIXIT_STORE_PATH,  default=fixit-session.db"`

	Redis RedisConfig
}

type RedisConfig struct {
	Addr string `env:"FIXIT_REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"FIXIT_REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
