package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string        `env:"PORT,        default=3001"`
	Env        string        `env:"ENV,         default=development"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	JWTSecret  string        `env:"JWT_SECRET,  required"`
	JWTTTL     time.Duration `env:"JWT_TTL,     default=2h"`
	CORSOrigin []string      `env:"CORS_ORIGIN, default=http://localhost:5173"`
	UploadDir  string        `env:"UPLOAD_DIR,  default=uploads"`
	SeedUsers  bool          `env:"SEED_USERS,  default=false"`

	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=financeapp"`
}

// RedisConfig leaves Addr empty to run without Redis.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=10"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,   default=5s"`
}

type RateLimitConfig struct {
	Enabled  bool          `env:"RATE_LIMIT_ENABLED,  default=true"`
	Requests int           `env:"RATE_LIMIT_REQUESTS, default=20"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW,   default=1m"`
}

type AuditConfig struct {
	Workers        int           `env:"AUDIT_WORKERS,         default=4"`
	Buffer         int           `env:"AUDIT_BUFFER,          default=256"`
	EnqueueTimeout time.Duration `env:"AUDIT_ENQUEUE_TIMEOUT, default=100ms"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.RateLimit.Enabled && (cfg.RateLimit.Requests <= 0 || cfg.RateLimit.Window <= 0) {
		return nil, fmt.Errorf("config: RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	for i, o := range cfg.CORSOrigin {
		cfg.CORSOrigin[i] = strings.TrimSpace(o)
	}
	return &cfg, nil
}

// Development reports whether the service runs in a local environment.
func (c *Config) Development() bool {
	return c.Env == "" || c.Env == "development"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
