package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Record store names accepted by RECORD_STORE.
const (
	StoreMongo = "mongo"
	StoreRedis = "redis"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs every identity token. It is read once at startup and
	// never changes for the life of the process.
	JWTSecret string `env:"JWT_SECRET, required"`

	RecordStore       string        `env:"RECORD_STORE,       default=mongo"`
	VerifyConcurrency int           `env:"VERIFY_CONCURRENCY, default=0"`
	AdminRole         string        `env:"ADMIN_ROLE,         default=admin"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,   default=10s"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database   string `env:"MONGO_DB,         default=identity"`
	Collection string `env:"MONGO_COLLECTION, default=users"`
	User       string `env:"MONGO_USER"`
	Password   string `env:"MONGO_PASSWORD"`
}

type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR,       default=localhost:6379"`
	DB        int    `env:"REDIS_DB,         default=0"`
	Password  string `env:"REDIS_PASSWORD"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX, default=identity:user:"`
}

// IsDevelopment reports whether the service runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks the cross-field rules envconfig cannot express.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	switch c.RecordStore {
	case StoreMongo, StoreRedis:
	default:
		return fmt.Errorf("RECORD_STORE must be %q or %q, got %q", StoreMongo, StoreRedis, c.RecordStore)
	}
	if c.VerifyConcurrency < 0 {
		return errors.New("VERIFY_CONCURRENCY must not be negative")
	}
	if c.AdminRole == "" {
		return errors.New("ADMIN_ROLE must not be empty")
	}
	return nil
}

// Parse reads configuration through lookuper and validates it.
func Parse(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := Parse(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
