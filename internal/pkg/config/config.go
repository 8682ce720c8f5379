package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Port      string `env:"PORT,      default=8082"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	Storage   string `env:"STORAGE,   default=mongo"`

	BcryptCost         int           `env:"BCRYPT_COST,          default=10"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS, default=http://127.0.0.1:5500,http://localhost:5500"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT,     default=10s"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=app_api"`
}

// RedisConfig backs the Idempotency-Key store. An empty Addr disables it.
type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR,      default=localhost:6379"`
	DB             int           `env:"REDIS_DB,        default=0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

// String omits the JWT secret so the config can be logged.
func (c Config) String() string {
	return fmt.Sprintf("env=%s port=%s storage=%s mongo_db=%s redis_addr=%s log_level=%s",
		c.Env, c.Port, c.Storage, c.Mongo.Database, c.Redis.Addr, c.LogLevel)
}

// Load reads configuration from environment variables using go-envconfig.
// A missing JWT_SECRET is fatal.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}

	switch cfg.Storage {
	case StorageMongo, StorageMemory:
	default:
		return nil, fmt.Errorf("config: unknown STORAGE %q", cfg.Storage)
	}
	return &cfg, nil
}
