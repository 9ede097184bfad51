package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings, populated from the environment
type Config struct {
	MongoURI      string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string        `env:"MONGO_DB" envDefault:"ceezaa"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	HTTPPort      string        `env:"PORT" envDefault:"8080"`
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"dev-secret-change-in-production"`
	AppHost       string        `env:"APP_HOST" envDefault:"ceezaa.app"`
	SnapshotTTL   time.Duration `env:"SNAPSHOT_TTL" envDefault:"24h"`
	CodeTTL       time.Duration `env:"CODE_TTL" envDefault:"168h"`
	CORSOrigins   []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load parses the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
