package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"smartstock-ledger"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		// SQLite database path. Use ":memory:" for an in-memory database.
		Path string `envconfig:"DB_PATH" default:"smartstock.db"`
	}

	Auth struct {
		JWTSecret     string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
		TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
		AdminUser     string        `envconfig:"ADMIN_USER" default:"admin"`
		AdminPassword string        `envconfig:"ADMIN_PASSWORD" default:"admin"`
	}

	Server struct {
		ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
		WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
		IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	}

	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
	}
}

// Load reads configuration from the environment, honoring a .env file
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
