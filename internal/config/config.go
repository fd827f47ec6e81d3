package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr   string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath     string     `env:"DB_PATH" envDefault:":memory:"`
	LogLevel   slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir     string     `env:"SPA_DIR" envDefault:"../web/dist"`
	PublicURL  string     `env:"PUBLIC_URL"`
	TokenCost  int        `env:"TOKEN_COST" envDefault:"10"`
	DotEnvPath string     `env:"DOTENV_PATH" envDefault:".env"`
}

// Load reads the environment, after merging in the dotenv file named by
// DOTENV_PATH when it exists. Variables already set are never overwritten.
func Load() (*Config, error) {
	pre, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := loadDotEnv(pre.DotEnvPath); err != nil {
		return nil, fmt.Errorf("loading %s: %w", pre.DotEnvPath, err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.TokenCost < 4 || cfg.TokenCost > 31 {
		return nil, fmt.Errorf("TOKEN_COST must be between 4 and 31, got %d", cfg.TokenCost)
	}
	return &cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
