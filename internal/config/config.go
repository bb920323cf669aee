// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends selectable via STORAGE_BACKEND.
const (
	StorageFile   = "file"
	StorageMemory = "memory"
)

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,notEmpty"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`
	StoragePath    string `env:"STORAGE_PATH" envDefault:"datastore.json"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// LogFile enables rotated file output alongside the console when set.
	LogFile string `env:"LOG_FILE"`

	SyncCommandsOnStart bool `env:"SYNC_COMMANDS_ON_START" envDefault:"true"`
}

// Load parses the environment into a Config. A missing .env file is not an
// error; system environment variables always win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	switch cfg.StorageBackend {
	case StorageFile, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q (want %q or %q)",
			cfg.StorageBackend, StorageFile, StorageMemory)
	}

	return &cfg, nil
}
