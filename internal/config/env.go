package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnvConfig applies TADA_* environment variables. They override the
// config file but lose to explicitly set flags.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("seed-url", os.Getenv("TADA_SEED_URL"), &cfg.SeedURL)
	s.setString("seed-file", os.Getenv("TADA_SEED_FILE"), &cfg.SeedFile)
	s.setString("theme", os.Getenv("TADA_THEME"), &cfg.Theme)
	s.setString("name", os.Getenv("TADA_DISPLAY_NAME"), &cfg.DisplayName)
	s.setString("log-level", os.Getenv("TADA_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-file", os.Getenv("TADA_LOG_FILE"), &cfg.LogFile)

	if err := s.setIntFromString("limit", os.Getenv("TADA_SEED_LIMIT"), &cfg.SeedLimit); err != nil {
		return err
	}
	if err := s.setIntFromString("skip", os.Getenv("TADA_SEED_SKIP"), &cfg.SeedSkip); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("TADA_SEED_TIMEOUT"), &cfg.SeedTimeout); err != nil {
		return err
	}
	if err := s.setDuration("stale-time", os.Getenv("TADA_SEED_STALE_TIME"), &cfg.SeedStaleTime); err != nil {
		return err
	}

	s.setBoolFromString("no-seed", os.Getenv("TADA_NO_SEED"), &cfg.NoSeed)
	return nil
}
