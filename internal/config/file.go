package config

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML-friendly types. Pointers mark values
// that may legitimately be zero.
type FileConfig struct {
	SeedURL       string `toml:"seed_url"`
	SeedLimit     *int   `toml:"seed_limit"`
	SeedSkip      *int   `toml:"seed_skip"`
	SeedTimeout   string `toml:"seed_timeout"`
	SeedStaleTime string `toml:"seed_stale_time"`
	SeedFile      string `toml:"seed_file"`
	NoSeed        *bool  `toml:"no_seed"`
	Theme         string `toml:"theme"`
	DisplayName   string `toml:"display_name"`
	LogLevel      string `toml:"log_level"`
	LogFile       string `toml:"log_file"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// ApplyFileConfig copies file values into cfg unless the matching flag was
// set explicitly.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("seed-url", fc.SeedURL, &cfg.SeedURL)
	s.setString("seed-file", fc.SeedFile, &cfg.SeedFile)
	s.setString("theme", fc.Theme, &cfg.Theme)
	s.setString("name", fc.DisplayName, &cfg.DisplayName)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-file", fc.LogFile, &cfg.LogFile)

	s.setInt("limit", fc.SeedLimit, &cfg.SeedLimit)
	s.setInt("skip", fc.SeedSkip, &cfg.SeedSkip)
	s.setBool("no-seed", fc.NoSeed, &cfg.NoSeed)

	if err := s.setDuration("timeout", fc.SeedTimeout, &cfg.SeedTimeout); err != nil {
		return err
	}
	if err := s.setDuration("stale-time", fc.SeedStaleTime, &cfg.SeedStaleTime); err != nil {
		return err
	}
	return nil
}
