package config

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/tada/internal/model"
)

// DefaultSeedURL is the public todo list used to seed an empty session.
const DefaultSeedURL = "https://dummyjson.com/todos"

// RandomSkip asks for a random seed offset in [0, MaxRandomSkip].
const (
	RandomSkip    = -1
	MaxRandomSkip = 100
)

// Config holds runtime settings for tada.
type Config struct {
	SeedURL       string
	SeedLimit     int
	SeedSkip      int
	SeedTimeout   time.Duration
	SeedStaleTime time.Duration
	SeedFile      string
	NoSeed        bool

	Theme       string
	DisplayName string

	LogLevel string
	LogFile  string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		SeedURL:       DefaultSeedURL,
		SeedLimit:     5,
		SeedSkip:      RandomSkip,
		SeedTimeout:   10 * time.Second,
		SeedStaleTime: 5 * time.Minute,
		Theme:         string(model.ThemeLight),
		DisplayName:   model.DefaultDisplayName,
		LogLevel:      "info",
	}
}

// Validate checks the configuration and normalizes derived values.
func (c *Config) Validate() error {
	theme, ok := model.ParseTheme(c.Theme)
	if !ok {
		return fmt.Errorf("theme must be light or dark, got %q", c.Theme)
	}
	c.Theme = string(theme)

	if c.SeedLimit <= 0 {
		return fmt.Errorf("seed limit must be positive")
	}
	if c.SeedSkip < RandomSkip {
		return fmt.Errorf("seed skip must be >= 0 (or -1 for random)")
	}
	if c.SeedTimeout <= 0 {
		return fmt.Errorf("seed timeout must be positive")
	}
	if c.SeedStaleTime < 0 {
		return fmt.Errorf("seed stale time must not be negative")
	}

	c.SeedURL = strings.TrimRight(c.SeedURL, "/")
	if c.SeedURL == "" {
		c.SeedURL = DefaultSeedURL
	}
	return nil
}

// Prefs returns the preferences a new session starts with.
func (c Config) Prefs() model.Prefs {
	theme, ok := model.ParseTheme(c.Theme)
	if !ok {
		theme = model.ThemeLight
	}
	return model.Prefs{Theme: theme, DisplayName: c.DisplayName}
}

// ResolveSkip returns the configured skip, drawing from rnd when random.
func (c Config) ResolveSkip(rnd *rand.Rand) int {
	if c.SeedSkip != RandomSkip {
		return c.SeedSkip
	}
	return rnd.Intn(MaxRandomSkip + 1)
}

// DefaultConfigPath returns ~/.tada/config.toml when the home directory is known.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".tada", "config.toml")
	}
	return ""
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// configSetter applies values while respecting flag precedence: a value is
// only applied if the corresponding flag has not been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses environment strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
