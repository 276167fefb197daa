// Package app builds the timebox application from the environment.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alexanderramin/timebox/internal/keyring"
	"github.com/alexanderramin/timebox/internal/llm"
	"github.com/alexanderramin/timebox/internal/ratelimit"
)

// DBFile is the SQLite database created under the config directory.
const DBFile = "timebox.db"

// Config is everything read from the environment at startup.
type Config struct {
	ConfigDir string
	DBPath    string
	// SettingsDSN selects the PostgreSQL settings store when set.
	SettingsDSN string
	Debug       bool

	RateLimit  int
	RateWindow time.Duration

	CalendarID string
	LLM        llm.LLMConfig
}

// LoadConfig reads TIMEBOX_* variables. The settings DSN and model API key
// fall back to the OS keyring.
func LoadConfig() (Config, error) {
	cfg := Config{
		RateLimit:  ratelimit.DefaultLimit,
		RateWindow: ratelimit.DefaultWindow,
		CalendarID: os.Getenv("TIMEBOX_CALENDAR_ID"),
		LLM:        llm.LoadConfig(),
	}

	cfg.ConfigDir = os.Getenv("TIMEBOX_CONFIG_DIR")
	if cfg.ConfigDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.ConfigDir = filepath.Join(home, ".timebox")
	}

	cfg.DBPath = os.Getenv("TIMEBOX_DB")
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.ConfigDir, DBFile)
	}

	cfg.SettingsDSN = keyring.Lookup(keyring.SettingsDSN, os.Getenv("TIMEBOX_SETTINGS_DSN"))
	cfg.LLM.APIKey = keyring.Lookup(keyring.LLMAPIKey, cfg.LLM.APIKey)

	if v := os.Getenv("TIMEBOX_DEBUG"); v != "" {
		cfg.Debug, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TIMEBOX_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("TIMEBOX_RATE_LIMIT must be a positive integer, got %q", v)
		}
		cfg.RateLimit = n
	}
	if v := os.Getenv("TIMEBOX_RATE_WINDOW_SEC"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("TIMEBOX_RATE_WINDOW_SEC must be a positive integer, got %q", v)
		}
		cfg.RateWindow = time.Duration(n) * time.Second
	}
	return cfg, nil
}
