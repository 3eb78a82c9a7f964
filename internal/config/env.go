package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given .env files (or ./.env) without
// overriding what is already set. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv applies STORECHECK_* overrides on top of the defaults
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	if v := getenv("STORECHECK_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := getenv("STORECHECK_DRIVER"); v != "" {
		cfg.Driver = v
	}
	if v := getenv("STORECHECK_REMOTE_URL"); v != "" {
		cfg.RemoteURL = v
	}
	if v := getenv("STORECHECK_RECORD_DIR"); v != "" {
		cfg.RecordDir = v
	}
	if v := getenv("STORECHECK_METRICS_FILE"); v != "" {
		cfg.MetricsFile = v
	}

	if v := getenv("STORECHECK_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid STORECHECK_HEADLESS: %w", err)
		}
		cfg.Headless = b
	}

	var err error
	if cfg.PageLoadTimeout, err = envDuration(getenv, "STORECHECK_PAGE_LOAD_TIMEOUT", cfg.PageLoadTimeout); err != nil {
		return nil, err
	}
	if cfg.ElementTimeout, err = envDuration(getenv, "STORECHECK_ELEMENT_TIMEOUT", cfg.ElementTimeout); err != nil {
		return nil, err
	}
	if cfg.ScenarioTimeout, err = envDuration(getenv, "STORECHECK_SCENARIO_TIMEOUT", cfg.ScenarioTimeout); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envDuration accepts either a Go duration ("20s") or a bare number of seconds
func envDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
