package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 20*time.Second, cfg.PageLoadTimeout)
	assert.Equal(t, "https://rozetka.com.ua/ua/", cfg.BaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty url", mutate: func(c *Config) { c.BaseURL = "" }},
		{name: "no host", mutate: func(c *Config) { c.BaseURL = "/ua/" }},
		{name: "driver", mutate: func(c *Config) { c.Driver = "selenium" }},
		{name: "viewport", mutate: func(c *Config) { c.Width = 0 }},
		{name: "page load timeout", mutate: func(c *Config) { c.PageLoadTimeout = 0 }},
		{name: "element timeout", mutate: func(c *Config) { c.ElementTimeout = -time.Second }},
		{name: "poll above timeout", mutate: func(c *Config) { c.PollInterval = time.Minute }},
		{name: "scenario shorter than page load", mutate: func(c *Config) { c.ScenarioTimeout = time.Second }},
		{name: "recording without fps", mutate: func(c *Config) { c.RecordDir = "out"; c.FPS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"STORECHECK_BASE_URL":          "http://127.0.0.1:8080/ua/",
		"STORECHECK_DRIVER":            "chromedp",
		"STORECHECK_HEADLESS":          "false",
		"STORECHECK_PAGE_LOAD_TIMEOUT": "5",
		"STORECHECK_ELEMENT_TIMEOUT":   "1500ms",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080/ua/", cfg.BaseURL)
	assert.Equal(t, "chromedp", cfg.Driver)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 5*time.Second, cfg.PageLoadTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.ElementTimeout)
}

func TestFromEnvLongPageLoad(t *testing.T) {
	env := map[string]string{"STORECHECK_PAGE_LOAD_TIMEOUT": "5m"}
	cfg, err := FromEnv(envMap(env))
	require.NoError(t, err)
	assert.Error(t, cfg.Validate(), "default scenario timeout is shorter than 5m")

	env["STORECHECK_SCENARIO_TIMEOUT"] = "10m"
	cfg, err = FromEnv(envMap(env))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.ScenarioTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvRejectsGarbage(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{"STORECHECK_HEADLESS": "sometimes"}))
	assert.ErrorContains(t, err, "STORECHECK_HEADLESS")

	_, err = FromEnv(envMap(map[string]string{"STORECHECK_PAGE_LOAD_TIMEOUT": "soon"}))
	assert.ErrorContains(t, err, "STORECHECK_PAGE_LOAD_TIMEOUT")

	_, err = FromEnv(envMap(map[string]string{"STORECHECK_SCENARIO_TIMEOUT": "later"}))
	assert.ErrorContains(t, err, "STORECHECK_SCENARIO_TIMEOUT")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("STORECHECK_TEST_DOTENV=loaded\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("STORECHECK_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(file, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("STORECHECK_TEST_DOTENV"))
}
