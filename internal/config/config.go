package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds storecheck configuration.
type Config struct {
	BaseURL         string
	Driver          string // rod or chromedp
	RemoteURL       string
	Headless        bool
	Width           int
	Height          int
	PageLoadTimeout time.Duration // soft wait for the section title
	ElementTimeout  time.Duration // implicit wait for element lookups
	PollInterval    time.Duration
	ScenarioTimeout time.Duration
	RecordDir       string
	FPS             int
	MetricsFile     string
	Verbose         bool
}

// DefaultConfig returns the defaults for the live storefront.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "https://rozetka.com.ua/ua/",
		Driver:          "rod",
		Headless:        true,
		Width:           1280,
		Height:          720,
		PageLoadTimeout: 20 * time.Second,
		ElementTimeout:  4 * time.Second,
		PollInterval:    200 * time.Millisecond,
		ScenarioTimeout: 3 * time.Minute,
		FPS:             2,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.Driver != "rod" && c.Driver != "chromedp" {
		return fmt.Errorf("driver must be rod or chromedp")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.PageLoadTimeout <= 0 {
		return fmt.Errorf("page load timeout must be positive")
	}
	if c.ElementTimeout <= 0 {
		return fmt.Errorf("element timeout must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.PollInterval > c.ElementTimeout {
		return fmt.Errorf("poll interval (%s) cannot exceed element timeout (%s)", c.PollInterval, c.ElementTimeout)
	}
	if c.ScenarioTimeout < c.PageLoadTimeout {
		return fmt.Errorf("scenario timeout (%s) cannot be shorter than page load timeout (%s)", c.ScenarioTimeout, c.PageLoadTimeout)
	}
	if c.RecordDir != "" && c.FPS <= 0 {
		return fmt.Errorf("fps must be positive when recording")
	}

	return nil
}
