// Package browser launches Chromium through one of two drivers and exposes it
// as a dom.Browser.
package browser

import (
	"errors"
	"fmt"

	"github.com/v0xg/storecheck/internal/dom"
)

// Supported driver names
const (
	DriverRod      = "rod"
	DriverChromeDP = "chromedp"
)

// ErrNoBrowser is returned when no local Chromium could be found and no
// remote debugging URL was given
var ErrNoBrowser = errors.New("no chromium binary found")

// Options configures the browser launch
type Options struct {
	Driver     string
	Width      int
	Height     int
	Headless   bool
	RemoteURL  string // DevTools endpoint of an already running browser
	ProfileDir string // Chrome/Chromium profile directory
}

// Launch starts the browser with the configured driver
func Launch(opts Options) (dom.Browser, error) {
	if opts.Width == 0 {
		opts.Width = 1280
	}
	if opts.Height == 0 {
		opts.Height = 720
	}

	switch opts.Driver {
	case DriverRod, "":
		return LaunchRod(opts)
	case DriverChromeDP:
		return LaunchChromeDP(opts)
	default:
		return nil, fmt.Errorf("unknown driver: %s (supported: rod, chromedp)", opts.Driver)
	}
}
