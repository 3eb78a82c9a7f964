package suite

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/storecheck/internal/browser"
	"github.com/v0xg/storecheck/internal/scenario"
)

// TestFixtureStore runs both scenarios in a real browser against a local
// storefront that renders with the same markup as the live one.
func TestFixtureStore(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a chromium binary")
	}

	srv := httptest.NewServer(http.FileServer(http.Dir("testdata")))
	defer srv.Close()

	for _, driver := range []string{browser.DriverRod, browser.DriverChromeDP} {
		t.Run(driver, func(t *testing.T) {
			b, err := browser.Launch(browser.Options{Driver: driver, Headless: true})
			if errors.Is(err, browser.ErrNoBrowser) {
				t.Skip("no chromium binary found")
			}
			require.NoError(t, err)
			defer b.Close()

			opts := Options{
				Scenario: scenario.Options{
					HomeURL:         srv.URL + "/store.html",
					PageLoadTimeout: 5 * time.Second,
					ElementTimeout:  4 * time.Second,
					PollInterval:    100 * time.Millisecond,
				},
				Timeout:   time.Minute,
				RecordDir: t.TempDir(),
			}

			report := Run(context.Background(), b, scenario.All(), opts, nil)

			require.Len(t, report.Results, 2)
			for _, res := range report.Results {
				assert.NoError(t, res.Err, res.Scenario)
				assert.Contains(t, report.Recordings, res.Scenario)
			}
		})
	}
}
