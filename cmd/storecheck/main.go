package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/v0xg/storecheck/internal/browser"
	"github.com/v0xg/storecheck/internal/config"
	"github.com/v0xg/storecheck/internal/executor"
	"github.com/v0xg/storecheck/internal/metrics"
	"github.com/v0xg/storecheck/internal/scenario"
	"github.com/v0xg/storecheck/internal/suite"
)

var (
	baseURL         string
	driver          string
	remoteURL       string
	headless        bool
	width           int
	height          int
	timeout         time.Duration
	elementTimeout  time.Duration
	scenarioTimeout time.Duration
	recordDir       string
	fps             int
	metricsFile     string
	profile         string
	verbose         bool
)

// errScenariosFailed exits non-zero without another error line; the summary
// already says what failed
var errScenariosFailed = errors.New("scenarios failed")

func main() {
	// Load .env file if present
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "storecheck",
		Short: "End-to-end UI checks for the Rozetka storefront",
		Long: `storecheck drives a real Chromium against the storefront and verifies the
default page layout and the basic add-to-basket flow.

Example:
  storecheck run
  storecheck run basic-flow --record out/ --headless=false`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd := newRunCmd()

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available scenarios",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, sc := range scenario.All() {
				fmt.Fprintf(w, "%s\t%s\n", sc.Name, sc.Description)
			}
			w.Flush()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")
	rootCmd.AddCommand(runCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errScenariosFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// newRunCmd builds the run command with its flags bound to the package vars
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [scenario...]",
		Short: "Run all scenarios, or only the named ones",
		RunE:  run,
	}
	runCmd.Flags().StringVar(&baseURL, "url", "", "Storefront home page (default: from env or https://rozetka.com.ua/ua/)")
	runCmd.Flags().StringVar(&driver, "driver", "", "Browser driver: rod, chromedp")
	runCmd.Flags().StringVar(&remoteURL, "remote-url", "", "DevTools endpoint of an already running browser")
	runCmd.Flags().BoolVar(&headless, "headless", true, "Run the browser without a window")
	runCmd.Flags().IntVar(&width, "width", 1280, "Viewport width")
	runCmd.Flags().IntVar(&height, "height", 720, "Viewport height")
	runCmd.Flags().DurationVar(&timeout, "timeout", 20*time.Second, "Page load timeout")
	runCmd.Flags().DurationVar(&elementTimeout, "element-timeout", 4*time.Second, "How long element lookups wait")
	runCmd.Flags().DurationVar(&scenarioTimeout, "scenario-timeout", 3*time.Minute, "Time limit for one scenario")
	runCmd.Flags().StringVar(&recordDir, "record", "", "Write a GIF per scenario under this directory")
	runCmd.Flags().IntVar(&fps, "fps", 2, "Frames per second of recordings")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	runCmd.Flags().StringVar(&profile, "profile", "", "Chrome/Chromium profile directory (close browser first)")
	return runCmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scenarios, err := selectScenarios(args)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Verbose)
	logger.Debug("starting storecheck",
		slog.String("url", cfg.BaseURL),
		slog.String("driver", cfg.Driver),
		slog.Bool("headless", cfg.Headless),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("→ Launching %s browser... ", cfg.Driver)
	b, err := browser.Launch(browser.Options{
		Driver:     cfg.Driver,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Headless:   cfg.Headless,
		RemoteURL:  cfg.RemoteURL,
		ProfileDir: profile,
	})
	if err != nil {
		fmt.Println("failed")
		return fmt.Errorf("browser launch failed: %w", err)
	}
	defer b.Close()
	fmt.Println("done")

	report := suite.Run(ctx, b, scenarios, suite.Options{
		Scenario: scenario.Options{
			HomeURL:         cfg.BaseURL,
			PageLoadTimeout: cfg.PageLoadTimeout,
			ElementTimeout:  cfg.ElementTimeout,
			PollInterval:    cfg.PollInterval,
		},
		Timeout:     cfg.ScenarioTimeout,
		RecordDir:   cfg.RecordDir,
		FPS:         cfg.FPS,
		Metrics:     metrics.New(),
		MetricsFile: cfg.MetricsFile,
		OnStart: func(sc scenario.Scenario) {
			fmt.Printf("→ %s: %s... ", sc.Name, sc.Description)
		},
		OnDone: func(res *executor.Result) {
			if res.Passed() {
				fmt.Printf("done (%s)\n", res.Duration.Round(time.Millisecond))
			} else {
				fmt.Println("failed")
				fmt.Printf("  %v\n", res.Err)
			}
		},
	}, logger)

	printSummary(report)
	for name, path := range report.Recordings {
		fmt.Printf("✓ Saved %s recording to %s\n", name, path)
	}

	if n := report.Failed(); n > 0 {
		fmt.Printf("✗ %d of %d scenarios failed\n", n, len(report.Results))
		return errScenariosFailed
	}
	fmt.Printf("✓ All %d scenarios passed\n", len(report.Results))
	return nil
}

// loadConfig layers explicitly set flags over STORECHECK_* env vars over
// the defaults
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.BaseURL = baseURL
	}
	if flags.Changed("driver") {
		cfg.Driver = driver
	}
	if flags.Changed("remote-url") {
		cfg.RemoteURL = remoteURL
	}
	if flags.Changed("headless") {
		cfg.Headless = headless
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("timeout") {
		cfg.PageLoadTimeout = timeout
	}
	if flags.Changed("element-timeout") {
		cfg.ElementTimeout = elementTimeout
	}
	if flags.Changed("scenario-timeout") {
		cfg.ScenarioTimeout = scenarioTimeout
	}
	if flags.Changed("record") {
		cfg.RecordDir = recordDir
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = metricsFile
	}
	cfg.Verbose = verbose

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func selectScenarios(names []string) ([]scenario.Scenario, error) {
	if len(names) == 0 {
		return scenario.All(), nil
	}
	var out []scenario.Scenario
	for _, name := range names {
		sc, ok := scenario.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q (see storecheck list)", name)
		}
		out = append(out, sc)
	}
	return out, nil
}

func printSummary(report *suite.Report) {
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "SCENARIO\tRESULT\tSTEPS\tDURATION\n")
	for _, res := range report.Results {
		result := "PASS"
		if !res.Passed() {
			result = "FAIL"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", res.Scenario, result, len(res.Steps), res.Duration.Round(time.Millisecond))
	}
	w.Flush()
	fmt.Printf("run id: %s\n\n", report.RunID)
}

// newLogger writes to stderr so progress lines on stdout stay readable.
// Without --verbose only warnings and errors are shown.
func newLogger(verbose bool) *slog.Logger {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelWarn)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
