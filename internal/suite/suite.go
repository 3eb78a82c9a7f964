// Package suite runs a set of scenarios against one browser, each on its own
// fresh page, and optionally records them as GIFs.
package suite

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/v0xg/storecheck/internal/dom"
	"github.com/v0xg/storecheck/internal/executor"
	"github.com/v0xg/storecheck/internal/gifgen"
	"github.com/v0xg/storecheck/internal/metrics"
	"github.com/v0xg/storecheck/internal/overlay"
	"github.com/v0xg/storecheck/internal/scenario"
)

// Options configures a suite run
type Options struct {
	Scenario scenario.Options
	Timeout  time.Duration // per scenario, 0 means no limit

	RecordDir string
	FPS       int

	Metrics     *metrics.Metrics
	MetricsFile string

	// RunID tags results, log records and the recording directory.
	// A random one is generated when empty.
	RunID string

	// OnStart is called before each scenario, OnDone after it.
	OnStart func(sc scenario.Scenario)
	OnDone  func(res *executor.Result)
}

// Report is the outcome of a suite run
type Report struct {
	RunID      string
	Results    []*executor.Result
	Recordings map[string]string // scenario name -> GIF path
}

// Failed counts scenarios that did not pass
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed() {
			n++
		}
	}
	return n
}

// Run executes scenarios one after another. A failing scenario never stops
// the ones after it.
func Run(ctx context.Context, b dom.Browser, scenarios []scenario.Scenario, opts Options, logger *slog.Logger) *Report {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	logger = logger.With(slog.String("run_id", opts.RunID))

	report := &Report{RunID: opts.RunID, Recordings: map[string]string{}}
	for _, sc := range scenarios {
		if opts.OnStart != nil {
			opts.OnStart(sc)
		}

		res := runOne(ctx, b, sc, opts, logger)
		report.Results = append(report.Results, res)

		if opts.RecordDir != "" {
			if path, err := record(res, opts); err != nil {
				logger.Warn("recording failed", slog.String("scenario", sc.Name), slog.Any("error", err))
			} else if path != "" {
				report.Recordings[sc.Name] = path
			}
		}

		if opts.OnDone != nil {
			opts.OnDone(res)
		}
	}

	if err := opts.Metrics.WriteTextfile(opts.MetricsFile); err != nil {
		logger.Warn("metrics not written", slog.Any("error", err))
	}

	logger.Info("suite finished",
		slog.Int("scenarios", len(report.Results)),
		slog.Int("failed", report.Failed()),
	)
	return report
}

func runOne(ctx context.Context, b dom.Browser, sc scenario.Scenario, opts Options, logger *slog.Logger) *executor.Result {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	log := logger.With(slog.String("scenario", sc.Name))

	page, err := b.NewPage(ctx)
	if err != nil {
		log.Error("could not open page", slog.Any("error", err))
		opts.Metrics.ScenarioDone(sc.Name, false)
		return &executor.Result{
			Scenario: sc.Name,
			RunID:    opts.RunID,
			Err:      fmt.Errorf("open page: %w", err),
		}
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Debug("page close failed", slog.Any("error", err))
		}
	}()

	runner := executor.New(page, executor.Options{
		RunID:     opts.RunID,
		Record:    opts.RecordDir != "",
		ErrorType: scenario.ErrorType,
	}, logger, opts.Metrics)
	session := scenario.NewSession(page, opts.Scenario, log, runner)

	return runner.Run(ctx, sc.Name, sc.Steps(session))
}

// record writes the frames of res to <RecordDir>/<run id>/<scenario>.gif
func record(res *executor.Result, opts Options) (string, error) {
	if len(res.Frames) == 0 {
		return "", nil
	}

	frames, err := overlay.ApplyCursor(res.Frames, res.CursorPositions)
	if err != nil {
		return "", err
	}
	if !res.Passed() {
		frames[len(frames)-1] = overlay.MarkFailure(frames[len(frames)-1])
	}

	path := filepath.Join(opts.RecordDir, opts.RunID, res.Scenario+".gif")
	if _, err := gifgen.Write(path, frames, gifgen.Options{FPS: opts.FPS}); err != nil {
		return "", err
	}
	return path, nil
}
