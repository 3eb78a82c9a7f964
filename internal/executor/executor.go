package executor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"time"

	"github.com/v0xg/storecheck/internal/dom"
	"github.com/v0xg/storecheck/internal/metrics"
)

// Options configures execution behavior
type Options struct {
	RunID  string
	Record bool // capture a frame after every step

	// ErrorType maps a step error to a metrics label. Defaults to "other".
	ErrorType func(error) string
}

// Runner executes scenario steps one after another on a single page
type Runner struct {
	page    dom.Page
	opts    Options
	log     *slog.Logger
	metrics *metrics.Metrics

	cursor CursorPosition
}

// New creates a runner bound to page. logger and m may be nil.
func New(page dom.Page, opts Options, logger *slog.Logger, m *metrics.Metrics) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ErrorType == nil {
		opts.ErrorType = func(error) string { return "other" }
	}
	return &Runner{
		page:    page,
		opts:    opts,
		log:     logger,
		metrics: m,
		cursor:  CursorPosition{X: 640, Y: 360, State: CursorDefault},
	}
}

// Track moves the recorded cursor to the given viewport position
func (r *Runner) Track(x, y int, click bool) {
	r.cursor = CursorPosition{X: x, Y: y, State: CursorPointer, Click: click}
}

// Run executes steps in order and stops at the first failure
func (r *Runner) Run(ctx context.Context, scenario string, steps []Step) *Result {
	result := &Result{Scenario: scenario, RunID: r.opts.RunID}
	log := r.log.With(slog.String("scenario", scenario))
	started := time.Now()

	for i, step := range steps {
		log.Debug("step started", slog.Int("index", i+1), slog.Int("total", len(steps)), slog.String("step", step.Name))

		start := time.Now()
		err := step.Do(ctx)
		elapsed := time.Since(start)

		result.Steps = append(result.Steps, StepResult{Name: step.Name, Duration: elapsed, Err: err})
		r.metrics.ObserveStep(scenario, step.Name, elapsed)
		r.captureFrame(ctx, result)

		if err != nil {
			errType := r.opts.ErrorType(err)
			r.metrics.IncStepError(scenario, errType)
			log.Error("step failed",
				slog.String("step", step.Name),
				slog.String("error_type", errType),
				slog.Any("error", err),
			)
			result.Err = fmt.Errorf("%s: %w", step.Name, err)
			break
		}

		log.Info("step passed", slog.String("step", step.Name), slog.Duration("took", elapsed))
	}

	result.Duration = time.Since(started)
	r.metrics.ScenarioDone(scenario, result.Passed())
	return result
}

func (r *Runner) captureFrame(ctx context.Context, result *Result) {
	if !r.opts.Record {
		return
	}

	data, err := r.page.Screenshot(ctx)
	if err != nil {
		r.log.Debug("screenshot skipped", slog.Any("error", err))
		return
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		r.log.Debug("screenshot decode failed", slog.Any("error", err))
		return
	}

	result.Frames = append(result.Frames, img)
	result.CursorPositions = append(result.CursorPositions, r.cursor)
	// a click is shown on one frame only
	r.cursor.Click = false
}
