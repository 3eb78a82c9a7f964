package executor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/storecheck/internal/dom"
	"github.com/v0xg/storecheck/internal/metrics"
)

// screenshotPage is a dom.Page that only knows how to take screenshots
type screenshotPage struct {
	shots int
}

func (p *screenshotPage) Navigate(context.Context, string) error { return nil }

func (p *screenshotPage) Elements(context.Context, string) ([]dom.Element, error) {
	return nil, nil
}

func (p *screenshotPage) Screenshot(context.Context) ([]byte, error) {
	p.shots++
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *screenshotPage) Close() error { return nil }

func step(name string, err error, ran *[]string) Step {
	return Step{Name: name, Do: func(context.Context) error {
		*ran = append(*ran, name)
		return err
	}}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	// GIVEN
	var ran []string
	boom := errors.New("boom")
	m := metrics.New()
	r := New(&screenshotPage{}, Options{RunID: "run-1", ErrorType: func(error) string { return "assertion" }}, nil, m)

	// WHEN
	res := r.Run(context.Background(), "flow", []Step{
		step("open", nil, &ran),
		step("check", boom, &ran),
		step("never", nil, &ran),
	})

	// THEN
	assert.Equal(t, []string{"open", "check"}, ran)
	require.Len(t, res.Steps, 2)
	assert.NoError(t, res.Steps[0].Err)
	assert.ErrorIs(t, res.Steps[1].Err, boom)
	assert.False(t, res.Passed())
	assert.ErrorIs(t, res.Err, boom)
	assert.ErrorContains(t, res.Err, "check")
	assert.Equal(t, "run-1", res.RunID)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepErrorsTotal.WithLabelValues("flow", "assertion")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScenariosTotal.WithLabelValues("flow", "fail")))
}

func TestRunAllStepsPass(t *testing.T) {
	var ran []string
	r := New(&screenshotPage{}, Options{}, nil, nil)

	res := r.Run(context.Background(), "view", []Step{
		step("a", nil, &ran),
		step("b", nil, &ran),
	})

	assert.True(t, res.Passed())
	assert.Len(t, res.Steps, 2)
	assert.Empty(t, res.Frames, "frames are only captured when recording")
}

func TestRunRecordsFramesAndCursor(t *testing.T) {
	page := &screenshotPage{}
	r := New(page, Options{Record: true}, nil, nil)

	res := r.Run(context.Background(), "view", []Step{
		{Name: "click", Do: func(context.Context) error {
			r.Track(100, 50, true)
			return nil
		}},
		{Name: "read", Do: func(context.Context) error { return nil }},
	})

	require.True(t, res.Passed())
	assert.Equal(t, 2, page.shots)
	require.Len(t, res.Frames, 2)
	require.Len(t, res.CursorPositions, 2)

	assert.Equal(t, CursorPosition{X: 100, Y: 50, State: CursorPointer, Click: true}, res.CursorPositions[0])
	assert.False(t, res.CursorPositions[1].Click)
	assert.Equal(t, 100, res.CursorPositions[1].X)
}
