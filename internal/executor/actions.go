package executor

import (
	"context"
	"image"
	"time"
)

// Step is one blocking interaction or assertion in a scenario
type Step struct {
	Name string
	Do   func(ctx context.Context) error
}

// StepResult records how a single step went
type StepResult struct {
	Name     string
	Duration time.Duration
	Err      error
}

// Result is the outcome of one scenario run
type Result struct {
	Scenario        string
	RunID           string
	Steps           []StepResult
	Err             error // first failing step's error, nil on success
	Duration        time.Duration
	Frames          []image.Image
	CursorPositions []CursorPosition
}

// Passed reports whether every step succeeded
func (r *Result) Passed() bool {
	return r.Err == nil
}

// CursorPosition represents the cursor state at a point in time
type CursorPosition struct {
	X     int
	Y     int
	State CursorState
	Click bool // Whether a click happened at this position
}

// CursorState represents the visual state of the cursor
type CursorState int

const (
	CursorDefault CursorState = iota
	CursorPointer
)
