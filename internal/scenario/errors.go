package scenario

import (
	"context"
	"errors"
	"fmt"
)

// NotFoundError means a required element did not resolve. Target is the text
// that was searched for, if any.
type NotFoundError struct {
	What   string
	Target string
}

func (e *NotFoundError) Error() string {
	switch {
	case e.What == "":
		return fmt.Sprintf("%q is not found", e.Target)
	case e.Target == "":
		return fmt.Sprintf("%s is not found", e.What)
	default:
		return fmt.Sprintf("%s %q is not found", e.What, e.Target)
	}
}

// CardinalityError means a collection never reached the required size.
type CardinalityError struct {
	What string
	Want string // "more than 1", "exactly 1", ...
	Got  int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %d", e.What, e.Want, e.Got)
}

// AssertionError is an observed value that differs from the expected one.
type AssertionError struct {
	Check    string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %q, got %q", e.Check, e.Expected, e.Actual)
}

func assertEqual(check, expected, actual string) error {
	if expected == actual {
		return nil
	}
	return &AssertionError{Check: check, Expected: expected, Actual: actual}
}

// ErrorType labels err for metrics and logs.
func ErrorType(err error) string {
	if err == nil {
		return "unknown"
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return "not_found"
	}
	var card *CardinalityError
	if errors.As(err, &card) {
		return "cardinality"
	}
	var assertion *AssertionError
	if errors.As(err, &assertion) {
		return "assertion"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "other"
}
