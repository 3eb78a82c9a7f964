package scenario

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/v0xg/storecheck/internal/dom"
)

const defaultPollInterval = 200 * time.Millisecond

// FindByText returns the first element whose trimmed rendered text equals
// target exactly.
func FindByText(ctx context.Context, items []dom.Element, target string) (dom.Element, error) {
	for i, item := range items {
		text, err := item.Text(ctx)
		if err != nil {
			return nil, fmt.Errorf("read text of item %d: %w", i, err)
		}
		if strings.TrimSpace(text) == target {
			return item, nil
		}
	}
	return nil, &NotFoundError{Target: target}
}

// WaitUntil polls cond every interval until it reports true or timeout
// passes. Running out of time is not an error: it returns (false, nil).
// Errors from cond and cancellation of ctx itself are returned as is.
// A non-positive interval polls at the default rate.
func WaitUntil(ctx context.Context, timeout, interval time.Duration, cond func(context.Context) (bool, error)) (bool, error) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := cond(waitCtx)
		if err != nil {
			// cond was cut short by our own deadline
			if waitCtx.Err() != nil && ctx.Err() == nil {
				return false, nil
			}
			return false, err
		}
		if ok {
			return true, nil
		}

		select {
		case <-waitCtx.Done():
			if err := ctx.Err(); err != nil {
				return false, err
			}
			return false, nil
		case <-ticker.C:
		}
	}
}
