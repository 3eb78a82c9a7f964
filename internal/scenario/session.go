package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/v0xg/storecheck/internal/dom"
)

// Tracker receives the pointer position of every hover and click.
// executor.Runner implements it.
type Tracker interface {
	Track(x, y int, click bool)
}

// Options are the knobs a scenario session needs
type Options struct {
	HomeURL         string
	PageLoadTimeout time.Duration
	ElementTimeout  time.Duration
	PollInterval    time.Duration
}

// Session performs page interactions for one scenario on one page
type Session struct {
	page    dom.Page
	opts    Options
	log     *slog.Logger
	tracker Tracker
}

// NewSession binds a session to page. logger and tracker may be nil.
func NewSession(page dom.Page, opts Options, logger *slog.Logger, tracker Tracker) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	return &Session{page: page, opts: opts, log: logger, tracker: tracker}
}

func (s *Session) all(ctx context.Context, loc Locator) ([]dom.Element, error) {
	els, err := s.page.Elements(ctx, loc.XPath)
	if err != nil {
		return nil, fmt.Errorf("look up %s: %w", loc.Name, err)
	}
	return els, nil
}

// waitCount polls loc until the number of matches satisfies ok
func (s *Session) waitCount(ctx context.Context, loc Locator, want string, ok func(int) bool) ([]dom.Element, error) {
	var els []dom.Element
	met, err := WaitUntil(ctx, s.opts.ElementTimeout, s.opts.PollInterval, func(ctx context.Context) (bool, error) {
		found, err := s.all(ctx, loc)
		if err != nil {
			return false, err
		}
		els = found
		return ok(len(found)), nil
	})
	if err != nil {
		return nil, err
	}
	if !met {
		return nil, &CardinalityError{What: loc.Name, Want: want, Got: len(els)}
	}
	return els, nil
}

// find waits for the first element matching loc
func (s *Session) find(ctx context.Context, loc Locator) (dom.Element, error) {
	els, err := s.waitCount(ctx, loc, "at least 1", func(n int) bool { return n > 0 })
	if err != nil {
		var card *CardinalityError
		if errors.As(err, &card) {
			return nil, &NotFoundError{What: loc.Name}
		}
		return nil, err
	}
	return els[0], nil
}

// findVisible waits for the first element matching loc to be displayed
func (s *Session) findVisible(ctx context.Context, loc Locator) (dom.Element, error) {
	var el dom.Element
	visible, err := WaitUntil(ctx, s.opts.ElementTimeout, s.opts.PollInterval, func(ctx context.Context) (bool, error) {
		els, err := s.all(ctx, loc)
		if err != nil || len(els) == 0 {
			return false, err
		}
		el = els[0]
		v, err := el.Visible(ctx)
		if err != nil {
			// detached while the page re-rendered, look it up again
			return false, nil
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, &NotFoundError{What: loc.Name}
	}
	if !visible {
		return nil, &AssertionError{Check: loc.Name + " is visible", Expected: "true", Actual: "false"}
	}
	return el, nil
}

// within waits for the first element matching a relative locator under parent
func (s *Session) within(ctx context.Context, parent dom.Element, loc Locator) (dom.Element, error) {
	var el dom.Element
	_, err := WaitUntil(ctx, s.opts.ElementTimeout, s.opts.PollInterval, func(ctx context.Context) (bool, error) {
		els, err := parent.Elements(ctx, loc.XPath)
		if err != nil {
			return false, fmt.Errorf("look up %s: %w", loc.Name, err)
		}
		if len(els) == 0 {
			return false, nil
		}
		el = els[0]
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, &NotFoundError{What: loc.Name}
	}
	return el, nil
}

func (s *Session) text(ctx context.Context, el dom.Element, what string) (string, error) {
	t, err := el.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", what, err)
	}
	return strings.TrimSpace(t), nil
}

func (s *Session) track(ctx context.Context, el dom.Element, click bool) {
	if s.tracker == nil {
		return
	}
	x, y, err := el.Center(ctx)
	if err != nil {
		return
	}
	s.tracker.Track(x, y, click)
}

func (s *Session) click(ctx context.Context, el dom.Element, what string) error {
	if err := el.ScrollIntoView(ctx); err != nil {
		return fmt.Errorf("scroll to %s: %w", what, err)
	}
	s.track(ctx, el, true)
	if err := el.Click(ctx); err != nil {
		return fmt.Errorf("click %s: %w", what, err)
	}
	return nil
}

// selectByText picks the item of loc whose text equals target, scrolls it to
// the center of the viewport, hovers it and clicks it
func (s *Session) selectByText(ctx context.Context, loc Locator, target string, want string, ok func(int) bool) (dom.Element, error) {
	items, err := s.waitCount(ctx, loc, want, ok)
	if err != nil {
		return nil, err
	}

	item, err := FindByText(ctx, items, target)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil, &NotFoundError{What: loc.Name, Target: target}
		}
		return nil, err
	}

	if err := item.ScrollIntoView(ctx); err != nil {
		return nil, fmt.Errorf("scroll to %s %q: %w", loc.Name, target, err)
	}
	s.track(ctx, item, false)
	if err := item.Hover(ctx); err != nil {
		return nil, fmt.Errorf("hover %s %q: %w", loc.Name, target, err)
	}
	s.track(ctx, item, true)
	if err := item.Click(ctx); err != nil {
		return nil, fmt.Errorf("click %s %q: %w", loc.Name, target, err)
	}
	return item, nil
}

// checkSectionTitle gives the page up to PageLoadTimeout to show name in the
// section title, then asserts it. Running out of time is only logged.
func (s *Session) checkSectionTitle(ctx context.Context, name string) error {
	matched, err := WaitUntil(ctx, s.opts.PageLoadTimeout, s.opts.PollInterval, func(ctx context.Context) (bool, error) {
		els, err := s.all(ctx, SectionTitle)
		if err != nil || len(els) == 0 {
			return false, err
		}
		text, err := els[0].Text(ctx)
		if err != nil {
			// the old title went away mid-navigation
			return false, nil
		}
		return strings.TrimSpace(text) == name, nil
	})
	if err != nil {
		return fmt.Errorf("wait for %s %q: %w", SectionTitle.Name, name, err)
	}
	if !matched {
		s.log.Debug("wait for expected title timed out",
			slog.String("expected", name),
			slog.Duration("timeout", s.opts.PageLoadTimeout),
		)
	}

	title, err := s.find(ctx, SectionTitle)
	if err != nil {
		return err
	}
	actual, err := s.text(ctx, title, SectionTitle.Name)
	if err != nil {
		return err
	}
	return assertEqual(SectionTitle.Name, name, actual)
}
