package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/v0xg/storecheck/internal/dom"
)

// RodBrowser wraps a Rod browser connection
type RodBrowser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	opts     Options
}

// LaunchRod starts (or connects to) Chromium and returns a Rod-backed browser
func LaunchRod(opts Options) (*RodBrowser, error) {
	controlURL := opts.RemoteURL
	var l *launcher.Launcher

	if controlURL == "" {
		path, found := launcher.LookPath()
		if !found {
			return nil, ErrNoBrowser
		}
		l = launcher.New().Bin(path).Headless(opts.Headless)
		if opts.ProfileDir != "" {
			l = l.UserDataDir(opts.ProfileDir)
		}

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chromium: %w", err)
		}
		controlURL = u
	} else if strings.HasPrefix(controlURL, "http") {
		// a DevTools HTTP endpoint, resolve the websocket URL from it
		u, err := launcher.ResolveURL(controlURL)
		if err != nil {
			return nil, fmt.Errorf("resolve remote url %s: %w", controlURL, err)
		}
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	return &RodBrowser{browser: b, launcher: l, opts: opts}, nil
}

// NewPage opens a blank page in a fresh incognito context so cookies and
// storage never leak between scenarios
func (b *RodBrowser) NewPage(ctx context.Context) (dom.Page, error) {
	incognito, err := b.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("create incognito context: %w", err)
	}

	page, err := incognito.Context(ctx).Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		incognito.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	// callers pass their own context per call; Close must work after ctx ends
	page = page.Context(b.browser.GetContext())

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.opts.Width,
		Height:            b.opts.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		page.Close()
		incognito.Close()
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	return &rodPage{page: page, incognito: incognito}, nil
}

// Close cleans up browser resources
func (b *RodBrowser) Close() error {
	err := b.browser.Close()
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
	return err
}

type rodPage struct {
	page      *rod.Page
	incognito *rod.Browser
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	return nil
}

func (p *rodPage) Elements(ctx context.Context, xpath string) ([]dom.Element, error) {
	els, err := p.page.Context(ctx).ElementsX(xpath)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", xpath, err)
	}
	return wrapRodElements(els), nil
}

func (p *rodPage) Screenshot(ctx context.Context) ([]byte, error) {
	return p.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// Close closes the tab and disposes of its incognito context
func (p *rodPage) Close() error {
	err := p.page.Close()
	if cerr := p.incognito.Close(); err == nil {
		err = cerr
	}
	return err
}

type rodElement struct {
	el *rod.Element
}

func wrapRodElements(els rod.Elements) []dom.Element {
	out := make([]dom.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out
}

func (e *rodElement) Elements(ctx context.Context, xpath string) ([]dom.Element, error) {
	els, err := e.el.Context(ctx).ElementsX(xpath)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", xpath, err)
	}
	return wrapRodElements(els), nil
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *rodElement) Attribute(ctx context.Context, name string) (string, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

func (e *rodElement) Visible(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

func (e *rodElement) ScrollIntoView(ctx context.Context) error {
	_, err := e.el.Context(ctx).Eval(`() => this.scrollIntoView({block: 'center', inline: 'center'})`)
	return err
}

func (e *rodElement) Hover(ctx context.Context) error {
	return e.el.Context(ctx).Hover()
}

func (e *rodElement) Click(ctx context.Context) error {
	return e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

func (e *rodElement) Center(ctx context.Context) (int, int, error) {
	box, err := e.el.Context(ctx).Shape()
	if err != nil {
		return 0, 0, err
	}

	if len(box.Quads) == 0 {
		return 0, 0, fmt.Errorf("element has no shape")
	}

	quad := box.Quads[0]
	x := int((quad[0] + quad[2] + quad[4] + quad[6]) / 4)
	y := int((quad[1] + quad[3] + quad[5] + quad[7]) / 4)

	return x, y, nil
}
