package browser

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/go-rod/rod/lib/launcher"
	sdom "github.com/v0xg/storecheck/internal/dom"
)

// ChromeDPBrowser drives Chromium through chromedp. Every page is a new
// target in its own browser context.
type ChromeDPBrowser struct {
	cancelAlloc context.CancelFunc
	browserCtx  context.Context
	cancel      context.CancelFunc
	opts        Options
}

// LaunchChromeDP starts Chromium (or attaches to RemoteURL) via chromedp
func LaunchChromeDP(opts Options) (*ChromeDPBrowser, error) {
	var (
		allocCtx    context.Context
		cancelAlloc context.CancelFunc
	)
	if opts.RemoteURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(context.Background(), opts.RemoteURL)
	} else {
		path, found := launcher.LookPath()
		if !found {
			return nil, ErrNoBrowser
		}
		allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.ExecPath(path),
			chromedp.WindowSize(opts.Width, opts.Height),
		)
		if !opts.Headless {
			allocOpts = append(allocOpts, chromedp.Flag("headless", false))
		}
		if opts.ProfileDir != "" {
			allocOpts = append(allocOpts, chromedp.UserDataDir(opts.ProfileDir))
		}
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(context.Background(), allocOpts...)
	}

	browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithErrorf(log.Printf))
	// the first Run starts the browser process
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		cancelAlloc()
		return nil, fmt.Errorf("start chromium: %w", err)
	}

	return &ChromeDPBrowser{
		cancelAlloc: cancelAlloc,
		browserCtx:  browserCtx,
		cancel:      cancel,
		opts:        opts,
	}, nil
}

// NewPage opens a new tab in a fresh browser context
func (b *ChromeDPBrowser) NewPage(ctx context.Context) (sdom.Page, error) {
	tabCtx, cancel := chromedp.NewContext(b.browserCtx, chromedp.WithNewBrowserContext())
	if err := chromedp.Run(tabCtx, chromedp.EmulateViewport(int64(b.opts.Width), int64(b.opts.Height))); err != nil {
		cancel()
		return nil, fmt.Errorf("open tab: %w", err)
	}
	return &cdpPage{ctx: tabCtx, cancel: cancel}, nil
}

// Close shuts the browser down
func (b *ChromeDPBrowser) Close() error {
	err := chromedp.Cancel(b.browserCtx)
	b.cancel()
	b.cancelAlloc()
	return err
}

type cdpPage struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// run executes actions on the tab while honoring the caller's deadline
func (p *cdpPage) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := mergeDeadline(p.ctx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

func (p *cdpPage) Navigate(ctx context.Context, url string) error {
	if err := p.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (p *cdpPage) Elements(ctx context.Context, xpath string) ([]sdom.Element, error) {
	var nodes []*cdp.Node
	if err := p.run(ctx, chromedp.Nodes(xpath, &nodes, chromedp.BySearch, chromedp.AtLeast(0))); err != nil {
		return nil, fmt.Errorf("query %s: %w", xpath, err)
	}
	return p.wrap(nodes), nil
}

func (p *cdpPage) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := p.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

func (p *cdpPage) Close() error {
	err := chromedp.Run(p.ctx, page.Close())
	p.cancel()
	return err
}

func (p *cdpPage) wrap(nodes []*cdp.Node) []sdom.Element {
	out := make([]sdom.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &cdpElement{page: p, node: n})
	}
	return out
}

type cdpElement struct {
	page *cdpPage
	node *cdp.Node
}

func (e *cdpElement) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

// Elements resolves a relative XPath by anchoring it at this node's full path
func (e *cdpElement) Elements(ctx context.Context, xpath string) ([]sdom.Element, error) {
	abs := e.node.FullXPath() + strings.TrimPrefix(xpath, ".")
	return e.page.Elements(ctx, abs)
}

func (e *cdpElement) Text(ctx context.Context) (string, error) {
	var text string
	err := e.callOn(ctx, `function() { return this.innerText; }`, &text)
	return text, err
}

func (e *cdpElement) Attribute(ctx context.Context, name string) (string, error) {
	var (
		value string
		ok    bool
	)
	if err := e.page.run(ctx, chromedp.AttributeValue(e.ids(), name, &value, &ok, chromedp.ByNodeID)); err != nil {
		return "", err
	}
	return value, nil
}

func (e *cdpElement) Visible(ctx context.Context) (bool, error) {
	var visible bool
	err := e.callOn(ctx, `function() {
		const style = window.getComputedStyle(this);
		return this.getClientRects().length > 0 && style.visibility !== 'hidden' && style.display !== 'none';
	}`, &visible)
	return visible, err
}

func (e *cdpElement) ScrollIntoView(ctx context.Context) error {
	var done bool
	return e.callOn(ctx, `function() { this.scrollIntoView({block: 'center', inline: 'center'}); return true; }`, &done)
}

func (e *cdpElement) Hover(ctx context.Context) error {
	x, y, err := e.Center(ctx)
	if err != nil {
		return err
	}
	return e.page.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseMoved, float64(x), float64(y)).Do(ctx)
	}))
}

func (e *cdpElement) Click(ctx context.Context) error {
	return e.page.run(ctx, chromedp.MouseClickNode(e.node))
}

func (e *cdpElement) Center(ctx context.Context) (int, int, error) {
	var quads []dom.Quad
	err := e.page.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		quads, err = dom.GetContentQuads().WithNodeID(e.node.NodeID).Do(ctx)
		return err
	}))
	if err != nil {
		return 0, 0, err
	}
	if len(quads) == 0 || len(quads[0]) < 8 {
		return 0, 0, fmt.Errorf("element has no shape")
	}

	q := quads[0]
	x := int((q[0] + q[2] + q[4] + q[6]) / 4)
	y := int((q[1] + q[3] + q[5] + q[7]) / 4)
	return x, y, nil
}

// callOn runs fn with this bound to the node and stores its result in res
func (e *cdpElement) callOn(ctx context.Context, fn string, res any) error {
	return e.page.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithNodeID(e.node.NodeID).Do(ctx)
		if err != nil {
			return fmt.Errorf("resolve node: %w", err)
		}
		defer runtime.ReleaseObject(obj.ObjectID).Do(ctx)

		return chromedp.CallFunctionOn(fn, res, func(p *runtime.CallFunctionOnParams) *runtime.CallFunctionOnParams {
			return p.WithObjectID(obj.ObjectID)
		}).Do(ctx)
	}))
}

// mergeDeadline returns a child of the tab context that is also cancelled when
// the caller's context ends
func mergeDeadline(tab, caller context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(tab)
	stop := context.AfterFunc(caller, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
