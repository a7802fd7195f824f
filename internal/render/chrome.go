package render

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromeRenderer renders pages in a headless Chrome browser.
// By default it launches a local browser; WithRemoteBrowser points it at
// a browser pool reached over WebSocket instead.
type ChromeRenderer struct {
	// remoteURL is the WebSocket debugger endpoint of a remote browser,
	// with the auth token already embedded. Empty means local browser.
	remoteURL string

	// readySelector is the CSS selector waited on before capture.
	readySelector string

	// wait is the settle time between readiness and HTML capture, for
	// pages that keep populating content after load.
	wait time.Duration

	// timeout bounds one full render including navigation.
	timeout time.Duration
}

// ChromeOption configures a ChromeRenderer.
type ChromeOption func(*ChromeRenderer)

// WithRemoteBrowser connects to a remote browser pool instead of
// launching a local browser. The token, when non-empty, is appended as
// a query parameter the way browserless-style services expect.
func WithRemoteBrowser(wsURL, token string) ChromeOption {
	return func(r *ChromeRenderer) {
		r.remoteURL = remoteEndpoint(wsURL, token)
	}
}

// WithReadySelector waits for the given selector to become visible
// before capturing HTML. Default is the document body.
func WithReadySelector(sel string) ChromeOption {
	return func(r *ChromeRenderer) {
		if sel != "" {
			r.readySelector = sel
		}
	}
}

// WithWait sets the settle time between readiness and capture.
func WithWait(d time.Duration) ChromeOption {
	return func(r *ChromeRenderer) {
		if d >= 0 {
			r.wait = d
		}
	}
}

// WithTimeout bounds one full render.
func WithTimeout(d time.Duration) ChromeOption {
	return func(r *ChromeRenderer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewChromeRenderer creates a ChromeRenderer.
func NewChromeRenderer(opts ...ChromeOption) *ChromeRenderer {
	r := &ChromeRenderer{
		readySelector: "body",
		wait:          0,
		timeout:       60 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render navigates to the page, waits for readiness plus the configured
// settle time, and captures the document's outer HTML.
func (r *ChromeRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	allocCtx := ctx
	var allocCancel context.CancelFunc
	if r.remoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, r.remoteURL)
	} else {
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	}
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	runCtx, runCancel := context.WithTimeout(taskCtx, r.timeout)
	defer runCancel()

	actions := []chromedp.Action{
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible(r.readySelector, chromedp.ByQuery),
	}
	if r.wait > 0 {
		actions = append(actions, chromedp.Sleep(r.wait))
	}
	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", pageURL, err)
	}
	return html, nil
}

// remoteEndpoint embeds the auth token into a browser pool endpoint.
// An unparseable URL is returned as-is and will fail at connect time
// with a clearer error than one manufactured here.
func remoteEndpoint(wsURL, token string) string {
	if token == "" {
		return wsURL
	}
	u, err := url.Parse(wsURL)
	if err != nil {
		return wsURL
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
