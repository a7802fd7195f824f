package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Renderer turns a page URL into its HTML document.
type Renderer interface {
	// Render fetches or renders the page and returns its HTML.
	Render(ctx context.Context, pageURL string) (string, error)
}

// ProxyConfig holds egress proxy settings. The zero value means direct
// connections.
type ProxyConfig struct {
	// URL is the proxy URL, e.g. "http://proxy.example.com:8080".
	URL string

	// Username and Password authenticate against the proxy. Both empty
	// means no proxy authentication.
	Username string
	Password string
}

// NewClient builds an HTTP client honoring the proxy configuration.
// The client is shared between page fetching and asset downloading.
func NewClient(proxy ProxyConfig, timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{}
	if proxy.URL != "" {
		proxyURL, err := url.Parse(proxy.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		if proxy.Username != "" {
			proxyURL.User = url.UserPassword(proxy.Username, proxy.Password)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// HTTPRenderer renders pages by plain HTTP GET.
type HTTPRenderer struct {
	// client performs the requests. Proxy settings live in its transport.
	client *http.Client

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize caps the bytes read from a response.
	maxBodySize int64
}

// HTTPOption configures an HTTPRenderer.
type HTTPOption func(*HTTPRenderer)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(r *HTTPRenderer) {
		r.userAgent = ua
	}
}

// WithMaxBodySize caps the response bytes read per page.
func WithMaxBodySize(size int64) HTTPOption {
	return func(r *HTTPRenderer) {
		if size > 0 {
			r.maxBodySize = size
		}
	}
}

// NewHTTPRenderer creates an HTTPRenderer over the given client.
// The client is injected so proxy configuration and tests stay in the
// caller's hands.
func NewHTTPRenderer(client *http.Client, opts ...HTTPOption) *HTTPRenderer {
	r := &HTTPRenderer{
		client:      client,
		userAgent:   "catacrawl/1.0",
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render fetches the page and returns its HTML.
// Responses with status 400 and above are reported as errors; a page
// that cannot be fetched has nothing to extract from.
func (r *HTTPRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", pageURL, err)
	}
	return string(body), nil
}
