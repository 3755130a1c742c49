// Package request is the single HTTP client factory every network-facing
// component (manifest autoupdate, hash checker pages, cache downloads,
// bucket URL-add) shares: one fixed user-agent, one timeout/transport
// policy, and synchronous and context-cancellable GET helpers.
package request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/time/rate"

	"github.com/winpax/gscoop/internal/httputil"
)

const clientVersion = "1.0"

// UserAgent is the fixed header value every request carries, matching
// the host manager's own UA shape so upstream servers that allow-list it
// keep working.
var UserAgent = fmt.Sprintf("Scoop/1.0 (+https://scoop.sh/) gscoop/%s (%s) (%s)", clientVersion, runtime.GOARCH, runtime.GOOS)

// Client wraps an *http.Client with the fixed header policy and an
// optional rate limiter for hosts that throttle aggressively (checker
// pages polled across many autoupdate runs).
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit caps outgoing requests to r per second, bursting up to b.
func WithRateLimit(r float64, b int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(r), b) }
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New builds a Client with an HTTP/2-capable transport, a 30-second
// default timeout, and the fixed user-agent.
func New(opts ...Option) *Client {
	transport := &http.Transport{}
	_ = http2.ConfigureTransport(transport)

	c := &Client{
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "*/*")
	return req, nil
}

// Get performs a synchronous GET, honoring c's rate limiter if set.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	req, err := c.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", httputil.RedactedError(url), err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", httputil.RedactedError(url), err)
	}
	return resp, nil
}

// GetBody performs a GET and fully reads the body, requiring a 2xx
// status via httputil.CheckResponse.
func (c *Client) GetBody(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := httputil.CheckResponse(resp, http.StatusOK); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// HTTPClient exposes the underlying *http.Client for callers that need
// raw client access (cache's scratch-file download path) rather than
// Client's GET helpers.
func (c *Client) HTTPClient() *http.Client { return c.http }

// Async starts a GetBody call on a goroutine and returns a channel that
// receives exactly one result.
func (c *Client) Async(ctx context.Context, url string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		body, err := c.GetBody(ctx, url)
		out <- Result{Body: body, Err: err}
	}()
	return out
}

// Result is the value delivered by Async.
type Result struct {
	Body []byte
	Err  error
}

// BodyFetcher adapts Client to the "Get returns a fully-read body" shape
// that reference.Fetcher and similar consumers expect, as opposed to
// Client.Get's raw *http.Response (the shape manifest.Fetcher expects).
// Both interfaces are satisfied by the same underlying Client, just
// through different method values.
type BodyFetcher struct{ *Client }

// Get fully reads url's body, delegating to Client.GetBody.
func (f BodyFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	return f.Client.GetBody(ctx, url)
}
