package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/valyala/fasthttp"
)

// ClientConfig configures the HTTP seed source.
type ClientConfig struct {
	URL     string
	Timeout time.Duration
	// StaleTime is how long a fetched page is served from memory. Zero
	// disables caching.
	StaleTime time.Duration
}

// Client fetches todo pages over HTTP.
type Client struct {
	cfg  ClientConfig
	http *fasthttp.Client
	now  func() time.Time

	mu    sync.Mutex
	cache map[Page]cacheEntry
}

type cacheEntry struct {
	resp      *Response
	fetchedAt time.Time
}

// NewClient creates a client for cfg.URL.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg: cfg,
		http: &fasthttp.Client{
			Name:         "tada",
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		},
		now:   time.Now,
		cache: make(map[Page]cacheEntry),
	}
}

// FetchTodos issues GET <url>?limit=<n>&skip=<m>. A page fetched less than
// StaleTime ago is returned from memory; callers must not modify it.
func (c *Client) FetchTodos(ctx context.Context, p Page) (*Response, error) {
	if resp, ok := c.cached(p); ok {
		return resp, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.cfg.URL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	args := req.URI().QueryArgs()
	args.SetUint("limit", p.Limit)
	args.SetUint("skip", p.Skip)

	deadline := c.now().Add(c.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("fetch todos: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if code := resp.StatusCode(); code/100 != 2 {
		return nil, fmt.Errorf("fetch todos: server returned %d: %s", code, truncate(resp.Body(), 200))
	}

	var out Response
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}
	c.store(p, &out)
	return &out, nil
}

func (c *Client) cached(p Page) (*Response, bool) {
	if c.cfg.StaleTime <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[p]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.cfg.StaleTime {
		delete(c.cache, p)
		return nil, false
	}
	return e.resp, true
}

func (c *Client) store(p Page, r *Response) {
	if c.cfg.StaleTime <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[p] = cacheEntry{resp: r, fetchedAt: c.now()}
}

func truncate(b []byte, n int) string {
	return ansi.Truncate(string(b), n, "...")
}
