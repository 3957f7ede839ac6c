// Package upstream talks to the champion statistics and static data APIs
// that feed the collection cache.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/rift/pkg/metrics"
)

const maxBody = 8 << 20

// client is the shared JSON GET plumbing behind each API.
type client struct {
	name    string
	baseURL string
	apiKey  string
	// authorize attaches apiKey to a request.
	authorize func(req *http.Request, key string)
	http      *http.Client
	limiter   *rate.Limiter
	timeout   time.Duration
}

func newClient(name, baseURL string, authorize func(*http.Request, string), opts ...Option) *client {
	c := &client{
		name:      name,
		baseURL:   strings.TrimRight(baseURL, "/"),
		authorize: authorize,
		http:      &http.Client{},
		limiter:   rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		timeout:   10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON waits for the limiter, GETs baseURL+path and decodes into out.
func (c *client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limiter: %w", c.name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" && c.authorize != nil {
		c.authorize(req, c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordUpstreamRequest(c.name, "error", latency)
		return fmt.Errorf("%s request: %w", c.name, err)
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamRequest(c.name, strconv.Itoa(resp.StatusCode), latency)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %s %d", ErrStatus, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read %s response: %w", c.name, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return nil
}

// numbers keeps the numeric members of a JSON object.
func numbers(obj map[string]json.RawMessage) map[string]float64 {
	out := make(map[string]float64, len(obj))
	for k, raw := range obj {
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			out[k] = f
		}
	}
	return out
}
