package upstream

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Option applies a configuration option to an API client.
type Option func(*client)

// WithAPIKey sets the credential sent with every request.
func WithAPIKey(key string) Option {
	return func(c *client) {
		c.apiKey = key
	}
}

// WithRate limits outbound requests to rps with the given burst.
func WithRate(rps float64, burst int) Option {
	return func(c *client) {
		if rps > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		if hc != nil {
			c.http = hc
		}
	}
}
