// Package tmdb fetches poster image URLs from the TMDB metadata API.
package tmdb

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/reelrank/reelrank/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the TMDB API base URL (used by tests).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithImageBaseURL overrides the poster image base URL.
func WithImageBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.imageBaseURL = url
		}
	}
}

// WithPlaceholderURL sets the image substituted when a poster cannot be fetched.
func WithPlaceholderURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.placeholderURL = url
		}
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit sets the outbound request rate and burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithBreakerThreshold sets the consecutive failure count that opens the
// circuit and how long it stays open.
func WithBreakerThreshold(failures uint32, timeout time.Duration) Option {
	return func(c *Client) {
		if failures > 0 {
			c.failureLimit = failures
		}
		if timeout > 0 {
			c.breakerTimeout = timeout
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}
