package apiclient

import (
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
// Default: 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithTokenProvider sets the bearer token source for outgoing requests.
func WithTokenProvider(tp TokenProvider) Option {
	return func(c *Client) {
		c.tokens = tp
	}
}

// WithTokenSource adapts an oauth2.TokenSource as the bearer token
// provider. Token retrieval errors degrade to an unauthenticated request.
func WithTokenSource(src oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokenSourceProvider{src: src}
	}
}

// WithGetRetries sets how many times a failed GET is retried.
// Writes are never retried regardless of this setting.
// Default: 1.
func WithGetRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.getRetries = n
		}
	}
}

type tokenSourceProvider struct {
	src oauth2.TokenSource
}

func (p tokenSourceProvider) Token() string {
	tok, err := p.src.Token()
	if err != nil || tok == nil {
		return ""
	}
	return tok.AccessToken
}
