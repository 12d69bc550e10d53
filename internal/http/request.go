package http

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Request is a fully built outbound request. URL already carries any query string
// and Body is sent verbatim.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
}

// Options controls how a single request is executed.
type Options struct {
	// ConnectTimeout bounds dialing the remote host
	ConnectTimeout time.Duration

	// Timeout bounds the whole exchange, redirects and body read included
	Timeout time.Duration

	// UserAgent is sent unless the request sets its own User-Agent header
	UserAgent string

	// FollowRedirects enables following 3xx responses, up to MaxRedirects hops.
	// A MaxRedirects of zero returns the first 3xx response as is.
	FollowRedirects bool
	MaxRedirects    int
}

// Build constructs an http.Request from the Request.
//
// Headers with an empty value are removed from the outgoing request rather than
// sent blank. This is how callers suppress headers Go would otherwise add, such
// as Expect.
func (r *Request) Build(ctx context.Context, userAgent string) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, strings.NewReader(r.Body))
	if err != nil {
		return nil, err
	}

	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	for key, value := range r.Headers {
		if value == "" {
			req.Header.Del(key)
			continue
		}
		req.Header.Set(key, value)
	}

	return req, nil
}
