package http

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"time"
)

// Client executes requests on a fresh connection per call. It keeps no idle
// connections between calls, so each Do is independent of the previous one.
type Client struct {
	transport http.RoundTripper
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a new HTTP client with the given options
func NewClient(options ...ClientOption) *Client {
	client := &Client{}

	// Apply options
	for _, option := range options {
		option(client)
	}

	return client
}

// WithRoundTripper replaces the dialing transport. ConnectTimeout has no effect
// when a custom round tripper is installed.
func WithRoundTripper(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}

func (c *Client) httpClient(opts Options) *http.Client {
	rt := c.transport
	if rt == nil {
		dialer := &net.Dialer{Timeout: opts.ConnectTimeout}
		rt = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: opts.ConnectTimeout,
			DisableKeepAlives:   true,
		}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if !opts.FollowRedirects || opts.MaxRedirects == 0 {
				return http.ErrUseLastResponse
			}
			if len(via) > opts.MaxRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}
}

// Do executes an HTTP request, reads the whole body and returns the response with
// detailed timing information. Every failure is returned as *Error.
func (c *Client) Do(ctx context.Context, req *Request, opts Options) (*Response, error) {
	// Initialize timing info
	timing := TimingInfo{
		StartTime: time.Now(),
	}

	var dnsStart, connectStart, tlsHandshakeStart time.Time
	var dnsDone, connectDone bool
	// Tracks the end time of the last completed phase
	lastPhaseEnd := timing.StartTime

	trace := &httptrace.ClientTrace{
		DNSStart: func(info httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			dnsEnd := time.Now()
			timing.DNSLookupTime = dnsEnd.Sub(dnsStart)
			dnsDone = true
			lastPhaseEnd = dnsEnd
		},
		ConnectStart: func(network, addr string) {
			connectStart = time.Now()
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				connectEnd := time.Now()
				timing.TCPConnectTime = connectEnd.Sub(connectStart)
				connectDone = true
				lastPhaseEnd = connectEnd
			}
		},
		TLSHandshakeStart: func() {
			if connectDone || dnsDone {
				tlsHandshakeStart = time.Now()
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil && !tlsHandshakeStart.IsZero() {
				tlsHandshakeEnd := time.Now()
				timing.TLSHandshakeTime = tlsHandshakeEnd.Sub(tlsHandshakeStart)
				lastPhaseEnd = tlsHandshakeEnd
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}

	httpReq, err := req.Build(httptrace.WithClientTrace(ctx, trace), opts.UserAgent)
	if err != nil {
		return nil, &Error{Kind: KindRequest, Err: err}
	}

	httpResp, err := c.httpClient(opts).Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: Classify(err), Err: err}
	}
	defer httpResp.Body.Close()

	// Content transfer is the time it takes to read the body
	contentTransferStart := time.Now()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		kind := Classify(err)
		if kind == KindUnknown {
			kind = KindRead
		}
		return nil, &Error{Kind: kind, Err: err}
	}
	timing.ContentTransferTime = time.Since(contentTransferStart)
	timing.TotalTime = time.Since(timing.StartTime)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Body:       body,
		Timing:     timing,
	}, nil
}
