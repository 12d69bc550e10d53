package api

import (
	"maps"
	"time"

	"go.uber.org/zap"
)

// Default transport settings applied by New.
const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultTimeout        = 60 * time.Second
	DefaultMaxRedirects   = 2
	DefaultUserAgent      = "biztositok-go/1.0"
)

// TransportOptions controls how the Transport executes each call.
type TransportOptions struct {
	// ConnectTimeout bounds establishing the connection
	ConnectTimeout time.Duration

	// Timeout bounds the whole call, including redirects and reading the body
	Timeout time.Duration

	UserAgent string

	// FollowRedirects enables following up to MaxRedirects redirects
	FollowRedirects bool

	// MaxRedirects caps the followed redirects. Zero returns the first 3xx
	// reply unchanged.
	MaxRedirects int

	// Headers are sent with every call. Call headers and the builder's own
	// headers take precedence.
	Headers map[string]string
}

// DefaultTransportOptions returns the options a new Client starts with.
func DefaultTransportOptions() TransportOptions {
	return TransportOptions{
		ConnectTimeout:  DefaultConnectTimeout,
		Timeout:         DefaultTimeout,
		UserAgent:       DefaultUserAgent,
		FollowRedirects: true,
		MaxRedirects:    DefaultMaxRedirects,
	}
}

// Merge returns o with every non-zero field of override applied on top.
// Headers are merged key by key. FollowRedirects can only be switched on and
// MaxRedirects only raised above zero by a merge; use WithFollowRedirects and
// WithMaxRedirects to set them to their zero values.
func (o TransportOptions) Merge(override TransportOptions) TransportOptions {
	merged := o
	if override.ConnectTimeout > 0 {
		merged.ConnectTimeout = override.ConnectTimeout
	}
	if override.Timeout > 0 {
		merged.Timeout = override.Timeout
	}
	if override.UserAgent != "" {
		merged.UserAgent = override.UserAgent
	}
	if override.FollowRedirects {
		merged.FollowRedirects = true
	}
	if override.MaxRedirects > 0 {
		merged.MaxRedirects = override.MaxRedirects
	}
	if len(override.Headers) > 0 {
		headers := make(map[string]string, len(o.Headers)+len(override.Headers))
		maps.Copy(headers, o.Headers)
		maps.Copy(headers, override.Headers)
		merged.Headers = headers
	}
	return merged
}

// Option configures a Client during construction in New.
type Option func(*Client)

// WithTransport replaces the default net/http transport.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithCodec replaces the JSON codec used for parameters and responses.
func WithCodec(codec Codec) Option {
	return func(c *Client) {
		c.codec = codec
	}
}

// WithLogger sets the logger used for per-call diagnostics. The default logger
// discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTransportOptions merges opts into the defaults.
func WithTransportOptions(opts TransportOptions) Option {
	return func(c *Client) {
		c.options = c.options.Merge(opts)
	}
}

// WithFollowRedirects sets whether redirects are followed.
func WithFollowRedirects(follow bool) Option {
	return func(c *Client) {
		c.options.FollowRedirects = follow
	}
}

// WithMaxRedirects sets the redirect cap. Zero stops at the first redirect.
func WithMaxRedirects(n int) Option {
	return func(c *Client) {
		c.options.MaxRedirects = n
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.options.UserAgent = userAgent
	}
}

// WithHeader adds a header sent with every call.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.options = c.options.Merge(TransportOptions{Headers: map[string]string{key: value}})
	}
}

// CallOption configures a single Invoke.
type CallOption func(*BuildOptions)

// WithQuery appends query parameters to the request URL.
func WithQuery(query map[string]string) CallOption {
	return func(o *BuildOptions) {
		if o.Query == nil {
			o.Query = make(map[string]string, len(query))
		}
		maps.Copy(o.Query, query)
	}
}

// WithCallHeader adds a header to a single call.
func WithCallHeader(key, value string) CallOption {
	return func(o *BuildOptions) {
		if o.Headers == nil {
			o.Headers = make(map[string]string)
		}
		o.Headers[key] = value
	}
}
