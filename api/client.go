package api

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Config holds the connection settings of a Client. Every field may be left
// empty and set later.
type Config struct {
	APIEndpoint string
	Username    string
	Password    string
}

// Client invokes functions of the run API.
//
// A Client performs no locking. The setters must not be called while another
// goroutine is inside Invoke on the same Client.
type Client struct {
	endpoint  string
	creds     Credentials
	options   TransportOptions
	transport Transport
	codec     Codec
	logger    *zap.Logger
}

// New creates a Client from cfg. It returns a *ConfigurationError when an
// option leaves the client without a transport or codec.
func New(cfg Config, opts ...Option) (*Client, error) {
	c := &Client{
		endpoint:  cfg.APIEndpoint,
		creds:     Credentials{Username: cfg.Username, Password: cfg.Password},
		options:   DefaultTransportOptions(),
		transport: NewHTTPTransport(),
		codec:     JSONCodec{},
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.checkRequirements(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) checkRequirements() error {
	if c.transport == nil {
		return &ConfigurationError{Reason: "no transport configured"}
	}
	if c.codec == nil {
		return &ConfigurationError{Reason: "no JSON codec configured"}
	}
	return nil
}

// SetAPIEndpoint sets the endpoint URL, e.g. https://example.com.
func (c *Client) SetAPIEndpoint(endpoint string) { c.endpoint = endpoint }

func (c *Client) SetUsername(username string) { c.creds.Username = username }

func (c *Client) SetPassword(password string) { c.creds.Password = password }

// SetTransportOptions merges opts into the current transport options.
func (c *Client) SetTransportOptions(opts TransportOptions) {
	c.options = c.options.Merge(opts)
}

func (c *Client) APIEndpoint() string { return c.endpoint }

func (c *Client) Username() string { return c.creds.Username }

func (c *Client) Password() string { return c.creds.Password }

// TransportOptions returns the options used for the next call.
func (c *Client) TransportOptions() TransportOptions { return c.options }

// Invoke calls the API function at path with params and returns the decoded
// response. The HTTP status does not affect the outcome: any JSON body yields a
// Response. Errors are *ConfigurationError, *TransportError or *DecodeError.
func (c *Client) Invoke(ctx context.Context, path string, params Params, opts ...CallOption) (*Response, error) {
	if err := c.checkRequirements(); err != nil {
		return nil, err
	}
	if c.endpoint == "" {
		return nil, &ConfigurationError{Reason: "api endpoint is not set"}
	}

	build := BuildOptions{Codec: c.codec}
	for _, opt := range opts {
		opt(&build)
	}

	req, err := BuildRequest(c.endpoint, path, params, c.creds, build)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	reply, err := c.transport.Send(ctx, req, c.options)
	if err != nil {
		te := newTransportError(err)
		c.logger.Warn("api call failed",
			zap.String("path", path),
			zap.Stringer("code", te.Code),
			zap.String("error", te.Message),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil, te
	}

	resp, err := c.decode(reply)
	if err != nil {
		c.logger.Warn("api response is not JSON",
			zap.String("path", path),
			zap.Int("status", reply.StatusCode),
			zap.Error(err),
		)
		return nil, err
	}

	c.logger.Debug("api call",
		zap.String("path", path),
		zap.Int("status", reply.StatusCode),
		zap.Bool("success", resp.IsSuccess()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

func (c *Client) decode(reply *Reply) (*Response, error) {
	var payload any
	if err := c.codec.Unmarshal(reply.Body, &payload); err != nil {
		return nil, &DecodeError{Body: snippet(reply.Body), Err: err}
	}

	return &Response{
		payload: payload,
		raw:     reply.Body,
		status:  reply.StatusCode,
		timing:  reply.Timing,
		codec:   c.codec,
	}, nil
}
