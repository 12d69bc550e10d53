package api

import (
	"context"
	"net"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	ihttp "github.com/biztositok/biztositok-go/internal/http"
)

// RestyTransport is a Transport built on go-resty. It reports the same error
// codes as HTTPTransport.
type RestyTransport struct {
	logger *zap.Logger
}

// NewRestyTransport returns a resty-backed Transport. resty's own warnings go
// to logger; nil discards them.
func NewRestyTransport(logger *zap.Logger) *RestyTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RestyTransport{logger: logger}
}

func (t *RestyTransport) newClient(opts TransportOptions) *resty.Client {
	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}

	client := resty.New()
	client.SetLogger(t.logger.Sugar())
	client.SetTimeout(opts.Timeout)
	client.SetTransport(&http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: opts.ConnectTimeout,
		DisableKeepAlives:   true,
	})
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
		if !opts.FollowRedirects || opts.MaxRedirects == 0 {
			return http.ErrUseLastResponse
		}
		if len(via) > opts.MaxRedirects {
			return ihttp.ErrTooManyRedirects
		}
		return nil
	}))
	return client
}

// Send implements Transport.
func (t *RestyTransport) Send(ctx context.Context, req *Request, opts TransportOptions) (*Reply, error) {
	r := t.newClient(opts).R().
		SetContext(ctx).
		EnableTrace().
		SetBody(req.Body)

	if opts.UserAgent != "" {
		r.SetHeader("User-Agent", opts.UserAgent)
	}
	for key, value := range mergeHeaders(opts.Headers, req.Headers) {
		// resty has no way to send "no header", so empty values are skipped
		if value != "" {
			r.SetHeader(key, value)
		}
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, newTransportError(err)
	}

	trace := resp.Request.TraceInfo()
	return &Reply{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Timing: Timing{
			DNSLookup:       trace.DNSLookup,
			Connect:         trace.TCPConnTime,
			TLSHandshake:    trace.TLSHandshake,
			TimeToFirstByte: trace.ServerTime,
			ContentTransfer: trace.ResponseTime,
			Total:           trace.TotalTime,
		},
	}, nil
}
