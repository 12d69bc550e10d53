package api

import (
	"context"
	"errors"
	"maps"
	"time"

	ihttp "github.com/biztositok/biztositok-go/internal/http"
)

// Transport sends a built request and returns the raw reply. A Transport must
// return *TransportError when no body could be obtained; a non-2xx status is
// not a failure.
type Transport interface {
	Send(ctx context.Context, req *Request, opts TransportOptions) (*Reply, error)
}

// Reply is the raw outcome of a successful exchange.
type Reply struct {
	StatusCode int
	Body       []byte
	Timing     Timing
}

// Timing breaks down where the time of a call went. Phases the transport could
// not observe are zero.
type Timing struct {
	DNSLookup       time.Duration
	Connect         time.Duration
	TLSHandshake    time.Duration
	TimeToFirstByte time.Duration
	ContentTransfer time.Duration
	Total           time.Duration
}

// HTTPTransport is the default Transport, built on net/http. Every call uses
// a new connection.
type HTTPTransport struct {
	engine *ihttp.Client
}

// NewHTTPTransport returns a Transport backed by net/http.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{engine: ihttp.NewClient()}
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, req *Request, opts TransportOptions) (*Reply, error) {
	resp, err := t.engine.Do(ctx, &ihttp.Request{
		Method:  req.Method,
		URL:     req.URL,
		Headers: mergeHeaders(opts.Headers, req.Headers),
		Body:    req.Body,
	}, engineOptions(opts))
	if err != nil {
		return nil, newTransportError(err)
	}

	return &Reply{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Timing: Timing{
			DNSLookup:       resp.Timing.DNSLookupTime,
			Connect:         resp.Timing.TCPConnectTime,
			TLSHandshake:    resp.Timing.TLSHandshakeTime,
			TimeToFirstByte: resp.Timing.TimeToFirstByte,
			ContentTransfer: resp.Timing.ContentTransferTime,
			Total:           resp.Timing.TotalTime,
		},
	}, nil
}

func engineOptions(opts TransportOptions) ihttp.Options {
	return ihttp.Options{
		ConnectTimeout:  opts.ConnectTimeout,
		Timeout:         opts.Timeout,
		UserAgent:       opts.UserAgent,
		FollowRedirects: opts.FollowRedirects,
		MaxRedirects:    opts.MaxRedirects,
	}
}

// mergeHeaders layers request headers over the transport-wide ones.
func mergeHeaders(base, override map[string]string) map[string]string {
	headers := make(map[string]string, len(base)+len(override))
	maps.Copy(headers, base)
	maps.Copy(headers, override)
	return headers
}

var transportCodes = map[ihttp.ErrorKind]TransportCode{
	ihttp.KindUnknown:  CodeUnknown,
	ihttp.KindRequest:  CodeRequest,
	ihttp.KindDNS:      CodeDNS,
	ihttp.KindConnect:  CodeConnect,
	ihttp.KindTimeout:  CodeTimeout,
	ihttp.KindRedirect: CodeRedirect,
	ihttp.KindRead:     CodeRead,
	ihttp.KindCanceled: CodeCanceled,
}

// newTransportError classifies err and wraps it. An existing *TransportError is
// returned unchanged.
func newTransportError(err error) *TransportError {
	var te *TransportError
	if errors.As(err, &te) {
		return te
	}

	message := err.Error()
	var engineErr *ihttp.Error
	if errors.As(err, &engineErr) {
		message = engineErr.Err.Error()
	}

	return &TransportError{
		Code:    transportCodes[ihttp.Classify(err)],
		Message: message,
		Err:     err,
	}
}
