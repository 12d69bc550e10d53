package http

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a failed exchange by the phase that failed.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindRequest
	KindDNS
	KindConnect
	KindTimeout
	KindRedirect
	KindRead
	KindCanceled
)

// String returns a human-readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindDNS:
		return "dns"
	case KindConnect:
		return "connect"
	case KindTimeout:
		return "timeout"
	case KindRedirect:
		return "redirect"
	case KindRead:
		return "read"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// ErrTooManyRedirects is returned when a response chain exceeds Options.MaxRedirects.
var ErrTooManyRedirects = errors.New("too many redirects")

// Error is returned by Client.Do for every failed exchange.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify maps a transport-level error to an ErrorKind. It understands the
// errors produced by net/http and net, so other engines built on them can
// share it.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr.Kind
	}

	if errors.Is(err, ErrTooManyRedirects) {
		return KindRedirect
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindDNS
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return KindConnect
	}

	return KindUnknown
}
