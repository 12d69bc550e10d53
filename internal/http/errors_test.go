package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	dial := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"engine error", &Error{Kind: KindRead, Err: errors.New("eof")}, KindRead},
		{"redirect", &url.Error{Op: "Post", URL: "x", Err: ErrTooManyRedirects}, KindRedirect},
		{"canceled", fmt.Errorf("wrapped: %w", context.Canceled), KindCanceled},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"net timeout", &url.Error{Op: "Post", URL: "x", Err: timeoutErr{}}, KindTimeout},
		{"dns", &url.Error{Op: "Post", URL: "x", Err: &net.DNSError{Err: "no such host", Name: "nope.invalid"}}, KindDNS},
		{"dial", &url.Error{Op: "Post", URL: "x", Err: dial}, KindConnect},
		{"other", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorKind_String(t *testing.T) {
	if KindTimeout.String() != "timeout" {
		t.Errorf("Expected timeout, got %s", KindTimeout)
	}
	if ErrorKind(99).String() != "unknown" {
		t.Errorf("Expected unknown, got %s", ErrorKind(99))
	}
}
