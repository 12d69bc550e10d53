package api

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is against the typed errors below.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrTransport     = errors.New("transport error")
	ErrDecode        = errors.New("decode error")
)

// ConfigurationError reports a client that cannot issue requests: a missing
// transport or codec, no endpoint, or parameters that cannot be encoded.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("api: configuration: %s: %v", e.Reason, e.Err)
	}
	return "api: configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// TransportCode identifies the phase in which a transport failure happened.
type TransportCode int

const (
	CodeUnknown TransportCode = iota + 1
	// CodeRequest means the outbound request could not be created.
	CodeRequest
	CodeDNS
	CodeConnect
	CodeTimeout
	// CodeRedirect means the redirect limit was exceeded.
	CodeRedirect
	// CodeRead means the connection failed while reading the body.
	CodeRead
	CodeCanceled
)

var codeNames = map[TransportCode]string{
	CodeUnknown:  "unknown",
	CodeRequest:  "request",
	CodeDNS:      "dns",
	CodeConnect:  "connect",
	CodeTimeout:  "timeout",
	CodeRedirect: "redirect",
	CodeRead:     "read",
	CodeCanceled: "canceled",
}

func (c TransportCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// TransportError is returned when the request never produced a response body.
type TransportError struct {
	Code    TransportCode
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("api: transport error (%s): %s", e.Code, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// DecodeError is returned when the response body is not a JSON document.
type DecodeError struct {
	// Body holds the first bytes of the offending body
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("api: invalid API response (json decode error): %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

const maxSnippet = 512

func snippet(body []byte) string {
	if len(body) > maxSnippet {
		body = body[:maxSnippet]
	}
	return string(body)
}
