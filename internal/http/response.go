package http

import (
	"net/http"
	"time"
)

// TimingInfo stores detailed timing information for an HTTP request.
// All durations represent the time spent in each phase of the request.
type TimingInfo struct {
	// StartTime is when the request started
	StartTime time.Time

	// DNSLookupTime is the time spent looking up the DNS address
	DNSLookupTime time.Duration

	// TCPConnectTime is the time spent establishing a TCP connection
	TCPConnectTime time.Duration

	// TLSHandshakeTime is the time spent performing the TLS handshake (for HTTPS)
	TLSHandshakeTime time.Duration

	// TimeToFirstByte is the time from the last completed phase to the first response byte
	TimeToFirstByte time.Duration

	// ContentTransferTime is the time spent reading the response body
	ContentTransferTime time.Duration

	// TotalTime is the total time from request start to completion
	TotalTime time.Duration
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
	Timing     TimingInfo
}
