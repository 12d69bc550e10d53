package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/biztositok/biztositok-go/api"
	"github.com/biztositok/biztositok-go/internal/metrics"
)

// Formatter is responsible for formatting calls and responses in text format
type Formatter struct {
	Verbose bool
	NoColor bool
	colors  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		colors:  Scheme(noColor),
	}
}

// FormatRequest formats a built call for display
func (f *Formatter) FormatRequest(req *api.Request) string {
	data := NewRequestData(req)

	var buf strings.Builder
	fmt.Fprintf(&buf, "▶ REQUEST: %s %s\n", f.colors.Method.Sprint(data.Method), f.colors.URL.Sprint(data.URL))

	if len(data.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(data.Headers) {
			fmt.Fprintf(&buf, "    %s: %s\n", f.colors.Key.Sprint(key), data.Headers[key])
		}
	}

	if len(data.Params) > 0 {
		buf.WriteString("  Params:\n")
		for _, key := range sortedKeys(data.Params) {
			fmt.Fprintf(&buf, "    %s: %s\n", f.colors.Key.Sprint(key), data.Params[key])
		}
	}

	return buf.String()
}

// FormatResponse formats a decoded response for display
func (f *Formatter) FormatResponse(res Result) string {
	resp := res.Response
	var buf strings.Builder

	statusColor := f.colors.StatusOK
	switch {
	case resp.StatusCode() >= 400:
		statusColor = f.colors.StatusError
	case resp.StatusCode() >= 300:
		statusColor = f.colors.StatusWarn
	}

	fmt.Fprintf(&buf, "◀ RESPONSE: %s (%dms)\n",
		statusColor.Sprint(resp.StatusCode()),
		resp.Timing().Total.Milliseconds())

	if resp.IsSuccess() {
		fmt.Fprintf(&buf, "  %s success\n", SuccessIcon(f.NoColor))
	} else {
		fmt.Fprintf(&buf, "  %s failed\n", ErrorIcon(f.NoColor))
	}
	if msg := resp.Message(); msg != "" {
		fmt.Fprintf(&buf, "  Message: %s\n", msg)
	}
	if errs := resp.ErrorsCombined(); len(errs) > 0 {
		buf.WriteString("  Errors:\n")
		for _, e := range errs {
			fmt.Fprintf(&buf, "    %s\n", f.colors.Error.Sprint(e))
		}
	}

	// Format detailed timing information if verbose
	if f.Verbose {
		t := resp.Timing()
		buf.WriteString("  Timing:\n")
		fmt.Fprintf(&buf, "    DNS Lookup:         %dms\n", t.DNSLookup.Milliseconds())
		fmt.Fprintf(&buf, "    Connect:            %dms\n", t.Connect.Milliseconds())
		fmt.Fprintf(&buf, "    TLS Handshake:      %dms\n", t.TLSHandshake.Milliseconds())
		fmt.Fprintf(&buf, "    Time to First Byte: %dms\n", t.TimeToFirstByte.Milliseconds())
		fmt.Fprintf(&buf, "    Content Transfer:   %dms\n", t.ContentTransfer.Milliseconds())
		fmt.Fprintf(&buf, "    Total:              %dms\n", t.Total.Milliseconds())
	}

	if len(res.Extracted) > 0 {
		buf.WriteString("  Extracted:\n")
		for _, name := range sortedKeys(res.Extracted) {
			fmt.Fprintf(&buf, "    %s = %s\n", f.colors.Highlight.Sprint(name), res.Extracted[name])
		}
	}

	if raw := resp.Raw(); len(raw) > 0 {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSON(raw))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatSummary formats bench results for display
func (f *Formatter) FormatSummary(path string, s metrics.Summary) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "%s %s\n", f.colors.Highlight.Sprint("BENCH"), path)
	fmt.Fprintf(&buf, "  Calls:     %d (%s %d, %s %d, errors %d)\n",
		s.Count, SuccessIcon(f.NoColor), s.Successes, ErrorIcon(f.NoColor), s.Failures, s.Errors)
	fmt.Fprintf(&buf, "  Elapsed:   %s\n", round(s.Elapsed))
	fmt.Fprintf(&buf, "  Latency:   min %s  mean %s\n", round(s.Min), round(s.Mean))
	fmt.Fprintf(&buf, "  p50 %s  p90 %s  p99 %s  max %s\n", round(s.P50), round(s.P90), round(s.P99), round(s.Max))

	return buf.String()
}

func round(d time.Duration) time.Duration {
	return d.Round(10 * time.Microsecond)
}

// formatJSON attempts to pretty-print a JSON document
func formatJSON(data []byte) string {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "  ", "  "); err != nil {
		return "  " + string(data)
	}
	return "  " + prettyJSON.String()
}
