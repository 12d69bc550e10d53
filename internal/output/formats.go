package output

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/biztositok/biztositok-go/api"
	"github.com/biztositok/biztositok-go/internal/metrics"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat converts a configured name to an OutputFormat.
func ParseFormat(name string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(name)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", name)
	}
}

// Result is one finished call as shown to the user.
type Result struct {
	Path      string
	Response  *api.Response
	Extracted map[string]string
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(req *api.Request) string
	FormatResponse(res Result) string
	FormatSummary(path string, s metrics.Summary) string
}

// RequestData represents the structured data of a built call
type RequestData struct {
	Method  string            `json:"method" yaml:"method"`
	URL     string            `json:"url" yaml:"url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// TimingData represents detailed timing information for a call
type TimingData struct {
	DNSLookup       int64 `json:"dnsLookupMs,omitempty" yaml:"dnsLookupMs,omitempty"`
	Connect         int64 `json:"connectMs,omitempty" yaml:"connectMs,omitempty"`
	TLSHandshake    int64 `json:"tlsHandshakeMs,omitempty" yaml:"tlsHandshakeMs,omitempty"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs,omitempty" yaml:"timeToFirstByteMs,omitempty"`
	ContentTransfer int64 `json:"contentTransferMs,omitempty" yaml:"contentTransferMs,omitempty"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
}

// ResponseData represents the structured data of a decoded response
type ResponseData struct {
	Path       string            `json:"path" yaml:"path"`
	StatusCode int               `json:"statusCode" yaml:"statusCode"`
	Success    bool              `json:"success" yaml:"success"`
	Message    string            `json:"message,omitempty" yaml:"message,omitempty"`
	Errors     []string          `json:"errors,omitempty" yaml:"errors,omitempty"`
	Body       any               `json:"body" yaml:"body"`
	Extracted  map[string]string `json:"extracted,omitempty" yaml:"extracted,omitempty"`
	Timing     TimingData        `json:"timing" yaml:"timing"`
}

// SummaryData represents bench results with durations in milliseconds
type SummaryData struct {
	Path      string  `json:"path" yaml:"path"`
	Count     int64   `json:"count" yaml:"count"`
	Successes int64   `json:"successes" yaml:"successes"`
	Failures  int64   `json:"failures" yaml:"failures"`
	Errors    int64   `json:"errors" yaml:"errors"`
	MinMs     float64 `json:"minMs" yaml:"minMs"`
	MeanMs    float64 `json:"meanMs" yaml:"meanMs"`
	P50Ms     float64 `json:"p50Ms" yaml:"p50Ms"`
	P90Ms     float64 `json:"p90Ms" yaml:"p90Ms"`
	P99Ms     float64 `json:"p99Ms" yaml:"p99Ms"`
	MaxMs     float64 `json:"maxMs" yaml:"maxMs"`
	ElapsedMs float64 `json:"elapsedMs" yaml:"elapsedMs"`
}

// NewRequestData flattens a built call. Suppressed (empty) headers are left
// out and the form body is decoded into params.
func NewRequestData(req *api.Request) RequestData {
	data := RequestData{Method: req.Method, URL: req.URL}

	for key, value := range req.Headers {
		if value == "" {
			continue
		}
		if data.Headers == nil {
			data.Headers = make(map[string]string)
		}
		data.Headers[key] = value
	}

	if form, err := url.ParseQuery(req.Body); err == nil && len(form) > 0 {
		data.Params = make(map[string]string, len(form))
		for key := range form {
			data.Params[key] = form.Get(key)
		}
	}

	return data
}

// NewResponseData flattens a call result.
func NewResponseData(res Result) ResponseData {
	resp := res.Response
	t := resp.Timing()
	return ResponseData{
		Path:       res.Path,
		StatusCode: resp.StatusCode(),
		Success:    resp.IsSuccess(),
		Message:    resp.Message(),
		Errors:     resp.ErrorsCombined(),
		Body:       resp.Payload(),
		Extracted:  res.Extracted,
		Timing: TimingData{
			DNSLookup:       t.DNSLookup.Milliseconds(),
			Connect:         t.Connect.Milliseconds(),
			TLSHandshake:    t.TLSHandshake.Milliseconds(),
			TimeToFirstByte: t.TimeToFirstByte.Milliseconds(),
			ContentTransfer: t.ContentTransfer.Milliseconds(),
			Total:           t.Total.Milliseconds(),
		},
	}
}

// NewSummaryData converts a bench summary to milliseconds.
func NewSummaryData(path string, s metrics.Summary) SummaryData {
	ms := func(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
	return SummaryData{
		Path:      path,
		Count:     s.Count,
		Successes: s.Successes,
		Failures:  s.Failures,
		Errors:    s.Errors,
		MinMs:     ms(s.Min),
		MeanMs:    ms(s.Mean),
		P50Ms:     ms(s.P50),
		P90Ms:     ms(s.P90),
		P99Ms:     ms(s.P99),
		MaxMs:     ms(s.Max),
		ElapsedMs: ms(s.Elapsed),
	}
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

func (f *JSONFormatter) marshal(v any) string {
	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(output)
}

// FormatRequest formats a request as JSON
func (f *JSONFormatter) FormatRequest(req *api.Request) string {
	return f.marshal(NewRequestData(req))
}

// FormatResponse formats a response as JSON
func (f *JSONFormatter) FormatResponse(res Result) string {
	return f.marshal(NewResponseData(res))
}

// FormatSummary formats bench results as JSON
func (f *JSONFormatter) FormatSummary(path string, s metrics.Summary) string {
	return f.marshal(NewSummaryData(path, s))
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

func (f *YAMLFormatter) marshal(v any) string {
	output, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %q\n", err.Error())
	}
	return string(output)
}

// FormatRequest formats a request as YAML
func (f *YAMLFormatter) FormatRequest(req *api.Request) string {
	return f.marshal(NewRequestData(req))
}

// FormatResponse formats a response as YAML
func (f *YAMLFormatter) FormatResponse(res Result) string {
	return f.marshal(NewResponseData(res))
}

// FormatSummary formats bench results as YAML
func (f *YAMLFormatter) FormatSummary(path string, s metrics.Summary) string {
	return f.marshal(NewSummaryData(path, s))
}

// GetFormatter returns the appropriate formatter for the given format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewFormatter(verbose, noColor)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
