package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"

	"github.com/biztositok/biztositok-go/pkg/jsonpath"
	"github.com/biztositok/biztositok-go/pkg/jsonschema"
)

// ErrorEntry is one element of the "errors" list of a response.
type ErrorEntry struct {
	Field        string `json:"field"`
	ErrorMessage string `json:"error_message"`
}

// Response is a read-only view of a decoded API response. It never modifies the
// payload it wraps; callers must not modify values returned from it either.
type Response struct {
	payload any
	raw     []byte
	status  int
	timing  Timing
	codec   Codec
}

// NewResponse wraps an already decoded payload.
func NewResponse(payload any) *Response {
	raw, _ := json.Marshal(payload)
	return &Response{payload: payload, raw: raw, codec: JSONCodec{}}
}

// Payload returns the decoded JSON value.
func (r *Response) Payload() any { return r.payload }

// Raw returns the body as received.
func (r *Response) Raw() []byte { return r.raw }

// StatusCode returns the HTTP status of the reply, 0 for responses built with
// NewResponse.
func (r *Response) StatusCode() int { return r.status }

func (r *Response) Timing() Timing { return r.timing }

// IsSuccess reports whether the payload is an object whose "success" member is
// loosely equal to 1: the number 1, true, or a string holding a number equal
// to 1 such as "1" or "1.0".
func (r *Response) IsSuccess() bool {
	obj, ok := r.payload.(map[string]any)
	if !ok {
		return false
	}
	v, ok := obj["success"]
	return ok && looselyOne(v)
}

func looselyOne(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return err == nil && f == 1
	default:
		f, err := cast.ToFloat64E(x)
		return err == nil && f == 1
	}
}

// Message returns the "message" member as a string, or "" when it is missing
// or not a scalar.
func (r *Response) Message() string {
	v, ok := r.ValueAt("message")
	if !ok {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// Errors returns the "errors" list. Elements that are not objects are returned
// as empty entries so positions match the payload. An "errors" object is
// walked by its values in key order.
func (r *Response) Errors() []ErrorEntry {
	v, _ := r.ValueAt("errors")
	var list []any
	switch errs := v.(type) {
	case []any:
		list = errs
	case map[string]any:
		keys := make([]string, 0, len(errs))
		for k := range errs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		list = make([]any, 0, len(keys))
		for _, k := range keys {
			list = append(list, errs[k])
		}
	default:
		return []ErrorEntry{}
	}

	entries := make([]ErrorEntry, 0, len(list))
	for _, item := range list {
		var entry ErrorEntry
		if row, ok := item.(map[string]any); ok {
			entry.Field = cast.ToString(row["field"])
			entry.ErrorMessage = cast.ToString(row["error_message"])
		}
		entries = append(entries, entry)
	}
	return entries
}

// ErrorMessages returns the message of every error, in order.
func (r *Response) ErrorMessages() []string {
	errs := r.Errors()
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.ErrorMessage)
	}
	return messages
}

// ErrorsCombined returns every error as "[field]: message", in order.
func (r *Response) ErrorsCombined() []string {
	errs := r.Errors()
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, fmt.Sprintf("[%s]: %s", e.Field, e.ErrorMessage))
	}
	return messages
}

// Get returns the value at a dotted key such as "user.address.zip", or def
// when the path does not exist. A literal key containing dots wins over the
// nested path it spells.
func (r *Response) Get(key string, def any) any {
	return jsonpath.Lookup(r.payload, key, def)
}

// Has reports whether key is a direct member of the payload.
func (r *Response) Has(key string) bool {
	_, ok := r.ValueAt(key)
	return ok
}

// ValueAt returns the direct member key of the payload. Dots in key are not
// interpreted.
func (r *Response) ValueAt(key string) (any, bool) {
	return jsonpath.Member(r.payload, key)
}

// Query runs a gjson path (e.g. "errors.#.field") against the raw body.
func (r *Response) Query(path string) gjson.Result {
	return gjson.GetBytes(r.raw, path)
}

// Validate checks the payload against a JSON Schema document.
func (r *Response) Validate(schema string) error {
	compiled, err := jsonschema.Compile(schema)
	if err != nil {
		return err
	}
	return compiled.Validate(r.payload)
}

// Decode unmarshals the raw body into v.
func (r *Response) Decode(v any) error {
	return r.codec.Unmarshal(r.raw, v)
}
