package api

import (
	"maps"
	"net/http"
	"net/url"
	"strings"
)

// RunRoute is the fixed route every function path is appended to.
const RunRoute = "api/run/"

// Params are the POST parameters of a call. String values are sent as is;
// every other value, nil included, is sent as its JSON encoding.
type Params map[string]any

// Credentials authenticate every call. They are sent in the "auth" parameter.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Request is a fully built call, ready for a Transport.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
}

// BuildOptions carries the optional inputs of BuildRequest.
type BuildOptions struct {
	// Query is encoded into the URL query string. Empty means no "?".
	Query map[string]string

	// Headers are copied into the request before the builder's own headers.
	Headers map[string]string

	// Codec encodes non-string parameters. Nil means JSONCodec.
	Codec Codec
}

// BuildRequest turns an endpoint, a function path and parameters into a
// request. It performs no I/O.
func BuildRequest(endpoint, path string, params Params, creds Credentials, opts BuildOptions) (*Request, error) {
	codec := opts.Codec
	if codec == nil {
		codec = JSONCodec{}
	}

	form, err := prepareParams(params, creds, codec)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(opts.Headers)+2)
	maps.Copy(headers, opts.Headers)
	headers["Content-Type"] = "application/x-www-form-urlencoded"
	// An empty value removes the header, which stops the engine from
	// waiting on "Expect: 100-continue" before sending the body.
	headers["Expect"] = ""

	return &Request{
		Method:  http.MethodPost,
		URL:     BuildURL(endpoint, path, opts.Query),
		Headers: headers,
		Body:    form.Encode(),
	}, nil
}

// BuildURL returns endpoint/api/run/path with exactly one slash between the
// endpoint and the route and a single leading slash stripped from path.
func BuildURL(endpoint, path string, query map[string]string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(endpoint, "/"))
	b.WriteString("/")
	b.WriteString(RunRoute)
	b.WriteString(strings.TrimPrefix(path, "/"))

	if len(query) > 0 {
		values := make(url.Values, len(query))
		for key, value := range query {
			values.Set(key, value)
		}
		b.WriteString("?")
		b.WriteString(values.Encode())
	}

	return b.String()
}

// prepareParams injects the credentials and flattens every value to a string.
func prepareParams(params Params, creds Credentials, codec Codec) (url.Values, error) {
	form := make(url.Values, len(params)+1)

	for key, value := range params {
		if key == "auth" {
			continue
		}
		encoded, err := encodeParam(key, value, codec)
		if err != nil {
			return nil, err
		}
		form.Set(key, encoded)
	}

	auth, err := encodeParam("auth", creds, codec)
	if err != nil {
		return nil, err
	}
	form.Set("auth", auth)

	return form, nil
}

func encodeParam(key string, value any, codec Codec) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	data, err := codec.Marshal(value)
	if err != nil {
		return "", &ConfigurationError{Reason: "encode parameter " + key, Err: err}
	}
	return string(data), nil
}
