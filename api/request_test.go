package api

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		path     string
		query    map[string]string
		expected string
	}{
		{
			name:     "Path without leading slash",
			endpoint: "https://example.com",
			path:     "user/get",
			expected: "https://example.com/api/run/user/get",
		},
		{
			name:     "Path with leading slash",
			endpoint: "https://example.com",
			path:     "/user/get",
			expected: "https://example.com/api/run/user/get",
		},
		{
			name:     "Endpoint with trailing slash",
			endpoint: "https://example.com/",
			path:     "/user/get",
			expected: "https://example.com/api/run/user/get",
		},
		{
			name:     "Endpoint with several trailing slashes",
			endpoint: "https://example.com//",
			path:     "test",
			expected: "https://example.com/api/run/test",
		},
		{
			name:     "Endpoint with base path",
			endpoint: "https://example.com/site",
			path:     "test",
			expected: "https://example.com/site/api/run/test",
		},
		{
			name:     "Empty path",
			endpoint: "https://example.com",
			path:     "",
			expected: "https://example.com/api/run/",
		},
		{
			name:     "Only one leading slash is stripped",
			endpoint: "https://example.com",
			path:     "//test",
			expected: "https://example.com/api/run//test",
		},
		{
			name:     "Query string",
			endpoint: "https://example.com",
			path:     "test",
			query:    map[string]string{"page": "1", "q": "a b"},
			expected: "https://example.com/api/run/test?page=1&q=a+b",
		},
		{
			name:     "Empty query adds no question mark",
			endpoint: "https://example.com",
			path:     "test",
			query:    map[string]string{},
			expected: "https://example.com/api/run/test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildURL(tt.endpoint, tt.path, tt.query))
		})
	}
}

func TestBuildRequest_Params(t *testing.T) {
	params := Params{
		"name":   "Test User",
		"count":  3,
		"active": true,
		"none":   nil,
		"items":  []int{1, 2},
		"user":   map[string]any{"zip": 1234},
		"auth":   "caller supplied",
	}

	req, err := BuildRequest("http://example.com", "/test", params, Credentials{Username: "test", Password: "1234567"}, BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "http://example.com/api/run/test", req.URL)

	form, err := url.ParseQuery(req.Body)
	require.NoError(t, err)

	assert.Equal(t, "Test User", form.Get("name"))
	assert.Equal(t, "3", form.Get("count"))
	assert.Equal(t, "true", form.Get("active"))
	assert.Equal(t, "null", form.Get("none"))
	assert.Equal(t, "[1,2]", form.Get("items"))
	assert.Equal(t, `{"zip":1234}`, form.Get("user"))
	assert.Equal(t, `{"username":"test","password":"1234567"}`, form.Get("auth"))
	assert.Len(t, form, len(params))
}

func TestBuildRequest_AuthAlwaysPresent(t *testing.T) {
	req, err := BuildRequest("http://example.com", "", nil, Credentials{}, BuildOptions{})
	require.NoError(t, err)

	form, err := url.ParseQuery(req.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"username":"","password":""}`, form.Get("auth"))
}

func TestBuildRequest_Headers(t *testing.T) {
	t.Run("Builder headers are added", func(t *testing.T) {
		req, err := BuildRequest("http://example.com", "x", nil, Credentials{}, BuildOptions{})
		require.NoError(t, err)

		assert.Equal(t, "application/x-www-form-urlencoded", req.Headers["Content-Type"])
		value, ok := req.Headers["Expect"]
		assert.True(t, ok)
		assert.Empty(t, value)
	})

	t.Run("Caller headers are kept and Expect is forced", func(t *testing.T) {
		callerHeaders := map[string]string{"X-Trace": "abc", "Expect": "100-continue"}
		req, err := BuildRequest("http://example.com", "x", nil, Credentials{}, BuildOptions{Headers: callerHeaders})
		require.NoError(t, err)

		assert.Equal(t, "abc", req.Headers["X-Trace"])
		assert.Empty(t, req.Headers["Expect"])
		assert.Equal(t, "100-continue", callerHeaders["Expect"], "caller map must not be modified")
	})
}

func TestBuildRequest_Deterministic(t *testing.T) {
	params := Params{"b": "2", "a": "1", "c": []string{"x"}}
	creds := Credentials{Username: "u", Password: "p"}

	first, err := BuildRequest("http://example.com", "x", params, creds, BuildOptions{})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := BuildRequest("http://example.com", "x", params, creds, BuildOptions{})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBuildRequest_NestedValueRoundTrip(t *testing.T) {
	nested := map[string]any{
		"name":  "Test User",
		"tags":  []any{"a", "b"},
		"inner": map[string]any{"zip": float64(1234), "ok": true},
	}

	req, err := BuildRequest("http://example.com", "x", Params{"data": nested}, Credentials{}, BuildOptions{})
	require.NoError(t, err)

	form, err := url.ParseQuery(req.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(form.Get("data")), &decoded))
	assert.Equal(t, nested, decoded)
}

func TestBuildRequest_UnencodableParam(t *testing.T) {
	_, err := BuildRequest("http://example.com", "x", Params{"ch": make(chan int)}, Credentials{}, BuildOptions{})
	require.Error(t, err)

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestJSONCodec_DoesNotEscapeHTML(t *testing.T) {
	data, err := JSONCodec{}.Marshal(map[string]string{"q": "<a&b>"})
	require.NoError(t, err)
	assert.Equal(t, `{"q":"<a&b>"}`, string(data))
}
