package output

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/biztositok/biztositok-go/api"
	"github.com/biztositok/biztositok-go/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleRequest(t *testing.T) *api.Request {
	t.Helper()
	req, err := api.BuildRequest("https://api.example.com", "/price/calc",
		api.Params{"age": 30}, api.Credentials{Username: "u", Password: "********"}, api.BuildOptions{})
	require.NoError(t, err)
	return req
}

func failedResult() Result {
	return Result{
		Path: "price/calc",
		Response: api.NewResponse(map[string]any{
			"success": 0,
			"message": "invalid input",
			"errors": []any{
				map[string]any{"field": "age", "error_message": "too young"},
			},
		}),
		Extracted: map[string]string{"msg": "invalid input"},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"junit", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNewRequestData(t *testing.T) {
	data := NewRequestData(sampleRequest(t))

	assert.Equal(t, "POST", data.Method)
	assert.Equal(t, "https://api.example.com/api/run/price/calc", data.URL)
	assert.Equal(t, "application/x-www-form-urlencoded", data.Headers["Content-Type"])
	assert.NotContains(t, data.Headers, "Expect")
	assert.Equal(t, "30", data.Params["age"])
	assert.JSONEq(t, `{"username":"u","password":"********"}`, data.Params["auth"])
}

func TestNewResponseData(t *testing.T) {
	data := NewResponseData(failedResult())

	assert.Equal(t, "price/calc", data.Path)
	assert.False(t, data.Success)
	assert.Equal(t, "invalid input", data.Message)
	assert.Equal(t, []string{"[age]: too young"}, data.Errors)
	assert.Equal(t, "invalid input", data.Extracted["msg"])
}

func TestNewSummaryData(t *testing.T) {
	data := NewSummaryData("p", metrics.Summary{Count: 2, P50: 1500 * time.Microsecond, Max: 2 * time.Second})

	assert.Equal(t, int64(2), data.Count)
	assert.InDelta(t, 1.5, data.P50Ms, 1e-9)
	assert.InDelta(t, 2000, data.MaxMs, 1e-9)
}

func TestJSONFormatter(t *testing.T) {
	f := GetFormatter(FormatJSON, false, true)

	var resp ResponseData
	require.NoError(t, json.Unmarshal([]byte(f.FormatResponse(failedResult())), &resp))
	assert.Equal(t, "invalid input", resp.Message)

	var req RequestData
	require.NoError(t, json.Unmarshal([]byte(f.FormatRequest(sampleRequest(t))), &req))
	assert.Equal(t, "POST", req.Method)

	var sum SummaryData
	require.NoError(t, json.Unmarshal([]byte(f.FormatSummary("p", metrics.Summary{Count: 3})), &sum))
	assert.Equal(t, int64(3), sum.Count)
	assert.Equal(t, "p", sum.Path)

	compact := &JSONFormatter{}
	assert.NotContains(t, compact.FormatSummary("p", metrics.Summary{}), "\n")
}

func TestYAMLFormatter(t *testing.T) {
	f := GetFormatter(FormatYAML, false, true)

	var resp map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(f.FormatResponse(failedResult())), &resp))
	assert.Equal(t, "price/calc", resp["path"])
	assert.Equal(t, false, resp["success"])

	var sum map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(f.FormatSummary("p", metrics.Summary{Count: 1})), &sum))
	assert.Equal(t, 1, sum["count"])
}

func TestGetFormatter_DefaultsToText(t *testing.T) {
	_, ok := GetFormatter(FormatText, false, true).(*Formatter)
	assert.True(t, ok)
	_, ok = GetFormatter("other", false, true).(*Formatter)
	assert.True(t, ok)
}
