package output

import (
	"testing"
	"time"

	"github.com/biztositok/biztositok-go/api"
	"github.com/biztositok/biztositok-go/internal/metrics"
	"github.com/stretchr/testify/assert"
)

func TestFormatter_FormatRequest(t *testing.T) {
	out := NewFormatter(false, true).FormatRequest(sampleRequest(t))

	assert.Contains(t, out, "▶ REQUEST: POST https://api.example.com/api/run/price/calc")
	assert.Contains(t, out, "Content-Type: application/x-www-form-urlencoded")
	assert.NotContains(t, out, "Expect")
	assert.Contains(t, out, "age: 30")
}

func TestFormatter_FormatResponse(t *testing.T) {
	t.Run("failure", func(t *testing.T) {
		out := NewFormatter(false, true).FormatResponse(failedResult())

		assert.Contains(t, out, "◀ RESPONSE:")
		assert.Contains(t, out, "✗ failed")
		assert.Contains(t, out, "Message: invalid input")
		assert.Contains(t, out, "[age]: too young")
		assert.Contains(t, out, "msg = invalid input")
		assert.Contains(t, out, `"success": 0`)
		assert.NotContains(t, out, "Timing:")
	})

	t.Run("success verbose", func(t *testing.T) {
		res := Result{Path: "p", Response: api.NewResponse(map[string]any{"success": true})}
		out := NewFormatter(true, true).FormatResponse(res)

		assert.Contains(t, out, "✓ success")
		assert.Contains(t, out, "Timing:")
		assert.Contains(t, out, "Time to First Byte")
		assert.NotContains(t, out, "Errors:")
	})
}

func TestFormatter_FormatSummary(t *testing.T) {
	out := NewFormatter(false, true).FormatSummary("price/calc", metrics.Summary{
		Count:     10,
		Successes: 9,
		Failures:  1,
		P50:       12 * time.Millisecond,
		P99:       40 * time.Millisecond,
		Max:       41 * time.Millisecond,
	})

	assert.Contains(t, out, "BENCH price/calc")
	assert.Contains(t, out, "Calls:     10 (✓ 9, ✗ 1, errors 0)")
	assert.Contains(t, out, "p50 12ms")
	assert.Contains(t, out, "p99 40ms")
	assert.Contains(t, out, "max 41ms")
}

func TestFormatJSON(t *testing.T) {
	assert.Equal(t, "  not json", formatJSON([]byte("not json")))
	assert.Contains(t, formatJSON([]byte(`{"a":1}`)), "\"a\": 1")
}
