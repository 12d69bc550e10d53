// Package metrics aggregates call latencies for the bench command.
package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram range in microseconds: 1µs to 10 minutes, 3 significant figures.
const (
	histogramMin     = 1
	histogramMax     = 600_000_000
	histogramSigFigs = 3
)

// Recorder collects call latencies and outcome counts.
//
// Recorder is safe for concurrent use.
type Recorder struct {
	mu        sync.Mutex
	hist      *hdrhistogram.Histogram
	successes int64
	failures  int64
	errors    int64
	started   time.Time
}

// Summary is a point-in-time view of a Recorder.
type Summary struct {
	Count     int64         `json:"count" yaml:"count"`
	Successes int64         `json:"successes" yaml:"successes"`
	Failures  int64         `json:"failures" yaml:"failures"`
	Errors    int64         `json:"errors" yaml:"errors"`
	Min       time.Duration `json:"min" yaml:"min"`
	Mean      time.Duration `json:"mean" yaml:"mean"`
	P50       time.Duration `json:"p50" yaml:"p50"`
	P90       time.Duration `json:"p90" yaml:"p90"`
	P99       time.Duration `json:"p99" yaml:"p99"`
	Max       time.Duration `json:"max" yaml:"max"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
}

// NewRecorder creates an empty recorder. The elapsed clock starts now.
func NewRecorder() *Recorder {
	return &Recorder{
		hist:    hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
		started: time.Now(),
	}
}

// Record adds one completed call. success is the API level outcome.
func (r *Recorder) Record(d time.Duration, success bool) {
	micros := clamp(d.Microseconds())

	r.mu.Lock()
	defer r.mu.Unlock()

	// RecordValue only fails outside the histogram range, which clamp rules out
	_ = r.hist.RecordValue(micros)
	if success {
		r.successes++
	} else {
		r.failures++
	}
}

// RecordError counts a call that produced no response. It has no latency.
func (r *Recorder) RecordError() {
	r.mu.Lock()
	r.errors++
	r.mu.Unlock()
}

// Summary returns the current percentiles and counters.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Summary{
		Count:     r.hist.TotalCount() + r.errors,
		Successes: r.successes,
		Failures:  r.failures,
		Errors:    r.errors,
		Elapsed:   time.Since(r.started),
	}
	if r.hist.TotalCount() == 0 {
		return s
	}

	s.Min = micros(r.hist.Min())
	s.Mean = time.Duration(r.hist.Mean() * float64(time.Microsecond))
	s.P50 = micros(r.hist.ValueAtQuantile(50))
	s.P90 = micros(r.hist.ValueAtQuantile(90))
	s.P99 = micros(r.hist.ValueAtQuantile(99))
	s.Max = micros(r.hist.Max())
	return s
}

// Reset clears all recorded values and restarts the elapsed clock.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hist.Reset()
	r.successes, r.failures, r.errors = 0, 0, 0
	r.started = time.Now()
}

func clamp(v int64) int64 {
	if v < histogramMin {
		return histogramMin
	}
	if v > histogramMax {
		return histogramMax
	}
	return v
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
