// Package rate spaces calls evenly in time.
package rate

import (
	"context"
	"sync"
	"time"
)

// Pacer hands out evenly spaced start times at a fixed rate. A caller that
// falls behind starts immediately, but idle time is never banked, so a slow
// consumer cannot cause a burst later.
//
// Pacer is safe for concurrent use. A nil *Pacer never waits.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

// NewPacer returns a pacer allowing perSecond starts per second. It returns
// nil, meaning no limit, when perSecond is not positive.
func NewPacer(perSecond float64) *Pacer {
	if perSecond <= 0 {
		return nil
	}
	return &Pacer{interval: time.Duration(float64(time.Second) / perSecond)}
}

// Interval is the spacing between two starts.
func (p *Pacer) Interval() time.Duration {
	if p == nil {
		return 0
	}
	return p.interval
}

// Next reserves the next start time. The result may be in the past when the
// caller is behind schedule.
func (p *Pacer) Next() time.Time {
	now := time.Now()
	if p == nil {
		return now
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.next.Before(now) {
		p.next = now
	}
	slot := p.next
	p.next = slot.Add(p.interval)
	return slot
}

// Wait blocks until the caller's reserved start time or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	wait := time.Until(p.Next())
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
