package backend

import (
	"context"
	"sync"
	"time"
)

// throttle spaces successive emissions at least interval apart.
type throttle struct {
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	next time.Time
}

func newThrottle(interval time.Duration) *throttle {
	return &throttle{interval: max(interval, 0), now: time.Now}
}

// wait blocks until the next slot opens or ctx ends. It reports whether the
// caller may proceed.
func (t *throttle) wait(ctx context.Context) bool {
	if t == nil || t.interval <= 0 {
		return ctx.Err() == nil
	}
	for {
		t.mu.Lock()
		now := t.now()
		delay := t.next.Sub(now)
		if delay <= 0 {
			t.next = now.Add(t.interval)
			t.mu.Unlock()
			return true
		}
		t.mu.Unlock()
		timer := time.NewTimer(min(delay, t.interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}
