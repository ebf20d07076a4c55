package session

import (
	"sync"
	"time"
)

// Timer counts down a fixed duration at one-second resolution and
// fires onExpire exactly once when the remaining time reaches zero.
// Cancel is idempotent and guarantees onExpire never fires afterwards.
// There is no persistence: if the process restarts, elapsed time is
// lost.
type Timer struct {
	deadline time.Time

	mu      sync.Mutex
	done    chan struct{}
	stopped bool
}

// StartTimer begins the countdown immediately.
func StartTimer(durationSeconds int, onExpire func()) *Timer {
	return startTimer(time.Duration(durationSeconds)*time.Second, time.Second, onExpire)
}

// startTimer is the test seam: the tick interval is injectable so the
// expiry path can be exercised without waiting out wall-clock seconds.
func startTimer(d, tick time.Duration, onExpire func()) *Timer {
	t := &Timer{
		deadline: time.Now().Add(d),
		done:     make(chan struct{}),
	}
	go t.run(tick, onExpire)
	return t
}

func (t *Timer) run(tick time.Duration, onExpire func()) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			if time.Now().Before(t.deadline) {
				continue
			}
			// Cancel may race the tick: claim the firing under the
			// same lock Cancel uses, so at most one side wins.
			t.mu.Lock()
			if t.stopped {
				t.mu.Unlock()
				return
			}
			t.stopped = true
			close(t.done)
			t.mu.Unlock()
			if onExpire != nil {
				onExpire()
			}
			return
		}
	}
}

// Cancel stops the countdown. Safe to call any number of times, from
// any state; after it returns onExpire will not fire.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	close(t.done)
}

// Remaining reports the whole seconds left for display, never
// negative.
func (t *Timer) Remaining() int {
	left := time.Until(t.deadline)
	if left < 0 {
		return 0
	}
	return int(left.Round(time.Second) / time.Second)
}
