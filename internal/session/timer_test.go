package session

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerFiresExactlyOnce(t *testing.T) {
	var fired int32
	tm := startTimer(30*time.Millisecond, 10*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	defer tm.Cancel()

	time.Sleep(200 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Fatalf("onExpire fired %d times, want exactly 1", got)
	}
}

func TestTimerCancelPreventsExpiry(t *testing.T) {
	var fired int32
	tm := startTimer(50*time.Millisecond, 10*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	tm.Cancel()
	tm.Cancel() // idempotent

	time.Sleep(150 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Fatalf("onExpire fired %d times after cancel, want 0", got)
	}
}

func TestStartTimerRemainingFromSeconds(t *testing.T) {
	tm := StartTimer(120, nil)
	defer tm.Cancel()

	if got := tm.Remaining(); got <= 0 || got > 120 {
		t.Fatalf("remaining = %d, want within (0, 120]", got)
	}
}

func TestTimerRemainingNeverNegative(t *testing.T) {
	tm := startTimer(20*time.Millisecond, 10*time.Millisecond, nil)
	defer tm.Cancel()

	time.Sleep(80 * time.Millisecond)
	if got := tm.Remaining(); got != 0 {
		t.Fatalf("remaining = %d after deadline, want 0", got)
	}
}
