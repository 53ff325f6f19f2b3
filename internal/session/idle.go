package session

import (
	"sync"
	"time"
)

// IdleTracker forces logout after a period without user activity. Each
// interaction calls [IdleTracker.Touch] to rearm the countdown; when it
// elapses the expiry callback runs once. The zero timeout disables tracking.
type IdleTracker struct {
	timeout  time.Duration
	onExpire func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewIdleTracker creates and arms an inactivity tracker. onExpire runs on
// the timer goroutine; keep it short (clear session, signal shutdown).
func NewIdleTracker(timeout time.Duration, onExpire func()) *IdleTracker {
	t := &IdleTracker{timeout: timeout, onExpire: onExpire}
	if timeout > 0 {
		t.timer = time.AfterFunc(timeout, t.fire)
	}
	return t
}

func (t *IdleTracker) fire() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	t.mu.Unlock()

	if t.onExpire != nil {
		t.onExpire()
	}
}

// Touch rearms the countdown. Touching an expired or stopped tracker is a
// no-op; the forced logout already happened.
func (t *IdleTracker) Touch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.timer == nil {
		return
	}
	t.timer.Reset(t.timeout)
}

// Stop disarms the tracker without firing the callback.
func (t *IdleTracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.stopped = true
}

// Active reports whether the tracker is still armed.
func (t *IdleTracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil && !t.stopped
}
