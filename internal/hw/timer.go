package hw

import "time"

// Scheduler arms one-shot deferred actions. The reset sequence uses it for
// its 600 ms confirmation delay; tests substitute a manual implementation
// to fire timers deterministically.
type Scheduler interface {
	// AfterFunc schedules f to run once after d and returns a cancel
	// function. Cancelling after the timer fired is a no-op.
	AfterFunc(d time.Duration, f func()) (cancel func())
}

// RealScheduler implements Scheduler on the time package.
type RealScheduler struct{}

// AfterFunc implements Scheduler.
func (RealScheduler) AfterFunc(d time.Duration, f func()) (cancel func()) {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}
