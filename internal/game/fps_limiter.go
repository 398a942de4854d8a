package game

import (
	"time"

	"island-sim/internal/config"
)

// pausedTickRate is the loop rate while the simulation is paused.
const pausedTickRate = 10

// FPSLimiter paces the tick loop at the configured rate
type FPSLimiter struct {
	next time.Time
}

// NewFPSLimiter creates a new limiter
func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{}
}

// Interval is the tick length for the current settings, 0 when unlimited.
func Interval(paused bool) time.Duration {
	limit := config.GetFPSLimit()
	if paused {
		limit = pausedTickRate
	}
	if limit <= 0 {
		return 0
	}
	return time.Second / time.Duration(limit)
}

// Wait blocks until the next tick is due.
// Uses a hybrid sleep/spin approach for better precision on high rate caps.
func (f *FPSLimiter) Wait(paused bool) {
	target := Interval(paused)
	if target == 0 {
		f.next = time.Time{}
		return
	}

	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		// busy-wait for the final few microseconds
		if time.Until(f.next) <= 0 {
			break
		}
	}

	// If we're significantly late (e.g., hitch), resync to avoid drift
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
