package otp

import (
	"context"
	"sync"
	"time"

	"github.com/amirx1991/crm-sub001/internal/logger"
)

// Cooldown counts down the seconds until a new code may be requested.
// It is a pure state machine: Tick decrements by exactly one while the
// count is above zero and reports the single transition to zero. At zero
// the state is terminal until Restart.
type Cooldown struct {
	mu        sync.Mutex
	remaining int
	expired   bool
}

func NewCooldown(seconds int) *Cooldown {
	if seconds < 0 {
		seconds = 0
	}
	return &Cooldown{remaining: seconds, expired: seconds == 0}
}

// Remaining returns the seconds left before a resend is allowed.
func (c *Cooldown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Active reports whether the countdown is still running.
func (c *Cooldown) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining > 0
}

// Tick advances the countdown by one second. It returns expired=true only
// on the transition to zero; ticks at zero are no-ops and never re-fire.
func (c *Cooldown) Tick() (remaining int, expired bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.remaining == 0 {
		return 0, false
	}

	c.remaining--
	if c.remaining == 0 && !c.expired {
		c.expired = true
		return 0, true
	}
	return c.remaining, false
}

// Restart arms the countdown again with a fresh second count, e.g. after
// a new code was requested.
func (c *Cooldown) Restart(seconds int) {
	if seconds < 0 {
		seconds = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining = seconds
	c.expired = seconds == 0
}

// CooldownRunner drives a Cooldown from a real tick source. It stops when
// the countdown expires or the context is cancelled, whichever comes
// first, so no callback can fire after the owning view is gone.
type CooldownRunner struct {
	Cooldown *Cooldown
	Logger   logger.Logger

	// Interval between ticks, one second unless tests shrink it
	Interval time.Duration

	// OnTick is called after every decrement with the seconds left
	OnTick func(remaining int)

	// OnExpire is called exactly once when the countdown reaches zero
	OnExpire func()
}

// Run consumes ticks until expiry or cancellation. The returned channel
// is closed once the runner has fully stopped.
func (r *CooldownRunner) Run(ctx context.Context) <-chan struct{} {
	stopped := make(chan struct{})

	interval := r.Interval
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		defer close(stopped)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				if r.Logger != nil {
					r.Logger.Debug("cooldown runner stopped by context")
				}
				return

			case <-ticker.C:
				remaining, expired := r.Cooldown.Tick()
				if r.OnTick != nil {
					r.OnTick(remaining)
				}
				if expired {
					if r.OnExpire != nil {
						r.OnExpire()
					}
					return
				}
				if remaining == 0 {
					// Started at zero: nothing to count down
					return
				}
			}
		}
	}()

	return stopped
}
