package timer

import (
	"time"
)

const (
	IceDuration       = 10 * time.Minute
	NutritionDuration = time.Hour
)

// Countdown is a wall-clock timer. Remaining time is derived from the start
// timestamp on every read, so it keeps running while the process is
// suspended and needs no ticking. Monotonic readings are stripped: the
// monotonic clock stops during system sleep.
type Countdown struct {
	duration  time.Duration
	remaining time.Duration
	startedAt time.Time
	running   bool
}

func NewCountdown(duration time.Duration) *Countdown {
	return &Countdown{
		duration:  duration,
		remaining: duration,
	}
}

func NewIceTimer() *Countdown {
	return NewCountdown(IceDuration)
}

func NewNutritionTimer() *Countdown {
	return NewCountdown(NutritionDuration)
}

// Start runs the countdown from its current remaining time. Starting a
// finished countdown restarts it from the full duration.
func (c *Countdown) Start(now time.Time) {
	if c.running {
		return
	}
	if c.remaining <= 0 {
		c.remaining = c.duration
	}
	c.startedAt = now.Round(0)
	c.running = true
}

// Pause freezes the remaining time.
func (c *Countdown) Pause(now time.Time) {
	if !c.running {
		return
	}
	c.remaining = c.Remaining(now)
	c.running = false
}

func (c *Countdown) Toggle(now time.Time) {
	if c.running {
		c.Pause(now)
		return
	}
	c.Start(now)
}

// Expire stops a started countdown that has run out and reports whether
// this call stopped it.
func (c *Countdown) Expire(now time.Time) bool {
	if !c.running || c.Remaining(now) > 0 {
		return false
	}
	c.remaining = 0
	c.running = false
	return true
}

func (c *Countdown) Reset() {
	c.remaining = c.duration
	c.running = false
	c.startedAt = time.Time{}
}

func (c *Countdown) Remaining(now time.Time) time.Duration {
	if !c.running {
		return c.remaining
	}
	left := c.remaining - now.Round(0).Sub(c.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

// RemainingSeconds rounds up, so a countdown shows 1 until it is really done.
func (c *Countdown) RemainingSeconds(now time.Time) int {
	left := c.Remaining(now)
	return int((left + time.Second - 1) / time.Second)
}

func (c *Countdown) Done(now time.Time) bool {
	return c.Remaining(now) == 0
}

// Running reports whether the countdown is started and not yet done.
func (c *Countdown) Running(now time.Time) bool {
	return c.running && !c.Done(now)
}

func (c *Countdown) Duration() time.Duration {
	return c.duration
}
