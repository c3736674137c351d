package scoreboard

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is a countdown computed from timestamps. It never counts ticks, so
// stopping and restarting cannot drift. Clock is not safe for concurrent use;
// Session guards it.
type Clock struct {
	source    clockwork.Clock
	base      time.Duration
	startedAt time.Time
	running   bool
}

// NewClock returns a stopped clock holding initial.
func NewClock(source clockwork.Clock, initial time.Duration) *Clock {
	if source == nil {
		source = clockwork.NewRealClock()
	}
	if initial < 0 {
		initial = 0
	}
	return &Clock{source: source, base: initial}
}

// Remaining is base minus the time elapsed since Start, clamped at zero.
func (c *Clock) Remaining() time.Duration {
	if !c.running {
		return c.base
	}
	left := c.base - c.source.Since(c.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Running reports whether the clock is counting down.
func (c *Clock) Running() bool {
	return c.running
}

// Start begins counting down. It returns false when nothing is left.
func (c *Clock) Start() bool {
	if c.running {
		return true
	}
	if c.base <= 0 {
		return false
	}
	c.startedAt = c.source.Now()
	c.running = true
	return true
}

// Stop folds the elapsed time into base.
func (c *Clock) Stop() {
	if !c.running {
		return
	}
	c.base = c.Remaining()
	c.running = false
}

// Set replaces the remaining time without changing whether the clock runs.
func (c *Clock) Set(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.base = d
	if c.running {
		c.startedAt = c.source.Now()
	}
}

// ClockDuration validates a minutes/seconds pair.
func ClockDuration(minutes, seconds int) (time.Duration, error) {
	if minutes < 0 || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("%w: %d:%02d", ErrInvalidClock, minutes, seconds)
	}
	return time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second, nil
}

// FormatClock renders d as MM:SS:hh.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hundredths := int64(d / (10 * time.Millisecond))
	minutes := hundredths / 6000
	seconds := (hundredths / 100) % 60
	return fmt.Sprintf("%02d:%02d:%02d", minutes, seconds, hundredths%100)
}
