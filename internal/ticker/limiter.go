package ticker

import "time"

// spinWindow is how close to the deadline Wait stops sleeping and spins.
const spinWindow = 200 * time.Microsecond

// Limiter paces a loop to a fixed number of ticks per second.
type Limiter struct {
	rate int
	next time.Time
}

// NewLimiter creates a limiter for rate ticks per second. A rate of zero or
// less disables pacing.
func NewLimiter(rate int) *Limiter {
	return &Limiter{rate: rate}
}

func (l *Limiter) Rate() int { return l.rate }

// SetRate changes the tick rate starting with the next Wait.
func (l *Limiter) SetRate(rate int) {
	l.rate = rate
	l.next = time.Time{}
}

// Interval is the target time between ticks, or zero when unpaced.
func (l *Limiter) Interval() time.Duration {
	if l.rate <= 0 {
		return 0
	}
	return time.Second / time.Duration(l.rate)
}

// Wait blocks until the next tick is due. It sleeps most of the way and
// spins for the last stretch.
func (l *Limiter) Wait() {
	target := l.Interval()
	if target == 0 {
		l.next = time.Time{}
		return
	}

	if l.next.IsZero() {
		l.next = time.Now().Add(target)
	} else {
		l.next = l.next.Add(target)
	}

	for {
		remaining := time.Until(l.next)
		if remaining <= 0 {
			break
		}
		if remaining > spinWindow {
			time.Sleep(remaining - spinWindow)
		}
		if time.Until(l.next) <= 0 {
			break
		}
	}

	// Resync after a hitch instead of bursting to catch up.
	if late := -time.Until(l.next); late > target {
		l.next = time.Now().Add(target)
	}
}
