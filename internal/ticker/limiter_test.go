package ticker

import (
	"testing"
	"time"
)

func TestUnpacedLimiterReturnsImmediately(t *testing.T) {
	l := NewLimiter(0)
	start := time.Now()
	for i := 0; i < 1000; i++ {
		l.Wait()
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("expected unpaced waits to be instant, took %v", elapsed)
	}
}

func TestLimiterPacesTicks(t *testing.T) {
	l := NewLimiter(200)
	if l.Interval() != 5*time.Millisecond {
		t.Fatalf("expected 5ms interval, got %v", l.Interval())
	}
	start := time.Now()
	for i := 0; i < 10; i++ {
		l.Wait()
	}
	if elapsed := time.Since(start); elapsed < 45*time.Millisecond {
		t.Errorf("expected at least 45ms for 10 ticks at 200/s, got %v", elapsed)
	}
}

func TestLimiterResyncsAfterHitch(t *testing.T) {
	l := NewLimiter(100)
	l.Wait()
	time.Sleep(50 * time.Millisecond)
	l.Wait()

	// After the hitch the next deadline is one interval from now, not in
	// the past, so a third Wait must actually wait.
	start := time.Now()
	l.Wait()
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("expected limiter to resync after a hitch, waited only %v", elapsed)
	}
}

func TestSetRate(t *testing.T) {
	l := NewLimiter(60)
	l.SetRate(0)
	if l.Rate() != 0 || l.Interval() != 0 {
		t.Errorf("expected pacing disabled, got rate %d interval %v", l.Rate(), l.Interval())
	}
}
