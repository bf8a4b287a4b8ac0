package stream

import (
	"testing"
	"time"
)

func TestBackoff_NextRespectsInitialDelay(t *testing.T) {
	b := newBackoff(BackoffConfig{
		InitialDelay:      10 * time.Millisecond,
		MaxDelay:          time.Second,
		BackoffMultiplier: 2,
		JitterPercent:     0, // deterministic for this assertion
	})

	d := b.next()
	if d != 10*time.Millisecond {
		t.Errorf("next() = %v, want 10ms with zero jitter", d)
	}
}

func TestBackoff_GrowsAndCapsAtMaxDelay(t *testing.T) {
	b := newBackoff(BackoffConfig{
		InitialDelay:      10 * time.Millisecond,
		MaxDelay:          30 * time.Millisecond,
		BackoffMultiplier: 2,
		JitterPercent:     0,
	})

	first := b.next()  // 10ms, advances current to 20ms
	second := b.next() // 20ms, advances current to 30ms (capped)
	third := b.next()  // 30ms, advances current to 30ms (stays capped)

	if first != 10*time.Millisecond {
		t.Errorf("first = %v, want 10ms", first)
	}
	if second != 20*time.Millisecond {
		t.Errorf("second = %v, want 20ms", second)
	}
	if third != 30*time.Millisecond {
		t.Errorf("third = %v, want 30ms (capped)", third)
	}
}

func TestBackoff_JitterNeverReducesDelay(t *testing.T) {
	b := newBackoff(BackoffConfig{
		InitialDelay:      100 * time.Millisecond,
		MaxDelay:          time.Second,
		BackoffMultiplier: 2,
		JitterPercent:     0.2,
	})

	base := 100 * time.Millisecond
	for i := 0; i < 20; i++ {
		d := b.next()
		if d < base {
			t.Fatalf("next() = %v, below the pre-jitter delay %v", d, base)
		}
		base = min(2*base, time.Second)
	}
}

func TestBackoff_ResetReturnsToInitialDelay(t *testing.T) {
	b := newBackoff(BackoffConfig{
		InitialDelay:      5 * time.Millisecond,
		MaxDelay:          time.Second,
		BackoffMultiplier: 3,
		JitterPercent:     0,
	})

	b.next()
	b.next()
	b.reset()

	d := b.next()
	if d != 5*time.Millisecond {
		t.Errorf("next() after reset = %v, want back to initial 5ms", d)
	}
}
