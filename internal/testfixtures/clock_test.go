package testfixtures

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	t.Run("defaults to the reference time", func(t *testing.T) {
		clock := NewClock(time.Time{})
		if !clock.Now().Equal(ReferenceTime()) {
			t.Fatalf("expected ReferenceTime, got %v", clock.Now())
		}
	})

	t.Run("advances through NowFunc", func(t *testing.T) {
		start := time.Date(2024, time.September, 2, 7, 0, 0, 0, time.UTC)
		clock := NewClock(start)
		now := clock.NowFunc()

		if got := clock.Advance(45 * time.Minute); !got.Equal(start.Add(45 * time.Minute)) {
			t.Fatalf("Advance returned %v", got)
		}
		if got := now(); !got.Equal(start.Add(45 * time.Minute)) {
			t.Fatalf("NowFunc did not observe the advance: %v", got)
		}
	})

	t.Run("nil clock falls back to wall time", func(t *testing.T) {
		var clock *Clock
		if got := clock.NowFunc()(); got.IsZero() {
			t.Fatalf("expected wall clock time")
		}
	})
}
