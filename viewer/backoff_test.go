package viewer

import (
	"testing"
	"time"
)

func TestResultBackoff_Schedule(t *testing.T) {
	want := []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
		80 * time.Millisecond,
		160 * time.Millisecond,
		320 * time.Millisecond,
		640 * time.Millisecond,
		1000 * time.Millisecond,
		1000 * time.Millisecond,
		1000 * time.Millisecond,
	}

	var total time.Duration
	for attempt := 0; attempt < resultReadAttempts; attempt++ {
		got := resultBackoff.delay(attempt)
		if got != want[attempt] {
			t.Errorf("delay(%d) = %s, want %s", attempt, got, want[attempt])
		}
		total += got
	}

	if total != 4270*time.Millisecond {
		t.Errorf("total backoff = %s, want 4270ms", total)
	}
}

func TestCommandBackoff_Cap(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 10 * time.Millisecond},
		{1, 20 * time.Millisecond},
		{2, 40 * time.Millisecond},
		{3, 80 * time.Millisecond},
		{4, 100 * time.Millisecond},
		{10, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := commandBackoff.delay(tt.attempt); got != tt.want {
			t.Errorf("delay(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoff_LargeAttemptDoesNotOverflow(t *testing.T) {
	if got := resultBackoff.delay(200); got != time.Second {
		t.Errorf("delay(200) = %s, want 1s", got)
	}
}
