package model

import (
	"testing"
	"time"
)

func TestContestWindow(t *testing.T) {
	t.Parallel()
	start := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	c := &Contest{StartsAt: start, EndsAt: end}

	tests := []struct {
		name   string
		now    time.Time
		active bool
		ended  bool
	}{
		{"before start", start.Add(-time.Minute), false, false},
		{"at start", start, true, false},
		{"mid window", start.Add(time.Hour), true, false},
		{"at end", end, false, true},
		{"after end", end.Add(time.Minute), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := c.Active(tt.now); got != tt.active {
				t.Fatalf("Active(%s) = %v, want %v", tt.now, got, tt.active)
			}
			if got := c.Ended(tt.now); got != tt.ended {
				t.Fatalf("Ended(%s) = %v, want %v", tt.now, got, tt.ended)
			}
		})
	}
}

func TestSubmissionStatusTerminal(t *testing.T) {
	t.Parallel()
	terminal := []SubmissionStatus{StatusAccepted, StatusRejected, StatusError}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	for _, s := range []SubmissionStatus{StatusPending, StatusProcessing} {
		if s.Terminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
}
