package turnclock

import (
	"testing"
	"time"
)

func TestClockViolation(t *testing.T) {
	clock := New(2 * time.Minute)
	gameID := "game-1"
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// Nothing recorded yet
	if _, err := clock.CheckViolation(gameID, start); err == nil {
		t.Fatal("Expected error for unknown game")
	}

	clock.StartTurn(gameID, "p1", start)

	violation, err := clock.CheckViolation(gameID, start.Add(90*time.Second))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if violation != nil {
		t.Error("Expected no violation inside the limit")
	}

	remaining, err := clock.Remaining(gameID, start.Add(90*time.Second))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 30*time.Second {
		t.Errorf("Expected 30s remaining, got %v", remaining)
	}

	violation, err = clock.CheckViolation(gameID, start.Add(3*time.Minute))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if violation == nil {
		t.Fatal("Expected violation after the limit")
	}
	if violation.PlayerID != "p1" || violation.ViolationType != "timeout" {
		t.Errorf("Unexpected violation: %+v", violation)
	}
	if !violation.DeadlineAt.Equal(start.Add(2 * time.Minute)) {
		t.Errorf("Unexpected deadline %v", violation.DeadlineAt)
	}

	remaining, _ = clock.Remaining(gameID, start.Add(3*time.Minute))
	if remaining != 0 {
		t.Errorf("Expected no time remaining, got %v", remaining)
	}

	// A new turn restarts the clock
	clock.StartTurn(gameID, "p2", start.Add(3*time.Minute))
	violation, _ = clock.CheckViolation(gameID, start.Add(4*time.Minute))
	if violation != nil {
		t.Error("Expected no violation after a new turn")
	}

	clock.Forget(gameID)
	if _, err := clock.Remaining(gameID, start); err == nil {
		t.Error("Expected error after forgetting game")
	}
}

func TestDisabledClock(t *testing.T) {
	clock := New(0)
	clock.StartTurn("g", "p1", time.Now())

	if clock.Enabled() {
		t.Error("Expected clock to be disabled")
	}
	if _, err := clock.CheckViolation("g", time.Now().Add(time.Hour)); err != ErrDisabled {
		t.Errorf("Expected ErrDisabled, got %v", err)
	}
}

func TestFormatRemaining(t *testing.T) {
	testCases := []struct {
		in   time.Duration
		want string
	}{
		{0, "Time expired"},
		{-time.Second, "Time expired"},
		{45 * time.Second, "45 seconds"},
		{2 * time.Minute, "2 minutes"},
		{2*time.Minute + 5*time.Second, "2 minutes, 5 seconds"},
		{3 * time.Hour, "3 hours"},
		{3*time.Hour + 10*time.Minute, "3 hours, 10 minutes"},
	}
	for _, tc := range testCases {
		if got := FormatRemaining(tc.in); got != tc.want {
			t.Errorf("FormatRemaining(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
