package ratelimit

import "testing"

func TestAllowWithinLimit(t *testing.T) {
	rl := NewLimiter(3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected within limit", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over limit allowed")
	}

	// other clients have their own window
	if !rl.Allow("10.0.0.2") {
		t.Error("fresh client rejected")
	}
}

func TestDefaultLimit(t *testing.T) {
	rl := NewLimiter(0)
	defer rl.Stop()

	if rl.requestsPerMinute != 60 {
		t.Errorf("default limit = %d, want 60", rl.requestsPerMinute)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewLimiter(10)
	rl.Stop()
	rl.Stop()
}
