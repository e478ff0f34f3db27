package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("request over the limit should be blocked")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Fatal("other clients must not share the window")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewRateLimiter(1, 10*time.Millisecond)

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("second request in window should be blocked")
	}

	limiter.clients["10.0.0.1"].start = time.Now().Add(-time.Second)
	if !limiter.Allow("10.0.0.1") {
		t.Fatal("request after window should be allowed")
	}
}
