package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1", 3, time.Minute) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1", 3, time.Minute) {
		t.Error("4th request should be denied")
	}

	// A different key gets its own bucket.
	if !rl.Allow("10.0.0.2", 3, time.Minute) {
		t.Error("other key should not share the exhausted bucket")
	}
}

func TestRateLimiterWindowLapse(t *testing.T) {
	rl := NewRateLimiter()
	window := 10 * time.Millisecond

	rl.Allow("k", 1, window)
	if rl.Allow("k", 1, window) {
		t.Error("should be blocked inside the window")
	}

	time.Sleep(15 * time.Millisecond)

	if !rl.Allow("k", 1, window) {
		t.Error("should be allowed after the window lapses")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter()

	rl.Allow("stale", 5, 10*time.Millisecond)
	time.Sleep(15 * time.Millisecond)
	rl.Allow("live", 5, time.Minute)

	rl.Cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.buckets["stale"]; ok {
		t.Error("lapsed bucket should have been dropped")
	}
	if _, ok := rl.buckets["live"]; !ok {
		t.Error("live bucket should survive cleanup")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter()
	keyed := RateLimit(rl, func(*http.Request) string { return "otp" }, 2, time.Minute)

	var served int
	h := keyed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served++
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/phone", nil))
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two codes = %v, want 200s", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("3rd code = %d, want %d", codes[2], http.StatusTooManyRequests)
	}
	if served != 2 {
		t.Errorf("handler served %d requests, want 2", served)
	}
}

func TestRealIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.7:5123"
	if got := RealIP(r); got != "192.0.2.7" {
		t.Errorf("RealIP = %q, want host of RemoteAddr", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := RealIP(r); got != "203.0.113.9" {
		t.Errorf("RealIP = %q, want first forwarded hop", got)
	}
}
