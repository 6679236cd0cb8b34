// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// testLoginProtectionConfig returns a config suitable for fast testing.
func testLoginProtectionConfig(maxAttempts int, lockoutDuration, attemptWindow time.Duration) LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       10,  // High rate for testing
		IPBurst:           100, // High burst for testing
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockoutDuration,
		AttemptWindow:     attemptWindow,
	}
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})
	def := DefaultLoginProtectionConfig()

	if lp.maxFailedAttempts != def.MaxFailedAttempts {
		t.Errorf("maxFailedAttempts = %d, want %d", lp.maxFailedAttempts, def.MaxFailedAttempts)
	}
	if lp.lockoutDuration != def.LockoutDuration {
		t.Errorf("lockoutDuration = %v, want %v", lp.lockoutDuration, def.LockoutDuration)
	}
	if lp.attemptWindow != def.AttemptWindow {
		t.Errorf("attemptWindow = %v, want %v", lp.attemptWindow, def.AttemptWindow)
	}
}

func TestLoginProtection_LockoutAfterMaxAttempts(t *testing.T) {
	lp := NewLoginProtection(testLoginProtectionConfig(3, time.Minute, time.Hour))
	ip := "192.0.2.1"

	for i := 1; i < 3; i++ {
		if locked, _ := lp.RecordFailedAttempt(ip); locked {
			t.Fatalf("locked after %d attempts", i)
		}
	}
	locked, d := lp.RecordFailedAttempt(ip)
	if !locked || d != time.Minute {
		t.Fatalf("RecordFailedAttempt = %v, %v; want true, 1m", locked, d)
	}

	if locked, remaining := lp.IsLocked(ip); !locked || remaining <= 0 {
		t.Errorf("IsLocked = %v, %v", locked, remaining)
	}
	if locked, _ := lp.IsLocked("192.0.2.2"); locked {
		t.Error("other IPs must not be locked")
	}
}

// Run with -race: lock checks read the attempt record while failures update it.
func TestLoginProtection_ConcurrentFailuresSameIP(t *testing.T) {
	lp := NewLoginProtection(testLoginProtectionConfig(3, time.Minute, time.Hour))
	const ip = "203.0.113.7"

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			lp.RecordFailedAttempt(ip)
		}()
		go func() {
			defer wg.Done()
			lp.IsLocked(ip)
		}()
	}
	wg.Wait()

	if locked, remaining := lp.IsLocked(ip); !locked || remaining <= 0 {
		t.Errorf("IsLocked = %v, %v; want locked with time remaining", locked, remaining)
	}
}

func TestLoginProtection_ExponentialBackoff(t *testing.T) {
	lp := NewLoginProtection(testLoginProtectionConfig(1, time.Minute, time.Hour))
	now := time.Now()
	lp.now = func() time.Time { return now }

	want := []time.Duration{time.Minute, 2 * time.Minute, 4 * time.Minute}
	for i, w := range want {
		locked, d := lp.RecordFailedAttempt("ip")
		if !locked || d != w {
			t.Errorf("lockout %d = %v, %v; want %v", i, locked, d, w)
		}
	}
}

func TestLoginProtection_WindowReset(t *testing.T) {
	lp := NewLoginProtection(testLoginProtectionConfig(2, time.Minute, time.Minute))
	now := time.Now()
	lp.now = func() time.Time { return now }

	lp.RecordFailedAttempt("ip")
	now = now.Add(2 * time.Minute)

	if locked, _ := lp.RecordFailedAttempt("ip"); locked {
		t.Error("attempt outside window should reset the counter")
	}
}

func TestLoginProtection_SuccessClears(t *testing.T) {
	lp := NewLoginProtection(testLoginProtectionConfig(2, time.Minute, time.Hour))

	lp.RecordFailedAttempt("ip")
	lp.RecordSuccessfulLogin("ip")

	if locked, _ := lp.RecordFailedAttempt("ip"); locked {
		t.Error("successful login should clear earlier failures")
	}
}

func TestLoginProtection_Cleanup(t *testing.T) {
	lp := NewLoginProtection(testLoginProtectionConfig(5, time.Minute, time.Minute))
	now := time.Now()
	lp.now = func() time.Time { return now }

	lp.RecordFailedAttempt("ip")
	now = now.Add(time.Hour)
	lp.Cleanup()

	lp.attemptsMu.RLock()
	n := len(lp.failedAttempts)
	lp.attemptsMu.RUnlock()
	if n != 0 {
		t.Errorf("stale entries = %d, want 0", n)
	}
}

func TestLoginProtection_Middleware(t *testing.T) {
	cfg := testLoginProtectionConfig(5, time.Minute, time.Hour)
	cfg.IPRateLimit = 0.001
	cfg.IPBurst = 2
	lp := NewLoginProtection(cfg)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := lp.Middleware()(next)

	post := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":12345"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if got := post("198.51.100.1"); got != http.StatusOK {
		t.Errorf("first POST = %d", got)
	}
	if got := post("198.51.100.1"); got != http.StatusOK {
		t.Errorf("second POST = %d", got)
	}
	if got := post("198.51.100.1"); got != http.StatusTooManyRequests {
		t.Errorf("third POST = %d, want 429", got)
	}
	if got := post("198.51.100.2"); got != http.StatusOK {
		t.Errorf("other IP = %d, want 200", got)
	}

	// GET is never limited
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.RemoteAddr = "198.51.100.1:1"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("GET = %d, want 200", rr.Code)
	}
}

func TestLoginProtection_MiddlewareRejectsLocked(t *testing.T) {
	lp := NewLoginProtection(testLoginProtectionConfig(1, time.Minute, time.Hour))
	lp.RecordFailedAttempt("203.0.113.9")

	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := map[string]string{
		"192.0.2.1:1234": "192.0.2.1",
		"[::1]:8080":     "::1",
		"192.0.2.1":      "192.0.2.1",
	}
	for addr, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		if got := ClientIP(req); got != want {
			t.Errorf("ClientIP(%q) = %q, want %q", addr, got, want)
		}
	}
}
