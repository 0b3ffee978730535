package siteengine

import (
	"testing"
	"time"
)

func TestLoginLimiterBlocksAfterMaxFailures(t *testing.T) {
	limiter := NewLoginLimiter(2, 200*time.Millisecond)
	defer limiter.Stop()
	ip := "203.0.113.10"

	if !limiter.Check(ip) {
		t.Fatalf("expected fresh ip to be allowed")
	}
	limiter.Fail(ip)
	if !limiter.Check(ip) {
		t.Fatalf("expected ip to be allowed after one failure")
	}
	limiter.Fail(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected ip to be blocked after max failures")
	}
}

func TestLoginLimiterUnblocksAfterWindow(t *testing.T) {
	limiter := NewLoginLimiter(1, 150*time.Millisecond)
	defer limiter.Stop()
	ip := "203.0.113.20"

	limiter.Fail(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected ip to be blocked inside window")
	}

	time.Sleep(200 * time.Millisecond)
	if !limiter.Check(ip) {
		t.Fatalf("expected ip to be allowed after window")
	}
}

func TestLoginLimiterResetClearsFailures(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)
	defer limiter.Stop()
	ip := "203.0.113.30"

	limiter.Fail(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected ip to be blocked")
	}
	limiter.Reset(ip)
	if !limiter.Check(ip) {
		t.Fatalf("expected ip to be allowed after reset")
	}
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)
	defer limiter.Stop()

	limiter.Fail("203.0.113.40")
	if limiter.Check("203.0.113.40") {
		t.Fatalf("expected failing ip to be blocked")
	}
	if !limiter.Check("203.0.113.41") {
		t.Fatalf("expected other ip to be unaffected")
	}
}
