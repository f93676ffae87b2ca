package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const testWindow = 15 * time.Minute

func newTestThrottle(t *testing.T, maxAttempts int) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginThrottle(client, "kb:", maxAttempts, testWindow), mr
}

func mustAllow(t *testing.T, th *LoginThrottle, email string) bool {
	t.Helper()
	ok, err := th.Allow(context.Background(), email)
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	return ok
}

func mustFail(t *testing.T, th *LoginThrottle, email string) {
	t.Helper()
	if err := th.Fail(context.Background(), email); err != nil {
		t.Fatalf("Fail: %v", err)
	}
}

func TestLoginThrottleKey(t *testing.T) {
	th := NewLoginThrottle(nil, "kb:", 5, testWindow)

	if got := th.key("a@x.com"); got != "kb:login:fail:a@x.com" {
		t.Errorf("expected kb:login:fail:a@x.com, got %s", got)
	}
}

func TestLoginThrottle_AllowsUntilLimit(t *testing.T) {
	th, _ := newTestThrottle(t, 3)
	const email = "a@x.com"

	if !mustAllow(t, th, email) {
		t.Fatal("expected a fresh email to be allowed")
	}

	for i := 1; i < 3; i++ {
		mustFail(t, th, email)
		if !mustAllow(t, th, email) {
			t.Fatalf("expected attempt to be allowed after %d failures", i)
		}
	}

	mustFail(t, th, email)
	if mustAllow(t, th, email) {
		t.Error("expected attempts to be blocked after reaching the limit")
	}

	if !mustAllow(t, th, "other@x.com") {
		t.Error("expected other emails to be unaffected")
	}
}

func TestLoginThrottle_WindowStartsAtFirstFailure(t *testing.T) {
	th, mr := newTestThrottle(t, 2)
	const email = "a@x.com"
	key := th.key(email)

	mustFail(t, th, email)
	if ttl := mr.TTL(key); ttl != testWindow {
		t.Fatalf("expected TTL %s after first failure, got %s", testWindow, ttl)
	}

	mr.FastForward(5 * time.Minute)
	mustFail(t, th, email)
	if ttl := mr.TTL(key); ttl != testWindow-5*time.Minute {
		t.Errorf("expected later failures to keep the original expiry, got %s", ttl)
	}
	if mustAllow(t, th, email) {
		t.Fatal("expected email to be blocked")
	}

	mr.FastForward(testWindow)
	if mr.Exists(key) {
		t.Error("expected counter to expire with the window")
	}
	if !mustAllow(t, th, email) {
		t.Error("expected email to be allowed once the window has passed")
	}
}

func TestLoginThrottle_ResetClearsFailures(t *testing.T) {
	th, mr := newTestThrottle(t, 1)
	const email = "a@x.com"

	mustFail(t, th, email)
	if mustAllow(t, th, email) {
		t.Fatal("expected email to be blocked")
	}

	if err := th.Reset(context.Background(), email); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if mr.Exists(th.key(email)) {
		t.Error("expected key to be deleted")
	}
	if !mustAllow(t, th, email) {
		t.Error("expected email to be allowed after reset")
	}
}

func TestLoginThrottle_ServerErrors(t *testing.T) {
	th, mr := newTestThrottle(t, 3)
	mr.Close()

	if _, err := th.Allow(context.Background(), "a@x.com"); err == nil {
		t.Error("expected Allow to fail when redis is unreachable")
	}
	if err := th.Fail(context.Background(), "a@x.com"); err == nil {
		t.Error("expected Fail to fail when redis is unreachable")
	}
}
