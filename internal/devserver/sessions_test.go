package devserver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testSessionStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start failed: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionStore(rdb, ttl), mr
}

func TestSessionRoundTrip(t *testing.T) {
	store, _ := testSessionStore(t, time.Hour)
	ctx := context.Background()

	sid, err := store.Create(ctx, 42)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	userID, err := store.Lookup(ctx, sid)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestSessionDestroy(t *testing.T) {
	store, _ := testSessionStore(t, time.Hour)
	ctx := context.Background()

	sid, err := store.Create(ctx, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Destroy(ctx, sid); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if _, err := store.Lookup(ctx, sid); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := store.Destroy(ctx, "never-existed"); err != nil {
		t.Fatalf("destroying an unknown session must not error: %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	store, mr := testSessionStore(t, time.Minute)
	ctx := context.Background()

	sid, err := store.Create(ctx, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Lookup(ctx, sid); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestSessionLookupRefreshesTTL(t *testing.T) {
	store, mr := testSessionStore(t, time.Minute)
	ctx := context.Background()

	sid, err := store.Create(ctx, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Touch the session just before it would expire; it must survive
	// another full TTL from that point.
	mr.FastForward(50 * time.Second)
	if _, err := store.Lookup(ctx, sid); err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	mr.FastForward(50 * time.Second)
	if _, err := store.Lookup(ctx, sid); err != nil {
		t.Fatalf("expected refreshed TTL to keep the session alive: %v", err)
	}
}

func TestFabricatedSessionRejected(t *testing.T) {
	store, _ := testSessionStore(t, time.Hour)
	if _, err := store.Lookup(context.Background(), "fabricated"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
