package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	return &Client{store: raw, raw: raw}
}

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	key := client.CacheKey("dashboard", "summary")
	if key != "st:cache:dashboard:summary" {
		t.Fatalf("unexpected cache key %q", key)
	}

	if err := client.Set(ctx, key, `{"totalItems":3}`, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != `{"totalItems":3}` {
		t.Fatalf("unexpected cached value %q", got)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, key); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss after delete, got %v", err)
	}
}

func TestGetMissingKeyReturnsMiss(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	if _, err := client.Get(ctx, client.CacheKey("nope")); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	var client *Client
	if err := client.Set(context.Background(), "k", "v", 0); err == nil {
		t.Fatal("expected error from nil client")
	}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error from nil client")
	}
}
