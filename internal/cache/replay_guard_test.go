package cache

import (
	"context"
	"testing"
	"time"
)

func TestReplayGuardFirstSeen(t *testing.T) {
	guard := NewReplayGuard(time.Minute)
	ctx := context.Background()

	if !guard.FirstSeen(ctx, "local_a") {
		t.Fatalf("first submission must pass")
	}
	if guard.FirstSeen(ctx, "local_a") {
		t.Fatalf("repeat submission must be rejected")
	}
	if !guard.FirstSeen(ctx, "local_b") {
		t.Fatalf("distinct keys must not interfere")
	}
}

func TestReplayGuardExpiry(t *testing.T) {
	guard := NewReplayGuard(time.Millisecond)
	ctx := context.Background()

	if !guard.FirstSeen(ctx, "local_a") {
		t.Fatalf("first submission must pass")
	}
	time.Sleep(5 * time.Millisecond)
	if !guard.FirstSeen(ctx, "local_a") {
		t.Fatalf("expired entry must allow resubmission")
	}
}
