package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to create miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return client, mr
}

func TestAttemptRecorder_CountsOutcomes(t *testing.T) {
	client, _ := setupTestRedis(t)
	recorder := NewAttemptRecorder(client, zap.NewNop())
	ctx := context.Background()

	recorder.Record(ctx, "staff", "a@b.com", false)
	recorder.Record(ctx, "staff", "a@b.com", false)
	recorder.Record(ctx, "staff", "a@b.com", true)

	if got := recorder.Count(ctx, "staff", "a@b.com", false); got != 2 {
		t.Errorf("failure count = %d, want 2", got)
	}
	if got := recorder.Count(ctx, "staff", "a@b.com", true); got != 1 {
		t.Errorf("success count = %d, want 1", got)
	}
	if got := recorder.Count(ctx, "technician", "a@b.com", false); got != 0 {
		t.Errorf("unrelated flow count = %d, want 0", got)
	}
}

func TestAttemptRecorder_KeysExpire(t *testing.T) {
	client, mr := setupTestRedis(t)
	recorder := NewAttemptRecorder(client, zap.NewNop())
	ctx := context.Background()

	recorder.Record(ctx, "staff", "a@b.com", false)

	mr.FastForward(attemptTTL + 1)
	if got := recorder.Count(ctx, "staff", "a@b.com", false); got != 0 {
		t.Errorf("count after TTL = %d, want 0", got)
	}
}

func TestAttemptRecorder_UnreachableRedisIsSilent(t *testing.T) {
	client, mr := setupTestRedis(t)
	recorder := NewAttemptRecorder(client, zap.NewNop())
	mr.Close()

	// Must not panic or surface an error to the login flow.
	recorder.Record(context.Background(), "staff", "a@b.com", false)
}

func TestAttemptRecorder_NilClientDisablesRecording(t *testing.T) {
	recorder := NewAttemptRecorder(nil, zap.NewNop())
	recorder.Record(context.Background(), "staff", "a@b.com", true)

	if got := recorder.Count(context.Background(), "staff", "a@b.com", true); got != 0 {
		t.Errorf("count = %d, want 0 with nil client", got)
	}
}
