package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const attemptTTL = 24 * time.Hour

// AttemptRecorder keeps per-identity login outcome counters in Redis. The
// counters are diagnostic only: recording failures never surfaces to the
// caller, and nothing reads them back to throttle or lock out logins.
type AttemptRecorder struct {
	client *redis.Client
	logger *zap.Logger
}

// NewAttemptRecorder builds a recorder. A nil client disables recording.
func NewAttemptRecorder(client *redis.Client, logger *zap.Logger) *AttemptRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttemptRecorder{client: client, logger: logger}
}

// Record increments the counter for the attempt outcome.
func (r *AttemptRecorder) Record(ctx context.Context, flow, identifier string, success bool) {
	if r == nil || r.client == nil {
		return
	}

	outcome := "failure"
	if success {
		outcome = "success"
	}
	key := fmt.Sprintf("login_attempts:%s:%s:%s", flow, identifier, outcome)

	pipe := r.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, attemptTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Debug("failed to record login attempt", zap.String("key", key), zap.Error(err))
	}
}

// Count returns the recorded counter for an outcome, zero when unavailable.
func (r *AttemptRecorder) Count(ctx context.Context, flow, identifier string, success bool) int64 {
	if r == nil || r.client == nil {
		return 0
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	key := fmt.Sprintf("login_attempts:%s:%s:%s", flow, identifier, outcome)
	val, err := r.client.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return val
}
