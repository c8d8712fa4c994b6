package sink

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisSink keeps the latest snapshot row under a fixed key so live
// consumers can read the current top-of-book without replaying the
// stream themselves
type RedisSink struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisSink creates a new Redis snapshot publisher
func NewRedisSink(client *redis.Client, key string, logger *zap.Logger) *RedisSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSink{
		client: client,
		key:    key,
		logger: logger,
	}
}

// WriteHeader is a no-op; the key always holds one full row
func (r *RedisSink) WriteHeader(header string) error {
	return nil
}

// WriteRow overwrites the latest-book key with this row
func (r *RedisSink) WriteRow(row string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := r.client.Set(ctx, r.key, row, 0).Err(); err != nil {
		r.logger.Warn("Failed to publish snapshot to Redis",
			zap.String("key", r.key),
			zap.Error(err))
		return err
	}
	return nil
}

// Close closes the Redis client
func (r *RedisSink) Close() error {
	return r.client.Close()
}

// Ensure RedisSink implements Sink
var _ Sink = (*RedisSink)(nil)
