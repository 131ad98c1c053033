// Package progress implements reporting sinks for per-market sync status.
// The redis sink mirrors row counts for the external dashboard; publishing
// is always best-effort.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/zeromicro/go-zero/core/stores/redis"

	cachekeys "candlesync/internal/cache"
	syncpkg "candlesync/internal/sync"
)

// RedisSink mirrors progress records into Redis: a JSON payload per table
// with a TTL, plus a field in the aggregate row-count hash.
type RedisSink struct {
	client *redis.Redis
	ttl    cachekeys.TTLSet
}

var _ syncpkg.ProgressSink = (*RedisSink)(nil)

// NewRedisSink wires a sink around an existing Redis client.
func NewRedisSink(client *redis.Redis, ttl cachekeys.TTLSet) *RedisSink {
	return &RedisSink{client: client, ttl: ttl}
}

// Publish forwards one progress record. Returns the first error so the
// caller can log it; the caller never fails the run on it.
func (s *RedisSink) Publish(ctx context.Context, rec syncpkg.ProgressRecord) error {
	if s == nil || s.client == nil {
		return nil
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("progress: encode record for %s: %w", rec.Table, err)
	}

	key := cachekeys.DashboardTableKey(rec.Table)
	ttl := int(cachekeys.ProgressTTL(s.ttl).Seconds())
	if ttl > 0 {
		if err := s.client.SetexCtx(ctx, key, string(payload), ttl); err != nil {
			return fmt.Errorf("progress: set %s: %w", key, err)
		}
	}

	hash := cachekeys.DashboardRowCountsKey()
	if err := s.client.HsetCtx(ctx, hash, rec.Table, strconv.FormatInt(rec.RowCount, 10)); err != nil {
		return fmt.Errorf("progress: hset %s: %w", hash, err)
	}
	return nil
}
