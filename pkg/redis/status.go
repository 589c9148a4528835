package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// StatusCache keeps the most recent run outcome under a single key so status
// checks can answer without a ledger query. The payload is an opaque blob;
// callers own the encoding.
type StatusCache struct {
	client *Client
	prefix string
	ttl    time.Duration
}

// NewStatusCache creates a status cache helper. ttl bounds how long a stale
// outcome survives once batches stop running.
func NewStatusCache(client *Client, prefix string, ttl time.Duration) *StatusCache {
	return &StatusCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// SetLatest overwrites the cached outcome. With Redis disabled it is a no-op.
func (s *StatusCache) SetLatest(ctx context.Context, payload []byte) error {
	if !s.client.Enabled() {
		return nil
	}

	if err := s.client.Redis().Set(ctx, s.key(), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache latest run: %w", err)
	}
	return nil
}

// Latest returns the cached outcome. The second return is false when Redis is
// disabled or no outcome has been cached yet.
func (s *StatusCache) Latest(ctx context.Context) ([]byte, bool, error) {
	if !s.client.Enabled() {
		return nil, false, nil
	}

	payload, err := s.client.Redis().Get(ctx, s.key()).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read latest run: %w", err)
	}
	return payload, true, nil
}

func (s *StatusCache) key() string {
	return fmt.Sprintf("%s:lastrun", s.prefix)
}
