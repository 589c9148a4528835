package redis

import (
	"context"
	"fmt"
	"time"
)

// RunLock is a per-date mutual exclusion lock for the daily batch. The
// upstream scheduler retries failed runs; the lock prevents a retry from
// overlapping a run that is still in flight.
type RunLock struct {
	client *Client
	prefix string
	ttl    time.Duration
}

// NewRunLock creates a run lock helper. ttl should exceed the worst-case
// batch duration so a crashed holder eventually releases.
func NewRunLock(client *Client, prefix string, ttl time.Duration) *RunLock {
	return &RunLock{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Acquire takes the lock for a date. Returns false when another run holds it.
// With Redis disabled the lock always succeeds.
func (l *RunLock) Acquire(ctx context.Context, date time.Time, runID string) (bool, error) {
	if !l.client.Enabled() {
		return true, nil
	}

	ok, err := l.client.Redis().SetNX(ctx, l.key(date), runID, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire run lock: %w", err)
	}
	return ok, nil
}

// Release frees the lock if this run still holds it. A lock taken over by a
// later run (after TTL expiry) is left alone.
func (l *RunLock) Release(ctx context.Context, date time.Time, runID string) error {
	if !l.client.Enabled() {
		return nil
	}

	key := l.key(date)
	holder, err := l.client.Redis().Get(ctx, key).Result()
	if err != nil {
		// Key already expired or gone.
		return nil
	}
	if holder != runID {
		return nil
	}
	return l.client.Redis().Del(ctx, key).Err()
}

func (l *RunLock) key(date time.Time) string {
	return fmt.Sprintf("%s:runlock:%s", l.prefix, date.Format("2006-01-02"))
}
