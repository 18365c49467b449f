// Package cache holds the redis-backed read-through caches. The only
// hot lookup in this service is resolving a recorder key to its
// recorder row on every device-authorized request.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"audiolab/model"
)

const recorderTTL = 5 * time.Minute

// RecorderCache caches resolved recorders for the device-auth path.
// A nil client disables caching; every method degrades to a miss.
type RecorderCache struct {
	client *redis.Client
}

// NewRecorderCache wraps the given redis client. client may be nil.
func NewRecorderCache(client *redis.Client) *RecorderCache {
	return &RecorderCache{client: client}
}

func recorderKey(uid string) string {
	return fmt.Sprintf("recorder:%s", uid)
}

// Get returns the cached recorder, or nil on a miss.
func (c *RecorderCache) Get(ctx context.Context, uid string) (*model.Recorder, error) {
	if c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, recorderKey(uid)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached recorder %s: %w", uid, err)
	}

	var recorder model.Recorder
	if err := json.Unmarshal(data, &recorder); err != nil {
		// A stale or corrupt entry is treated as a miss.
		c.client.Del(ctx, recorderKey(uid))
		return nil, nil
	}
	return &recorder, nil
}

// Set stores the recorder under a short TTL.
func (c *RecorderCache) Set(ctx context.Context, recorder *model.Recorder) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(recorder)
	if err != nil {
		return fmt.Errorf("failed to marshal recorder %s: %w", recorder.UID, err)
	}
	return c.client.Set(ctx, recorderKey(recorder.UID), data, recorderTTL).Err()
}

// Invalidate drops the cached entry after a recorder mutation.
func (c *RecorderCache) Invalidate(ctx context.Context, uid string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, recorderKey(uid)).Err()
}
