package progress

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTracker stores progress trails as Redis lists so every API node sees
// the same trail. Each write refreshes the key TTL.
type RedisTracker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTracker(client *redis.Client, ttl time.Duration) *RedisTracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisTracker{client: client, ttl: ttl}
}

var _ Tracker = (*RedisTracker)(nil)

func key(operationID string) string {
	return "progress:" + operationID
}

func (t *RedisTracker) Emit(ctx context.Context, operationID, event string, payload any) error {
	entry := Entry{Event: event, Payload: payload, At: time.Now().UTC()}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	pipe := t.client.TxPipeline()
	pipe.RPush(ctx, key(operationID), data)
	pipe.Expire(ctx, key(operationID), t.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (t *RedisTracker) Snapshot(ctx context.Context, operationID string) ([]Entry, error) {
	raw, err := t.client.LRange(ctx, key(operationID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}
