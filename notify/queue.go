package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisQueue is a FIFO over a Redis list: LPUSH to publish, BRPOP to consume.
type RedisQueue struct {
	client *redis.Client
	key    string
}

func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Publish(ctx context.Context, ev OrderPlaced) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding order event: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("publishing order event: %w", err)
	}
	return nil
}

func (q *RedisQueue) Consume(ctx context.Context, timeout time.Duration) (*OrderPlaced, error) {
	result, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("consuming order event: %w", err)
	}
	// BRPOP replies [key, value]
	if len(result) < 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply %v", result)
	}

	var ev OrderPlaced
	if err := json.Unmarshal([]byte(result[1]), &ev); err != nil {
		return nil, fmt.Errorf("decoding order event: %w", err)
	}
	return &ev, nil
}

// ErrQueueFull is returned by MemoryQueue.Publish when the buffer is exhausted.
var ErrQueueFull = errors.New("notification queue is full")

// MemoryQueue is a bounded in-process queue for single-instance deployments and tests.
// Publish never blocks the request path.
type MemoryQueue struct {
	ch chan OrderPlaced
}

func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 256
	}
	return &MemoryQueue{ch: make(chan OrderPlaced, size)}
}

func (q *MemoryQueue) Publish(ctx context.Context, ev OrderPlaced) error {
	select {
	case q.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Consume(ctx context.Context, timeout time.Duration) (*OrderPlaced, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-q.ch:
		return &ev, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len reports how many events are buffered.
func (q *MemoryQueue) Len() int { return len(q.ch) }
