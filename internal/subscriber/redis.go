package subscriber

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nguyentantai21042004/video-context/internal/notifier"
)

// RedisPublisher publishes every event as JSON on a channel and, when a queue
// is configured, appends it to a list for consumers that were offline.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	queue   string
}

// ConnectRedis dials addr and verifies the connection
func ConnectRedis(ctx context.Context, addr, channel, queue string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisPublisher(client, channel, queue), nil
}

func NewRedisPublisher(client *redis.Client, channel, queue string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, queue: queue}
}

func (r *RedisPublisher) Notify(ctx context.Context, event notifier.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("error publishing to %s: %w", r.channel, err)
	}

	if r.queue != "" {
		if err := r.client.RPush(ctx, r.queue, payload).Err(); err != nil {
			return fmt.Errorf("error adding to queue: %w", err)
		}
	}

	return nil
}

func (r *RedisPublisher) Close() error {
	return r.client.Close()
}
