package notification

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/gira-airport/complaint-service/internal/domain"
)

// RealtimeChannel broadcasts in-app notifications to a per-recipient
// topic consumed by connected clients.
type RealtimeChannel interface {
	Publish(ctx context.Context, topic string, payload *domain.Notification) error
}

type redisChannel struct {
	client *redis.Client
}

// NewRedisChannel builds a RealtimeChannel on Redis Pub/Sub.
func NewRedisChannel(client *redis.Client) RealtimeChannel {
	return &redisChannel{client: client}
}

func (c *redisChannel) Publish(ctx context.Context, topic string, payload *domain.Notification) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, topic, encoded).Err()
}
