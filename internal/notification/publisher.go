package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher appends serialized events to a named Redis list consumed by
// the mail delivery worker. The list gives at-least-once semantics: a push
// that returns without error is durable on the Redis side, delivery retries
// are the consumer's business.
type RedisPublisher struct {
	client *redis.Client
	queue  string
}

func NewRedisPublisher(client *redis.Client, queueName string) *RedisPublisher {
	return &RedisPublisher{client: client, queue: queueName}
}

// Publish serializes the event and pushes it onto the queue. The caller is
// expected to bound ctx; a failure here never affects already-committed
// registration state.
func (p *RedisPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.LPush(ctx, p.queue, payload).Err(); err != nil {
		return fmt.Errorf("push mail queue %q: %w", p.queue, err)
	}
	return nil
}
