package queue

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr      string
	Password  string
	DB        int
	QueueName string
	Timeout   time.Duration
}

// ConfigFromEnv reads queue config from environment variables
func ConfigFromEnv() Config {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		// default local
		addr = "localhost:6379"
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	name := os.Getenv("MAIL_QUEUE_NAME")
	if name == "" {
		name = "email_queue"
	}
	timeout := 3 * time.Second
	if v := os.Getenv("QUEUE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Millisecond
		}
	}
	return Config{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        db,
		QueueName: name,
		Timeout:   timeout,
	}
}

// NewClient builds a redis client without checking connectivity. Useful when
// the queue may be down at startup but publishes should still be attempted.
func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Connect opens a redis client and verifies connectivity with a ping
func Connect(cfg Config) (*redis.Client, error) {
	client := NewClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
