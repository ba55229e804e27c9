package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dyluth/roadlog/pkg/obstacle"
	"github.com/redis/go-redis/v9"
)

// RedisKV stores the obstacle array in Redis and publishes change events over Pub/Sub.
// Safe for concurrent use.
type RedisKV struct {
	rdb       *redis.Client
	namespace string
}

// NewRedisKV connects to Redis using a redis:// URL.
// The namespace selects the Pub/Sub channel; it does not change keys passed to Get and Set.
func NewRedisKV(redisURL, namespace string) (*RedisKV, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	return NewRedisKVFromOptions(opts, namespace), nil
}

// NewRedisKVFromOptions creates a RedisKV from explicit connection options.
func NewRedisKVFromOptions(opts *redis.Options, namespace string) *RedisKV {
	return &RedisKV{
		rdb:       redis.NewClient(opts),
		namespace: namespace,
	}
}

// Close closes the Redis connection. Implements io.Closer.
func (r *RedisKV) Close() error {
	return r.rdb.Close()
}

// Ping verifies Redis connectivity.
func (r *RedisKV) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Get returns the string stored at key. ok is false if the key does not exist.
func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s from Redis: %w", key, err)
	}
	return val, true, nil
}

// Set stores value at key with no expiry.
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s to Redis: %w", key, err)
	}
	return nil
}

// Publish sends the event JSON to roadlog:{namespace}:obstacle_events.
// Implements obstacle.Publisher.
func (r *RedisKV) Publish(ctx context.Context, ev obstacle.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal obstacle event: %w", err)
	}

	channel := obstacle.EventsChannel(r.namespace)
	if err := r.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish obstacle event: %w", err)
	}
	return nil
}

// Subscription is an active Pub/Sub subscription to obstacle events.
// Caller must call Close() when done.
type Subscription struct {
	events <-chan obstacle.Event
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of obstacle events.
// Closed when the subscription is closed or its context is cancelled.
func (s *Subscription) Events() <-chan obstacle.Event {
	return s.events
}

// Errors returns the channel of non-fatal subscription errors (undecodable messages).
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription. Safe to call multiple times.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// Subscribe listens for obstacle events on this namespace's channel.
// The subscription is confirmed before returning so no event published afterwards is missed.
// Delivery is at-most-once: slow subscribers may drop events.
func (r *RedisKV) Subscribe(ctx context.Context) (*Subscription, error) {
	channel := obstacle.EventsChannel(r.namespace)
	pubsub := r.rdb.Subscribe(ctx, channel)

	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	eventsChan := make(chan obstacle.Event, 10)
	errorsChan := make(chan error, 10)
	subCtx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var ev obstacle.Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal obstacle event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- ev:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancel,
	}, nil
}
