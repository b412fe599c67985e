package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/pointmarket/pkg/domain/events"
	"github.com/amirasaad/pointmarket/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RedisEventBus publishes events to a Redis stream and consumes them through
// a consumer group, so several processes can share the notification work.
type RedisEventBus struct {
	client        *redis.Client
	stream        string
	group         string
	consumer      string
	block         time.Duration
	typeFactories map[string]func() events.Event
	logger        *slog.Logger

	mu       sync.RWMutex
	handlers map[string][]eventbus.HandlerFunc
	start    sync.Once
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewWithRedis creates a new Redis-backed event bus.
// url: Redis connection URL (e.g., "redis://localhost:6379")
// stream: name of the Redis stream to use
// group: consumer group name for event processing
func NewWithRedis(
	url, stream, group string,
	types map[string]func() events.Event,
	logger *slog.Logger,
) (*RedisEventBus, error) {
	if url == "" || stream == "" || group == "" {
		return nil, fmt.Errorf("redis event bus: url, stream, and group are required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}

	if err := client.XGroupCreateMkStream(ctx, stream, group, "0").Err(); err != nil &&
		!isBusyGroup(err) {
		_ = client.Close()
		return nil, fmt.Errorf("redis event bus: create group: %w", err)
	}

	host, _ := os.Hostname()
	return &RedisEventBus{
		client:        client,
		stream:        stream,
		group:         group,
		consumer:      fmt.Sprintf("%s-%d", host, time.Now().UnixNano()),
		block:         2 * time.Second,
		typeFactories: types,
		logger:        logger.With("component", "redis-event-bus"),
		handlers:      make(map[string][]eventbus.HandlerFunc),
		done:          make(chan struct{}),
	}, nil
}

// Emit publishes an event to the Redis stream.
func (b *RedisEventBus) Emit(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("failed to marshal event", "error", err, "type", event.Type())
		return fmt.Errorf("redis event bus: marshal failed: %w", err)
	}

	envBytes, err := json.Marshal(envelope{Type: event.Type(), Payload: data})
	if err != nil {
		return fmt.Errorf("redis event bus: envelope marshal failed: %w", err)
	}

	if err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.stream,
		Values: map[string]any{"event": string(envBytes)},
	}).Err(); err != nil {
		b.logger.Error("failed to emit event", "error", err, "type", event.Type())
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}

	b.logger.Debug("event emitted", "type", event.Type())
	return nil
}

// Register adds a handler for eventType. The first registration starts the
// consumer loop; every event type shares it.
func (b *RedisEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()
	b.logger.Info("handler registered", "event_type", eventType, "consumer", b.consumer)

	b.start.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		b.cancel = cancel
		go b.consume(ctx)
	})
}

// Close stops the consumer loop and closes the Redis client.
func (b *RedisEventBus) Close() error {
	if b.cancel != nil {
		b.cancel()
		<-b.done
	}
	return b.client.Close()
}

func (b *RedisEventBus) consume(ctx context.Context) {
	defer close(b.done)
	for {
		res, err := b.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    b.group,
			Consumer: b.consumer,
			Streams:  []string{b.stream, ">"},
			Count:    10,
			Block:    b.block,
		}).Result()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				b.logger.Error("error reading from stream", "error", err, "consumer", b.consumer)
				time.Sleep(time.Second)
			}
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				b.handleMessage(ctx, msg)
				if err := b.client.XAck(ctx, b.stream, b.group, msg.ID).Err(); err != nil {
					b.logger.Error("failed to acknowledge message", "error", err, "msg_id", msg.ID)
				}
			}
		}
	}
}

func (b *RedisEventBus) handleMessage(ctx context.Context, msg redis.XMessage) {
	raw, ok := msg.Values["event"].(string)
	if !ok {
		b.pushToDLQ(ctx, msg.Values, "missing event field")
		return
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		b.logger.Error("failed to unmarshal envelope", "error", err)
		b.pushToDLQ(ctx, msg.Values, err.Error())
		return
	}

	b.mu.RLock()
	handlers := append([]eventbus.HandlerFunc{}, b.handlers[env.Type]...)
	b.mu.RUnlock()
	if len(handlers) == 0 {
		return
	}

	constructor, ok := b.typeFactories[env.Type]
	if !ok {
		b.logger.Error("unknown event type", "event_type", env.Type)
		b.pushToDLQ(ctx, msg.Values, "unknown event type")
		return
	}

	evt := constructor()
	if err := json.Unmarshal(env.Payload, evt); err != nil {
		b.logger.Error("failed to unmarshal payload", "error", err, "event_type", env.Type)
		b.pushToDLQ(ctx, msg.Values, err.Error())
		return
	}

	for _, handler := range handlers {
		if err := b.run(ctx, handler, evt); err != nil {
			b.logger.Error("handler error", "error", err, "event_type", env.Type)
			b.pushToDLQ(ctx, msg.Values, err.Error())
		}
	}
}

func (b *RedisEventBus) run(ctx context.Context, handler eventbus.HandlerFunc, evt events.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, evt)
}

// DLQStream is the stream failed deliveries are copied to.
func (b *RedisEventBus) DLQStream() string {
	return b.stream + "-dlq"
}

func (b *RedisEventBus) pushToDLQ(ctx context.Context, values map[string]any, reason string) {
	payload := make(map[string]any, len(values)+1)
	for k, v := range values {
		payload[k] = v
	}
	payload["reason"] = reason
	if err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.DLQStream(),
		Values: payload,
	}).Err(); err != nil {
		b.logger.Error("failed to push to DLQ", "error", err, "stream", b.DLQStream())
		return
	}
	b.logger.Warn("event pushed to DLQ", "stream", b.DLQStream(), "reason", reason)
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}

var _ eventbus.Bus = (*RedisEventBus)(nil)
