package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	EventQuestionCreated = "question_created"
	EventQuestionDeleted = "question_deleted"
)

// Publisher announces question changes to live subscribers.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

func encodeEvent(eventType string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(Message{Type: eventType, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	return data, nil
}

// LocalPublisher delivers events straight to this process's hub. It is used
// when no redis server is configured.
type LocalPublisher struct {
	hub *Hub
}

func NewLocalPublisher(hub *Hub) *LocalPublisher {
	return &LocalPublisher{hub: hub}
}

func (p *LocalPublisher) Publish(_ context.Context, eventType string, payload interface{}) error {
	data, err := encodeEvent(eventType, payload)
	if err != nil {
		return err
	}
	p.hub.Broadcast(data)
	return nil
}

// RedisPublisher publishes events on a redis channel so that every API
// instance relaying that channel can push them to its own clients.
type RedisPublisher struct {
	redis   *redis.Client
	channel string
}

func NewRedisPublisher(redis *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{redis: redis, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	data, err := encodeEvent(eventType, payload)
	if err != nil {
		return err
	}
	if err := p.redis.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	return nil
}

// RelayEvents forwards every message on channel to hub until ctx is done.
// ready, if not nil, is closed once the subscription is confirmed.
func RelayEvents(ctx context.Context, rdb *redis.Client, channel string, hub *Hub, logger *zap.Logger, ready chan<- struct{}) error {
	sub := rdb.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}
	if ready != nil {
		close(ready)
	}
	logger.Info("relaying question events", zap.String("channel", channel))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			hub.Broadcast([]byte(msg.Payload))
		}
	}
}
