package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"examprep-backend/internal/models"
)

// ProgressPublisher delivers ingestion events to a session's listeners.
type ProgressPublisher interface {
	Publish(ctx context.Context, sessionID string, msg models.WSMessage) error
}

// ProgressChannel is the pub/sub channel carrying a session's events.
func ProgressChannel(sessionID string) string {
	return fmt.Sprintf("session_updates:%s", sessionID)
}

// RedisProgressPublisher sends updates via Redis pub/sub so any instance
// holding the session's WebSocket can forward them.
type RedisProgressPublisher struct {
	redis *redis.Client
}

func NewRedisProgressPublisher(client *redis.Client) *RedisProgressPublisher {
	return &RedisProgressPublisher{redis: client}
}

func (p *RedisProgressPublisher) Publish(ctx context.Context, sessionID string, msg models.WSMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode progress message: %w", err)
	}
	return p.redis.Publish(ctx, ProgressChannel(sessionID), string(data)).Err()
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, models.WSMessage) error { return nil }
