package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examprep-backend/internal/models"
)

func TestProgressChannel(t *testing.T) {
	assert.Equal(t, "session_updates:abc", ProgressChannel("abc"))
}

func TestRedisProgressPublisher_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	sub := client.Subscribe(ctx, ProgressChannel("s1"))
	t.Cleanup(func() { sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	pub := NewRedisProgressPublisher(client)
	err = pub.Publish(ctx, "s1", models.WSMessage{
		Type:    models.WSTypeStatusUpdate,
		Payload: models.StatusUpdate{SessionID: "s1", Step: 2, TotalSteps: 3, StepName: "Splitting text"},
	})
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		var got struct {
			Type    string              `json:"type"`
			Payload models.StatusUpdate `json:"payload"`
		}
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, models.WSTypeStatusUpdate, got.Type)
		assert.Equal(t, 2, got.Payload.Step)
		assert.Equal(t, "Splitting text", got.Payload.StepName)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestRedisProgressPublisher_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	err := NewRedisProgressPublisher(client).Publish(context.Background(), "s1", models.WSMessage{Type: models.WSTypeCompleted})
	assert.Error(t, err)
}
