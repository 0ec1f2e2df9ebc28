package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"mediavault/internal/domain/dto"
)

const (
	RedisImage = "redis:7-alpine"
	StreamName = "test-stream"
	GroupName  = "test-group"
	Consumer   = "test-consumer"
)

func setupRedis(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        RedisImage,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start Redis container: %v", err)
	}

	host, err := redisC.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get Redis container host: %v", err)
	}

	port, err := redisC.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("failed to get Redis container port: %v", err)
	}

	uri := fmt.Sprintf("redis://%s", net.JoinHostPort(host, port.Port()))

	return uri, func() {
		_ = redisC.Terminate(ctx)
	}
}

func TestPublish(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		events []dto.StoreEvent
	}{
		{"one event", []dto.StoreEvent{{Type: dto.EventMediaDeleted, ID: "image-1"}}},
		{"foreign origin kept", []dto.StoreEvent{{Type: dto.EventCollectionDeleted, CollectionID: 3, Origin: "other"}}},
		{"several events", []dto.StoreEvent{
			{Type: dto.EventMediaDeleted, ID: "image-1"},
			{Type: dto.EventMediaDeleted, ID: "image-2"},
			{Type: dto.EventMediaDeleted, ID: "image-3"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uri, terminate := setupRedis(t)
			defer terminate()

			client, err := NewClient(Config{
				URI:        uri,
				StreamName: StreamName,
				GroupName:  GroupName,
				MaxLen:     100,
			}, "instance-a")
			require.NoError(t, err)
			defer client.Close()

			publisher := NewPublisher(client, PublisherConfig{Timeout: 1000})

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			for _, ev := range tt.events {
				assert.NoError(t, publisher.Publish(ctx, ev))
			}

			read, err := client.redis.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    client.group,
				Consumer: Consumer,
				Streams:  []string{StreamName, ">"},
				Count:    int64(len(tt.events)),
				Block:    2 * time.Second,
			}).Result()
			require.NoError(t, err)
			require.Len(t, read, 1)
			require.Len(t, read[0].Messages, len(tt.events))

			for i, want := range tt.events {
				var got dto.StoreEvent
				require.NoError(t, json.Unmarshal([]byte(read[0].Messages[i].Values["body"].(string)), &got))

				assert.Equal(t, want.Type, got.Type)
				assert.Equal(t, want.ID, got.ID)
				if want.Origin == "" {
					assert.Equal(t, "instance-a", got.Origin)
				} else {
					assert.Equal(t, want.Origin, got.Origin)
				}
			}
		})
	}
}
