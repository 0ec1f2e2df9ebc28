package presence

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMemoryTracker(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker := NewMemoryTracker()
	tracker.now = func() time.Time { return now }
	ctx := context.Background()

	busy, err := tracker.Busy(ctx, "gallery", time.Second)
	require.NoError(t, err)
	assert.False(t, busy)

	require.NoError(t, tracker.Touch(ctx, "gallery"))
	require.NoError(t, tracker.Touch(ctx, "popup"))

	now = now.Add(500 * time.Millisecond)
	require.NoError(t, tracker.Touch(ctx, "popup"))

	busy, err = tracker.Busy(ctx, "gallery", time.Second)
	require.NoError(t, err)
	assert.True(t, busy)

	now = now.Add(700 * time.Millisecond)

	busy, err = tracker.Busy(ctx, "gallery", time.Second)
	require.NoError(t, err)
	assert.False(t, busy)

	active, err := tracker.Active(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"popup"}, active)
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start Redis container: %v", err)
	}
	t.Cleanup(func() {
		_ = redisC.Terminate(ctx)
	})

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	opt, err := redis.ParseURL(fmt.Sprintf("redis://%s", net.JoinHostPort(host, port.Port())))
	require.NoError(t, err)

	rdb := redis.NewClient(opt)
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	return rdb
}

func TestRedisTracker(t *testing.T) {
	t.Parallel()

	tracker := NewRedisTracker(setupRedis(t), Config{Window: 5000})
	ctx := context.Background()

	require.NoError(t, tracker.Touch(ctx, "gallery"))

	busy, err := tracker.Busy(ctx, "gallery", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, busy)

	busy, err = tracker.Busy(ctx, "popup", 5*time.Second)
	require.NoError(t, err)
	assert.False(t, busy)

	active, err := tracker.Active(ctx, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"gallery"}, active)
}
