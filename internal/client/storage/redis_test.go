package storage

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisBackend_Contract(t *testing.T) {
	rdb := getRedisDB(t)
	testBackendContract(t, NewRedisBackend(rdb, "test:"))
}

func TestRedisBackend_ClearKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	rdb := getRedisDB(t)

	require.NoError(t, rdb.Set(ctx, "other:session", "keep", 0).Err())

	b := NewRedisBackend(rdb, "pengaduan:")
	require.NoError(t, b.Set(ctx, "session", []byte("tok")))
	require.NoError(t, b.Clear(ctx))

	v, err := rdb.Get(ctx, "other:session").Result()
	require.NoError(t, err)
	assert.Equal(t, "keep", v)

	n, err := rdb.Exists(ctx, "pengaduan:session").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func getRedisDB(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("redis container skipped in short mode")
	}

	ctx := context.Background()
	server, err := testcontainers.Run(
		ctx, "redis:latest",
		testcontainers.WithExposedPorts("6379/tcp"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("6379/tcp"),
			wait.ForLog("Ready to accept connections"),
		),
	)
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	testcontainers.CleanupContainer(t, server)

	endpoint, err := server.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}
