//go:build integration

package containers

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"ptacheck/internal/platform/config"
	"ptacheck/internal/platform/redis"
)

// RedisContainer is a throwaway Redis reached through the same client
// constructor the server uses.
type RedisContainer struct {
	Container testcontainers.Container
	URL       string
	Client    *goredis.Client
}

func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "start redis")

	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		require.NoError(t, err, "redis connection string")
	}

	cfg := config.Default().Redis
	cfg.URL = url
	cfg.DialTimeout = 5 * time.Second
	client, err := redis.New(ctx, cfg)
	if err != nil {
		_ = container.Terminate(ctx)
		require.NoError(t, err, "connect redis")
	}

	return &RedisContainer{Container: container, URL: url, Client: client.Client}
}

// FlushAll empties the instance between tests.
func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}

func (r *RedisContainer) Keys(ctx context.Context, pattern string) ([]string, error) {
	return r.Client.Keys(ctx, pattern).Result()
}
