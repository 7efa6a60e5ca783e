//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/keydir/internal/model"
	"github.com/dtroode/keydir/internal/storage/redis"
	"github.com/dtroode/keydir/internal/storage/storagetest"
)

var redisURL string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		panic(err)
	}
	redisURL = fmt.Sprintf("redis://%s:%s/0", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestStore_Contract(t *testing.T) {
	db := 0
	storagetest.Run(t, func(t *testing.T) model.Backend {
		// a fresh logical database per subtest keeps them isolated
		db++
		s, err := redis.Open(context.Background(), fmt.Sprintf("%s%d", redisURL[:len(redisURL)-1], db))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
