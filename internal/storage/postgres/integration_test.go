//go:build integration

package postgres_test

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
	"github.com/dtroode/keydir/internal/storage/postgres"
	"github.com/dtroode/keydir/internal/storage/storagetest"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "keydir_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
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
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/keydir_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) model.Backend {
		ctx := context.Background()
		s, err := postgres.Open(ctx, dsn)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })

		// subtests share one database; start each from an empty table
		for _, key := range []string{"keys", "user:missing", "user:1", "user:2"} {
			_, err := s.Delete(ctx, key)
			require.NoError(t, err)
		}
		for i := 0; i < 16; i++ {
			_, err := s.Delete(ctx, fmt.Sprintf("user:%d", i))
			require.NoError(t, err)
		}
		return s
	})
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, postgres.Migrate(ctx, dsn))
	require.NoError(t, postgres.Migrate(ctx, dsn))
}
