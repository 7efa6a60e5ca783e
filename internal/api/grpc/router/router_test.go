package router

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	pb "github.com/dtroode/keydir/internal/api/grpc/directorypb"
	"github.com/dtroode/keydir/internal/mocks"
	"github.com/dtroode/keydir/internal/model"
	"github.com/dtroode/keydir/internal/service"
	"github.com/dtroode/keydir/internal/signature"
	"github.com/dtroode/keydir/internal/storage"
	"github.com/dtroode/keydir/internal/storage/memory"
	"github.com/dtroode/keydir/internal/testutil"
)

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	r := New(mocks.NewUsersService(t), testutil.MakeNoopLogger())
	s := r.Register()
	require.NotNil(t, s)

	info := s.GetServiceInfo()
	assert.Contains(t, info, pb.ServiceName)
	assert.Contains(t, info, "grpc.health.v1.Health")
}

func dial(t *testing.T, users *service.Users) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := New(users, testutil.MakeNoopLogger()).Register()
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestRouter_EndToEnd(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lg := testutil.MakeNoopLogger()
	directory := service.NewDirectory(storage.NewClient(memory.New()), lg)
	users := service.NewUsers(directory, service.NewGate(directory, signature.NewSecp256k1(), lg), lg)

	conn := dial(t, users)
	client := pb.NewDirectoryClient(conn)

	owner, err := signature.GenerateKeys()
	require.NoError(t, err)
	stranger, err := signature.GenerateKeys()
	require.NoError(t, err)

	created, err := client.CreateUser(ctx, &pb.CreateUserRequest{PublicKey: owner.PublicKey, Hash: "h1"})
	require.NoError(t, err)
	require.NotEmpty(t, created.UUID)

	got, err := client.GetUser(ctx, &pb.GetUserRequest{UUID: created.UUID})
	require.NoError(t, err)
	assert.Equal(t, created, got)

	sign := func(privateKey, ts, payload string) string {
		sig, err := signature.Sign(ts+created.UUID+payload, privateKey)
		require.NoError(t, err)
		return sig
	}

	_, err = client.UpdateHash(ctx, &pb.UpdateHashRequest{
		Timestamp: "1", UUID: created.UUID, Hash: "h2", Signature: sign(stranger.PrivateKey, "1", "h2"),
	})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	updated, err := client.UpdateHash(ctx, &pb.UpdateHashRequest{
		Timestamp: "2", UUID: created.UUID, Hash: "h2", Signature: sign(owner.PrivateKey, "2", "h2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "h2", updated.Hash)

	deleted, err := client.DeleteUser(ctx, &pb.DeleteUserRequest{
		Timestamp: "3", UUID: created.UUID, Hash: "h2", Signature: sign(owner.PrivateKey, "3", "h2"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, deleted.Code)

	_, err = client.GetUser(ctx, &pb.GetUserRequest{UUID: created.UUID})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.GetUser(ctx, &pb.GetUserRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	hc, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: pb.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, hc.Status)
}

func TestRouter_RecoversPanics(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// a Users without a directory dereferences nil on first use
	conn := dial(t, &service.Users{})
	client := pb.NewDirectoryClient(conn)

	_, err := client.GetUser(ctx, &pb.GetUserRequest{UUID: "u1"})
	assert.Equal(t, codes.Internal, status.Code(err))

	// the server keeps serving after a recovered panic
	_, err = healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	assert.NoError(t, err)
}
