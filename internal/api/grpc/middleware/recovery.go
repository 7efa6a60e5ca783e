package middleware

import (
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/keydir/internal/logger"
)

// NewRecovery returns an interceptor that turns handler panics into
// codes.Internal responses and logs the stack.
func NewRecovery(logger *logger.Logger) grpc.UnaryServerInterceptor {
	return recovery.UnaryServerInterceptor(
		recovery.WithRecoveryHandler(func(p any) error {
			logger.Error("gRPC handler panicked",
				"panic", p,
				"stack", string(debug.Stack()))
			return status.Error(codes.Internal, "internal server error")
		}),
	)
}
