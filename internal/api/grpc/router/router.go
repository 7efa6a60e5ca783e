package router

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	// registers the JSON content subtype
	_ "github.com/dtroode/keydir/internal/api/grpc/codec"
	pb "github.com/dtroode/keydir/internal/api/grpc/directorypb"
	"github.com/dtroode/keydir/internal/api/grpc/handler"
	"github.com/dtroode/keydir/internal/api/grpc/middleware"
	"github.com/dtroode/keydir/internal/logger"
)

// Router wires the directory handler, health checks and interceptors into
// a gRPC server.
type Router struct {
	usersService handler.UsersService
	logger       *logger.Logger
	health       *health.Server
}

// New creates new gRPC Router instance.
func New(usersService handler.UsersService, logger *logger.Logger) *Router {
	return &Router{
		usersService: usersService,
		logger:       logger,
		health:       health.NewServer(),
	}
}

// Register builds the gRPC server with panic recovery and request logging.
// Recovery runs inside logging so a recovered panic is still logged as a
// failed request.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	logging := middleware.NewLogging(r.logger)

	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			middleware.NewRecovery(r.logger),
		),
	}, opts...)

	s := grpc.NewServer(opts...)
	r.registerDirectoryRoutes(s)
	r.registerHealth(s)

	return s
}

// Health exposes the health server so shutdown can flip it to NOT_SERVING.
func (r *Router) Health() *health.Server {
	return r.health
}

func (r *Router) registerDirectoryRoutes(server *grpc.Server) {
	directoryHandler := handler.NewDirectory(r.usersService, r.logger)
	pb.RegisterDirectoryServer(server, directoryHandler)
}

func (r *Router) registerHealth(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, r.health)
	r.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	r.health.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
}
