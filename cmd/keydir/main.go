package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/keydir/internal/api/grpc/router"
	grpcServer "github.com/dtroode/keydir/internal/api/grpc/server"
	"github.com/dtroode/keydir/internal/config"
	"github.com/dtroode/keydir/internal/logger"
	"github.com/dtroode/keydir/internal/model"
	"github.com/dtroode/keydir/internal/server"
	"github.com/dtroode/keydir/internal/service"
	"github.com/dtroode/keydir/internal/signature"
	"github.com/dtroode/keydir/internal/storage"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	store, err := storage.Open(ctx, cfg.Storage.URI, storage.Options{
		MinioAccessKey: cfg.Minio.AccessKey,
		MinioSecretKey: cfg.Minio.SecretKey,
		MinioUseSSL:    cfg.Minio.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()
	logger.Info("storage ready", "backend", store.Scheme())

	directory := service.NewDirectory(store, logger,
		service.WithIndexRetry(cfg.Index.RetryAttempts, func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		}),
	)
	gate := service.NewGate(directory, signature.NewSecp256k1(), logger,
		service.WithMaxSkew(cfg.Auth.MaxSkew),
	)
	usersService := service.NewUsers(directory, gate, logger)

	r := router.New(usersService, logger)
	grpcServer := grpcServer.NewGRPCServer(r.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port))

	sl := server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "tls", cfg.GRPC.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(grpcServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")
	r.Health().SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := grpcServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", grpcServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
