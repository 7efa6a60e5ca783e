package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	// registers the JSON content subtype
	_ "github.com/dtroode/keydir/internal/api/grpc/codec"
	pb "github.com/dtroode/keydir/internal/api/grpc/directorypb"
	"github.com/dtroode/keydir/internal/ctl"
)

func main() {
	cfg, err := ctl.ParseConfig(flag.NewFlagSet("keydirctl", flag.ExitOnError), os.Args[1:])
	if err != nil {
		exitf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	var client pb.DirectoryClient
	if cfg.NeedsClient() {
		conn, err := dial(cfg)
		if err != nil {
			exitf("dial %s: %v", cfg.Addr, err)
		}
		defer conn.Close()
		client = pb.NewDirectoryClient(conn)
	}

	if err := ctl.Run(ctx, cfg, os.Stdout, client, nil); err != nil {
		exitf("%s: %v", cfg.Command, err)
	}
}

func dial(cfg ctl.Config) (*grpc.ClientConn, error) {
	creds := insecure.NewCredentials()
	if cfg.TLS {
		creds = credentials.NewTLS(&tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // opt-in for self-signed dev certificates
		})
	}
	return grpc.NewClient(cfg.Addr, grpc.WithTransportCredentials(creds))
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "keydirctl: "+format+"\n", args...)
	os.Exit(1)
}
