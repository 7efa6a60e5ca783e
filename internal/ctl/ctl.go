// Package ctl implements keydirctl, a helper for generating keys, signing
// requests and calling the directory service.
package ctl

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	pb "github.com/dtroode/keydir/internal/api/grpc/directorypb"
	"github.com/dtroode/keydir/internal/signature"
)

// Commands lists the supported subcommands.
var Commands = []string{"keygen", "sign", "create", "get", "delete", "update-hash"}

// ErrUnknownCommand is returned for a subcommand not in Commands.
var ErrUnknownCommand = errors.New("unknown command")

// Config holds the parsed command line.
type Config struct {
	Command            string
	Addr               string
	TLS                bool
	InsecureSkipVerify bool
	Timeout            time.Duration

	PublicKey  string
	PrivateKey string
	UUID       string
	Hash       string
	Timestamp  string
	Message    string
}

// ParseConfig parses "<command> [flags]".
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	if len(args) == 0 {
		return Config{}, fmt.Errorf("%w: expected one of %v", ErrUnknownCommand, Commands)
	}

	cfg := Config{Command: args[0], Addr: "localhost:50051", Timeout: 10 * time.Second}
	if !isCommand(cfg.Command) {
		return Config{}, fmt.Errorf("%w %q: expected one of %v", ErrUnknownCommand, cfg.Command, Commands)
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "directory service address")
	fs.BoolVar(&cfg.TLS, "tls", false, "connect over TLS")
	fs.BoolVar(&cfg.InsecureSkipVerify, "insecure-skip-verify", false, "skip TLS certificate verification")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "request timeout")
	fs.StringVar(&cfg.PublicKey, "pub", "", "hex public key (create)")
	fs.StringVar(&cfg.PrivateKey, "priv", "", "hex private key (sign, delete, update-hash)")
	fs.StringVar(&cfg.UUID, "uuid", "", "user uuid")
	fs.StringVar(&cfg.Hash, "hash", "", "credential hash; the new hash for update-hash")
	fs.StringVar(&cfg.Timestamp, "timestamp", "", "request timestamp (default: now in unix milliseconds)")
	fs.StringVar(&cfg.Message, "message", "", "raw message to sign (sign)")
	if err := fs.Parse(args[1:]); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NeedsClient reports whether the command talks to the service.
func (c Config) NeedsClient() bool {
	switch c.Command {
	case "keygen", "sign":
		return false
	}
	return true
}

// Run executes cfg.Command and writes JSON results to out. client may be
// nil for offline commands.
func Run(ctx context.Context, cfg Config, out io.Writer, client pb.DirectoryClient, now func() time.Time) error {
	if out == nil {
		return errors.New("output is required")
	}
	if now == nil {
		now = time.Now
	}
	if cfg.NeedsClient() && client == nil {
		return errors.New("client is required")
	}
	if cfg.Timestamp == "" {
		cfg.Timestamp = strconv.FormatInt(now().UnixMilli(), 10)
	}

	switch cfg.Command {
	case "keygen":
		kp, err := signature.GenerateKeys()
		if err != nil {
			return err
		}
		return writeJSON(out, map[string]string{"pubKey": kp.PublicKey, "privateKey": kp.PrivateKey})

	case "sign":
		if cfg.PrivateKey == "" {
			return errors.New("-priv is required")
		}
		message := cfg.Message
		if message == "" {
			message = cfg.Timestamp + cfg.UUID + cfg.Hash
		}
		sig, err := signature.Sign(message, cfg.PrivateKey)
		if err != nil {
			return fmt.Errorf("sign: %w", err)
		}
		return writeJSON(out, map[string]string{"timestamp": cfg.Timestamp, "message": message, "signature": sig})

	case "create":
		pub := cfg.PublicKey
		if pub == "" && cfg.PrivateKey != "" {
			derived, err := signature.PublicKeyFromPrivate(cfg.PrivateKey)
			if err != nil {
				return err
			}
			pub = derived
		}
		user, err := client.CreateUser(ctx, &pb.CreateUserRequest{PublicKey: pub, Hash: cfg.Hash})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return writeJSON(out, user)

	case "get":
		user, err := client.GetUser(ctx, &pb.GetUserRequest{UUID: cfg.UUID})
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		return writeJSON(out, user)

	case "delete":
		sig, err := signature.Sign(cfg.Timestamp+cfg.UUID+cfg.Hash, cfg.PrivateKey)
		if err != nil {
			return fmt.Errorf("sign: %w", err)
		}
		resp, err := client.DeleteUser(ctx, &pb.DeleteUserRequest{
			Timestamp: cfg.Timestamp, UUID: cfg.UUID, Hash: cfg.Hash, Signature: sig,
		})
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return writeJSON(out, resp)

	case "update-hash":
		sig, err := signature.Sign(cfg.Timestamp+cfg.UUID+cfg.Hash, cfg.PrivateKey)
		if err != nil {
			return fmt.Errorf("sign: %w", err)
		}
		user, err := client.UpdateHash(ctx, &pb.UpdateHashRequest{
			Timestamp: cfg.Timestamp, UUID: cfg.UUID, Hash: cfg.Hash, Signature: sig,
		})
		if err != nil {
			return fmt.Errorf("update hash: %w", err)
		}
		return writeJSON(out, user)
	}

	return fmt.Errorf("%w %q", ErrUnknownCommand, cfg.Command)
}

func isCommand(name string) bool {
	for _, c := range Commands {
		if c == name {
			return true
		}
	}
	return false
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
