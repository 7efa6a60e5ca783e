// Package storage selects and wraps the document backend used by the
// directory.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/keydir/internal/model"
	"github.com/dtroode/keydir/internal/storage/bolt"
	"github.com/dtroode/keydir/internal/storage/file"
	"github.com/dtroode/keydir/internal/storage/memory"
	minioStore "github.com/dtroode/keydir/internal/storage/minio"
	"github.com/dtroode/keydir/internal/storage/postgres"
	"github.com/dtroode/keydir/internal/storage/redis"
	"github.com/dtroode/keydir/internal/storage/sqlite"
)

// ErrUnsupportedScheme is returned by Open for an unknown locator scheme.
var ErrUnsupportedScheme = errors.New("unsupported storage scheme")

var _ model.Backend = (*Client)(nil)

// Options carries backend credentials that do not belong in the locator.
type Options struct {
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
}

// Client is the single entry point of the directory into storage. The
// backend is chosen once at construction.
type Client struct {
	backend model.Backend
	scheme  string
}

// NewClient wraps an already constructed backend.
func NewClient(backend model.Backend) *Client {
	return &Client{backend: backend, scheme: "custom"}
}

// Open parses locator and constructs the matching backend.
func Open(ctx context.Context, locator string, opts Options) (*Client, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return nil, fmt.Errorf("storage locator is required")
	}

	// bare paths, including windows-style ones, go to the filesystem backend
	if !strings.Contains(locator, "://") && !hasLocalScheme(locator) {
		b, err := file.New(locator)
		if err != nil {
			return nil, err
		}
		return &Client{backend: b, scheme: "file"}, nil
	}

	u, err := url.Parse(locator)
	if err != nil {
		return nil, fmt.Errorf("failed to parse storage locator: %w", err)
	}

	scheme := strings.ToLower(u.Scheme)
	var b model.Backend
	switch scheme {
	case "file":
		b, err = file.New(localPath(u))
	case "mem", "memory":
		b = memory.New()
	case "redis", "rediss":
		b, err = redis.Open(ctx, locator)
	case "postgres", "postgresql":
		b, err = postgres.Open(ctx, locator)
	case "minio", "s3":
		b, err = openMinio(ctx, u, opts)
	case "bolt", "bbolt":
		b, err = bolt.Open(localPath(u))
	case "sqlite", "sqlite3":
		b, err = sqlite.Open(ctx, localPath(u))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", scheme, err)
	}

	return &Client{backend: b, scheme: scheme}, nil
}

// Scheme reports which backend kind the client was opened with.
func (c *Client) Scheme() string {
	return c.scheme
}

func (c *Client) Get(ctx context.Context, key string) (model.Document, bool, error) {
	return c.backend.Get(ctx, key)
}

func (c *Client) Set(ctx context.Context, key string, value model.Document) error {
	return c.backend.Set(ctx, key, value)
}

func (c *Client) Delete(ctx context.Context, key string) (bool, error) {
	return c.backend.Delete(ctx, key)
}

func (c *Client) Close() error {
	return c.backend.Close()
}

// hasLocalScheme reports opaque forms such as file:./data, which carry a
// scheme but no authority.
func hasLocalScheme(locator string) bool {
	scheme, _, ok := strings.Cut(locator, ":")
	if !ok {
		return false
	}
	switch strings.ToLower(scheme) {
	case "file", "bolt", "bbolt", "sqlite", "sqlite3":
		return true
	}
	return false
}

// localPath turns file://./data, file:./data and file:///var/lib/keydir into a
// filesystem path.
func localPath(u *url.URL) string {
	p := u.Host + u.Path
	if u.Opaque != "" {
		p = u.Opaque
	}
	return filepath.FromSlash(p)
}

func openMinio(ctx context.Context, u *url.URL, opts Options) (model.Backend, error) {
	bucket := strings.Trim(u.Path, "/")
	if u.Host == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}

	accessKey, secretKey := opts.MinioAccessKey, opts.MinioSecretKey
	if u.User != nil {
		accessKey = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			secretKey = pass
		}
	}

	client, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: opts.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return minioStore.New(ctx, client, bucket)
}
