package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel int     `env:"LOG_LEVEL" envDefault:"0"`
	GRPC     GRPC    `envPrefix:"GRPC_"`
	Storage  Storage `envPrefix:"STORAGE_"`
	Minio    Minio   `envPrefix:"MINIO_"`
	Auth     Auth    `envPrefix:"AUTH_"`
	Index    Index   `envPrefix:"INDEX_"`
}

// GRPC contains gRPC server parameters.
type GRPC struct {
	Port               string `env:"PORT" envDefault:"50051"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Storage selects the document backend. The URI scheme picks the backend:
// file, mem, redis, postgres, minio, bolt or sqlite. A bare path means file.
type Storage struct {
	URI string `env:"URI" envDefault:"file://./data"`
}

// Minio contains object storage credentials used by minio:// locators.
type Minio struct {
	AccessKey string `env:"ACCESS_KEY" envDefault:"keydir-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"keydir-secret-key"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Auth contains signed request parameters.
type Auth struct {
	// MaxSkew bounds the request timestamp distance from now. 0 disables it.
	MaxSkew time.Duration `env:"MAX_SKEW" envDefault:"0s"`
}

// Index contains public key index parameters.
type Index struct {
	RetryAttempts uint64 `env:"RETRY_ATTEMPTS" envDefault:"3"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
