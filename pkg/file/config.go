package file

import (
	"context"
	"fmt"
)

// Config selects and configures the storage backend from the environment.
type Config struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"local"` // Driver is the storage backend: "local" or "s3".

	LocalDir     string `env:"STORAGE_LOCAL_DIR" envDefault:"uploads"`      // LocalDir is the base directory for the local driver.
	LocalBaseURL string `env:"STORAGE_LOCAL_BASE_URL" envDefault:"/media/"` // LocalBaseURL is the URL prefix files are served under.

	S3 S3Config
}

// New builds a Storage backend from the config.
func New(ctx context.Context, cfg Config, opts ...S3Option) (Storage, error) {
	switch cfg.Driver {
	case "local":
		return NewLocalStorage(cfg.LocalDir, cfg.LocalBaseURL)
	case "s3":
		return NewS3Storage(ctx, cfg.S3, opts...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}
