package blobstore

import (
	"context"
	"fmt"
)

// Config selects and parameterizes a Store backend.
type Config struct {
	// Type is "memory" or "s3".
	Type string
	S3   S3Config
}

// NewFromConfig creates a Store for the configured backend type.
func NewFromConfig(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemory(), nil
	case "s3":
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("blobstore: unknown store type: %s", cfg.Type)
	}
}
