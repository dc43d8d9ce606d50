// Package blobstore is the object-store collaborator: opaque storage
// references in, renderable URLs out, plus uploads for the image bank.
package blobstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a reference does not resolve to stored content.
var ErrNotFound = errors.New("blobstore: reference not found")

// Resolver turns a storage reference into a URL a client can render.
type Resolver interface {
	ResolveURL(ctx context.Context, ref string) (string, error)
}

// Uploader stores content under a reference.
type Uploader interface {
	Upload(ctx context.Context, ref string, r io.Reader, contentType string) error
}

// Store is the full object-store boundary.
type Store interface {
	Resolver
	Uploader
	Delete(ctx context.Context, ref string) error
}
