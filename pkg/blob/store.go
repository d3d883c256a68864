// Package blob stores device intake photographs outside the evidence tables.
//
// The evidence schema holds only blob keys; the bytes live behind the Store
// interface. Semantics mirror a minimal subset of S3 so the S3 adapter is
// nearly 1:1 while the filesystem adapter emulates them for single-host
// deployments and the memory adapter serves tests.
package blob

import (
	"context"
	"errors"
)

// Driver identifies a concrete blob storage backend implementation.
type Driver string

const (
	DriverFilesystem Driver = "fs"     // local filesystem (default)
	DriverS3         Driver = "s3"     // S3 / MinIO compatible
	DriverMemory     Driver = "memory" // in-memory (tests)
)

// ErrNotFound is returned when no blob exists at the requested key.
var ErrNotFound = errors.New("blob: not found")

// Store persists opaque blobs by key.
type Store interface {
	// Put stores the blob at key, overwriting any existing blob.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get retrieves the blob contents. Returns ErrNotFound if missing.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a blob. Returns (false, nil) if not found.
	Delete(ctx context.Context, key string) (bool, error)

	// Driver returns the configured backend driver.
	Driver() Driver
}
