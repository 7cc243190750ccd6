package storage

import (
	"context"
	"time"
)

// Package storage contains the object store gateway for S3-compatible
// backends. The service never proxies object bytes: clients upload and
// download directly through presigned URLs, so the gateway only signs
// URLs and issues deletes.

// Presigned is a time-limited URL granting direct access to one object.
type Presigned struct {
	URL       string
	Method    string
	ExpiresAt time.Time
}

// Gateway is a reusable, S3-compatible object storage client interface.
// It holds no state of its own; all side effects land in the external store.
type Gateway interface {
	// PresignPut returns a time-limited URL the caller uses to upload the
	// object directly, bypassing this service.
	PresignPut(ctx context.Context, key, contentType string) (Presigned, error)
	// PresignGet returns a time-limited URL for reading the object. The
	// store itself rejects access to a missing key at download time.
	PresignGet(ctx context.Context, key string) (Presigned, error)
	// Delete removes an object by key. Deleting a non-existent key is not
	// an error; retries of a completed delete succeed.
	Delete(ctx context.Context, key string) error
}
