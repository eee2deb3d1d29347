package storage

import (
	"context"
	"io"
)

// ObjectStore is the bucket the standings snapshots are written to.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) error
	Remove(ctx context.Context, key string) error
	// PublicURL is where readers fetch key from, or "" when the bucket
	// has no public address.
	PublicURL(key string) string
}
