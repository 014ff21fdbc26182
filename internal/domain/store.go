package domain

import (
	"context"
	"io"
)

// KeyValueStore is the durable side-store the session is mirrored to.
// Get reports ok=false for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Upload is a file attached to a multipart request.
type Upload struct {
	FileName    string
	ContentType string
	Content     io.Reader
}
