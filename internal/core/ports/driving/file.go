package driving

import (
	"context"

	"github.com/custodia-labs/bfs/internal/core/domain"
)

// FileService runs single operations against a store file. Each call opens
// the file in the narrowest mode the operation needs and closes it again.
type FileService interface {
	// ListAttrs returns every attribute of the file.
	ListAttrs(ctx context.Context, path string) ([]domain.Attribute, error)

	// GetAttr returns the value of key, or "" if it is not set.
	GetAttr(ctx context.Context, path, key string) (string, error)

	// SetAttr sets key to val, creating the file if needed.
	// An empty val clears key.
	SetAttr(ctx context.Context, path, key, val string) error

	// ClearAttr removes key.
	ClearAttr(ctx context.Context, path, key string) error

	// ListBlobs returns the blobs whose names match the LIKE pattern.
	// An empty pattern matches every blob.
	ListBlobs(ctx context.Context, path, pattern string) ([]domain.BlobInfo, error)

	// GetBlob returns the content of name, empty if it is not set.
	GetBlob(ctx context.Context, path, name string) ([]byte, error)

	// SetBlob stores data under name, creating the file if needed.
	// Empty data clears name.
	SetBlob(ctx context.Context, path, name string, data []byte) error

	// ClearBlob removes name.
	ClearBlob(ctx context.Context, path, name string) error
}
