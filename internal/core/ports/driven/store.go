package driven

import (
	"context"

	"github.com/custodia-labs/bfs/internal/core/domain"
)

// AttrStore holds string attributes keyed by unique string keys.
type AttrStore interface {
	// ListAttrs calls fn for every attribute in storage order. The result is
	// the AND of every fn result; a false result does not stop iteration.
	// fn runs under the store's exclusive lock and must not call back into
	// the store.
	ListAttrs(ctx context.Context, fn domain.AttrVisitor) (bool, error)

	// GetAttr returns the value for key using execution context tid.
	// A missing key and an empty value both yield "" with no error.
	GetAttr(ctx context.Context, tid int, key string) (string, error)

	// SetAttr upserts key. An empty val is equivalent to ClearAttr.
	SetAttr(ctx context.Context, key, val string) error

	// ClearAttr deletes key. Deleting a missing key is not an error.
	ClearAttr(ctx context.Context, key string) error
}

// BlobStore holds byte blobs keyed by unique names.
type BlobStore interface {
	// ListBlobs calls fn for every blob whose name matches the LIKE pattern.
	// An empty pattern matches everything. Result semantics follow ListAttrs.
	ListBlobs(ctx context.Context, pattern string, fn domain.BlobVisitor) (bool, error)

	// GetBlob copies the blob into buf and returns the filled slice. buf is
	// reused when its capacity suffices, otherwise a new slice is returned.
	// A missing blob yields a zero-length slice with no error.
	GetBlob(ctx context.Context, tid int, name string, buf []byte) ([]byte, error)

	// BlobSize returns the stored size of name, or 0 if it is missing.
	BlobSize(ctx context.Context, tid int, name string) (int, error)

	// SetBlob upserts name. Empty data is equivalent to ClearBlob.
	SetBlob(ctx context.Context, name string, data []byte) error

	// ClearBlob deletes name. Deleting a missing blob is not an error.
	ClearBlob(ctx context.Context, name string) error
}

// Store is an open store file. It is owned by whoever opened it and must be
// closed exactly once.
type Store interface {
	AttrStore
	BlobStore

	// Mode returns the mode the store was opened in.
	Mode() domain.Mode

	// Threads returns the number of execution contexts (nth).
	Threads() int

	// Close flushes pending writes, builds deferred indices and releases
	// the backend. A deferred index failure wraps domain.ErrIndexBuild.
	Close() error
}

// StoreFactory opens store files.
type StoreFactory interface {
	// Open opens path with nth execution contexts in the given mode.
	Open(ctx context.Context, path string, nth int, mode domain.Mode) (Store, error)
}
