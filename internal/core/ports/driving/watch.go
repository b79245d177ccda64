package driving

import "context"

// WatchService keeps a store file in step with a directory.
type WatchService interface {
	// Watch mirrors dir into the blobs of path until ctx is cancelled.
	Watch(ctx context.Context, path, dir string) error
}
