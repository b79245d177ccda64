package driving

import (
	"context"
	"io"
)

// ArchiveService moves store content to and from the filesystem.
type ArchiveService interface {
	// Export writes every blob matching pattern to a file under dir, named
	// by the blob name. Returns the number of files written.
	Export(ctx context.Context, path, dir, pattern string) (int, error)

	// Import stores every regular file under dir as a blob named by its
	// slash-separated path relative to dir. Returns the number of blobs.
	Import(ctx context.Context, path, dir string) (int, error)

	// Dump writes all attributes and blobs to w as a zstd-compressed tar.
	Dump(ctx context.Context, path string, w io.Writer) error

	// Restore loads a stream produced by Dump into the file at path.
	Restore(ctx context.Context, path string, r io.Reader) error
}
