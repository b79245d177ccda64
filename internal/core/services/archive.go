package services

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/bfs/internal/core/domain"
	"github.com/custodia-labs/bfs/internal/core/ports/driven"
	"github.com/custodia-labs/bfs/internal/core/ports/driving"
	"github.com/custodia-labs/bfs/internal/logger"
)

// Ensure ArchiveService implements the interface.
var _ driving.ArchiveService = (*ArchiveService)(nil)

// Entry name prefixes inside a dump.
const (
	attrPrefix = "attr/"
	blobPrefix = "blob/"
)

// ArchiveService exports, imports, dumps and restores store files.
type ArchiveService struct {
	factory driven.StoreFactory
	threads int
}

// NewArchiveService creates a new archive service. threads is the fan-out
// used by Export; values below one mean one.
func NewArchiveService(factory driven.StoreFactory, threads int) *ArchiveService {
	if threads < 1 {
		threads = 1
	}
	return &ArchiveService{factory: factory, threads: threads}
}

// Export writes every blob matching pattern under dir. Blobs are fetched by
// one worker per execution context, each reusing its own buffer.
func (s *ArchiveService) Export(ctx context.Context, path, dir, pattern string) (int, error) {
	if s.factory == nil {
		return 0, domain.ErrNotImplemented
	}

	var written atomic.Int64
	err := withStore(ctx, s.factory, path, s.threads, domain.ModeReadOnly, func(store driven.Store) error {
		var names []string
		if _, err := store.ListBlobs(ctx, pattern, func(name string, _ int) bool {
			names = append(names, name)
			return true
		}); err != nil {
			return err
		}
		for _, name := range names {
			if !filepath.IsLocal(filepath.FromSlash(name)) {
				return fmt.Errorf("%w: blob %q is not a relative path", domain.ErrInvalidInput, name)
			}
		}

		work := make(chan string)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			defer close(work)
			for _, name := range names {
				select {
				case work <- name:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})

		for tid := range min(store.Threads(), len(names)) {
			g.Go(func() error {
				var buf []byte
				for name := range work {
					var err error
					if buf, err = store.GetBlob(gctx, tid, name, buf); err != nil {
						return err
					}
					if err := writeFileAtomic(filepath.Join(dir, filepath.FromSlash(name)), buf); err != nil {
						return err
					}
					written.Add(1)
				}
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return int(written.Load()), fmt.Errorf("exporting %s: %w", path, err)
	}
	logger.Info("exported %d blobs to %s", written.Load(), dir)
	return int(written.Load()), nil
}

// writeFileAtomic writes data to a uniquely named temporary file next to
// path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", path, err)
	}
	return nil
}

// Import bulk loads every regular file under dir in stream mode. Hidden
// files and directories are skipped, and empty files store nothing.
func (s *ArchiveService) Import(ctx context.Context, path, dir string) (int, error) {
	if s.factory == nil {
		return 0, domain.ErrNotImplemented
	}

	count := 0
	err := withStore(ctx, s.factory, path, 1, domain.ModeStream, func(store driven.Store) error {
		return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p != dir && isHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			name, err := blobName(dir, p)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("reading %s: %w", p, err)
			}
			if len(data) == 0 {
				logger.Debug("skipping empty file %s", p)
				return nil
			}
			if err := store.SetBlob(ctx, name, data); err != nil {
				return err
			}
			count++
			return nil
		})
	})
	if err != nil {
		return count, fmt.Errorf("importing %s: %w", dir, err)
	}
	logger.Info("imported %d blobs from %s", count, dir)
	return count, nil
}

// Dump writes a zstd-compressed tar holding attr/<key> and blob/<name>
// entries.
func (s *ArchiveService) Dump(ctx context.Context, path string, w io.Writer) error {
	if s.factory == nil {
		return domain.ErrNotImplemented
	}

	err := withStore(ctx, s.factory, path, 1, domain.ModeReadOnly, func(store driven.Store) error {
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("creating compressor: %w", err)
		}
		tw := tar.NewWriter(enc)
		err = dumpStore(ctx, store, tw)
		return errors.Join(err, tw.Close(), enc.Close())
	})
	if err != nil {
		return fmt.Errorf("dumping %s: %w", path, err)
	}
	return nil
}

func dumpStore(ctx context.Context, store driven.Store, tw *tar.Writer) error {
	var werr error
	if _, err := store.ListAttrs(ctx, func(key, val string) bool {
		if werr == nil {
			werr = writeEntry(tw, attrPrefix+key, []byte(val))
		}
		return werr == nil
	}); err != nil {
		return err
	}
	if werr != nil {
		return werr
	}

	// Listing holds the store lock, so collect names before fetching.
	var names []string
	if _, err := store.ListBlobs(ctx, domain.MatchAll, func(name string, _ int) bool {
		names = append(names, name)
		return true
	}); err != nil {
		return err
	}

	var buf []byte
	for _, name := range names {
		var err error
		if buf, err = store.GetBlob(ctx, 0, name, buf); err != nil {
			return err
		}
		if err := writeEntry(tw, blobPrefix+name, buf); err != nil {
			return err
		}
	}
	logger.Debug("dumped %d blobs", len(names))
	return nil
}

func writeEntry(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(data)),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header %s: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// Restore loads a dump in stream mode. Unknown entries are skipped.
func (s *ArchiveService) Restore(ctx context.Context, path string, r io.Reader) error {
	if s.factory == nil {
		return domain.ErrNotImplemented
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("opening dump: %w", err)
	}
	defer dec.Close()

	err = withStore(ctx, s.factory, path, 1, domain.ModeStream, func(store driven.Store) error {
		return restoreStore(ctx, store, tar.NewReader(dec))
	})
	if err != nil {
		return fmt.Errorf("restoring %s: %w", path, err)
	}
	return nil
}

func restoreStore(ctx context.Context, store driven.Store, tr *tar.Reader) error {
	var attrs, blobs int
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading dump: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return fmt.Errorf("reading %s: %w", hdr.Name, err)
		}

		switch {
		case strings.HasPrefix(hdr.Name, attrPrefix):
			err = store.SetAttr(ctx, strings.TrimPrefix(hdr.Name, attrPrefix), string(data))
			attrs++
		case strings.HasPrefix(hdr.Name, blobPrefix):
			err = store.SetBlob(ctx, strings.TrimPrefix(hdr.Name, blobPrefix), data)
			blobs++
		default:
			logger.Warn("skipping unknown dump entry %s", hdr.Name)
		}
		if err != nil {
			return err
		}
	}
	logger.Info("restored %d attributes and %d blobs", attrs, blobs)
	return nil
}

// isHidden reports whether a file or directory name starts with a dot.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// blobName maps a path under root to a slash-separated blob name.
func blobName(root, p string) (string, error) {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}
	return filepath.ToSlash(rel), nil
}
