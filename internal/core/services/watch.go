package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/bfs/internal/core/domain"
	"github.com/custodia-labs/bfs/internal/core/ports/driven"
	"github.com/custodia-labs/bfs/internal/core/ports/driving"
	"github.com/custodia-labs/bfs/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.WatchService = (*WatchService)(nil)

// WatchService mirrors a directory tree into the blobs of a store file.
type WatchService struct {
	factory driven.StoreFactory
}

// NewWatchService creates a new watch service.
func NewWatchService(factory driven.StoreFactory) *WatchService {
	return &WatchService{factory: factory}
}

// Watch opens path read-write, loads the current content of dir and then
// applies file system events until ctx is cancelled. Directories are
// watched before they are loaded so no write between the two is missed.
func (s *WatchService) Watch(ctx context.Context, path, dir string) error {
	if s.factory == nil {
		return domain.ErrNotImplemented
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	return withStore(ctx, s.factory, path, 1, domain.ModeReadWrite, func(store driven.Store) error {
		m := &mirror{store: store, watcher: watcher, root: dir}
		if err := m.addTree(ctx, dir); err != nil {
			return err
		}
		logger.Info("watching %s", dir)

		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if err := m.handle(ctx, event); err != nil {
					logger.Warn("applying %s: %v", event, err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("watch error: %v", err)
			}
		}
	})
}

// mirror applies file system changes under root to a store.
type mirror struct {
	store   driven.Store
	watcher *fsnotify.Watcher
	root    string
}

// addTree watches every directory under dir and stores every file.
func (m *mirror) addTree(ctx context.Context, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != m.root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if err := m.watcher.Add(p); err != nil {
				return fmt.Errorf("watching %s: %w", p, err)
			}
			return nil
		}
		if d.Type().IsRegular() {
			return m.load(ctx, p)
		}
		return nil
	})
}

// handle applies one event.
func (m *mirror) handle(ctx context.Context, event fsnotify.Event) error {
	name, err := blobName(m.root, event.Name)
	if err != nil {
		return err
	}
	if m.hidden(name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil {
			// Gone again before we looked.
			return m.remove(ctx, name)
		}
		if info.IsDir() {
			return m.addTree(ctx, event.Name)
		}
		return m.load(ctx, event.Name)
	case event.Has(fsnotify.Write):
		return m.load(ctx, event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return m.remove(ctx, name)
	}
	return nil
}

// hidden reports whether any element of a blob name is hidden.
func (m *mirror) hidden(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if isHidden(part) {
			return true
		}
	}
	return false
}

// load stores the file at p as a blob. A file that vanished is cleared.
func (m *mirror) load(ctx context.Context, p string) error {
	name, err := blobName(m.root, p)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return m.remove(ctx, name)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", p, err)
	}
	if err := m.store.SetBlob(ctx, name, data); err != nil {
		return err
	}
	logger.Debug("stored %s (%d bytes)", name, len(data))
	return nil
}

// remove clears name and, if name was a directory, every blob below it.
func (m *mirror) remove(ctx context.Context, name string) error {
	prefix := name + "/"
	var below []string
	if _, err := m.store.ListBlobs(ctx, prefix+domain.MatchAll, func(n string, _ int) bool {
		// LIKE wildcards in name may match more than the prefix.
		if strings.HasPrefix(n, prefix) {
			below = append(below, n)
		}
		return true
	}); err != nil {
		return err
	}

	errs := []error{m.store.ClearBlob(ctx, name)}
	for _, n := range below {
		errs = append(errs, m.store.ClearBlob(ctx, n))
	}
	logger.Debug("cleared %s and %d blobs below it", name, len(below))
	return errors.Join(errs...)
}
