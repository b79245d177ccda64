package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/bfs/internal/core/domain"
	"github.com/custodia-labs/bfs/internal/core/ports/driven"
)

// Ensure Store and Factory implement the interfaces.
var (
	_ driven.Store        = (*Store)(nil)
	_ driven.StoreFactory = (*Factory)(nil)
)

// file is the content behind one path. Its lock is shared by every Store
// opened on the path.
type file struct {
	mu    sync.RWMutex
	attrs map[string]string
	blobs map[string][]byte
}

// Factory is an in-memory implementation of driven.StoreFactory for testing.
// Files live as long as the Factory, so a path can be closed and reopened
// in another mode.
type Factory struct {
	mu    sync.Mutex
	files map[string]*file
}

// NewFactory creates an empty in-memory factory.
func NewFactory() *Factory {
	return &Factory{files: make(map[string]*file)}
}

// Open opens path following the same mode rules as the SQLite store.
func (f *Factory) Open(_ context.Context, path string, nth int, mode domain.Mode) (driven.Store, error) {
	if err := mode.ValidateThreads(nth); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}
	policy := mode.Policy()

	f.mu.Lock()
	defer f.mu.Unlock()
	fl, ok := f.files[path]
	if !ok {
		if policy.ReadOnlyBackend {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		fl = &file{attrs: make(map[string]string), blobs: make(map[string][]byte)}
		f.files[path] = fl
	}
	return &Store{file: fl, mode: mode, policy: policy, nth: nth}, nil
}

// Exists reports whether path has been created.
func (f *Factory) Exists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[path]
	return ok
}

// Store is an in-memory implementation of driven.Store for testing.
type Store struct {
	file   *file
	mode   domain.Mode
	policy domain.ModePolicy
	nth    int
	closed bool
}

// Mode returns the mode the store was opened in.
func (s *Store) Mode() domain.Mode { return s.mode }

// Threads returns the number of execution contexts.
func (s *Store) Threads() int { return s.nth }

// Close marks the store closed.
func (s *Store) Close() error {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()
	if s.closed {
		return domain.ErrClosed
	}
	s.closed = true
	return nil
}

func (s *Store) checkRead(tid int) error {
	if !s.policy.AllowReads {
		return fmt.Errorf("%w: reads are not allowed in %s mode", domain.ErrInvalidMode, s.mode)
	}
	if tid < 0 || tid >= s.nth {
		return fmt.Errorf("%w: tid=%d nth=%d", domain.ErrInvalidContext, tid, s.nth)
	}
	if s.closed {
		return domain.ErrClosed
	}
	return nil
}

func (s *Store) checkList() error {
	if !s.policy.AllowReads {
		return fmt.Errorf("%w: listing is not allowed in %s mode", domain.ErrInvalidMode, s.mode)
	}
	if s.closed {
		return domain.ErrClosed
	}
	return nil
}

func (s *Store) checkWrite() error {
	if !s.policy.AllowWrites {
		return fmt.Errorf("%w: writes are not allowed in %s mode", domain.ErrInvalidMode, s.mode)
	}
	if s.closed {
		return domain.ErrClosed
	}
	return nil
}

// ListAttrs visits every attribute in key order.
func (s *Store) ListAttrs(_ context.Context, fn domain.AttrVisitor) (bool, error) {
	if fn == nil {
		return false, fmt.Errorf("%w: nil visitor", domain.ErrInvalidInput)
	}
	s.file.mu.Lock()
	defer s.file.mu.Unlock()
	if err := s.checkList(); err != nil {
		return false, err
	}

	ok := true
	for _, key := range sortedKeys(s.file.attrs) {
		ok = fn(key, s.file.attrs[key]) && ok
	}
	return ok, nil
}

// GetAttr returns the value of key, or "" when absent.
func (s *Store) GetAttr(_ context.Context, tid int, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty key", domain.ErrInvalidInput)
	}
	s.file.mu.RLock()
	defer s.file.mu.RUnlock()
	if err := s.checkRead(tid); err != nil {
		return "", err
	}
	return s.file.attrs[key], nil
}

// SetAttr upserts key=val. An empty val clears key.
func (s *Store) SetAttr(_ context.Context, key, val string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", domain.ErrInvalidInput)
	}
	s.file.mu.Lock()
	defer s.file.mu.Unlock()
	if err := s.checkWrite(); err != nil {
		return err
	}
	if val == "" {
		delete(s.file.attrs, key)
	} else {
		s.file.attrs[key] = val
	}
	return nil
}

// ClearAttr deletes key if present.
func (s *Store) ClearAttr(ctx context.Context, key string) error {
	return s.SetAttr(ctx, key, "")
}

// ListBlobs visits every blob whose name matches the LIKE pattern.
func (s *Store) ListBlobs(_ context.Context, pattern string, fn domain.BlobVisitor) (bool, error) {
	if fn == nil {
		return false, fmt.Errorf("%w: nil visitor", domain.ErrInvalidInput)
	}
	if pattern == "" {
		pattern = domain.MatchAll
	}
	s.file.mu.Lock()
	defer s.file.mu.Unlock()
	if err := s.checkList(); err != nil {
		return false, err
	}

	ok := true
	for _, name := range sortedKeys(s.file.blobs) {
		if like(pattern, name) {
			ok = fn(name, len(s.file.blobs[name])) && ok
		}
	}
	return ok, nil
}

// GetBlob copies the blob into buf, growing it when it is too small.
func (s *Store) GetBlob(_ context.Context, tid int, name string, buf []byte) ([]byte, error) {
	if name == "" {
		return buf, fmt.Errorf("%w: empty name", domain.ErrInvalidInput)
	}
	s.file.mu.RLock()
	defer s.file.mu.RUnlock()
	if err := s.checkRead(tid); err != nil {
		return buf, err
	}
	src := s.file.blobs[name]
	if cap(buf) < len(src) {
		buf = make([]byte, len(src))
	}
	buf = buf[:len(src)]
	copy(buf, src)
	return buf, nil
}

// BlobSize returns the stored size of name.
func (s *Store) BlobSize(_ context.Context, tid int, name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty name", domain.ErrInvalidInput)
	}
	s.file.mu.RLock()
	defer s.file.mu.RUnlock()
	if err := s.checkRead(tid); err != nil {
		return 0, err
	}
	return len(s.file.blobs[name]), nil
}

// SetBlob upserts name with a copy of data. Empty data clears name.
func (s *Store) SetBlob(_ context.Context, name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", domain.ErrInvalidInput)
	}
	s.file.mu.Lock()
	defer s.file.mu.Unlock()
	if err := s.checkWrite(); err != nil {
		return err
	}
	if len(data) == 0 {
		delete(s.file.blobs, name)
	} else {
		s.file.blobs[name] = append([]byte(nil), data...)
	}
	return nil
}

// ClearBlob deletes name if present.
func (s *Store) ClearBlob(ctx context.Context, name string) error {
	return s.SetBlob(ctx, name, nil)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
