package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/bfs/internal/core/domain"
	"github.com/custodia-labs/bfs/internal/core/ports/driven"
	"github.com/custodia-labs/bfs/internal/core/ports/driving"
)

// Ensure FileService implements the interface.
var _ driving.FileService = (*FileService)(nil)

// FileService runs one store operation per call.
type FileService struct {
	factory driven.StoreFactory
}

// NewFileService creates a new file service.
func NewFileService(factory driven.StoreFactory) *FileService {
	return &FileService{factory: factory}
}

func (s *FileService) read(ctx context.Context, path string, fn func(driven.Store) error) error {
	if s.factory == nil {
		return domain.ErrNotImplemented
	}
	return withStore(ctx, s.factory, path, 1, domain.ModeReadOnly, fn)
}

func (s *FileService) write(ctx context.Context, path string, fn func(driven.Store) error) error {
	if s.factory == nil {
		return domain.ErrNotImplemented
	}
	return withStore(ctx, s.factory, path, 1, domain.ModeReadWrite, fn)
}

// ListAttrs returns every attribute of the file.
func (s *FileService) ListAttrs(ctx context.Context, path string) ([]domain.Attribute, error) {
	var attrs []domain.Attribute
	err := s.read(ctx, path, func(store driven.Store) error {
		_, err := store.ListAttrs(ctx, func(key, val string) bool {
			attrs = append(attrs, domain.Attribute{Key: key, Val: val})
			return true
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing attributes: %w", err)
	}
	return attrs, nil
}

// GetAttr returns the value of key.
func (s *FileService) GetAttr(ctx context.Context, path, key string) (string, error) {
	var val string
	err := s.read(ctx, path, func(store driven.Store) error {
		var err error
		val, err = store.GetAttr(ctx, 0, key)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("getting attribute: %w", err)
	}
	return val, nil
}

// SetAttr sets key to val.
func (s *FileService) SetAttr(ctx context.Context, path, key, val string) error {
	err := s.write(ctx, path, func(store driven.Store) error {
		return store.SetAttr(ctx, key, val)
	})
	if err != nil {
		return fmt.Errorf("setting attribute: %w", err)
	}
	return nil
}

// ClearAttr removes key.
func (s *FileService) ClearAttr(ctx context.Context, path, key string) error {
	err := s.write(ctx, path, func(store driven.Store) error {
		return store.ClearAttr(ctx, key)
	})
	if err != nil {
		return fmt.Errorf("clearing attribute: %w", err)
	}
	return nil
}

// ListBlobs returns the blobs matching pattern.
func (s *FileService) ListBlobs(ctx context.Context, path, pattern string) ([]domain.BlobInfo, error) {
	var blobs []domain.BlobInfo
	err := s.read(ctx, path, func(store driven.Store) error {
		_, err := store.ListBlobs(ctx, pattern, func(name string, size int) bool {
			blobs = append(blobs, domain.BlobInfo{Name: name, Size: size})
			return true
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing blobs: %w", err)
	}
	return blobs, nil
}

// GetBlob returns the content of name.
func (s *FileService) GetBlob(ctx context.Context, path, name string) ([]byte, error) {
	var data []byte
	err := s.read(ctx, path, func(store driven.Store) error {
		var err error
		data, err = store.GetBlob(ctx, 0, name, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getting blob: %w", err)
	}
	return data, nil
}

// SetBlob stores data under name.
func (s *FileService) SetBlob(ctx context.Context, path, name string, data []byte) error {
	err := s.write(ctx, path, func(store driven.Store) error {
		return store.SetBlob(ctx, name, data)
	})
	if err != nil {
		return fmt.Errorf("setting blob: %w", err)
	}
	return nil
}

// ClearBlob removes name.
func (s *FileService) ClearBlob(ctx context.Context, path, name string) error {
	err := s.write(ctx, path, func(store driven.Store) error {
		return store.ClearBlob(ctx, name)
	})
	if err != nil {
		return fmt.Errorf("clearing blob: %w", err)
	}
	return nil
}
