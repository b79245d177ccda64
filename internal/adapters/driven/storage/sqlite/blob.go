package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/bfs/internal/core/domain"
)

// ListBlobs visits every blob whose name matches the LIKE pattern, reporting
// its size. An empty pattern matches every name.
func (s *Store) ListBlobs(ctx context.Context, pattern string, fn domain.BlobVisitor) (bool, error) {
	if fn == nil {
		return false, fmt.Errorf("%w: nil visitor", domain.ErrInvalidInput)
	}
	if pattern == "" {
		pattern = domain.MatchAll
	}
	if err := s.lockList(); err != nil {
		return false, err
	}
	defer s.guard.releaseExclusive()

	rows, err := s.stmts.blobList.QueryContext(ctx, sql.Named("arg_pattern", pattern))
	if err != nil {
		return false, fmt.Errorf("querying blobs: %w", err)
	}
	defer rows.Close()

	ok := true
	for rows.Next() {
		var name string
		var size sql.NullInt64
		if err := rows.Scan(&name, &size); err != nil {
			return false, fmt.Errorf("scanning blob: %w", err)
		}
		ok = fn(name, int(size.Int64)) && ok
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("iterating blobs: %w", err)
	}
	return ok, nil
}

// GetBlob copies the blob into buf, growing it when it is too small. A
// missing blob returns buf[:0].
func (s *Store) GetBlob(ctx context.Context, tid int, name string, buf []byte) ([]byte, error) {
	if name == "" {
		return buf, fmt.Errorf("%w: empty name", domain.ErrInvalidInput)
	}
	slot, err := s.lockRead(tid)
	if err != nil {
		return buf, err
	}
	defer s.guard.releaseRead()

	rows, err := slot.blobGet.QueryContext(ctx, sql.Named("arg_name", name))
	if err != nil {
		return buf, fmt.Errorf("getting blob %q: %w", name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return buf, fmt.Errorf("getting blob %q: %w", name, err)
		}
		return buf[:0], nil
	}
	// RawBytes points into the driver's row; copy before rows.Close.
	var raw sql.RawBytes
	if err := rows.Scan(&raw); err != nil {
		return buf, fmt.Errorf("scanning blob %q: %w", name, err)
	}
	return fillBuffer(buf, raw), nil
}

// BlobSize returns the stored size of name without copying it.
func (s *Store) BlobSize(ctx context.Context, tid int, name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty name", domain.ErrInvalidInput)
	}
	slot, err := s.lockRead(tid)
	if err != nil {
		return 0, err
	}
	defer s.guard.releaseRead()

	var size sql.NullInt64
	err = slot.blobSize.QueryRowContext(ctx, sql.Named("arg_name", name)).Scan(&size)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("sizing blob %q: %w", name, err)
	}
	return int(size.Int64), nil
}

// SetBlob upserts name. Empty data clears name.
func (s *Store) SetBlob(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", domain.ErrInvalidInput)
	}
	if len(data) == 0 {
		return s.ClearBlob(ctx, name)
	}
	if err := s.lockWrite(ctx); err != nil {
		return err
	}
	defer s.guard.releaseExclusive()

	_, err := s.stmts.blobSet.ExecContext(ctx, sql.Named("arg_name", name), sql.Named("arg_blob", data))
	if err != nil {
		return fmt.Errorf("setting blob %q: %w", name, err)
	}
	return nil
}

// ClearBlob deletes name if present.
func (s *Store) ClearBlob(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", domain.ErrInvalidInput)
	}
	if err := s.lockWrite(ctx); err != nil {
		return err
	}
	defer s.guard.releaseExclusive()

	if _, err := s.stmts.blobClr.ExecContext(ctx, sql.Named("arg_name", name)); err != nil {
		return fmt.Errorf("clearing blob %q: %w", name, err)
	}
	return nil
}
