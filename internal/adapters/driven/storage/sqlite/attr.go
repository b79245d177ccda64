package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/bfs/internal/core/domain"
)

// ListAttrs visits every attribute in storage order under the exclusive
// lock. A visitor returning false fails the listing without ending it.
func (s *Store) ListAttrs(ctx context.Context, fn domain.AttrVisitor) (bool, error) {
	if fn == nil {
		return false, fmt.Errorf("%w: nil visitor", domain.ErrInvalidInput)
	}
	if err := s.lockList(); err != nil {
		return false, err
	}
	defer s.guard.releaseExclusive()

	rows, err := s.stmts.attrList.QueryContext(ctx)
	if err != nil {
		return false, fmt.Errorf("querying attributes: %w", err)
	}
	defer rows.Close()

	ok := true
	for rows.Next() {
		var key string
		var val sql.NullString
		if err := rows.Scan(&key, &val); err != nil {
			return false, fmt.Errorf("scanning attribute: %w", err)
		}
		ok = fn(key, val.String) && ok
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("iterating attributes: %w", err)
	}
	return ok, nil
}

// GetAttr returns the value of key using the prepared query of context tid.
func (s *Store) GetAttr(ctx context.Context, tid int, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty key", domain.ErrInvalidInput)
	}
	slot, err := s.lockRead(tid)
	if err != nil {
		return "", err
	}
	defer s.guard.releaseRead()

	var val sql.NullString
	err = slot.attrGet.QueryRowContext(ctx, sql.Named("arg_key", key)).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting attribute %q: %w", key, err)
	}
	return val.String, nil
}

// SetAttr upserts key=val. An empty val clears key.
func (s *Store) SetAttr(ctx context.Context, key, val string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", domain.ErrInvalidInput)
	}
	if val == "" {
		return s.ClearAttr(ctx, key)
	}
	if err := s.lockWrite(ctx); err != nil {
		return err
	}
	defer s.guard.releaseExclusive()

	_, err := s.stmts.attrSet.ExecContext(ctx, sql.Named("arg_key", key), sql.Named("arg_val", val))
	if err != nil {
		return fmt.Errorf("setting attribute %q: %w", key, err)
	}
	return nil
}

// ClearAttr deletes key if present.
func (s *Store) ClearAttr(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", domain.ErrInvalidInput)
	}
	if err := s.lockWrite(ctx); err != nil {
		return err
	}
	defer s.guard.releaseExclusive()

	if _, err := s.stmts.attrClr.ExecContext(ctx, sql.Named("arg_key", key)); err != nil {
		return fmt.Errorf("clearing attribute %q: %w", key, err)
	}
	return nil
}
