package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/custodia-labs/bfs/internal/core/domain"
	"github.com/custodia-labs/bfs/internal/logger"
)

// uniqueIndex describes one of the unique indices a store file carries.
type uniqueIndex struct {
	name   string
	table  string
	column string
}

var uniqueIndices = []uniqueIndex{
	{name: "idx_attr_key", table: "tbl_attr", column: "key"},
	{name: "idx_blob_name", table: "tbl_blob", column: "name"},
}

// migrate applies every pending up migration in fsys. The applied version is
// kept in PRAGMA user_version rather than a bookkeeping table so that the
// file holds only the attribute and blob tables.
func migrate(ctx context.Context, conn *sql.Conn, fsys fs.FS) error {
	var current int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("getting schema version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= current {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := applyMigration(ctx, conn, string(content), version); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		logger.Debug("applied migration %s", name)
	}
	return nil
}

func applyMigration(ctx context.Context, conn *sql.Conn, content string, version int) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, content); err != nil {
		return err
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return err
	}
	return tx.Commit()
}

// missingIndices returns the unique indices not present in the file.
func missingIndices(ctx context.Context, conn *sql.Conn) ([]uniqueIndex, error) {
	var missing []uniqueIndex
	for _, idx := range uniqueIndices {
		var n int
		err := conn.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?", idx.name).Scan(&n)
		if err != nil {
			return nil, fmt.Errorf("checking index %s: %w", idx.name, err)
		}
		if n == 0 {
			missing = append(missing, idx)
		}
	}
	return missing, nil
}

// buildIndices creates every unique index in one pass over each table.
// Duplicate keys make the build fail with domain.ErrIndexBuild; the rows
// themselves are untouched.
func buildIndices(ctx context.Context, conn *sql.Conn) error {
	var errs []error
	for _, idx := range uniqueIndices {
		query := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)", idx.name, idx.table, idx.column)
		if _, err := conn.ExecContext(ctx, query); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", domain.ErrIndexBuild, idx.name, err))
			continue
		}
		logger.Info("built index %s", idx.name)
	}
	return errors.Join(errs...)
}
