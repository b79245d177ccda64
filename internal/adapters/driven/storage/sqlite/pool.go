package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/bfs/internal/core/domain"
)

const (
	sqlAttrGet  = `SELECT val FROM tbl_attr WHERE key = @arg_key`
	sqlBlobGet  = `SELECT blob FROM tbl_blob WHERE name = @arg_name`
	sqlBlobSize = `SELECT length(blob) FROM tbl_blob WHERE name = @arg_name`
)

// readSlot holds the prepared queries one execution context uses for
// concurrent reads. Each slot owns a dedicated backend connection so that
// cursor and bound-parameter state is never shared between goroutines.
type readSlot struct {
	conn     *sql.Conn
	attrGet  *sql.Stmt
	blobGet  *sql.Stmt
	blobSize *sql.Stmt
}

func (r *readSlot) close() error {
	var errs []error
	for _, stmt := range []*sql.Stmt{r.attrGet, r.blobGet, r.blobSize} {
		if stmt != nil {
			errs = append(errs, stmt.Close())
		}
	}
	if r.conn != nil {
		errs = append(errs, r.conn.Close())
	}
	return errors.Join(errs...)
}

// handlePool is a fixed array of read slots sized at open time.
type handlePool struct {
	slots []readSlot
}

// newHandlePool prepares nth read slots. On failure every slot prepared so
// far is released.
func newHandlePool(ctx context.Context, db *sql.DB, nth int) (*handlePool, error) {
	p := &handlePool{slots: make([]readSlot, 0, nth)}
	for i := 0; i < nth; i++ {
		slot, err := prepareReadSlot(ctx, db)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("preparing context %d: %w", i, err), p.close())
		}
		p.slots = append(p.slots, slot)
	}
	return p, nil
}

func prepareReadSlot(ctx context.Context, db *sql.DB) (readSlot, error) {
	var slot readSlot
	conn, err := db.Conn(ctx)
	if err != nil {
		return slot, fmt.Errorf("acquiring connection: %w", err)
	}
	slot.conn = conn

	stmts := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&slot.attrGet, sqlAttrGet},
		{&slot.blobGet, sqlBlobGet},
		{&slot.blobSize, sqlBlobSize},
	}
	for _, s := range stmts {
		stmt, err := conn.PrepareContext(ctx, s.query)
		if err != nil {
			return slot, errors.Join(fmt.Errorf("preparing %q: %w", s.query, err), slot.close())
		}
		*s.dst = stmt
	}
	return slot, nil
}

// get returns the slot for tid.
func (p *handlePool) get(tid int) (*readSlot, error) {
	if p == nil || tid < 0 || tid >= len(p.slots) {
		return nil, fmt.Errorf("%w: tid=%d", domain.ErrInvalidContext, tid)
	}
	return &p.slots[tid], nil
}

func (p *handlePool) size() int {
	if p == nil {
		return 0
	}
	return len(p.slots)
}

func (p *handlePool) close() error {
	if p == nil {
		return nil
	}
	errs := make([]error, 0, len(p.slots))
	for i := range p.slots {
		errs = append(errs, p.slots[i].close())
	}
	p.slots = nil
	return errors.Join(errs...)
}
