package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/bfs/internal/core/domain"
	"github.com/custodia-labs/bfs/internal/logger"
)

// DefaultBatchSize is the number of stream mode writes grouped into one
// backend transaction.
const DefaultBatchSize = domain.DefaultBatchSize

// batcher amortises commit cost in stream mode by keeping one transaction
// open across up to threshold writes. When disabled both calls are no-ops
// and every write commits on its own.
type batcher struct {
	enabled   bool
	threshold int
	size      int
	commits   int
	begin     *sql.Stmt
	end       *sql.Stmt
}

// beginBatch is called before every write.
func (b *batcher) beginBatch(ctx context.Context) error {
	if !b.enabled {
		return nil
	}
	if b.size >= b.threshold {
		if err := b.endBatch(ctx); err != nil {
			return err
		}
	} else if b.size > 0 {
		b.size++
		return nil
	}

	if _, err := b.begin.ExecContext(ctx); err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	b.size = 1
	return nil
}

// endBatch commits the open transaction, if any.
func (b *batcher) endBatch(ctx context.Context) error {
	if !b.enabled || b.size == 0 {
		return nil
	}
	if _, err := b.end.ExecContext(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	logger.Debug("committed batch of %d writes", b.size)
	b.size = 0
	b.commits++
	return nil
}
