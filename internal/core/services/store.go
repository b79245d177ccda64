package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/bfs/internal/core/domain"
	"github.com/custodia-labs/bfs/internal/core/ports/driven"
)

// withStore opens path, runs fn and closes the store. A close failure is
// joined with the error from fn, so a failed deferred index build is never
// lost.
func withStore(
	ctx context.Context,
	factory driven.StoreFactory,
	path string,
	nth int,
	mode domain.Mode,
	fn func(driven.Store) error,
) (err error) {
	store, err := factory.Open(ctx, path, nth, mode)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()
	return fn(store)
}
