package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bfs/internal/core/domain"
)

// collectAttrs lists every attribute into a map.
func collectAttrs(t *testing.T, s *Store) map[string]string {
	t.Helper()
	got := map[string]string{}
	ok, err := s.ListAttrs(context.Background(), func(key, val string) bool {
		got[key] = val
		return true
	})
	require.NoError(t, err)
	require.True(t, ok)
	return got
}

func TestAttr_SetAndGet(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, 1)

	require.NoError(t, s.SetAttr(ctx, "title", "hello"))

	val, err := s.GetAttr(ctx, 0, "title")
	require.NoError(t, err)
	assert.Equal(t, "hello", val)
}

func TestAttr_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, 1)

	require.NoError(t, s.SetAttr(ctx, "k", "one"))
	require.NoError(t, s.SetAttr(ctx, "k", "two"))

	val, err := s.GetAttr(ctx, 0, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", val)
	assert.Equal(t, map[string]string{"k": "two"}, collectAttrs(t, s))
}

func TestAttr_GetMissing(t *testing.T) {
	s := setupTestStore(t, 1)

	val, err := s.GetAttr(context.Background(), 0, "missing")
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestAttr_Clear(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, 1)

	require.NoError(t, s.SetAttr(ctx, "k", "v"))
	require.NoError(t, s.ClearAttr(ctx, "k"))
	require.NoError(t, s.ClearAttr(ctx, "k"), "clearing an absent key succeeds")
	require.NoError(t, s.ClearAttr(ctx, "never-set"))

	val, err := s.GetAttr(ctx, 0, "k")
	require.NoError(t, err)
	assert.Empty(t, val)
	assert.Empty(t, collectAttrs(t, s))
}

func TestAttr_SetEmptyClears(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, 1)

	require.NoError(t, s.SetAttr(ctx, "k", "v"))
	require.NoError(t, s.SetAttr(ctx, "k", ""))

	assert.Empty(t, collectAttrs(t, s), "an empty value must not leave a row behind")
}

func TestAttr_EmptyKey(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, 1)

	_, err := s.GetAttr(ctx, 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, s.SetAttr(ctx, "", "v"), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.ClearAttr(ctx, ""), domain.ErrInvalidInput)
}

func TestAttr_ListNilVisitor(t *testing.T) {
	s := setupTestStore(t, 1)

	_, err := s.ListAttrs(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAttr_ListVisitsAll(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, 1)

	want := map[string]string{}
	for i := 0; i < 50; i++ {
		key, val := fmt.Sprintf("key-%02d", i), fmt.Sprintf("val-%02d", i)
		want[key] = val
		require.NoError(t, s.SetAttr(ctx, key, val))
	}
	assert.Equal(t, want, collectAttrs(t, s))
}

func TestAttr_ListAggregatesWithoutStopping(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, 1)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.SetAttr(ctx, k, k))
	}

	visits := 0
	ok, err := s.ListAttrs(ctx, func(key, _ string) bool {
		visits++
		return visits != 1
	})
	require.NoError(t, err)
	assert.False(t, ok, "one failing visit fails the listing")
	assert.Equal(t, 3, visits, "a failing visit does not stop the listing")
}

func TestAttr_ListEmpty(t *testing.T) {
	s := setupTestStore(t, 1)

	visits := 0
	ok, err := s.ListAttrs(context.Background(), func(string, string) bool {
		visits++
		return false
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, visits)
}

func TestAttr_ConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	const nth = 4
	s := setupTestStore(t, nth)

	for i := 0; i < 100; i++ {
		require.NoError(t, s.SetAttr(ctx, fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i)))
	}

	var wg sync.WaitGroup
	errs := make(chan error, nth+1)
	for tid := 0; tid < nth; tid++ {
		wg.Add(1)
		go func(tid int) {
			defer wg.Done()
			for round := 0; round < 5; round++ {
				for i := 0; i < 100; i++ {
					val, err := s.GetAttr(ctx, tid, fmt.Sprintf("k%d", i))
					if err != nil {
						errs <- err
						return
					}
					if want := fmt.Sprintf("v%d", i); val != want {
						errs <- fmt.Errorf("tid %d: got %q, want %q", tid, val, want)
						return
					}
				}
			}
		}(tid)
	}

	// A writer touching other keys runs alongside the readers.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if err := s.SetAttr(ctx, fmt.Sprintf("w%d", i), "x"); err != nil {
				errs <- err
				return
			}
		}
	}()

	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, collectAttrs(t, s), 200)
}
