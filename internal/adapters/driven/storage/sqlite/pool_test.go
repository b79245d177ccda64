package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bfs/internal/core/domain"
)

func TestHandlePool_Slots(t *testing.T) {
	s := setupTestStore(t, 3)

	seen := map[*readSlot]bool{}
	for tid := 0; tid < 3; tid++ {
		slot, err := s.pool.get(tid)
		require.NoError(t, err)
		assert.NotNil(t, slot.conn)
		assert.NotNil(t, slot.attrGet)
		assert.NotNil(t, slot.blobGet)
		assert.NotNil(t, slot.blobSize)
		seen[slot] = true
	}
	assert.Len(t, seen, 3, "every context has its own slot")

	_, err := s.pool.get(3)
	assert.ErrorIs(t, err, domain.ErrInvalidContext)
}

func TestHandlePool_Nil(t *testing.T) {
	var p *handlePool

	assert.Zero(t, p.size())
	assert.NoError(t, p.close())
	_, err := p.get(0)
	assert.ErrorIs(t, err, domain.ErrInvalidContext)
}

func TestHandlePool_StreamHasNone(t *testing.T) {
	s := openTestStore(t, testPath(t), 1, domain.ModeStream)
	assert.Nil(t, s.pool)
}
