package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Set_Update(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("key1", "original"))
	require.NoError(t, store.Set("key1", "updated"))

	val, ok := store.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "updated", val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("s", "text"))
	require.NoError(t, store.Set("i", 42))
	require.NoError(t, store.Set("i64", int64(7)))
	require.NoError(t, store.Set("b", true))

	assert.Equal(t, "text", store.GetString("s", ""))
	assert.Equal(t, 42, store.GetInt("i", 0))
	assert.Equal(t, 7, store.GetInt("i64", 0))
	assert.True(t, store.GetBool("b", false))
}

func TestConfigStore_Defaults(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("s", "text"))

	assert.Equal(t, "def", store.GetString("missing", "def"))
	assert.Equal(t, 9, store.GetInt("s", 9))
	assert.True(t, store.GetBool("s", true))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Set("k", i)
			_ = store.GetInt("k", 0)
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("k")
	assert.True(t, ok)
}
