package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bfs/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bfs/internal/core/domain"
)

func TestSettingsService_Defaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())
	assert.Equal(t, domain.DefaultSettings(), svc.Get())
}

func TestSettingsService_NilStore(t *testing.T) {
	svc := NewSettingsService(nil)
	assert.Equal(t, domain.DefaultSettings(), svc.Get())
	assert.ErrorIs(t, svc.Set(domain.KeyThreads, "2"), domain.ErrNotImplemented)
}

func TestSettingsService_SetAndGet(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	require.NoError(t, svc.Set(domain.KeyThreads, "3"))
	require.NoError(t, svc.Set(domain.KeyBusyTimeoutMS, "250"))
	require.NoError(t, svc.Set(domain.KeyBatchSize, "50"))
	require.NoError(t, svc.Set(domain.KeyVerbose, "true"))

	got := svc.Get()
	assert.Equal(t, 3, got.Threads)
	assert.Equal(t, 250*time.Millisecond, got.BusyTimeout)
	assert.Equal(t, 50, got.BatchSize)
	assert.True(t, got.Verbose)
}

func TestSettingsService_InvalidStoredValuesUseDefaults(t *testing.T) {
	cfg := memory.NewConfigStore()
	require.NoError(t, cfg.Set(domain.KeyThreads, -1))
	require.NoError(t, cfg.Set(domain.KeyBatchSize, "many"))

	got := NewSettingsService(cfg).Get()
	def := domain.DefaultSettings()
	assert.Equal(t, def.Threads, got.Threads)
	assert.Equal(t, def.BatchSize, got.BatchSize)
}

func TestSettingsService_SetRejects(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "search.mode", "x"},
		{"non numeric", domain.KeyThreads, "four"},
		{"zero", domain.KeyBatchSize, "0"},
		{"negative", domain.KeyBusyTimeoutMS, "-5"},
		{"bad bool", domain.KeyVerbose, "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.Set(tt.key, tt.value), domain.ErrInvalidInput)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	svc := NewSettingsService(nil)
	keys := svc.Keys()
	assert.Equal(t, []string{
		domain.KeyThreads, domain.KeyBusyTimeoutMS, domain.KeyBatchSize, domain.KeyVerbose,
	}, keys)

	keys[0] = "changed"
	assert.Equal(t, domain.KeyThreads, svc.Keys()[0])
}
