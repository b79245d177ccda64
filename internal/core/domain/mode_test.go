package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode_String(t *testing.T) {
	assert.Equal(t, "readonly", ModeReadOnly.String())
	assert.Equal(t, "readwrite", ModeReadWrite.String())
	assert.Equal(t, "stream", ModeStream.String())
	assert.Equal(t, "mode(9)", Mode(9).String())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"readonly", ModeReadOnly},
		{"RO", ModeReadOnly},
		{"readwrite", ModeReadWrite},
		{" rw ", ModeReadWrite},
		{"stream", ModeStream},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMode("bogus")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestMode_Policy(t *testing.T) {
	ro := ModeReadOnly.Policy()
	assert.True(t, ro.ReadOnlyBackend)
	assert.True(t, ro.Locking)
	assert.True(t, ro.AllowReads)
	assert.False(t, ro.AllowWrites)
	assert.False(t, ro.DeferIndex)

	rw := ModeReadWrite.Policy()
	assert.False(t, rw.ReadOnlyBackend)
	assert.True(t, rw.Locking)
	assert.True(t, rw.AllowReads)
	assert.True(t, rw.AllowWrites)
	assert.False(t, rw.Batching)

	st := ModeStream.Policy()
	assert.False(t, st.Locking)
	assert.True(t, st.Batching)
	assert.True(t, st.DeferIndex)
	assert.False(t, st.AllowReads)
	assert.True(t, st.AllowWrites)
	assert.Equal(t, 1, st.MaxThreads)

	assert.Equal(t, ModePolicy{}, Mode(42).Policy())
	assert.False(t, Mode(42).Valid())
}

func TestMode_ValidateThreads(t *testing.T) {
	assert.NoError(t, ModeReadOnly.ValidateThreads(8))
	assert.NoError(t, ModeReadWrite.ValidateThreads(1))
	assert.NoError(t, ModeStream.ValidateThreads(1))

	assert.ErrorIs(t, ModeReadWrite.ValidateThreads(0), ErrInvalidInput)
	assert.ErrorIs(t, ModeStream.ValidateThreads(2), ErrInvalidInput)
	assert.ErrorIs(t, Mode(7).ValidateThreads(1), ErrInvalidMode)
}
