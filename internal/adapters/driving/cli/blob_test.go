package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bfs/internal/core/domain"
)

func TestBlobCmds_Use(t *testing.T) {
	assert.Equal(t, "blobList FILE [PATTERN]", blobListCmd.Use)
	assert.Equal(t, "blobGet FILE NAME [OUTPUT]", blobGetCmd.Use)
	assert.Equal(t, "blobSet FILE NAME [INPUT]", blobSetCmd.Use)
	assert.Equal(t, "blobClr FILE NAME", blobClrCmd.Use)
	assert.NotNil(t, blobListCmd.Flags().Lookup("human"))
}

func TestBlobCmds_RoundTrip(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	dir := t.TempDir()

	input := filepath.Join(dir, "in.bin")
	require.NoError(t, os.WriteFile(input, []byte("abc"), 0o644))
	_, err := runCLI(t, "a.bfs", "blobSet", "docs/x", input)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "long.bin"), make([]byte, 2048), 0o644))
	_, err = runCLI(t, "a.bfs", "blobSet", "docs/y", filepath.Join(dir, "long.bin"))
	require.NoError(t, err)

	out, err := runCLI(t, "a.bfs", "blobList")
	require.NoError(t, err)
	assert.Equal(t, "         3 docs/x\n      2048 docs/y\n      2051 bytes\n", out)

	output := filepath.Join(dir, "out", "nested", "x.bin")
	_, err = runCLI(t, "a.bfs", "blobGet", "docs/x", output)
	require.NoError(t, err)
	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	_, err = runCLI(t, "a.bfs", "blobClr", "docs/x")
	require.NoError(t, err)
	out, err = runCLI(t, "a.bfs", "blobList", "docs/%")
	require.NoError(t, err)
	assert.Equal(t, "      2048 docs/y\n      2048 bytes\n", out)
}

func TestBlobListCmd_Pattern(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	dir := t.TempDir()

	input := filepath.Join(dir, "in")
	require.NoError(t, os.WriteFile(input, []byte("1"), 0o644))
	for _, name := range []string{"a/1", "a/2", "b/1"} {
		_, err := runCLI(t, "a.bfs", "blobSet", name, input)
		require.NoError(t, err)
	}

	out, err := runCLI(t, "a.bfs", "blobList", "a/%")
	require.NoError(t, err)
	assert.Equal(t, "         1 a/1\n         1 a/2\n         2 bytes\n", out)
}

func TestBlobListCmd_Human(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	dir := t.TempDir()

	input := filepath.Join(dir, "in")
	require.NoError(t, os.WriteFile(input, make([]byte, 3000), 0o644))
	_, err := runCLI(t, "a.bfs", "blobSet", "big", input)
	require.NoError(t, err)

	out, err := runCLI(t, "a.bfs", "blobList", "--human")
	require.NoError(t, err)
	assert.Contains(t, out, "3.0 kB big\n")
	assert.Contains(t, out, "3.0 kB bytes\n")
}

func TestBlobSetCmd_DefaultInput(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	name := filepath.Join(t.TempDir(), "self.txt")
	require.NoError(t, os.WriteFile(name, []byte("me"), 0o644))
	_, err := runCLI(t, "a.bfs", "blobSet", name)
	require.NoError(t, err)

	out, err := runCLI(t, "a.bfs", "blobList")
	require.NoError(t, err)
	assert.Contains(t, out, "         2 "+name+"\n")
}

func TestBlobSetCmd_MissingInput(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCLI(t, "a.bfs", "blobSet", "x", filepath.Join(t.TempDir(), "none"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}

func TestBlobGetCmd_MissingBlob(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCLI(t, "a.bfs", "attrSet", "k", "v")
	require.NoError(t, err)

	output := filepath.Join(t.TempDir(), "out")
	_, err = runCLI(t, "a.bfs", "blobGet", "nope", output)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBlobGetCmd_ArgCount(t *testing.T) {
	_, err := runCLI(t, "a.bfs", "blobGet", "a", "b", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts between 2 and 3 arg(s)")
}
