package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bfs/internal/core/domain"
)

func TestAttrCmds_Use(t *testing.T) {
	assert.Equal(t, "attrList FILE", attrListCmd.Use)
	assert.Equal(t, "attrGet FILE KEY", attrGetCmd.Use)
	assert.Equal(t, "attrSet FILE KEY VAL", attrSetCmd.Use)
	assert.Equal(t, "attrClr FILE KEY", attrClrCmd.Use)
}

func TestAttrGetCmd_RequiresKey(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCLI(t, "a.bfs", "attrGet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestAttrCmds_RoundTrip(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCLI(t, "a.bfs", "attrSet", "title", "hello")
	require.NoError(t, err)
	_, err = runCLI(t, "attrSet", "a.bfs", "author", "me")
	require.NoError(t, err)

	out, err := runCLI(t, "a.bfs", "attrGet", "title")
	require.NoError(t, err)
	assert.Equal(t, "{\"title\":\"hello\"}\n", out)

	out, err = runCLI(t, "a.bfs", "attrList")
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"author\":\"me\",\n\t\"title\":\"hello\"\n}\n", out)

	_, err = runCLI(t, "a.bfs", "attrClr", "title")
	require.NoError(t, err)
	_, err = runCLI(t, "a.bfs", "attrClr", "author")
	require.NoError(t, err)

	out, err = runCLI(t, "a.bfs", "attrList")
	require.NoError(t, err)
	assert.Equal(t, "{}\n", out)
}

func TestAttrGetCmd_Missing(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCLI(t, "a.bfs", "attrSet", "k", "v")
	require.NoError(t, err)

	out, err := runCLI(t, "a.bfs", "attrGet", "nope")
	require.NoError(t, err)
	assert.Equal(t, "{\"nope\":\"\"}\n", out)
}

func TestAttrListCmd_MissingFile(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCLI(t, "missing.bfs", "attrList")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAttrCmds_NoService(t *testing.T) {
	SetServices(nil, nil, nil)

	for _, args := range [][]string{
		{"a.bfs", "attrList"},
		{"a.bfs", "attrGet", "k"},
		{"a.bfs", "attrSet", "k", "v"},
		{"a.bfs", "attrClr", "k"},
	} {
		_, err := runCLI(t, args...)
		assert.ErrorIs(t, err, errNoFileService, "%v", args)
	}
}
