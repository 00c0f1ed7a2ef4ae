package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "characters.jsonl")

	records := []json.RawMessage{
		json.RawMessage(`{"id":1,"name":"aragorn"}`),
		json.RawMessage(`{"id":2,"name":"arwen"}`),
	}
	require.NoError(t, writeJSONL(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":1,\"name\":\"aragorn\"}\n{\"id\":2,\"name\":\"arwen\"}\n", string(data))
}

func TestWriteJSONLReplacesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "factions.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("stale\nstale\nstale\n"), 0o644))

	require.NoError(t, writeJSONL(path, []json.RawMessage{json.RawMessage(`{"id":7}`)}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":7}\n", string(data))

	require.NoError(t, writeJSONL(path, nil))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "factions.jsonl", entries[0].Name())
}

func TestWriteJSONLMissingDir(t *testing.T) {
	err := writeJSONL(filepath.Join(t.TempDir(), "absent", "x.jsonl"), nil)
	assert.Error(t, err)
}
