package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/narrata/pkg/types"
)

func makeWorld(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, MarkerDirName), 0o755))
	return root
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig := workingDir
	workingDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { workingDir = orig })
}

func TestNew(t *testing.T) {
	w, err := New("/worlds/arda")
	require.NoError(t, err)
	assert.Equal(t, "/worlds/arda", w.Root)
	assert.Equal(t, "/worlds/arda/.narrata", w.Dir)
	assert.Equal(t, "/worlds/arda/.narrata/config.yaml", w.ConfigPath)
	assert.Equal(t, "/worlds/arda/.env", w.EnvPath)
}

func TestDatabasePath(t *testing.T) {
	w, err := New("/worlds/arda")
	require.NoError(t, err)
	assert.Equal(t, "/worlds/arda/.narrata/world.db", w.DatabasePath(""))
	assert.Equal(t, "/worlds/arda/.narrata/other.db", w.DatabasePath("other.db"))
	assert.Equal(t, "/var/db/arda.db", w.DatabasePath("/var/db/arda.db"))
}

func TestFind(t *testing.T) {
	t.Run("flag wins over env", func(t *testing.T) {
		flagWorld := makeWorld(t)
		t.Setenv(EnvWorld, makeWorld(t))
		w, err := Find(flagWorld)
		require.NoError(t, err)
		assert.Equal(t, flagWorld, w.Root)
	})

	t.Run("env wins over working directory", func(t *testing.T) {
		envWorld := makeWorld(t)
		t.Setenv(EnvWorld, envWorld)
		chdir(t, makeWorld(t))
		w, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, envWorld, w.Root)
	})

	t.Run("walks up from working directory", func(t *testing.T) {
		t.Setenv(EnvWorld, "")
		root := makeWorld(t)
		nested := filepath.Join(root, "chapters", "one")
		require.NoError(t, os.MkdirAll(nested, 0o755))
		chdir(t, nested)
		w, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, root, w.Root)
	})

	t.Run("flag without marker", func(t *testing.T) {
		_, err := Find(t.TempDir())
		assert.ErrorIs(t, err, types.ErrNotInProject)
	})

	t.Run("no world anywhere", func(t *testing.T) {
		t.Setenv(EnvWorld, "")
		chdir(t, t.TempDir())
		_, err := Find("")
		assert.ErrorIs(t, err, types.ErrNotInProject)
	})
}

func TestFindFromIgnoresMarkerFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, MarkerDirName), nil, 0o644))
	_, err := FindFrom(root)
	assert.ErrorIs(t, err, types.ErrNotInProject)
}

func TestTarget(t *testing.T) {
	dir := t.TempDir()
	w, err := Target(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, w.Root)

	t.Setenv(EnvWorld, "")
	chdir(t, dir)
	w, err = Target("")
	require.NoError(t, err)
	assert.Equal(t, dir, w.Root)
}
