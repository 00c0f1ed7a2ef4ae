package config

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/narrata/internal/paths"
	"github.com/mesh-intelligence/narrata/pkg/types"
)

func newWorld(t *testing.T) paths.World {
	t.Helper()
	w, err := paths.New(t.TempDir())
	require.NoError(t, err)
	return w
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"NARRATA_WORLD_ID", "NARRATA_NAME", "NARRATA_DATABASE", "NARRATA_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestWriteDefaultThenLoad(t *testing.T) {
	clearEnv(t)
	w := newWorld(t)

	created, err := WriteDefault(w, "Arda")
	require.NoError(t, err)
	assert.True(t, created)
	assert.DirExists(t, w.Dir)

	data, err := os.ReadFile(w.ConfigPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# narrata world configuration")

	cfg, err := Load(w)
	require.NoError(t, err)
	assert.Equal(t, "Arda", cfg.Name)
	assert.Equal(t, types.DefaultDatabase, cfg.Database)
	assert.Equal(t, "warn", cfg.LogLevel)
	id, err := uuid.Parse(cfg.WorldID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	created, err = WriteDefault(w, "Other")
	require.NoError(t, err)
	assert.False(t, created)
	again, err := Load(w)
	require.NoError(t, err)
	assert.Equal(t, cfg.WorldID, again.WorldID)
	assert.Equal(t, "Arda", again.Name)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(newWorld(t))
	require.NoError(t, err)
	assert.Equal(t, types.DefaultDatabase, cfg.Database)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.WorldID)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	w := newWorld(t)
	require.NoError(t, os.MkdirAll(w.Dir, 0o755))
	require.NoError(t, os.WriteFile(w.ConfigPath, []byte("name: Arda\ndatabase: arda.db\nlog_level: info\n"), 0o644))

	cfg, err := Load(w)
	require.NoError(t, err)
	assert.Equal(t, "arda.db", cfg.Database)
	assert.Equal(t, "info", cfg.LogLevel)

	require.NoError(t, os.WriteFile(w.EnvPath, []byte("NARRATA_LOG_LEVEL=debug\nNARRATA_DATABASE=env.db\nOTHER=x\n"), 0o644))
	cfg, err = Load(w)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "env.db", cfg.Database)
	assert.Equal(t, "Arda", cfg.Name)

	t.Setenv("NARRATA_LOG_LEVEL", "ERROR")
	cfg, err = Load(w)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "env.db", cfg.Database)
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	clearEnv(t)
	w := newWorld(t)
	require.NoError(t, os.MkdirAll(w.Dir, 0o755))
	require.NoError(t, os.WriteFile(w.ConfigPath, []byte("log_level: loud\n"), 0o644))

	_, err := Load(w)
	assert.ErrorIs(t, err, types.ErrLogLevel)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	clearEnv(t)
	w := newWorld(t)
	require.NoError(t, os.MkdirAll(w.Dir, 0o755))
	require.NoError(t, os.WriteFile(w.ConfigPath, []byte("name: [unclosed\n"), 0o644))

	_, err := Load(w)
	assert.Error(t, err)
}
