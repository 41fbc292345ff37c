package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8050", c.Port)
	assert.Equal(t, ":8050", c.Addr())
	assert.Equal(t, time.Hour, c.SessionTTL)
	assert.Equal(t, 10*time.Minute, c.SessionCleanup)
	assert.Equal(t, int64(32<<20), c.MaxUploadBytes)
	assert.Equal(t, 10, c.PageSize)
	assert.False(t, c.IsProduction())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	p := filepath.Join(dir, "custom.yaml")
	content := "port: \"9000\"\nsession_ttl: 5m\nenvironment: production\n"
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	t.Setenv("AGGREGATOR_PORT", "9100")

	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "9100", c.Port)
	assert.Equal(t, 5*time.Minute, c.SessionTTL)
	assert.True(t, c.IsProduction())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AGGREGATOR_PAGE_SIZE", "0")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	c, err := Load("")
	require.NoError(t, err)
	c.Port = "9200"
	c.SessionTTL = 90 * time.Minute

	p := filepath.Join(dir, "conf", "aggregator.yaml")
	require.NoError(t, c.Save(p))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "session_ttl: 1h30m0s")

	loaded, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}
