package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Chess Club")
	cfg.Organization.Email = "board@chess.example"
	cfg.Export.DefaultFormat = "vcard"

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Organization, got.Organization)
	assert.Equal(t, cfg.Database.Path, got.Database.Path)
	assert.Equal(t, cfg.Import.Dir, got.Import.Dir)
	assert.Equal(t, "vcard", got.Export.DefaultFormat)
	assert.Equal(t, cfg.Log, got.Log)
	assert.Equal(t, cfg.Git, got.Git)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Club")

	assert.Equal(t, "My Club", cfg.Organization.Name)
	assert.Empty(t, cfg.Organization.Email)
	assert.Equal(t, "roster.db", cfg.Database.Path)
	assert.Equal(t, "import", cfg.Import.Dir)
	assert.Equal(t, "exports", cfg.Export.Dir)
	assert.Equal(t, "csv", cfg.Export.DefaultFormat)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "Roster", cfg.Git.AuthorName)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFillsMissingFromDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("organization:\n  name: Sparse\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Sparse", got.Organization.Name)
	assert.Equal(t, "roster.db", got.Database.Path)
	assert.Equal(t, "csv", got.Export.DefaultFormat)
	assert.Equal(t, "info", got.Log.Level)
	assert.Equal(t, "roster@localhost", got.Git.AuthorEmail)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Env Club")))

	t.Setenv("ROSTER_DB_PATH", "/tmp/elsewhere.db")
	t.Setenv("ROSTER_LOG_LEVEL", "debug")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere.db", got.Database.Path)
	assert.Equal(t, "debug", got.Log.Level)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Test Club")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Club")
	assert.Contains(t, contents, "path: roster.db")
	assert.Contains(t, contents, "default_format: csv")
	assert.NotRegexp(t, `(?m)^\s+email:`, contents)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("proj", "roster.db"), Resolve("proj", "roster.db"))
	abs := filepath.Join(string(filepath.Separator), "data", "roster.db")
	assert.Equal(t, abs, Resolve("proj", abs))
}
