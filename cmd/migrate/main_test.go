package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedFiles_SortedSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"20_questions.sql", "10_coverage_types.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.sql"), 0o755))

	files, err := seedFiles(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "10_coverage_types.sql"),
		filepath.Join(dir, "20_questions.sql"),
	}, files)
}

func TestSeedFiles_MissingDir(t *testing.T) {
	_, err := seedFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestSeed_EmptyDir(t *testing.T) {
	err := seed("postgres://unused", t.TempDir())
	assert.ErrorContains(t, err, "no seed files")
}
