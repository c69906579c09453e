package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, "001", MigrationVersion("migrations/001_init.sql"))
	assert.Equal(t, "002", MigrationVersion("002_add_study_program_indexes.sql"))
	assert.Equal(t, "seed.sql", MigrationVersion("seed.sql"))
}

func TestMigrationFiles_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_second.sql", "001_first.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := MigrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "001_first.sql"),
		filepath.Join(dir, "002_second.sql"),
	}, files)
}

func TestMigrationFiles_MissingDirectory(t *testing.T) {
	_, err := MigrationFiles(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestInitMigrationShipsWithRepo(t *testing.T) {
	files, err := MigrationFiles(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001", MigrationVersion(files[0]))
}
