package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListWorldEntries(t *testing.T) {
	versionDir := t.TempDir()
	worlds := filepath.Join(versionDir, "worlds")
	require.NoError(t, os.Mkdir(worlds, 0755))

	require.NoError(t, os.Mkdir(filepath.Join(worlds, "MyWorld"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(worlds, "MyWorld", "level.dat"), []byte("leveldata"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(worlds, "Server Backup.mcworld"), []byte("0123456789"), 0644))

	entries, err := ListWorldEntries(versionDir, "worlds")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string]bool{}
	for _, e := range entries {
		byName[e.Name] = true
		switch e.Name {
		case "MyWorld":
			assert.True(t, e.IsDir)
			assert.Zero(t, e.SizeBytes)
		case "Server Backup.mcworld":
			assert.False(t, e.IsDir)
			assert.Equal(t, int64(10), e.SizeBytes)
		}
		assert.Equal(t, filepath.Join(worlds, e.Name), e.Path)
	}
	assert.True(t, byName["MyWorld"])
	assert.True(t, byName["Server Backup.mcworld"])
}

func TestListWorldEntriesEmptyIsNotAnError(t *testing.T) {
	versionDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(versionDir, "worlds"), 0755))

	entries, err := ListWorldEntries(versionDir, "worlds")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListWorldEntriesMissingDir(t *testing.T) {
	_, err := ListWorldEntries(t.TempDir(), "worlds")
	assert.ErrorIs(t, err, ErrWorldsDirMissing)
}

func TestListWorldEntriesWorldsIsAFile(t *testing.T) {
	versionDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(versionDir, "worlds"), []byte("not a dir"), 0644))

	_, err := ListWorldEntries(versionDir, "worlds")
	assert.ErrorIs(t, err, ErrWorldsDirMissing)
}
