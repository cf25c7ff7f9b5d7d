package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalSize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested", "deeper"), 0755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), make([]byte, 10), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b"), make([]byte, 20), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "deeper", "c"), make([]byte, 30), 0644))

	total, err := ComputeTotalSize(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(60), total)
}

func TestComputeTotalSizeEmpty(t *testing.T) {
	total, err := ComputeTotalSize(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestFormatMiB(t *testing.T) {
	assert.Equal(t, "1.00 MB", FormatMiB(1048576))
	assert.Equal(t, "0.50 MB", FormatMiB(524288))
	assert.Equal(t, "0.00 MB", FormatMiB(0))
	assert.Equal(t, "1536.00 MB", FormatMiB(1536*1048576))
}
