package backup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tbeckers/worldvault/internal/models"
)

// ListWorldEntries resolves the worlds subdirectory of the given version
// directory and enumerates its immediate entries. An empty worlds directory is
// not an error; the caller decides how to treat a run with nothing to back up.
// Entries are returned in directory enumeration order, which is not guaranteed
// to be alphabetical.
func ListWorldEntries(versionDirPath, worldsDirName string) ([]models.WorldEntry, error) {
	worldsPath := filepath.Join(versionDirPath, worldsDirName)
	info, err := os.Stat(worldsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrWorldsDirMissing, worldsPath)
		}
		return nil, fmt.Errorf("could not stat worlds directory %s: %w", worldsPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrWorldsDirMissing, worldsPath)
	}

	dirEntries, err := os.ReadDir(worldsPath)
	if err != nil {
		return nil, fmt.Errorf("could not read worlds directory %s: %w", worldsPath, err)
	}

	entries := make([]models.WorldEntry, 0, len(dirEntries))
	for _, e := range dirEntries {
		entry := models.WorldEntry{
			Name:  e.Name(),
			Path:  filepath.Join(worldsPath, e.Name()),
			IsDir: e.IsDir(),
		}
		if !e.IsDir() {
			fi, err := e.Info()
			if err != nil {
				return nil, fmt.Errorf("could not stat world entry %s: %w", e.Name(), err)
			}
			entry.SizeBytes = fi.Size()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
