package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/tbeckers/worldvault/internal/models"
)

// versionPattern matches directory names of the form "<prefix>-X.Y.Z", with any
// trailing qualifier after the numeric triple (e.g. "bedrock-server-1.21.0.03").
func versionPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `-\d+\.\d+\.\d+`)
}

// SelectLatestVersionDir scans the immediate subdirectories of rootPath for
// version directories and returns the one modified most recently. Selection is
// by modification time, not by version number: an older release that was
// updated last still wins. Equal modification times are broken by picking the
// lexicographically greatest name, so the result is deterministic.
func SelectLatestVersionDir(rootPath, prefix string) (models.VersionDirectory, error) {
	entries, err := os.ReadDir(rootPath)
	if err != nil {
		return models.VersionDirectory{}, fmt.Errorf("could not read server root %s: %w", rootPath, err)
	}

	pattern := versionPattern(prefix)
	var latest models.VersionDirectory
	found := false
	for _, e := range entries {
		if !e.IsDir() || !pattern.MatchString(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return models.VersionDirectory{}, fmt.Errorf("could not stat %s: %w", e.Name(), err)
		}
		candidate := models.VersionDirectory{
			Name:    e.Name(),
			Path:    filepath.Join(rootPath, e.Name()),
			ModTime: info.ModTime(),
		}
		switch {
		case !found:
			latest, found = candidate, true
		case candidate.ModTime.After(latest.ModTime):
			latest = candidate
		case candidate.ModTime.Equal(latest.ModTime) && candidate.Name > latest.Name:
			latest = candidate
		}
	}

	if !found {
		return models.VersionDirectory{}, fmt.Errorf("%w: %s under %s", ErrNoCandidate, prefix, rootPath)
	}
	return latest, nil
}
