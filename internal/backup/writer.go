package backup

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tbeckers/worldvault/internal/models"
)

// DateTagLayout is the calendar-date format used for backup folder and entry names.
const DateTagLayout = "2006-01-02"

// DatedName returns the destination name for a world entry. Directories get
// the date tag appended; files get it inserted immediately before the
// extension, preserving the extension itself.
func DatedName(entry models.WorldEntry, dateTag string) string {
	if entry.IsDir {
		return entry.Name + "_" + dateTag
	}
	ext := filepath.Ext(entry.Name)
	return strings.TrimSuffix(entry.Name, ext) + "_" + dateTag + ext
}

// DestinationDir returns the dated backup directory under the backup root.
func DestinationDir(backupRoot, dateTag string) string {
	return filepath.Join(backupRoot, "backup_"+dateTag)
}

// WriteBackup creates the dated destination directory (a pre-existing one is
// reused) and copies every entry into it with its dated name. Directory
// entries are copied recursively; a destination of the same name is replaced
// wholesale, not merged into. The copy is not atomic: a failure partway
// through leaves whatever was already written in place.
//
// onCopy, if non-nil, is invoked after each entry is copied with its source
// and destination names. The destination path is returned even on failure so
// the caller can report what was partially written.
func WriteBackup(entries []models.WorldEntry, backupRoot, dateTag string, onCopy func(oldName, newName string)) (string, error) {
	dest := DestinationDir(backupRoot, dateTag)
	if err := os.MkdirAll(dest, 0755); err != nil {
		return dest, fmt.Errorf("could not create backup destination %s: %w", dest, err)
	}

	for _, entry := range entries {
		newName := DatedName(entry, dateTag)
		target := filepath.Join(dest, newName)

		var err error
		if entry.IsDir {
			err = copyDir(entry.Path, target)
		} else {
			err = copyFile(entry.Path, target)
		}
		if err != nil {
			return dest, fmt.Errorf("failed to copy %s: %w", entry.Name, err)
		}
		if onCopy != nil {
			onCopy(entry.Name, newName)
		}
	}
	return dest, nil
}

func copyDir(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}
