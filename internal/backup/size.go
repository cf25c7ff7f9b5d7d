package backup

import (
	"fmt"
	"os"
	"path/filepath"
)

const bytesPerMiB = 1 << 20

// ComputeTotalSize recursively sums the byte length of every file under dir,
// including nested directory contents.
func ComputeTotalSize(dir string) (int64, error) {
	var total int64
	err := filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("could not compute size of %s: %w", dir, err)
	}
	return total, nil
}

// FormatMiB renders a byte count as megabytes (1,048,576-byte megabyte) with
// two decimal places, for human-readable summaries.
func FormatMiB(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/float64(bytesPerMiB))
}
