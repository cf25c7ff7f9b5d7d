package backup

import "errors"

var (
	// ErrNoCandidate means no subdirectory of the server root matched the
	// configured version prefix.
	ErrNoCandidate = errors.New("no version directory matches the configured prefix")

	// ErrWorldsDirMissing means the selected version directory has no worlds
	// subdirectory.
	ErrWorldsDirMissing = errors.New("worlds directory not found")
)
