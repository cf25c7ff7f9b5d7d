package models

import "time"

// VersionDirectory is a candidate server installation found under the server root.
type VersionDirectory struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	ModTime time.Time `json:"modTime"`
}

// WorldEntry is a single item (file or directory) inside the worlds folder.
type WorldEntry struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	IsDir     bool   `json:"isDir"`
	SizeBytes int64  `json:"sizeBytes"` // files only; zero for directories
}
