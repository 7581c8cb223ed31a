package fiddle

import (
	"fmt"
	"path/filepath"

	"fiddle-server/disk"
)

// Reader loads fiddles from a directory.
type Reader struct {
	fsys disk.FileSystem
}

// NewReader creates a Reader on top of fsys.
func NewReader(fsys disk.FileSystem) *Reader {
	return &Reader{fsys: fsys}
}

// Read loads every supported regular file directly inside dir. Subdirectories
// and unsupported files are skipped.
func (r *Reader) Read(dir string) (Files, error) {
	entries, err := r.fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read fiddle %s: %w", dir, err)
	}

	files := Files{}
	for _, e := range entries {
		if e.IsDir() || !IsSupportedFile(e.Name()) {
			continue
		}
		data, err := r.fsys.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		files[e.Name()] = string(data)
	}
	return files, nil
}
