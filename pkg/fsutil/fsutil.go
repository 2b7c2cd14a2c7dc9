package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Resolve joins path onto baseDir unless path is absolute.
func Resolve(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}

	return filepath.Join(baseDir, path)
}

// StatRegular stats path and reports whether it exists. A missing path
// returns (nil, false, nil). A path that is not a regular file, or cannot be
// inspected, returns an error.
func StatRegular(path string) (os.FileInfo, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}

		return nil, false, err
	}

	if !info.Mode().IsRegular() {
		return info, true, fmt.Errorf("%s is not a regular file", path)
	}

	return info, true, nil
}
