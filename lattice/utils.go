package lattice

import (
	"fmt"
	"path/filepath"
)

// ConvertToAbsolute returns an absolute path for the given path, interpreting
// relative paths as relative to baseDir.
func ConvertToAbsolute(path, baseDir string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	absPath, err := filepath.Abs(filepath.Join(baseDir, path))
	if err != nil {
		return "", fmt.Errorf("unable to make %q absolute: %v", path, err)
	}
	return absPath, nil
}
