package bootstrap

import (
	"fmt"
	"os"
)

// For testing purposes only
var mkdirAll func(string, os.FileMode) error = os.MkdirAll

// EnsureDirectories creates every target directory and any missing
// parents. Directories that already exist are fine; a path occupied by
// anything other than a directory is not.
func EnsureDirectories(paths []string) error {
	for _, p := range paths {
		if err := mkdirAll(p, 0o755); err != nil {
			return fmt.Errorf("EnsureDirectories: unable to create %s: %w", p, err)
		}
	}
	return nil
}
