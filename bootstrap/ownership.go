package bootstrap

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// For testing purposes only
var lchown func(string, int, int) error = unix.Lchown

// RepairOwnership recursively re-owns every target path and all of its
// existing contents to the principal. Bind-mounted volumes keep
// host-side ownership across restarts, so this runs on every boot and
// must be safe to re-run. Symlinks are re-owned themselves, never
// their targets, and are not descended into.
func RepairOwnership(paths []string, p *Principal) error {
	for _, root := range paths {
		err := filepath.WalkDir(root, func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			return lchown(name, p.Uid, p.Gid)
		})
		if err != nil {
			return fmt.Errorf("RepairOwnership: unable to re-own %s to %d:%d: %w", root, p.Uid, p.Gid, err)
		}
	}
	return nil
}
