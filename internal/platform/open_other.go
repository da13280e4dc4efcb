//go:build !unix

package platform

import (
	"io/fs"
	"os"
)

// OpenFileNoFollow opens name under root for reading, refusing symbolic links.
// The Lstat check and the open are not atomic on these platforms.
func OpenFileNoFollow(root *os.Root, name string) (*os.File, error) {
	info, err := root.Lstat(name)
	if err != nil {
		return nil, err
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil, &fs.PathError{Op: "open", Path: name, Err: ErrSymlink}
	}
	return root.Open(name)
}
