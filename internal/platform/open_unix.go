//go:build unix

package platform

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
)

// OpenFileNoFollow opens name under root for reading without following a
// symlink in the final element. The open never blocks, so an entry that was
// swapped for a FIFO after the walk classified it is returned to the caller
// to reject by mode instead of stalling the build.
func OpenFileNoFollow(root *os.Root, name string) (*os.File, error) {
	f, err := root.OpenFile(name, os.O_RDONLY|syscall.O_NOFOLLOW|syscall.O_NONBLOCK, 0)
	if err != nil {
		if errors.Is(err, syscall.ELOOP) {
			return nil, &fs.PathError{Op: "open", Path: name, Err: ErrSymlink}
		}
		return nil, err
	}
	return f, nil
}
