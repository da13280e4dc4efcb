// Package write holds the optional consistency checks applied to each source
// file while it is copied into a bundle.
package write

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/meigma/bundle/internal/fileio"
)

// CheckFileUnchanged reports whether the open file f still has the size,
// modification time, and permissions recorded in before. name is the archive
// entry name used in the error. Only enforced in strict mode.
func CheckFileUnchanged(f *os.File, name string, before fs.FileInfo, strict bool) error {
	if !strict {
		return nil
	}
	after, err := f.Stat()
	if err != nil {
		return err
	}
	if what := changed(before, after); what != "" {
		return changedError(name, what)
	}
	return nil
}

// ValidateFileInfo checks that the opened file is the one classified during
// the walk. Only enforced in strict mode.
func ValidateFileInfo(name string, info, finfo fs.FileInfo, strict bool) error {
	if !strict {
		return nil
	}
	if info == nil {
		return fmt.Errorf("missing file info: %s", name)
	}
	if !os.SameFile(info, finfo) {
		return changedError(name, "replaced")
	}
	return nil
}

func changed(before, after fs.FileInfo) string {
	switch {
	case after.Size() != before.Size():
		return "size"
	case !after.ModTime().Equal(before.ModTime()):
		return "modification time"
	case after.Mode().Perm() != before.Mode().Perm():
		return "permissions"
	default:
		return ""
	}
}

func changedError(name, what string) error {
	return &fs.PathError{Op: "add", Path: name, Err: fmt.Errorf("%w: %s", fileio.ErrChanged, what)}
}
