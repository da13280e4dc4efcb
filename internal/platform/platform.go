// Package platform isolates OS-specific file opening behavior.
package platform

import "errors"

// ErrSymlink is returned, wrapped in an *fs.PathError, when the entry being
// opened is a symbolic link.
var ErrSymlink = errors.New("symbolic links not supported")
