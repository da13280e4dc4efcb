package bundle

import (
	"errors"

	"github.com/meigma/bundle/internal/archive"
	"github.com/meigma/bundle/internal/fileio"
)

// Sentinel errors. Failures that concern a specific name or path are returned
// as *fs.PathError wrapping one of these, so errors.Is matches the sentinel and
// the PathError carries the offending name.
var (
	// ErrRootNotFound is returned when the root does not exist or is not a directory.
	ErrRootNotFound = errors.New("bundle: root not found")

	// ErrRequiredFileMissing is returned when a required top-level file is
	// absent or is not a regular file.
	ErrRequiredFileMissing = errors.New("bundle: required file missing")

	// ErrRequiredDirectoryMissing is returned when a required top-level
	// directory is absent or is not a directory.
	ErrRequiredDirectoryMissing = errors.New("bundle: required directory missing")

	// ErrUnsupportedPathKind is returned when a traversed entry is neither a
	// regular file nor a directory (symlink, device, socket, pipe).
	ErrUnsupportedPathKind = errors.New("bundle: unsupported path kind")

	// ErrTooManyEntries is returned when the entry count exceeds the configured limit.
	ErrTooManyEntries = errors.New("bundle: too many entries")

	// ErrOutputIsSource is returned when the output path already exists as one
	// of the files the bundle would collect. Creating the output would
	// truncate that source.
	ErrOutputIsSource = errors.New("bundle: output would overwrite a source file")

	// ErrFileChanged is returned when a source file changes while it is being
	// archived. A size change is always detected; other changes only with
	// ChangeDetectionStrict.
	ErrFileChanged = fileio.ErrChanged

	// ErrInvalidLayout is returned when a Layout names something other than
	// a plain top-level entry.
	ErrInvalidLayout = errors.New("bundle: invalid layout")

	// ErrSizeOverflow is returned when byte counts exceed supported limits.
	ErrSizeOverflow = fileio.ErrOverflow

	// ErrInvalidLevel is returned for deflate levels outside HuffmanOnly..BestCompression.
	ErrInvalidLevel = archive.ErrInvalidLevel
)
