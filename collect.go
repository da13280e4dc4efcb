package bundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/meigma/bundle/internal/archive"
	"github.com/meigma/bundle/internal/pathutil"
	"github.com/meigma/bundle/internal/platform"
	"github.com/meigma/bundle/internal/write"
)

// AddPath writes target into a, naming entries relative to base.
//
// A directory gets a zero-length "rel/" marker (unless target is base itself)
// followed by its children, visited in sorted order and added recursively.
// A regular file is written under its relative name. Anything else fails with
// ErrUnsupportedPathKind. target must be base or lie below it.
//
// AddPath appends entries only; it does not close a.
func AddPath(ctx context.Context, a *Archive, base, target string) error {
	rel, err := pathutil.Rel(base, target)
	if err != nil {
		return err
	}

	root, err := os.OpenRoot(base)
	if err != nil {
		return err
	}
	defer root.Close()

	return a.add(ctx, root, rel)
}

// add writes the entry at rel (relative to root) and, for directories,
// everything below it.
func (a *Archive) add(ctx context.Context, root *os.Root, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := root.Lstat(pathutil.OSName(rel))
	if err != nil {
		return err
	}

	switch {
	case info.IsDir():
		return a.addDir(ctx, root, rel, info)
	case info.Mode().IsRegular():
		return a.addFile(ctx, root, rel, info)
	default:
		return unsupported(root, rel, info.Mode())
	}
}

func (a *Archive) addDir(ctx context.Context, root *os.Root, rel string, info fs.FileInfo) error {
	if rel != "" {
		if err := a.checkLimit(); err != nil {
			return err
		}
		if err := a.aw.Dir(rel, info); err != nil {
			return err
		}
		a.log().Debug("added directory", "path", archive.EntryName(rel)+"/")
		a.reportProgress(StageCollecting, archive.EntryName(rel)+"/")
	}

	// fs.ReadDir returns entries sorted by name.
	children, err := fs.ReadDir(root.FS(), pathutil.FSName(rel))
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := a.add(ctx, root, filepath.Join(rel, child.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (a *Archive) addFile(ctx context.Context, root *os.Root, rel string, info fs.FileInfo) error {
	strict := a.cfg.changeDetection == ChangeDetectionStrict
	name := archive.EntryName(rel)

	f, err := platform.OpenFileNoFollow(root, rel)
	if err != nil {
		if errors.Is(err, platform.ErrSymlink) {
			return unsupported(root, rel, fs.ModeSymlink)
		}
		return err
	}
	defer f.Close()

	finfo, err := f.Stat()
	if err != nil {
		return err
	}
	if !finfo.Mode().IsRegular() {
		return unsupported(root, rel, finfo.Mode())
	}
	if a.exclude != nil && os.SameFile(finfo, a.exclude) {
		a.log().Warn("skipped bundle output found inside root", "path", name)
		return nil
	}
	if err := write.ValidateFileInfo(name, info, finfo, strict); err != nil {
		return err
	}

	if err := a.checkLimit(); err != nil {
		return err
	}
	n, err := a.aw.File(ctx, rel, finfo, f)
	if err != nil {
		return err
	}
	if err := write.CheckFileUnchanged(f, name, finfo, strict); err != nil {
		return err
	}

	a.log().Debug("added file", "path", name, "size", n)
	a.reportProgress(StageCollecting, name)
	return nil
}

func (a *Archive) checkLimit() error {
	limit := a.cfg.maxEntries
	if limit == 0 {
		limit = DefaultMaxEntries
	}
	if limit > 0 && a.aw.Stats().Entries >= limit {
		return ErrTooManyEntries
	}
	return nil
}

// unsupported reports an entry that is neither a regular file nor a directory.
func unsupported(root *os.Root, rel string, mode fs.FileMode) error {
	return &fs.PathError{
		Op:   "add",
		Path: filepath.Join(root.Name(), rel),
		Err:  fmt.Errorf("%w: %s", ErrUnsupportedPathKind, kindOf(mode)),
	}
}

func kindOf(mode fs.FileMode) string {
	switch {
	case mode&fs.ModeSymlink != 0:
		return "symlink"
	case mode&fs.ModeNamedPipe != 0:
		return "named pipe"
	case mode&fs.ModeSocket != 0:
		return "socket"
	case mode&fs.ModeDevice != 0:
		return "device"
	case mode&fs.ModeIrregular != 0:
		return "irregular file"
	default:
		return mode.Type().String()
	}
}
