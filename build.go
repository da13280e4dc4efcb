package bundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Build creates the bundle archive for root at output.
//
// Every required file and directory in the layout is checked before output
// is touched: a missing file fails with ErrRequiredFileMissing, a missing
// directory with ErrRequiredDirectoryMissing, a symlink with
// ErrUnsupportedPathKind, and in each case no output is created. An output
// that already exists as one of the collected files fails with
// ErrOutputIsSource and is left untouched. The archive is then written with required files first and required
// directories second, each in listed order, with directory contents visited in
// sorted order.
//
// output is created or truncated; its parent directory must exist. If the
// build fails after output was created, the partial file is removed.
func Build(ctx context.Context, root, output string, opts ...Option) (Stats, error) {
	cfg := newBuildConfig(opts)
	if err := cfg.layout.Validate(); err != nil {
		return Stats{}, err
	}
	logger := cfg.log()

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Stats{}, &fs.PathError{Op: "build", Path: root, Err: ErrRootNotFound}
		}
		return Stats{}, err
	}
	if !info.IsDir() {
		return Stats{}, &fs.PathError{Op: "build", Path: root, Err: ErrRootNotFound}
	}

	r, err := os.OpenRoot(root)
	if err != nil {
		return Stats{}, err
	}
	defer r.Close()

	if err := validateLayout(r, cfg); err != nil {
		return Stats{}, err
	}

	if err := checkOutput(r, cfg.layout, output); err != nil {
		return Stats{}, err
	}

	logger.Info("creating bundle", "root", root, "output", output, "level", cfg.level)

	f, err := os.Create(output) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return Stats{}, fmt.Errorf("create output file: %w", err)
	}

	stats, err := writeBundle(ctx, r, f, cfg)
	if err != nil {
		f.Close()
		os.Remove(output)
		return Stats{}, err
	}
	if err := f.Close(); err != nil {
		os.Remove(output)
		return Stats{}, fmt.Errorf("close output file: %w", err)
	}

	logger.Info("bundle created",
		"output", output,
		"entries", stats.Entries,
		"bytes", stats.Bytes,
		"compressed_bytes", stats.CompressedBytes)
	return stats, nil
}

// validateLayout checks every required entry, files first, each in listed order.
func validateLayout(r *os.Root, cfg buildConfig) error {
	report := func(name string) {
		if cfg.progress != nil {
			cfg.progress(ProgressEvent{Stage: StageValidating, Path: name})
		}
	}

	for _, name := range cfg.layout.Files {
		report(name)
		info, err := lstatRequired(r, name)
		if err != nil {
			return err
		}
		if info == nil || !info.Mode().IsRegular() {
			return &fs.PathError{Op: "validate", Path: name, Err: ErrRequiredFileMissing}
		}
	}
	for _, name := range cfg.layout.Directories {
		report(name)
		info, err := lstatRequired(r, name)
		if err != nil {
			return err
		}
		if info == nil || !info.IsDir() {
			return &fs.PathError{Op: "validate", Path: name, Err: ErrRequiredDirectoryMissing}
		}
	}
	return nil
}

// lstatRequired returns nil info (and no error) when name does not exist.
// A symlink is rejected as an unsupported entry without being followed.
func lstatRequired(r *os.Root, name string) (fs.FileInfo, error) {
	info, err := r.Lstat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil //nolint:nilnil // nil info means the entry is absent
		}
		return nil, err
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil, unsupported(r, name, info.Mode())
	}
	return info, nil
}

// checkOutput fails if output already exists as one of the regular files the
// layout would collect, since creating it would truncate that source.
func checkOutput(r *os.Root, layout Layout, output string) error {
	outInfo, err := os.Stat(output)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat output file: %w", err)
	}
	if !outInfo.Mode().IsRegular() {
		return nil
	}

	for _, name := range layout.entries() {
		err := fs.WalkDir(r.FS(), name, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			if os.SameFile(info, outInfo) {
				return &fs.PathError{Op: "build", Path: output, Err: fmt.Errorf("%w: %s", ErrOutputIsSource, p)}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// writeBundle streams all required entries into f and finalizes the archive.
func writeBundle(ctx context.Context, r *os.Root, f *os.File, cfg buildConfig) (Stats, error) {
	a, err := newArchive(f, cfg)
	if err != nil {
		return Stats{}, err
	}
	if a.exclude, err = f.Stat(); err != nil {
		return Stats{}, err
	}

	for _, name := range cfg.layout.entries() {
		if err := a.add(ctx, r, name); err != nil {
			return Stats{}, err
		}
	}

	if err := a.Close(); err != nil {
		return Stats{}, err
	}
	return a.Stats(), nil
}
