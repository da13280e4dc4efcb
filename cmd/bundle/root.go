package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/meigma/bundle"
)

const (
	logFormatText = "text"
	logFormatJSON = "json"
)

type options struct {
	root      string
	output    string
	config    string
	level     int
	mtime     string
	strict    bool
	list      bool
	verbose   bool
	logFormat string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Create an offline bundle of the web app",
		Long: `Create a ZIP archive containing the page, stylesheet, script, assets, and
fonts of the web app so it can be distributed as a standalone bundle.

The root is the current working directory unless --root is given. The
output is written to dist/<name>.zip under the root by default, and a
relative --output is resolved against the root, not the working directory.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	bindFlags(cmd.Flags(), opts)
	return cmd
}

func bindFlags(flags *pflag.FlagSet, o *options) {
	flags.StringVarP(&o.output, "output", "o", "", "destination path for the ZIP archive, relative to the root (default: dist/<name>.zip)")
	flags.StringVarP(&o.root, "root", "r", ".", "directory containing the files to bundle, the working directory unless set; a relative --output is resolved against it")
	flags.StringVarP(&o.config, "config", "c", "", "YAML file listing the bundle name, required files, and required directories")
	flags.IntVar(&o.level, "level", bundle.DefaultCompression, "deflate level, -2 (huffman only) to 9 (best)")
	flags.StringVar(&o.mtime, "mtime", "", "RFC 3339 time stamped on every entry for reproducible output")
	flags.BoolVar(&o.strict, "strict", false, "fail if a file changes while it is being archived")
	flags.BoolVar(&o.list, "list", false, "print the bundle contents after building")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&o.logFormat, "log-format", logFormatText, "log format: text or json")
}

func run(ctx context.Context, o *options, stdout, stderr io.Writer) error {
	logger, err := newLogger(stderr, o.logFormat, o.verbose)
	if err != nil {
		return err
	}

	root, err := filepath.Abs(o.root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	// Checked here so creating the output directory cannot conjure a root.
	if info, statErr := os.Stat(root); statErr != nil || !info.IsDir() {
		return &fs.PathError{Op: "build", Path: root, Err: bundle.ErrRootNotFound}
	}

	layout := bundle.DefaultLayout()
	if o.config != "" {
		if layout, err = bundle.LoadLayout(o.config); err != nil {
			return err
		}
	}

	buildOpts := []bundle.Option{
		bundle.WithLayout(layout),
		bundle.WithCompressionLevel(o.level),
		bundle.WithLogger(logger),
	}
	if o.mtime != "" {
		t, parseErr := time.Parse(time.RFC3339, o.mtime)
		if parseErr != nil {
			return fmt.Errorf("parse --mtime: %w", parseErr)
		}
		buildOpts = append(buildOpts, bundle.WithModTime(t))
	}
	if o.strict {
		buildOpts = append(buildOpts, bundle.WithChangeDetection(bundle.ChangeDetectionStrict))
	}

	output := resolveOutput(root, o.output, layout)
	if err := os.MkdirAll(filepath.Dir(output), 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	stats, err := bundle.Build(ctx, root, output, buildOpts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Offline bundle created at: %s\n", output)

	if o.list {
		entries, err := bundle.Inspect(output)
		if err != nil {
			return err
		}
		printEntries(stdout, entries, stats)
	}
	return nil
}

// resolveOutput returns the absolute archive path. Relative paths, including
// the default dist/<name>.zip, are taken relative to root.
func resolveOutput(root, output string, layout bundle.Layout) string {
	if output == "" {
		output = filepath.Join("dist", layout.FileName())
	}
	if !filepath.IsAbs(output) {
		output = filepath.Join(root, output)
	}
	return filepath.Clean(output)
}

func newLogger(w io.Writer, format string, verbose bool) (*slog.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	switch format {
	case logFormatText:
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case logFormatJSON:
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want %s or %s)", format, logFormatText, logFormatJSON)
	}
}

func printEntries(w io.Writer, entries []bundle.Entry, stats bundle.Stats) {
	for _, e := range entries {
		if e.Dir {
			fmt.Fprintf(w, "  %s\n", e.Name)
			continue
		}
		fmt.Fprintf(w, "  %-48s %10s\n", e.Name, humanize.Bytes(e.Size))
	}
	fmt.Fprintf(w, "%d entries, %s uncompressed, %s on disk\n",
		stats.Entries, humanize.Bytes(stats.Bytes), humanize.Bytes(stats.CompressedBytes))
}
