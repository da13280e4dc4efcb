package bundle

import (
	"io"
	"io/fs"
	"log/slog"

	"github.com/meigma/bundle/internal/archive"
)

// Stats summarizes a finished (or in-progress) bundle.
type Stats struct {
	// Entries is the number of archive entries, directory markers included.
	Entries int

	// Files is the number of file entries.
	Files int

	// Dirs is the number of directory marker entries.
	Dirs int

	// Bytes is the total uncompressed size of all files.
	Bytes uint64

	// CompressedBytes is the size of the archive written so far.
	// After Close it is the size of the complete archive.
	CompressedBytes uint64
}

// Archive is an open bundle accepting entries through AddPath.
//
// An Archive is not safe for concurrent use. Close finalizes the archive but
// does not close the underlying writer.
type Archive struct {
	aw      *archive.Writer
	cfg     buildConfig
	exclude fs.FileInfo
}

// NewArchive starts a bundle archive written to w.
//
// WithCompressionLevel, WithModTime, WithChangeDetection, WithMaxEntries,
// WithLogger, and WithProgress apply; WithLayout is only used by Build.
func NewArchive(w io.Writer, opts ...Option) (*Archive, error) {
	return newArchive(w, newBuildConfig(opts))
}

func newArchive(w io.Writer, cfg buildConfig) (*Archive, error) {
	aw, err := archive.NewWriter(w, cfg.level, cfg.modTime)
	if err != nil {
		return nil, err
	}
	return &Archive{aw: aw, cfg: cfg}, nil
}

// Close writes the archive's central directory.
func (a *Archive) Close() error {
	a.reportProgress(StageFinalizing, "")
	return a.aw.Close()
}

// Stats returns totals for the entries written so far.
func (a *Archive) Stats() Stats {
	s := a.aw.Stats()
	return Stats{
		Entries:         s.Entries,
		Files:           s.Files,
		Dirs:            s.Dirs,
		Bytes:           s.Bytes,
		CompressedBytes: s.Written,
	}
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	return a.cfg.log()
}

func (a *Archive) reportProgress(stage ProgressStage, path string) {
	if a.cfg.progress == nil {
		return
	}
	s := a.aw.Stats()
	a.cfg.progress(ProgressEvent{
		Stage:       stage,
		Path:        path,
		EntriesDone: s.Entries,
		BytesDone:   s.Bytes,
	})
}

func (cfg *buildConfig) log() *slog.Logger {
	if cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return cfg.logger
}
