package bundle

import (
	"log/slog"
	"time"

	"github.com/klauspost/compress/flate"
)

// DefaultMaxEntries is the default limit used when no WithMaxEntries option is set.
const DefaultMaxEntries = 200_000

// Deflate levels accepted by WithCompressionLevel.
const (
	HuffmanOnly        = flate.HuffmanOnly
	DefaultCompression = flate.DefaultCompression
	NoCompression      = flate.NoCompression
	BestSpeed          = flate.BestSpeed
	BestCompression    = flate.BestCompression
)

// ChangeDetection controls how strictly file changes are detected during a build.
type ChangeDetection uint8

const (
	ChangeDetectionNone ChangeDetection = iota
	ChangeDetectionStrict
)

// buildConfig holds configuration for bundle creation.
type buildConfig struct {
	layout          Layout
	level           int
	modTime         time.Time
	changeDetection ChangeDetection
	maxEntries      int
	logger          *slog.Logger
	progress        ProgressFunc
}

func newBuildConfig(opts []Option) buildConfig {
	cfg := buildConfig{
		layout: DefaultLayout(),
		level:  DefaultCompression,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures bundle creation.
type Option func(*buildConfig)

// WithLayout sets the required files and directories. The layout is copied,
// so later changes to l do not affect the build.
func WithLayout(l Layout) Option {
	return func(cfg *buildConfig) {
		cfg.layout = l.clone()
	}
}

// WithCompressionLevel sets the deflate level, from HuffmanOnly to
// BestCompression. The default is DefaultCompression.
func WithCompressionLevel(level int) Option {
	return func(cfg *buildConfig) {
		cfg.level = level
	}
}

// WithModTime stamps t on every entry instead of the source modification
// times. With a fixed time, builds of an unchanged tree are byte-identical.
func WithModTime(t time.Time) Option {
	return func(cfg *buildConfig) {
		cfg.modTime = t
	}
}

// WithChangeDetection controls whether the builder verifies files did not change
// while they were being archived. The zero value disables change detection to
// reduce syscalls; enable ChangeDetectionStrict for stronger guarantees.
func WithChangeDetection(cd ChangeDetection) Option {
	return func(cfg *buildConfig) {
		cfg.changeDetection = cd
	}
}

// WithMaxEntries limits the number of archive entries, directory markers included.
// Zero uses DefaultMaxEntries. Negative means no limit.
func WithMaxEntries(n int) Option {
	return func(cfg *buildConfig) {
		cfg.maxEntries = n
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *buildConfig) {
		cfg.logger = logger
	}
}

// WithProgress sets a callback that receives progress events.
func WithProgress(fn ProgressFunc) Option {
	return func(cfg *buildConfig) {
		cfg.progress = fn
	}
}
