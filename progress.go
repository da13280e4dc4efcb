package bundle

// ProgressEvent represents a progress update during a build.
type ProgressEvent struct {
	// Stage identifies the current phase of the build.
	Stage ProgressStage

	// Path is the archive entry name being processed, if applicable.
	Path string

	// EntriesDone is the number of archive entries written so far.
	EntriesDone int

	// BytesDone is the number of uncompressed file bytes written so far.
	BytesDone uint64
}

// ProgressStage identifies the current phase of a build.
type ProgressStage uint8

const (
	// StageValidating indicates required entries are being checked.
	StageValidating ProgressStage = iota

	// StageCollecting indicates entries are being compressed and written.
	StageCollecting

	// StageFinalizing indicates the archive directory is being written.
	StageFinalizing
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageValidating:
		return "validating"
	case StageCollecting:
		return "collecting"
	case StageFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates during a build.
// It is called synchronously from the building goroutine.
type ProgressFunc func(ProgressEvent)
