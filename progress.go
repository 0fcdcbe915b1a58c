package minitar

// ProgressEvent represents a progress update during an archive operation.
type ProgressEvent struct {
	// Stage identifies the current phase of the operation.
	Stage ProgressStage

	// Path is the member currently being processed, if applicable.
	Path string

	// BytesDone is the number of content bytes completed so far.
	BytesDone int64

	// FilesDone is the number of members completed.
	FilesDone int

	// FilesTotal is the total number of members.
	// Zero indicates the total is unknown, as when scanning an archive.
	FilesTotal int
}

// ProgressStage identifies the current phase of an operation.
type ProgressStage uint8

// Progress stages for archive operations.
const (
	// StageWriting indicates members are being written to the archive.
	StageWriting ProgressStage = iota

	// StageScanning indicates headers are being read to enumerate members.
	StageScanning

	// StageExtracting indicates members are being written to disk.
	StageExtracting
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageWriting:
		return "writing"
	case StageScanning:
		return "scanning"
	case StageExtracting:
		return "extracting"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates during operations.
type ProgressFunc func(ProgressEvent)
