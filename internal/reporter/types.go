// Package reporter provides progress reporting interfaces and implementations.
package reporter

import (
	"time"

	errs "github.com/five82/avmeta/internal/errors"
	"github.com/five82/avmeta/internal/metadata"
)

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	RunID      string
	TotalFiles int
	Directory  string
	Workers    int
	Hostname   string
	CPUs       int
}

// FileContext identifies a file within a batch. Current is 1-based.
type FileContext struct {
	Path    string
	Current int
	Total   int
}

// SnapshotResult is a successfully projected file.
type SnapshotResult struct {
	Path     string
	Size     int64
	Snapshot *metadata.Snapshot
	Cached   bool
	Elapsed  time.Duration
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Path       string
	Context    string
	Suggestion string
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	RunID           string
	TotalFiles      int
	SuccessfulCount int
	FailedCount     int
	CachedCount     int
	TotalDuration   time.Duration
	Failures        []FileFailure
}

// FileFailure is one file that could not be projected.
type FileFailure struct {
	Path    string
	Message string
}

// ErrorFor builds a ReporterError for a failed probe of path, choosing the
// title and suggestion from the error kind.
func ErrorFor(path string, err error) ReporterError {
	re := ReporterError{
		Title:   "Probe failed",
		Message: err.Error(),
		Path:    path,
	}
	switch {
	case errs.IsCancelled(err):
		re.Title = "Cancelled"
	case errs.IsKind(err, errs.KindCommand):
		re.Title = "ffprobe failed"
		re.Suggestion = "Check that ffprobe is installed and on PATH, or set [ffprobe] path"
	case errs.IsCodecResolution(err):
		re.Title = "Codec not resolvable"
		re.Suggestion = "The stream's codec is unknown to ffprobe; rebuild FFmpeg with the decoder enabled"
	case errs.IsKind(err, errs.KindOpen):
		re.Title = "Cannot open container"
		re.Suggestion = "Verify the file is a complete, readable media file"
	case errs.IsKind(err, errs.KindInvariantViolation):
		re.Title = "Inconsistent container"
	case errs.IsKind(err, errs.KindCache):
		re.Title = "Cache error"
		re.Suggestion = "Run 'avmeta cache clear' or pass --no-cache"
	}
	return re
}
