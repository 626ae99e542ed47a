package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// JSONReporter outputs NDJSON events, one object per line.
type JSONReporter struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{writer: os.Stdout}
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]interface{}{
		"type":        "batch_started",
		"run_id":      info.RunID,
		"total_files": info.TotalFiles,
		"directory":   info.Directory,
		"workers":     info.Workers,
		"hostname":    info.Hostname,
		"cpus":        info.CPUs,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) FileStarted(file FileContext) {
	r.write(map[string]interface{}{
		"type":         "file_started",
		"path":         file.Path,
		"current_file": file.Current,
		"total_files":  file.Total,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) SnapshotReady(result SnapshotResult) {
	r.write(map[string]interface{}{
		"type":       "snapshot",
		"path":       result.Path,
		"size":       result.Size,
		"cached":     result.Cached,
		"elapsed_ms": result.Elapsed.Milliseconds(),
		"snapshot":   result.Snapshot,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]interface{}{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]interface{}{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"path":       err.Path,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	failures := make([]map[string]string, len(summary.Failures))
	for i, f := range summary.Failures {
		failures[i] = map[string]string{"path": f.Path, "message": f.Message}
	}

	r.write(map[string]interface{}{
		"type":                   "batch_complete",
		"run_id":                 summary.RunID,
		"total_files":            summary.TotalFiles,
		"successful_count":       summary.SuccessfulCount,
		"failed_count":           summary.FailedCount,
		"cached_count":           summary.CachedCount,
		"total_duration_seconds": summary.TotalDuration.Seconds(),
		"failures":               failures,
		"timestamp":              r.timestamp(),
	})
}

// Verbose messages are for humans; the JSON stream omits them.
func (r *JSONReporter) Verbose(string) {}
