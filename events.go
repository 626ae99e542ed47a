package avmeta

import (
	"time"

	"github.com/five82/avmeta/internal/reporter"
)

// EventType identifies the kind of a batch event.
type EventType string

const (
	EventTypeBatchStarted  EventType = "batch_started"
	EventTypeFileStarted   EventType = "file_started"
	EventTypeSnapshot      EventType = "snapshot"
	EventTypeWarning       EventType = "warning"
	EventTypeError         EventType = "error"
	EventTypeBatchComplete EventType = "batch_complete"
)

// Event is delivered to an EventHandler during ProbeBatch.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// EventHandler receives batch events. Handlers are called from worker
// goroutines and must be safe for concurrent use. Returned errors are
// ignored.
type EventHandler func(Event) error

// BaseEvent carries the fields shared by all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      time.Time `json:"timestamp"`
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

func newBase(t EventType) BaseEvent {
	return BaseEvent{EventType: t, Time: time.Now()}
}

// BatchStartedEvent opens a batch.
type BatchStartedEvent struct {
	BaseEvent
	RunID      string `json:"run_id"`
	TotalFiles int    `json:"total_files"`
	Workers    int    `json:"workers"`
}

// FileStartedEvent is sent when a worker picks up a file.
type FileStartedEvent struct {
	BaseEvent
	Path    string `json:"path"`
	Current int    `json:"current_file"`
	Total   int    `json:"total_files"`
}

// SnapshotEvent carries a successfully projected file.
type SnapshotEvent struct {
	BaseEvent
	Path     string    `json:"path"`
	Snapshot *Snapshot `json:"snapshot"`
	Cached   bool      `json:"cached"`
}

// WarningEvent is a non-fatal condition.
type WarningEvent struct {
	BaseEvent
	Message string `json:"message"`
}

// ErrorEvent reports a file that could not be projected.
type ErrorEvent struct {
	BaseEvent
	Path       string `json:"path"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// BatchCompleteEvent closes a batch.
type BatchCompleteEvent struct {
	BaseEvent
	RunID           string  `json:"run_id"`
	TotalFiles      int     `json:"total_files"`
	SuccessfulCount int     `json:"successful_count"`
	FailedCount     int     `json:"failed_count"`
	CachedCount     int     `json:"cached_count"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// eventReporter adapts EventHandler to the Reporter interface.
type eventReporter struct {
	handler EventHandler
}

func newEventReporter(handler EventHandler) *eventReporter {
	return &eventReporter{handler: handler}
}

func (r *eventReporter) BatchStarted(info reporter.BatchStartInfo) {
	_ = r.handler(BatchStartedEvent{
		BaseEvent:  newBase(EventTypeBatchStarted),
		RunID:      info.RunID,
		TotalFiles: info.TotalFiles,
		Workers:    info.Workers,
	})
}

func (r *eventReporter) FileStarted(f reporter.FileContext) {
	_ = r.handler(FileStartedEvent{
		BaseEvent: newBase(EventTypeFileStarted),
		Path:      f.Path,
		Current:   f.Current,
		Total:     f.Total,
	})
}

func (r *eventReporter) SnapshotReady(s reporter.SnapshotResult) {
	_ = r.handler(SnapshotEvent{
		BaseEvent: newBase(EventTypeSnapshot),
		Path:      s.Path,
		Snapshot:  s.Snapshot,
		Cached:    s.Cached,
	})
}

func (r *eventReporter) Warning(message string) {
	_ = r.handler(WarningEvent{
		BaseEvent: newBase(EventTypeWarning),
		Message:   message,
	})
}

func (r *eventReporter) Error(e reporter.ReporterError) {
	_ = r.handler(ErrorEvent{
		BaseEvent:  newBase(EventTypeError),
		Path:       e.Path,
		Title:      e.Title,
		Message:    e.Message,
		Suggestion: e.Suggestion,
	})
}

func (r *eventReporter) BatchComplete(s reporter.BatchSummary) {
	_ = r.handler(BatchCompleteEvent{
		BaseEvent:       newBase(EventTypeBatchComplete),
		RunID:           s.RunID,
		TotalFiles:      s.TotalFiles,
		SuccessfulCount: s.SuccessfulCount,
		FailedCount:     s.FailedCount,
		CachedCount:     s.CachedCount,
		DurationSeconds: s.TotalDuration.Seconds(),
	})
}

func (r *eventReporter) Verbose(string) {}
