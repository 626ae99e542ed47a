// Package avmeta describes media containers as owned, serializable
// snapshots.
//
// A Snapshot lists the container format, every elementary stream with its
// kind-specific codec parameters, the preferred stream per media kind and
// the container's metadata tags. Files are opened with ffprobe; callers with
// their own demuxer bindings can implement FormatHandle and call Project.
//
// Basic usage:
//
//	prober, err := avmeta.New(
//	    avmeta.WithCache("~/.cache/avmeta"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer prober.Close()
//
//	snap, err := prober.Probe(ctx, "movie.mkv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if s, ok := snap.BestStream(avmeta.KindVideo); ok {
//	    fmt.Println(s.Content.(avmeta.VideoContent).Width)
//	}
package avmeta

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/five82/avmeta/internal/cache"
	"github.com/five82/avmeta/internal/config"
	"github.com/five82/avmeta/internal/discovery"
	"github.com/five82/avmeta/internal/logging"
	"github.com/five82/avmeta/internal/metadata"
	"github.com/five82/avmeta/internal/processing"
	"github.com/five82/avmeta/internal/reporter"
)

// Re-export the snapshot model.
type (
	Snapshot          = metadata.Snapshot
	FormatDescriptor  = metadata.FormatDescriptor
	Best              = metadata.Best
	Stream            = metadata.Stream
	Content           = metadata.Content
	CodecDescriptor   = metadata.CodecDescriptor
	UnknownContent    = metadata.UnknownContent
	AudioContent      = metadata.AudioContent
	VideoContent      = metadata.VideoContent
	DataContent       = metadata.DataContent
	SubtitleContent   = metadata.SubtitleContent
	AttachmentContent = metadata.AttachmentContent
	MediaKind         = metadata.MediaKind
	Rational          = metadata.Rational
	Disposition       = metadata.Disposition

	FormatHandle    = metadata.FormatHandle
	StreamHandle    = metadata.StreamHandle
	CodecParameters = metadata.CodecParameters
)

const (
	KindUnknown    = metadata.KindUnknown
	KindVideo      = metadata.KindVideo
	KindAudio      = metadata.KindAudio
	KindData       = metadata.KindData
	KindSubtitle   = metadata.KindSubtitle
	KindAttachment = metadata.KindAttachment
)

// Project converts a live handle into a Snapshot. See metadata.Project.
func Project(h FormatHandle) (*Snapshot, error) {
	return metadata.Project(h)
}

// Encode writes s as JSON. An empty indent writes a single line.
func Encode(w io.Writer, s *Snapshot, indent string) error {
	return metadata.Encode(w, s, indent)
}

// Decode reads a Snapshot written by Encode.
func Decode(data []byte) (*Snapshot, error) {
	return metadata.Decode(data)
}

// Prober opens files with ffprobe and projects them into snapshots.
type Prober struct {
	config *config.Config
	store  *cache.Store
	runID  string
}

// Result is the outcome for one file of a batch.
type Result struct {
	Path     string
	Snapshot *Snapshot
	Cached   bool
	Err      error
}

// BatchResult contains the result of a batch probe.
type BatchResult struct {
	Results         []Result
	SuccessfulCount int
	FailedCount     int
	CachedCount     int
	TotalFiles      int
}

// Option configures the prober.
type Option func(*config.Config)

// New creates a Prober with the given options. The snapshot cache is off
// unless WithCache is given.
func New(opts ...Option) (*Prober, error) {
	cfg := config.NewConfig()
	cfg.Cache.Enabled = false

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Prober{config: cfg, runID: uuid.NewString()}
	if cfg.Cache.Enabled {
		dir, err := config.ExpandPath(cfg.Cache.Dir)
		if err != nil {
			return nil, err
		}
		store, err := cache.Open(context.Background(), dir)
		if err != nil {
			return nil, err
		}
		p.store = store
	}
	return p, nil
}

// WithFFprobePath sets the ffprobe executable.
func WithFFprobePath(path string) Option {
	return func(c *config.Config) {
		c.FFprobe.Path = path
	}
}

// WithTimeout bounds a single ffprobe run. The value is rounded up to whole
// seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *config.Config) {
		secs := int((d + time.Second - 1) / time.Second)
		c.FFprobe.TimeoutSeconds = secs
	}
}

// WithCache enables the snapshot cache stored in dir.
func WithCache(dir string) Option {
	return func(c *config.Config) {
		c.Cache.Enabled = true
		c.Cache.Dir = dir
	}
}

// WithWorkers sets how many files ProbeBatch probes concurrently.
func WithWorkers(n int) Option {
	return func(c *config.Config) {
		c.Scan.Workers = n
	}
}

// WithLogger replaces the package-wide logger used by the prober, batch
// processing and cache.
func WithLogger(l *slog.Logger) Option {
	return func(*config.Config) {
		if l != nil {
			logging.SetGlobal(&logging.Logger{Logger: l})
		}
	}
}

// Close releases the snapshot cache.
func (p *Prober) Close() error {
	if p.store == nil {
		return nil
	}
	err := p.store.Close()
	p.store = nil
	return err
}

func (p *Prober) snapshotStore() processing.SnapshotStore {
	if p.store == nil {
		return nil
	}
	return p.store
}

// Probe opens path and returns its snapshot.
func (p *Prober) Probe(ctx context.Context, path string) (*Snapshot, error) {
	settings := processing.Settings{
		FFprobePath: p.config.FFprobe.Path,
		Timeout:     p.config.Timeout(),
	}
	res := processing.ProbeFile(ctx, settings, path, p.snapshotStore(), p.runID)
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Snapshot, nil
}

// ProbeBatch probes paths concurrently. Results keep the order of paths; a
// file that fails is recorded in its Result and does not stop the others.
// handler may be nil.
func (p *Prober) ProbeBatch(ctx context.Context, paths []string, handler EventHandler) (*BatchResult, error) {
	var rep reporter.Reporter = reporter.NullReporter{}
	if handler != nil {
		rep = newEventReporter(handler)
	}

	results, err := processing.ProbeFiles(ctx, p.config, paths, p.snapshotStore(), rep,
		processing.BatchOptions{RunID: p.runID})

	batch := &BatchResult{TotalFiles: len(paths)}
	for _, r := range results {
		batch.Results = append(batch.Results, Result{
			Path:     r.Path,
			Snapshot: r.Snapshot,
			Cached:   r.Cached,
			Err:      r.Err,
		})
		if r.Err != nil {
			batch.FailedCount++
			continue
		}
		batch.SuccessfulCount++
		if r.Cached {
			batch.CachedCount++
		}
	}
	return batch, err
}

// FindMedia lists media files in dir, descending into subdirectories when
// recursive is set.
func FindMedia(dir string, recursive bool) ([]string, error) {
	result, err := discovery.FindMediaFiles(dir, recursive)
	if err != nil {
		return nil, err
	}
	return result.Files, nil
}
