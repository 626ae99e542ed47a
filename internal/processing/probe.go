// Package processing probes media files and projects them into snapshots,
// one at a time or as a bounded concurrent batch.
package processing

import (
	"context"
	"errors"
	"time"

	errs "github.com/five82/avmeta/internal/errors"
	"github.com/five82/avmeta/internal/ffprobe"
	"github.com/five82/avmeta/internal/logging"
	"github.com/five82/avmeta/internal/metadata"
	"github.com/five82/avmeta/internal/util"
)

// SnapshotStore persists snapshots keyed by file path and content stamp.
// *cache.Store implements it.
type SnapshotStore interface {
	Get(ctx context.Context, path string, size int64, modTime time.Time) (*metadata.Snapshot, bool, error)
	Put(ctx context.Context, path string, size int64, modTime time.Time, snap *metadata.Snapshot, runID string) error
	Delete(ctx context.Context, path string) error
}

// Settings controls how a single file is probed.
type Settings struct {
	FFprobePath string
	Timeout     time.Duration
}

// ProbeResult is the outcome for one file. Exactly one of Snapshot and Err
// is set.
type ProbeResult struct {
	Path     string
	Size     int64
	Snapshot *metadata.Snapshot
	Cached   bool
	Elapsed  time.Duration
	Err      error
}

// ProbeFile resolves path to a snapshot, consulting store first when it is
// non-nil. Cache failures are logged and never fail the probe.
func ProbeFile(ctx context.Context, settings Settings, path string, store SnapshotStore, runID string) ProbeResult {
	log := logging.Global().Component("processing")
	start := time.Now()
	result := ProbeResult{Path: path}
	finish := func(err error) ProbeResult {
		result.Err = err
		result.Elapsed = time.Since(start)
		return result
	}
	// A file that no longer projects must not keep serving an old entry.
	invalidate := func() {
		if store == nil || isCancellation(result.Err) {
			return
		}
		if err := store.Delete(ctx, result.Path); err != nil {
			log.Warn("cache invalidation failed", "path", result.Path, "error", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return finish(errs.NewCancelledError(err))
	}

	stamp, err := util.StatFile(path)
	if err != nil {
		return finish(errs.NewIOError("cannot stat "+path, err))
	}
	result.Path = stamp.Path
	result.Size = stamp.Size

	if store != nil {
		snap, ok, err := store.Get(ctx, stamp.Path, stamp.Size, stamp.ModTime)
		switch {
		case err != nil:
			log.Warn("cache lookup failed", "path", stamp.Path, "error", err)
		case ok:
			log.Debug("cache hit", "path", stamp.Path, "streams", len(snap.Streams))
			result.Snapshot = snap
			result.Cached = true
			return finish(nil)
		}
	}

	probeCtx := ctx
	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}

	h, err := ffprobe.Open(probeCtx, settings.FFprobePath, stamp.Path)
	if err != nil {
		if ctx.Err() != nil && !errs.IsCancelled(err) {
			return finish(errs.NewCancelledError(ctx.Err()))
		}
		res := finish(err)
		invalidate()
		return res
	}

	snap, err := metadata.Project(h)
	if err != nil {
		res := finish(err)
		invalidate()
		return res
	}
	result.Snapshot = snap
	log.Debug("projected",
		"path", stamp.Path,
		"format", snap.Format.Name,
		"streams", len(snap.Streams),
		"duration", h.DurationSeconds(),
		"bytes", h.SizeBytes())

	if store != nil {
		if err := store.Put(ctx, stamp.Path, stamp.Size, stamp.ModTime, snap, runID); err != nil {
			log.Warn("cache store failed", "path", stamp.Path, "error", err)
		}
	}
	return finish(nil)
}

// isCancellation reports whether err stems from the caller giving up.
func isCancellation(err error) bool {
	return errs.IsCancelled(err) || errors.Is(err, context.Canceled)
}
