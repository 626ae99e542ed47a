package processing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/avmeta/internal/config"
	errs "github.com/five82/avmeta/internal/errors"
	"github.com/five82/avmeta/internal/logging"
	"github.com/five82/avmeta/internal/reporter"
	"github.com/five82/avmeta/internal/util"
	"github.com/five82/avmeta/internal/worker"
)

// BatchOptions describes a batch run.
type BatchOptions struct {
	// RunID tags cache entries written by this run. Generated when empty.
	RunID string
	// Directory is reported to the reporter only.
	Directory string
}

// ProbeFiles probes every file on a worker pool bounded by
// cfg.Scan.Workers. Results are returned in input order. A failing file is
// reported and recorded in its result without stopping the others.
// Cancelling ctx stops scheduling; files never started carry a cancelled
// error and ProbeFiles returns a cancelled error alongside the results.
func ProbeFiles(
	ctx context.Context,
	cfg *config.Config,
	files []string,
	store SnapshotStore,
	rep reporter.Reporter,
	opts BatchOptions,
) ([]ProbeResult, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	if cfg == nil {
		cfg = config.NewConfig()
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	log := logging.Global().Component("processing").With("run_id", runID)
	settings := Settings{FFprobePath: cfg.FFprobe.Path, Timeout: cfg.Timeout()}
	workers := cfg.Scan.Workers
	if workers > len(files) {
		workers = len(files)
	}
	start := time.Now()

	host := util.GetSystemInfo()
	rep.BatchStarted(reporter.BatchStartInfo{
		RunID:      runID,
		TotalFiles: len(files),
		Directory:  opts.Directory,
		Workers:    workers,
		Hostname:   host.Hostname,
		CPUs:       host.NumCPU,
	})
	log.Info("batch started", "files", len(files), "workers", workers)

	results := make([]ProbeResult, len(files))
	sem := worker.NewSemaphore(workers)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		progress = worker.Progress{FilesTotal: len(files)}
		started  int
	)

	scheduled := 0
	for i, path := range files {
		if err := sem.Acquire(ctx); err != nil {
			break
		}
		scheduled++

		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer sem.Release()

			mu.Lock()
			started++
			current := started
			mu.Unlock()
			rep.FileStarted(reporter.FileContext{Path: path, Current: current, Total: len(files)})

			res := ProbeFile(ctx, settings, path, store, runID)
			results[i] = res

			mu.Lock()
			if res.Err != nil {
				progress.FilesFailed++
			} else {
				progress.FilesComplete++
			}
			snapshot := progress
			mu.Unlock()

			if res.Err != nil {
				log.Warn("probe failed", "path", res.Path, "error", res.Err)
				rep.Error(reporter.ErrorFor(res.Path, res.Err))
			} else {
				rep.SnapshotReady(reporter.SnapshotResult{
					Path:     res.Path,
					Size:     res.Size,
					Snapshot: res.Snapshot,
					Cached:   res.Cached,
					Elapsed:  res.Elapsed,
				})
			}
			rep.Verbose(fmt.Sprintf("%d/%d files done (%.0f%%)", snapshot.Done(), snapshot.FilesTotal, snapshot.Percent()))
		}(i, path)
	}
	wg.Wait()

	for i := scheduled; i < len(files); i++ {
		results[i] = ProbeResult{Path: files[i], Err: errs.NewCancelledError(ctx.Err())}
	}

	summary := reporter.BatchSummary{
		RunID:         runID,
		TotalFiles:    len(files),
		TotalDuration: time.Since(start),
	}
	for _, res := range results {
		switch {
		case res.Err == nil:
			summary.SuccessfulCount++
			if res.Cached {
				summary.CachedCount++
			}
		case isCancellation(res.Err):
			summary.FailedCount++
		default:
			summary.FailedCount++
			summary.Failures = append(summary.Failures, reporter.FileFailure{Path: res.Path, Message: res.Err.Error()})
		}
	}
	rep.BatchComplete(summary)
	log.Info("batch complete",
		"succeeded", summary.SuccessfulCount,
		"failed", summary.FailedCount,
		"cached", summary.CachedCount,
		"duration", summary.TotalDuration)

	if err := ctx.Err(); err != nil {
		rep.Warning(fmt.Sprintf("Scan cancelled: %v", err))
		return results, errs.NewCancelledError(err)
	}
	return results, nil
}
