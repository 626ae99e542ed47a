// Package cache persists snapshots in SQLite keyed by file path, size and
// modification time, so unchanged files are not probed again.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	errs "github.com/five82/avmeta/internal/errors"
	"github.com/five82/avmeta/internal/logging"
	"github.com/five82/avmeta/internal/metadata"
	"github.com/five82/avmeta/internal/util"
)

const (
	// DBName is the database file created in the cache directory.
	DBName = "snapshots.db"

	lockName          = "snapshots.lock"
	schemaLockTimeout = 10 * time.Second
	schemaLockRetry   = 50 * time.Millisecond

	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
        path           TEXT PRIMARY KEY,
        size           INTEGER NOT NULL,
        mod_time_ns    INTEGER NOT NULL,
        schema_version INTEGER NOT NULL,
        snapshot_json  TEXT NOT NULL,
        run_id         TEXT NOT NULL,
        stored_at      TEXT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_run_id ON snapshots(run_id)`,
}

// Store manages snapshot persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	log  *logging.Logger
}

// Stats summarizes the cache contents.
type Stats struct {
	Path    string
	Entries int64
	Runs    int64
	Bytes   int64
	Oldest  time.Time
	Newest  time.Time
}

// Open initializes or connects to the cache database in dir. Schema setup
// holds a file lock so concurrent processes do not race on it.
func Open(ctx context.Context, dir string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errs.NewCacheError("cache directory not set", nil)
	}
	if err := util.EnsureDirectory(dir); err != nil {
		return nil, errs.NewCacheError("create cache directory", err)
	}

	lock := flock.New(filepath.Join(dir, lockName))
	lockCtx, cancel := context.WithTimeout(ctx, schemaLockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, schemaLockRetry)
	if err != nil {
		return nil, errs.NewCacheError("acquire schema lock", err)
	}
	if !locked {
		return nil, errs.NewCacheError("acquire schema lock", errors.New("lock held by another process"))
	}
	defer func() { _ = lock.Unlock() }()

	dbPath := filepath.Join(dir, DBName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errs.NewCacheError("open sqlite db", err)
	}
	// Pragmas are per connection; a single connection keeps them applied.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, errs.NewCacheError(fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, errs.NewCacheError("create schema", err)
		}
	}

	s := &Store{
		db:   db,
		path: dbPath,
		log:  logging.Global().Component("cache"),
	}
	s.log.Debug("Cache opened", "path", dbPath)
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached snapshot for path when size and modTime match the
// stored entry. Stale, foreign-version and undecodable rows are misses.
func (s *Store) Get(ctx context.Context, path string, size int64, modTime time.Time) (*metadata.Snapshot, bool, error) {
	var (
		storedSize    int64
		storedModTime int64
		version       int
		payload       string
	)
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT size, mod_time_ns, schema_version, snapshot_json FROM snapshots WHERE path = ?`,
			path,
		).Scan(&storedSize, &storedModTime, &version, &payload)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.NewCacheError("get snapshot", err)
	}

	if storedSize != size || storedModTime != modTime.UnixNano() {
		s.log.Debug("Cache entry stale", "path", path)
		return nil, false, nil
	}
	if version != metadata.SchemaVersion {
		s.log.Debug("Cache entry has other schema version", "path", path, "version", version)
		return nil, false, nil
	}

	snap, err := metadata.Decode([]byte(payload))
	if err != nil {
		s.log.Warn("Cache entry corrupt", "path", path, "error", err)
		return nil, false, nil
	}
	return snap, true, nil
}

// Put stores snap for path, replacing any previous entry.
func (s *Store) Put(ctx context.Context, path string, size int64, modTime time.Time, snap *metadata.Snapshot, runID string) error {
	if snap == nil {
		return errs.NewCacheError("put snapshot", errors.New("nil snapshot"))
	}
	var buf strings.Builder
	if err := metadata.Encode(&buf, snap, ""); err != nil {
		return errs.NewCacheError("encode snapshot", err)
	}

	err := retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx,
			`INSERT INTO snapshots (path, size, mod_time_ns, schema_version, snapshot_json, run_id, stored_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)
             ON CONFLICT(path) DO UPDATE SET
                 size = excluded.size,
                 mod_time_ns = excluded.mod_time_ns,
                 schema_version = excluded.schema_version,
                 snapshot_json = excluded.snapshot_json,
                 run_id = excluded.run_id,
                 stored_at = excluded.stored_at`,
			path,
			size,
			modTime.UnixNano(),
			snap.Version,
			buf.String(),
			runID,
			time.Now().UTC().Format(time.RFC3339Nano),
		)
		return execErr
	})
	if err != nil {
		return errs.NewCacheError("put snapshot", err)
	}
	s.log.Debug("Cache entry stored", "path", path, "run_id", runID)
	return nil
}

// Delete removes the entry for path, if any.
func (s *Store) Delete(ctx context.Context, path string) error {
	err := retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE path = ?`, path)
		return execErr
	})
	if err != nil {
		return errs.NewCacheError("delete snapshot", err)
	}
	return nil
}

// Stats reports the number of entries, distinct runs and stored bytes.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: s.path}
	var oldest, newest sql.NullString
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT COUNT(*), COUNT(DISTINCT run_id), COALESCE(SUM(LENGTH(snapshot_json)), 0),
                    MIN(stored_at), MAX(stored_at)
             FROM snapshots`,
		).Scan(&stats.Entries, &stats.Runs, &stats.Bytes, &oldest, &newest)
	})
	if err != nil {
		return Stats{}, errs.NewCacheError("read stats", err)
	}
	stats.Oldest = parseTime(oldest)
	stats.Newest = parseTime(newest)
	return stats, nil
}

// Clear removes every entry and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, execErr := s.db.ExecContext(ctx, `DELETE FROM snapshots`)
		if execErr != nil {
			return execErr
		}
		removed, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		return 0, errs.NewCacheError("clear cache", err)
	}
	s.log.Info("Cache cleared", "entries", removed)
	return removed, nil
}

func parseTime(v sql.NullString) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
