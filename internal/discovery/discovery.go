// Package discovery finds probeable media files.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	errs "github.com/five82/avmeta/internal/errors"
	"github.com/five82/avmeta/internal/logging"
	"github.com/five82/avmeta/internal/util"
)

// DiscoveryResult contains the results of file discovery with metadata.
type DiscoveryResult struct {
	Files        []string
	SkippedCount int
}

// FindMediaFiles finds media files in dir, descending into subdirectories
// when recursive is set. Hidden files and directories are skipped. Files are
// sorted case-insensitively by path relative to dir.
func FindMediaFiles(dir string, recursive bool) (*DiscoveryResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errs.NewPathError("directory does not exist: " + dir)
	}
	if !info.IsDir() {
		return nil, errs.NewPathError(dir + " is not a directory")
	}

	result := &DiscoveryResult{}
	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errs.NewIOError("cannot read "+path, err)
		}
		if path == dir {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if util.IsMediaFile(path) {
			result.Files = append(result.Files, path)
		} else {
			result.SkippedCount++
		}
		return nil
	}
	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, err
	}

	if len(result.Files) == 0 {
		return nil, errs.NewNoFilesFoundError(dir)
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return strings.ToLower(result.Files[i]) < strings.ToLower(result.Files[j])
	})

	logDiscoveredFiles(result)
	return result, nil
}

// logDiscoveredFiles logs the first 5 discovered files plus a count.
func logDiscoveredFiles(result *DiscoveryResult) {
	logging.Info("Discovered media files", "count", len(result.Files), "skipped", result.SkippedCount)

	maxToLog := min(5, len(result.Files))
	for i := 0; i < maxToLog; i++ {
		logging.Debug("Discovered file", "path", filepath.Base(result.Files[i]))
	}
	if len(result.Files) > 5 {
		logging.Debug("More files discovered", "remaining", len(result.Files)-5)
	}
}
