package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunLog is a logger backed by a timestamped file for one CLI run.
type RunLog struct {
	*Logger
	file     *os.File
	filePath string
}

// Setup creates a logger that writes to a timestamped log file in logDir
// and installs it as the global logger. Returns nil if logging is disabled
// (noLog=true).
func Setup(logDir string, verbose, noLog bool) (*RunLog, error) {
	if noLog {
		return nil, nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("avmeta_run_%s.log", timestamp)
	filePath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", filePath, err)
	}

	level := LevelInfo
	if verbose {
		level = LevelDebug
	}

	l := &RunLog{
		Logger:   New(Config{Level: level, Output: file, Enabled: true}),
		file:     file,
		filePath: filePath,
	}
	SetGlobal(l.Logger)

	l.Info("avmeta starting", "log_file", filePath, "verbose", verbose)
	return l, nil
}

// Close closes the log file.
func (l *RunLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// FilePath returns the path to the log file.
func (l *RunLog) FilePath() string {
	if l == nil {
		return ""
	}
	return l.filePath
}
