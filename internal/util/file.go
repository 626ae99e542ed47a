package util

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MediaExtensions is the list of file extensions considered probeable media.
var MediaExtensions = map[string]bool{
	// video containers
	".mkv":  true,
	".wmv":  true,
	".ts":   true,
	".avi":  true,
	".mp4":  true,
	".m4v":  true,
	".mpg":  true,
	".mpeg": true,
	".mov":  true,
	".webm": true,
	".flv":  true,
	".m2ts": true,
	".ogv":  true,
	".vob":  true,
	".mxf":  true,
	// audio
	".mka":  true,
	".m4a":  true,
	".m4b":  true,
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".ogg":  true,
	".opus": true,
	".aac":  true,
	".ac3":  true,
	".dts":  true,
	".wma":  true,
	".aiff": true,
	// subtitles
	".srt": true,
	".ass": true,
	".ssa": true,
	".vtt": true,
	".sup": true,
}

// IsMediaFile checks if the given path is a regular file with a media extension.
func IsMediaFile(path string) bool {
	if !MediaExtensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// GetFilename returns the filename from a path.
func GetFilename(path string) string {
	return filepath.Base(path)
}

// FileStamp identifies one version of a file's content for caching.
type FileStamp struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile returns the absolute path, size and modification time of path.
func StatFile(path string) (FileStamp, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileStamp{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return FileStamp{}, err
	}
	return FileStamp{Path: abs, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// EnsureDirectory creates a directory if it doesn't exist.
func EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0o755)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
