package util

import (
	"os"
	"runtime"
)

// SystemInfo contains information about the host system.
type SystemInfo struct {
	Hostname string
	NumCPU   int
	OS       string
	Arch     string
}

// GetSystemInfo collects system information.
func GetSystemInfo() SystemInfo {
	hostname, _ := os.Hostname()
	return SystemInfo{
		Hostname: hostname,
		NumCPU:   runtime.NumCPU(),
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
	}
}

// DefaultTerminalWidth is used when the output is not a terminal.
const DefaultTerminalWidth = 100

// TerminalWidth returns the column count of the terminal behind f, or
// DefaultTerminalWidth when it cannot be determined.
func TerminalWidth(f *os.File) int {
	if f == nil {
		return DefaultTerminalWidth
	}
	if cols := terminalColumns(int(f.Fd())); cols > 0 {
		return cols
	}
	return DefaultTerminalWidth
}
