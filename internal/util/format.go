// Package util provides utility functions for formatting and common operations.
package util

import (
	"fmt"
	"math"
)

const (
	KiB = 1024
	MiB = KiB * 1024
	GiB = MiB * 1024
)

// FormatBytes formats bytes with appropriate binary units (B, KiB, MiB, GiB).
func FormatBytes(bytes uint64) string {
	bf := float64(bytes)
	switch {
	case bf >= GiB:
		return fmt.Sprintf("%.2f GiB", bf/GiB)
	case bf >= MiB:
		return fmt.Sprintf("%.2f MiB", bf/MiB)
	case bf >= KiB:
		return fmt.Sprintf("%.2f KiB", bf/KiB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatDuration formats seconds as HH:MM:SS.
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "??:??:??"
	}

	totalSecs := int64(seconds)
	hours := totalSecs / 3600
	minutes := (totalSecs % 3600) / 60
	secs := totalSecs % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// FormatBitRate formats bits per second with decimal units (b/s, kb/s, Mb/s).
// Zero means unknown and renders as "-".
func FormatBitRate(bps int64) string {
	switch {
	case bps <= 0:
		return "-"
	case bps >= 1_000_000:
		return fmt.Sprintf("%.1f Mb/s", float64(bps)/1_000_000)
	case bps >= 1_000:
		return fmt.Sprintf("%d kb/s", bps/1_000)
	default:
		return fmt.Sprintf("%d b/s", bps)
	}
}

// FormatSampleRate formats a sample rate in kHz ("48 kHz", "44.1 kHz").
func FormatSampleRate(hz uint32) string {
	if hz == 0 {
		return "-"
	}
	if hz%1000 == 0 {
		return fmt.Sprintf("%d kHz", hz/1000)
	}
	return fmt.Sprintf("%.1f kHz", float64(hz)/1000)
}

// FormatFrameRate formats a frame rate given as a fraction ("23.976 fps").
func FormatFrameRate(num, den int64) string {
	if num <= 0 || den <= 0 {
		return "-"
	}
	fps := float64(num) / float64(den)
	if num%den == 0 {
		return fmt.Sprintf("%d fps", num/den)
	}
	return fmt.Sprintf("%.3f fps", fps)
}
