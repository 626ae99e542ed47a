//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package util

func terminalColumns(int) int {
	return 0
}
