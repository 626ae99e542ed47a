//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package util

import "golang.org/x/sys/unix"

func terminalColumns(fd int) int {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0
	}
	return int(ws.Col)
}
