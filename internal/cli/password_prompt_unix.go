//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"os"

	"golang.org/x/sys/unix"
)

// readPasswordNoEcho turns terminal echo off for one line of input.
func readPasswordNoEcho(stdin *os.File) (string, error) {
	if stdin == nil {
		return "", errStdinUnavailable
	}

	fd := int(stdin.Fd())
	termios, err := unix.IoctlGetTermios(fd, termiosReadRequest)
	if err != nil {
		return "", err
	}
	original := *termios
	silenced := original
	silenced.Lflag &^= unix.ECHO

	if err := unix.IoctlSetTermios(fd, termiosWriteRequest, &silenced); err != nil {
		return "", err
	}
	defer func() {
		_ = unix.IoctlSetTermios(fd, termiosWriteRequest, &original)
	}()

	return readPromptLine(stdin)
}
