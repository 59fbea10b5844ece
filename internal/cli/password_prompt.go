package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

var errStdinUnavailable = errors.New("stdin unavailable")

func readPromptLine(stdin *os.File) (string, error) {
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
