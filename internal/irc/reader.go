package irc

import (
	"io"
	"strings"

	"github.com/ergochat/irc-go/ircreader"
)

const (
	readInitialSize = 1024
	// Servers with message tags can exceed MaxLineLength on input.
	readMaxSize = 8192 + MaxLineLength
)

// lineReader frames the byte stream into text lines.
type lineReader struct {
	r ircreader.Reader
}

func newLineReader(conn io.Reader) *lineReader {
	lr := &lineReader{}
	lr.r.Initialize(conn, readInitialSize, readMaxSize)
	return lr
}

// next returns the next non-empty line without its terminator.
func (lr *lineReader) next() (string, error) {
	for {
		b, err := lr.r.ReadLine()
		if err != nil {
			return "", err
		}
		line := strings.TrimRight(string(b), "\r\n")
		if line != "" {
			linesReceived.Inc()
			return line, nil
		}
	}
}
