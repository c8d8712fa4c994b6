package feed

import (
	"bufio"
	"io"
)

// maxLineSize bounds a single input record. Feed lines are short; 1MB
// leaves room for vendor extensions.
const maxLineSize = 1 << 20

// LineReader yields input records one line at a time
type LineReader struct {
	scanner *bufio.Scanner
}

// NewLineReader wraps r for line-by-line reading
func NewLineReader(r io.Reader) *LineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &LineReader{scanner: scanner}
}

// Next returns the next line without its terminator, and false once
// the input is exhausted
func (lr *LineReader) Next() (string, bool) {
	if !lr.scanner.Scan() {
		return "", false
	}
	return lr.scanner.Text(), true
}

// Err reports any underlying read error
func (lr *LineReader) Err() error {
	return lr.scanner.Err()
}
