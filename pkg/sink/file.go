package sink

import (
	"fmt"
	"os"
	"strings"
)

// FileSink accumulates the whole output in memory and writes it to
// the destination file in one flush on Close. Batching the write
// keeps I/O out of the per-event path; the destination is created
// up front so an unwritable path fails before any event processing.
type FileSink struct {
	file *os.File
	buf  strings.Builder
}

// NewFileSink creates the destination file
func NewFileSink(path string) (*FileSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &FileSink{file: file}, nil
}

// WriteHeader buffers the header row
func (f *FileSink) WriteHeader(header string) error {
	return f.WriteRow(header)
}

// WriteRow buffers one row
func (f *FileSink) WriteRow(row string) error {
	f.buf.WriteString(row)
	f.buf.WriteByte('\n')
	return nil
}

// Close flushes the buffered output and closes the file
func (f *FileSink) Close() error {
	if _, err := f.file.WriteString(f.buf.String()); err != nil {
		f.file.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	return f.file.Close()
}

// Ensure FileSink implements Sink
var _ Sink = (*FileSink)(nil)
