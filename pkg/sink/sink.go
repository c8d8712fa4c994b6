package sink

// Sink receives snapshot rows in emit order.
// This helps decouple the replay loop from specific destinations
// like files, Kafka or Redis.
type Sink interface {
	WriteHeader(header string) error
	WriteRow(row string) error
	Close() error
}

// CaptureSink is an in-memory implementation of Sink for testing.
type CaptureSink struct {
	Header string
	Rows   []string
	Closed bool
}

// NewCaptureSink creates a new CaptureSink.
func NewCaptureSink() *CaptureSink {
	return &CaptureSink{}
}

// WriteHeader records the header.
func (c *CaptureSink) WriteHeader(header string) error {
	c.Header = header
	return nil
}

// WriteRow records the row.
func (c *CaptureSink) WriteRow(row string) error {
	c.Rows = append(c.Rows, row)
	return nil
}

// Close marks the sink closed.
func (c *CaptureSink) Close() error {
	c.Closed = true
	return nil
}

// Ensure CaptureSink implements Sink
var _ Sink = (*CaptureSink)(nil)
