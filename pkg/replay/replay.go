package replay

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/rs/zerolog"

	"github.com/erain9/booksnap/pkg/core"
	"github.com/erain9/booksnap/pkg/feed"
	"github.com/erain9/booksnap/pkg/otel"
	"github.com/erain9/booksnap/pkg/sink"
)

// Stats counts what happened during one replay run
type Stats struct {
	Adds       uint64
	Cancels    uint64
	Fills      uint64
	Resets     uint64
	Ignored    uint64 // decoded, action not relevant to the book
	Skipped    uint64 // short or malformed records
	Suppressed uint64 // bootstrap reset marker
	Snapshots  uint64
}

// Option configures a Replayer
type Option func(*Replayer)

// WithDepth sets the snapshot depth (default 10)
func WithDepth(depth int) Option {
	return func(r *Replayer) {
		r.depth = depth
	}
}

// WithSinks adds best-effort secondary sinks. Failures on them are
// logged and never abort the run.
func WithSinks(sinks ...sink.Sink) Option {
	return func(r *Replayer) {
		r.extras = append(r.extras, sinks...)
	}
}

// WithProfile enables the per-event apply latency histogram
func WithProfile() Option {
	return func(r *Replayer) {
		r.hist = hdrhistogram.New(1, int64(10*time.Second), 3)
	}
}

// WithMetrics attaches run counters; nil records nothing
func WithMetrics(m *otel.RunMetrics) Option {
	return func(r *Replayer) {
		r.metrics = m
	}
}

// WithLogger sets the run logger
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Replayer) {
		r.logger = logger
	}
}

// Replayer drives one input stream through the book: decode, apply,
// snapshot, append to the primary sink. Strictly single-threaded and
// in arrival order.
type Replayer struct {
	book    *core.Book
	decoder *feed.Decoder
	primary sink.Sink
	extras  []sink.Sink
	depth   int
	hist    *hdrhistogram.Histogram
	metrics *otel.RunMetrics
	logger  zerolog.Logger
	stats   Stats
}

// New creates a Replayer writing to the primary sink
func New(book *core.Book, primary sink.Sink, opts ...Option) *Replayer {
	r := &Replayer{
		book:    book,
		decoder: feed.NewDecoder(),
		primary: primary,
		depth:   10,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run consumes the input until exhaustion. The first input line is
// the feed header and is discarded. Per-event edge conditions degrade
// to no-ops; the only errors are input reads and primary sink writes.
func (r *Replayer) Run(ctx context.Context, input io.Reader) error {
	header := core.Header(r.depth)
	if err := r.primary.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range r.extras {
		if err := s.WriteHeader(header); err != nil {
			r.logger.Warn().Err(err).Msg("Secondary sink rejected header")
		}
	}

	lines := feed.NewLineReader(input)
	lines.Next() // feed header

	first := true
	for {
		line, ok := lines.Next()
		if !ok {
			break
		}

		ev, ok := r.decoder.Decode(line)
		if !ok {
			r.stats.Skipped++
			r.metrics.RecordSkipped(ctx)
			continue
		}

		isFirst := first
		first = false

		if ev.Action == core.ActionOther {
			r.stats.Ignored++
			r.metrics.RecordSkipped(ctx)
			continue
		}

		// A reset leading the stream is a startup marker, not book
		// state: no application, no snapshot.
		if isFirst && ev.Action == core.ActionReset {
			r.stats.Suppressed++
			continue
		}

		r.apply(ev)
		r.metrics.RecordEvent(ctx, ev.Action.String())

		row := r.book.Snapshot(ev.Timestamp, r.depth)
		if err := r.primary.WriteRow(row); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		for _, s := range r.extras {
			if err := s.WriteRow(row); err != nil {
				r.logger.Warn().Err(err).Msg("Secondary sink rejected snapshot")
			}
		}
		r.stats.Snapshots++
		r.metrics.RecordSnapshot(ctx)
	}

	if err := lines.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	r.logSummary()
	return nil
}

// Stats returns the counters for the finished run
func (r *Replayer) Stats() Stats {
	return r.stats
}

func (r *Replayer) apply(ev core.Event) {
	var start time.Time
	if r.hist != nil {
		start = time.Now()
	}

	r.book.Apply(ev)

	if r.hist != nil {
		_ = r.hist.RecordValue(int64(time.Since(start)))
	}

	switch ev.Action {
	case core.ActionAdd:
		r.stats.Adds++
	case core.ActionCancel:
		r.stats.Cancels++
	case core.ActionFill:
		r.stats.Fills++
	case core.ActionReset:
		r.stats.Resets++
	}
}

func (r *Replayer) logSummary() {
	r.logger.Info().
		Uint64("adds", r.stats.Adds).
		Uint64("cancels", r.stats.Cancels).
		Uint64("fills", r.stats.Fills).
		Uint64("resets", r.stats.Resets).
		Uint64("ignored", r.stats.Ignored).
		Uint64("skipped", r.stats.Skipped).
		Uint64("snapshots", r.stats.Snapshots).
		Uint64("malformed_fields", r.decoder.MalformedFields()).
		Msg("Replay complete")

	if r.hist != nil {
		r.logger.Info().
			Int64("p50_ns", r.hist.ValueAtQuantile(50)).
			Int64("p99_ns", r.hist.ValueAtQuantile(99)).
			Int64("max_ns", r.hist.Max()).
			Msg("Apply latency")
	}
}
