package feed

import (
	"strconv"

	"github.com/nikolaydubina/fpdecimal"

	"github.com/erain9/booksnap/pkg/core"
)

// Fixed zero-based field positions in an MBO record
const (
	fieldTimestamp = 1
	fieldAction    = 5
	fieldSide      = 6
	fieldPrice     = 7
	fieldSize      = 8
	fieldOrderID   = 10

	minFields = 11
)

// Decoder turns raw delimited records into events. Parsing is
// deliberately permissive: numeric fields that fail to parse degrade
// to zero and the record still decodes. The field buffer is reused
// across calls, so a Decoder belongs to one goroutine.
type Decoder struct {
	fields    []string
	malformed uint64
}

// NewDecoder creates a Decoder with a preallocated field buffer
func NewDecoder() *Decoder {
	return &Decoder{
		fields: make([]string, 0, 16),
	}
}

// Decode parses one raw record. It returns false for records with
// fewer than 11 fields; it never returns an error.
func (d *Decoder) Decode(line string) (core.Event, bool) {
	d.fields = SplitFields(line, d.fields[:0])
	if len(d.fields) < minFields {
		return core.Event{}, false
	}

	return core.Event{
		Timestamp: d.fields[fieldTimestamp],
		Action:    parseAction(d.fields[fieldAction]),
		Side:      parseSide(d.fields[fieldSide]),
		OrderID:   d.parseOrderID(d.fields[fieldOrderID]),
		Price:     d.parsePrice(d.fields[fieldPrice]),
		Size:      d.parseSize(d.fields[fieldSize]),
	}, true
}

// MalformedFields reports how many non-empty numeric fields failed to
// parse and were defaulted to zero
func (d *Decoder) MalformedFields() uint64 {
	return d.malformed
}

// SplitFields splits s on commas into buf. The returned fields are
// substrings sharing s's backing array; nothing is copied.
func SplitFields(s string, buf []string) []string {
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			buf = append(buf, s[start:i])
			start = i + 1
		}
	}
	return append(buf, s[start:])
}

func parseAction(s string) core.Action {
	switch s {
	case "A":
		return core.ActionAdd
	case "C":
		return core.ActionCancel
	case "F":
		return core.ActionFill
	case "R":
		return core.ActionReset
	default:
		return core.ActionOther
	}
}

func parseSide(s string) core.Side {
	switch s {
	case "B":
		return core.Bid
	case "A":
		return core.Ask
	default:
		return core.SideUnknown
	}
}

func (d *Decoder) parseOrderID(s string) uint64 {
	if s == "" {
		return 0
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		d.malformed++
		return 0
	}
	return id
}

func (d *Decoder) parseSize(s string) int64 {
	if s == "" {
		return 0
	}
	size, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		d.malformed++
		return 0
	}
	return size
}

func (d *Decoder) parsePrice(s string) fpdecimal.Decimal {
	if s == "" {
		return fpdecimal.Zero
	}
	price, err := fpdecimal.FromString(s)
	if err != nil {
		d.malformed++
		return fpdecimal.Zero
	}
	return price
}
