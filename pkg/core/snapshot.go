package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nikolaydubina/fpdecimal"
)

// Header returns the output header row for the given depth:
// ts_event,bid_price_0,bid_size_0,...,ask_price_N,ask_size_N
func Header(depth int) string {
	sb := strings.Builder{}
	sb.WriteString("ts_event")
	for i := 0; i < depth; i++ {
		fmt.Fprintf(&sb, ",bid_price_%d,bid_size_%d", i, i)
	}
	for i := 0; i < depth; i++ {
		fmt.Fprintf(&sb, ",ask_price_%d,ask_size_%d", i, i)
	}
	return sb.String()
}

// FormatRow serializes one snapshot: the timestamp verbatim, then depth
// bid pairs and depth ask pairs, best price first. Absent levels render
// as two consecutive empty fields, so a row always has 1+4*depth fields.
func FormatRow(timestamp string, bids, asks []Level, depth int) string {
	sb := strings.Builder{}
	sb.Grow(len(timestamp) + depth*16)
	sb.WriteString(timestamp)
	writeSide(&sb, bids, depth)
	writeSide(&sb, asks, depth)
	return sb.String()
}

func writeSide(sb *strings.Builder, levels []Level, depth int) {
	n := len(levels)
	if n > depth {
		n = depth
	}
	for i := 0; i < n; i++ {
		sb.WriteByte(',')
		sb.WriteString(FormatPrice(levels[i].Price))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatInt(levels[i].Size, 10))
	}
	for i := n; i < depth; i++ {
		sb.WriteString(",,")
	}
}

// FormatPrice renders a price with exactly 2 fractional digits. The
// decimal's own string form trims trailing zeros, so pad or cut the
// fractional part as needed.
func FormatPrice(price fpdecimal.Decimal) string {
	val := price.String()
	dot := strings.IndexByte(val, '.')
	if dot < 0 {
		return val + ".00"
	}
	frac := len(val) - dot - 1
	if frac < 2 {
		return val + strings.Repeat("0", 2-frac)
	}
	return val[:dot+3]
}
