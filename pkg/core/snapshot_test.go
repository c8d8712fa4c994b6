package core_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erain9/booksnap/pkg/core"
)

func TestHeader(t *testing.T) {
	header := core.Header(10)
	f := strings.Split(header, ",")
	assert.Len(t, f, 41)
	assert.Equal(t, "ts_event", f[0])
	assert.Equal(t, "bid_price_0", f[1])
	assert.Equal(t, "bid_size_0", f[2])
	assert.Equal(t, "bid_price_9", f[19])
	assert.Equal(t, "ask_price_0", f[21])
	assert.Equal(t, "ask_size_9", f[40])
}

func TestHeaderSmallDepth(t *testing.T) {
	assert.Equal(t, "ts_event,bid_price_0,bid_size_0,ask_price_0,ask_size_0", core.Header(1))
}

func TestFormatRowEmptyBook(t *testing.T) {
	row := core.FormatRow("1700000000", nil, nil, 10)
	assert.Equal(t, "1700000000"+strings.Repeat(",,", 20), row)
	assert.Len(t, strings.Split(row, ","), 41)
}

func TestFormatRowPadsShortSides(t *testing.T) {
	bids := []core.Level{
		{Price: fp(t, "100.50"), Size: 10},
		{Price: fp(t, "100.25"), Size: 7},
	}
	asks := []core.Level{
		{Price: fp(t, "101.00"), Size: 20},
	}

	row := core.FormatRow("ts", bids, asks, 10)
	f := strings.Split(row, ",")
	assert.Len(t, f, 41)
	assert.Equal(t, "100.50", f[1])
	assert.Equal(t, "10", f[2])
	assert.Equal(t, "100.25", f[3])
	assert.Equal(t, "7", f[4])
	assert.Empty(t, f[5])
	assert.Equal(t, "101.00", f[21])
	assert.Equal(t, "20", f[22])
	assert.Empty(t, f[23])
}

func TestFormatRowTruncatesOverfullSides(t *testing.T) {
	levels := make([]core.Level, 12)
	for i := range levels {
		levels[i] = core.Level{Price: fp(t, "100.00"), Size: int64(i + 1)}
	}

	row := core.FormatRow("ts", levels, nil, 10)
	f := strings.Split(row, ",")
	assert.Len(t, f, 41)
	assert.Equal(t, "10", f[20]) // size of the 10th bid level
}

func TestFormatPrice(t *testing.T) {
	cases := map[string]string{
		"100.50":  "100.50",
		"100.5":   "100.50",
		"100":     "100.00",
		"0":       "0.00",
		"7.025":   "7.02",
		"1234.99": "1234.99",
	}
	for in, want := range cases {
		assert.Equal(t, want, core.FormatPrice(fp(t, in)), "input %s", in)
	}
}
