package core_test

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/nikolaydubina/fpdecimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erain9/booksnap/pkg/backend/memory"
	"github.com/erain9/booksnap/pkg/core"
)

func fp(t *testing.T, s string) fpdecimal.Decimal {
	t.Helper()
	d, err := fpdecimal.FromString(s)
	require.NoError(t, err)
	return d
}

func newBook() *core.Book {
	return core.NewBook(memory.NewMemoryBackend())
}

// fields splits a snapshot row; index 0 is the timestamp, bids span
// 1..20, asks 21..40
func fields(t *testing.T, row string) []string {
	t.Helper()
	f := strings.Split(row, ",")
	require.Len(t, f, 41)
	return f
}

func TestAddSingleBid(t *testing.T) {
	book := newBook()
	book.Add(101, core.Bid, fp(t, "100.50"), 10)

	f := fields(t, book.Snapshot("t0", 10))
	assert.Equal(t, "t0", f[0])
	assert.Equal(t, "100.50", f[1])
	assert.Equal(t, "10", f[2])
	for _, other := range f[3:] {
		assert.Empty(t, other)
	}
}

func TestAddBothSides(t *testing.T) {
	book := newBook()
	book.Add(101, core.Bid, fp(t, "100.50"), 10)
	book.Add(102, core.Ask, fp(t, "101.00"), 20)

	f := fields(t, book.Snapshot("t1", 10))
	assert.Equal(t, "100.50", f[1])
	assert.Equal(t, "10", f[2])
	assert.Equal(t, "101.00", f[21])
	assert.Equal(t, "20", f[22])
}

func TestCancelRemovesLevel(t *testing.T) {
	book := newBook()
	book.Add(101, core.Bid, fp(t, "100.50"), 10)
	book.Add(102, core.Ask, fp(t, "101.00"), 20)
	book.Cancel(101)

	f := fields(t, book.Snapshot("t2", 10))
	for _, bid := range f[1:21] {
		assert.Empty(t, bid)
	}
	assert.Equal(t, "101.00", f[21])
	assert.Equal(t, "20", f[22])
}

func TestPartialFill(t *testing.T) {
	book := newBook()
	book.Add(101, core.Bid, fp(t, "100.50"), 10)
	book.Fill(101, 4)

	f := fields(t, book.Snapshot("t3", 10))
	assert.Equal(t, "100.50", f[1])
	assert.Equal(t, "6", f[2])
}

func TestFullFillRemovesOrder(t *testing.T) {
	book := newBook()
	book.Add(101, core.Bid, fp(t, "100.50"), 10)
	book.Fill(101, 10)

	f := fields(t, book.Snapshot("t4", 10))
	for _, bid := range f[1:21] {
		assert.Empty(t, bid)
	}

	// The order is gone from the registry too: a second fill is inert
	book.Fill(101, 5)
	f = fields(t, book.Snapshot("t5", 10))
	assert.Empty(t, f[1])
}

func TestSameLevelAggregation(t *testing.T) {
	book := newBook()
	book.Add(2, core.Bid, fp(t, "99.50"), 15)
	book.Add(5, core.Bid, fp(t, "99.50"), 30)

	f := fields(t, book.Snapshot("t6", 10))
	assert.Equal(t, "99.50", f[1])
	assert.Equal(t, "45", f[2])
	assert.Empty(t, f[3])
}

func TestAddRejected(t *testing.T) {
	book := newBook()
	book.Add(0, core.Bid, fp(t, "100.00"), 10)
	book.Add(7, core.Bid, fp(t, "100.00"), 0)
	book.Add(8, core.Bid, fp(t, "100.00"), -3)

	f := fields(t, book.Snapshot("t7", 10))
	for _, other := range f[1:] {
		assert.Empty(t, other)
	}

	// Rejected adds never entered the registry
	book.Cancel(7)
	book.Fill(8, 1)
}

func TestUnknownReferencesIgnored(t *testing.T) {
	book := newBook()
	book.Add(1, core.Bid, fp(t, "100.00"), 10)

	book.Cancel(999)
	book.Fill(999, 5)
	book.Fill(1, 0)
	book.Fill(1, -2)

	f := fields(t, book.Snapshot("t8", 10))
	assert.Equal(t, "100.00", f[1])
	assert.Equal(t, "10", f[2])
}

func TestResetClearsEverything(t *testing.T) {
	book := newBook()
	for i := uint64(1); i <= 5; i++ {
		book.Add(i, core.Bid, fp(t, fmt.Sprintf("%d.25", 90+i)), int64(i*10))
		book.Add(100+i, core.Ask, fp(t, fmt.Sprintf("%d.75", 100+i)), int64(i*10))
	}

	book.Reset()

	f := fields(t, book.Snapshot("t9", 10))
	for _, other := range f[1:] {
		assert.Empty(t, other)
	}

	// Orders from before the reset are unknown now
	book.Cancel(3)
	book.Fill(101, 5)
	f = fields(t, book.Snapshot("t10", 10))
	for _, other := range f[1:] {
		assert.Empty(t, other)
	}
}

func TestResetOnEmptyBook(t *testing.T) {
	book := newBook()
	book.Reset()
	book.Reset()

	f := fields(t, book.Snapshot("t11", 10))
	for _, other := range f[1:] {
		assert.Empty(t, other)
	}
}

// An add with an unknown side occupies a registry slot but never
// touches a level; it stays invisible until canceled or filled.
func TestUnknownSideAdd(t *testing.T) {
	book := newBook()
	book.Add(50, core.SideUnknown, fp(t, "100.00"), 10)

	f := fields(t, book.Snapshot("t12", 10))
	for _, other := range f[1:] {
		assert.Empty(t, other)
	}

	// Still cancelable by id without disturbing the book
	book.Cancel(50)
	f = fields(t, book.Snapshot("t13", 10))
	for _, other := range f[1:] {
		assert.Empty(t, other)
	}
}

func TestSideOrdering(t *testing.T) {
	book := newBook()
	// Insert out of price order on both sides
	book.Add(1, core.Bid, fp(t, "99.00"), 1)
	book.Add(2, core.Bid, fp(t, "101.00"), 2)
	book.Add(3, core.Bid, fp(t, "100.00"), 3)
	book.Add(4, core.Ask, fp(t, "103.00"), 4)
	book.Add(5, core.Ask, fp(t, "101.50"), 5)
	book.Add(6, core.Ask, fp(t, "102.00"), 6)

	bids := book.BidLevels(10)
	require.Len(t, bids, 3)
	assert.Equal(t, "101.00", core.FormatPrice(bids[0].Price))
	assert.Equal(t, "100.00", core.FormatPrice(bids[1].Price))
	assert.Equal(t, "99.00", core.FormatPrice(bids[2].Price))

	asks := book.AskLevels(10)
	require.Len(t, asks, 3)
	assert.Equal(t, "101.50", core.FormatPrice(asks[0].Price))
	assert.Equal(t, "102.00", core.FormatPrice(asks[1].Price))
	assert.Equal(t, "103.00", core.FormatPrice(asks[2].Price))
}

func TestFillDepletesSharedLevel(t *testing.T) {
	book := newBook()
	book.Add(1, core.Ask, fp(t, "101.00"), 10)
	book.Add(2, core.Ask, fp(t, "101.00"), 20)

	book.Fill(1, 10)
	f := fields(t, book.Snapshot("t14", 10))
	assert.Equal(t, "101.00", f[21])
	assert.Equal(t, "20", f[22])

	book.Cancel(2)
	f = fields(t, book.Snapshot("t15", 10))
	for _, ask := range f[21:] {
		assert.Empty(t, ask)
	}
}

func TestApplyDispatch(t *testing.T) {
	book := newBook()
	book.Apply(core.Event{Action: core.ActionAdd, OrderID: 1, Side: core.Bid, Price: fp(t, "100.50"), Size: 10})
	book.Apply(core.Event{Action: core.ActionFill, OrderID: 1, Size: 4})

	f := fields(t, book.Snapshot("t16", 10))
	assert.Equal(t, "100.50", f[1])
	assert.Equal(t, "6", f[2])

	book.Apply(core.Event{Action: core.ActionReset})
	f = fields(t, book.Snapshot("t17", 10))
	for _, other := range f[1:] {
		assert.Empty(t, other)
	}
}

// Replays a random event stream against a naive reference model and
// checks that every level's aggregate equals the sum of live order
// sizes at that price, and that no non-positive level survives.
func TestLevelAggregateInvariant(t *testing.T) {
	type refOrder struct {
		side  core.Side
		price string
		size  int64
	}

	book := newBook()
	ref := make(map[uint64]*refOrder)
	r := rand.New(rand.NewSource(7))
	nextID := uint64(1)

	ids := func() []uint64 {
		out := make([]uint64, 0, len(ref))
		for id := range ref {
			out = append(out, id)
		}
		return out
	}

	for i := 0; i < 5000; i++ {
		switch roll := r.Float64(); {
		case roll < 0.5 || len(ref) == 0:
			side := core.Bid
			if r.Intn(2) == 1 {
				side = core.Ask
			}
			price := fmt.Sprintf("%d.%02d", 95+r.Intn(10), r.Intn(100))
			size := int64(1 + r.Intn(50))
			id := nextID
			nextID++
			book.Add(id, side, fp(t, price), size)
			ref[id] = &refOrder{side: side, price: core.FormatPrice(fp(t, price)), size: size}
		case roll < 0.75:
			live := ids()
			id := live[r.Intn(len(live))]
			book.Cancel(id)
			delete(ref, id)
		default:
			live := ids()
			id := live[r.Intn(len(live))]
			fill := int64(1 + r.Intn(int(ref[id].size)))
			book.Fill(id, fill)
			ref[id].size -= fill
			if ref[id].size <= 0 {
				delete(ref, id)
			}
		}
	}

	expected := map[core.Side]map[string]int64{
		core.Bid: {},
		core.Ask: {},
	}
	for _, o := range ref {
		expected[o.side][o.price] += o.size
	}

	check := func(side core.Side, levels []core.Level) {
		got := map[string]int64{}
		for _, lv := range levels {
			require.Positive(t, lv.Size)
			got[core.FormatPrice(lv.Price)] = lv.Size
		}
		assert.Equal(t, expected[side], got)
	}
	check(core.Bid, book.BidLevels(10000))
	check(core.Ask, book.AskLevels(10000))
}
