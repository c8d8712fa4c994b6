package core

import (
	"github.com/nikolaydubina/fpdecimal"
)

// Book replays MBO events against a backend and serves depth views.
// Every edge condition degrades to a no-op: a reconstruction must not
// abort mid-stream on a single malformed or out-of-order event.
type Book struct {
	backend BookBackend
}

// NewBook creates a Book over the given backend
func NewBook(backend BookBackend) *Book {
	return &Book{
		backend: backend,
	}
}

// Apply dispatches one decoded event to the matching operation.
// ActionOther is ignored by the caller and never reaches here, but is
// a no-op regardless.
func (b *Book) Apply(ev Event) {
	switch ev.Action {
	case ActionAdd:
		b.Add(ev.OrderID, ev.Side, ev.Price, ev.Size)
	case ActionCancel:
		b.Cancel(ev.OrderID)
	case ActionFill:
		b.Fill(ev.OrderID, ev.Size)
	case ActionReset:
		b.Reset()
	}
}

// Add inserts a new resting order and grows its price level.
// An order with id 0 or a non-positive size is dropped.
func (b *Book) Add(orderID uint64, side Side, price fpdecimal.Decimal, size int64) {
	if orderID == 0 || size <= 0 {
		return
	}

	// Last-write-wins on a duplicate id; well-formed feeds never reuse
	// a live id, so the prior level contribution is not retracted.
	b.backend.StoreOrder(NewOrder(orderID, side, price, size))

	// An unknown side takes a registry slot but touches no level. The
	// order stays invisible on the book until canceled or filled.
	if side == Bid || side == Ask {
		b.backend.AddToLevel(side, price, size)
	}
}

// Cancel removes an order and retracts its full remaining size from
// its price level. Unknown ids are ignored.
func (b *Book) Cancel(orderID uint64) {
	order := b.backend.GetOrder(orderID)
	if order == nil {
		return
	}

	if s := order.Side(); s == Bid || s == Ask {
		b.backend.ReduceLevel(s, order.Price(), order.Size())
	}
	b.backend.DeleteOrder(orderID)
}

// Fill executes size against an order. The level aggregate shrinks by
// the filled size whether or not the order is fully consumed; a fully
// consumed order leaves the registry.
func (b *Book) Fill(orderID uint64, size int64) {
	if size <= 0 {
		return
	}
	order := b.backend.GetOrder(orderID)
	if order == nil {
		return
	}

	if s := order.Side(); s == Bid || s == Ask {
		b.backend.ReduceLevel(s, order.Price(), size)
	}

	order.DecreaseSize(size)
	if order.Size() <= 0 {
		b.backend.DeleteOrder(orderID)
	}
}

// Reset clears the registry and both sides
func (b *Book) Reset() {
	b.backend.Reset()
}

// BidLevels returns up to n bid levels, highest price first
func (b *Book) BidLevels(n int) []Level {
	return b.backend.BidLevels(n)
}

// AskLevels returns up to n ask levels, lowest price first
func (b *Book) AskLevels(n int) []Level {
	return b.backend.AskLevels(n)
}

// Snapshot serializes the current top-of-book to one output row
func (b *Book) Snapshot(timestamp string, depth int) string {
	return FormatRow(timestamp, b.BidLevels(depth), b.AskLevels(depth), depth)
}
