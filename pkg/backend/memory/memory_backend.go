package memory

import (
	"fmt"
	"strings"

	"github.com/nikolaydubina/fpdecimal"

	"github.com/erain9/booksnap/pkg/core"
)

// priceLevel is one aggregate level in a side's sorted list
type priceLevel struct {
	priceStr  string
	priceDecm fpdecimal.Decimal
	size      int64
	next      *priceLevel
	prev      *priceLevel
}

// levelSide keeps one side's levels as a doubly-linked list sorted by
// price plus a price-keyed index for O(1) lookup. Bids sort highest
// first, asks lowest first.
type levelSide struct {
	head       *priceLevel
	tail       *priceLevel
	byPrice    map[string]*priceLevel
	descending bool
}

func newLevelSide(descending bool) *levelSide {
	return &levelSide{
		byPrice:    make(map[string]*priceLevel),
		descending: descending,
	}
}

// add grows the aggregate at price, creating the level when absent
func (ls *levelSide) add(price fpdecimal.Decimal, size int64) {
	priceStr := price.String()

	if lv, ok := ls.byPrice[priceStr]; ok {
		lv.size += size
		if lv.size <= 0 {
			ls.unlink(lv)
		}
		return
	}
	if size <= 0 {
		return
	}

	lv := &priceLevel{
		priceStr:  priceStr,
		priceDecm: price,
		size:      size,
	}
	ls.byPrice[priceStr] = lv

	if ls.head == nil {
		ls.head = lv
		ls.tail = lv
		return
	}

	if ls.descending {
		// Bid side: highest price first
		if price.GreaterThan(ls.head.priceDecm) {
			lv.next = ls.head
			ls.head.prev = lv
			ls.head = lv
		} else if price.LessThanOrEqual(ls.tail.priceDecm) {
			lv.prev = ls.tail
			ls.tail.next = lv
			ls.tail = lv
		} else {
			current := ls.head
			for current != nil && price.LessThan(current.priceDecm) {
				current = current.next
			}
			lv.next = current
			lv.prev = current.prev
			current.prev.next = lv
			current.prev = lv
		}
	} else {
		// Ask side: lowest price first
		if price.LessThan(ls.head.priceDecm) {
			lv.next = ls.head
			ls.head.prev = lv
			ls.head = lv
		} else if price.GreaterThanOrEqual(ls.tail.priceDecm) {
			lv.prev = ls.tail
			ls.tail.next = lv
			ls.tail = lv
		} else {
			current := ls.head
			for current != nil && price.GreaterThan(current.priceDecm) {
				current = current.next
			}
			lv.next = current
			lv.prev = current.prev
			current.prev.next = lv
			current.prev = lv
		}
	}
}

// reduce shrinks the aggregate at price, evicting the level once it
// drops to zero or below. Unknown prices are ignored.
func (ls *levelSide) reduce(price fpdecimal.Decimal, size int64) {
	lv, ok := ls.byPrice[price.String()]
	if !ok {
		return
	}
	lv.size -= size
	if lv.size <= 0 {
		ls.unlink(lv)
	}
}

func (ls *levelSide) unlink(lv *priceLevel) {
	delete(ls.byPrice, lv.priceStr)

	if lv.prev != nil {
		lv.prev.next = lv.next
	} else {
		ls.head = lv.next
	}
	if lv.next != nil {
		lv.next.prev = lv.prev
	} else {
		ls.tail = lv.prev
	}
}

// levels returns up to n levels in list order (best price first)
func (ls *levelSide) levels(n int) []core.Level {
	out := make([]core.Level, 0, n)
	for current := ls.head; current != nil && len(out) < n; current = current.next {
		out = append(out, core.Level{Price: current.priceDecm, Size: current.size})
	}
	return out
}

// String implements fmt.Stringer interface
func (ls *levelSide) String() string {
	sb := strings.Builder{}
	for current := ls.head; current != nil; current = current.next {
		sb.WriteString(fmt.Sprintf("\n%s -> size: %d", current.priceStr, current.size))
	}
	return sb.String()
}

// MemoryBackend implements core.BookBackend with in-memory storage.
// Not safe for concurrent use; a backend instance belongs to exactly
// one replay stream.
type MemoryBackend struct {
	orders map[uint64]*core.Order
	bids   *levelSide
	asks   *levelSide
}

// NewMemoryBackend creates new instance of MemoryBackend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		orders: make(map[uint64]*core.Order),
		bids:   newLevelSide(true),
		asks:   newLevelSide(false),
	}
}

// GetOrder retrieves an order by ID
func (b *MemoryBackend) GetOrder(orderID uint64) *core.Order {
	return b.orders[orderID]
}

// StoreOrder stores an order, overwriting any prior entry under the id
func (b *MemoryBackend) StoreOrder(order *core.Order) {
	b.orders[order.ID()] = order
}

// DeleteOrder deletes an order
func (b *MemoryBackend) DeleteOrder(orderID uint64) {
	delete(b.orders, orderID)
}

// AddToLevel grows the aggregate at (side, price)
func (b *MemoryBackend) AddToLevel(side core.Side, price fpdecimal.Decimal, size int64) {
	b.side(side).add(price, size)
}

// ReduceLevel shrinks the aggregate at (side, price)
func (b *MemoryBackend) ReduceLevel(side core.Side, price fpdecimal.Decimal, size int64) {
	b.side(side).reduce(price, size)
}

// BidLevels returns up to n bid levels, highest price first
func (b *MemoryBackend) BidLevels(n int) []core.Level {
	return b.bids.levels(n)
}

// AskLevels returns up to n ask levels, lowest price first
func (b *MemoryBackend) AskLevels(n int) []core.Level {
	return b.asks.levels(n)
}

// Reset clears the registry and both sides
func (b *MemoryBackend) Reset() {
	b.orders = make(map[uint64]*core.Order)
	b.bids = newLevelSide(true)
	b.asks = newLevelSide(false)
}

func (b *MemoryBackend) side(side core.Side) *levelSide {
	if side == core.Bid {
		return b.bids
	}
	return b.asks
}

// String implements fmt.Stringer interface
func (b *MemoryBackend) String() string {
	sb := strings.Builder{}
	sb.WriteString("Ask:")
	sb.WriteString(b.asks.String())
	sb.WriteString("\nBid:")
	sb.WriteString(b.bids.String())
	sb.WriteString("\n")
	return sb.String()
}
