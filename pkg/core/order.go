package core

import (
	"github.com/nikolaydubina/fpdecimal"
)

// Order stores one live resting order. The registry owns it; the book
// mutates size in place on fills.
type Order struct {
	id    uint64
	side  Side
	price fpdecimal.Decimal
	size  int64
}

// NewOrder creates an order resting at the given price
func NewOrder(id uint64, side Side, price fpdecimal.Decimal, size int64) *Order {
	return &Order{
		id:    id,
		side:  side,
		price: price,
		size:  size,
	}
}

// ID returns the order identifier
func (o *Order) ID() uint64 {
	return o.id
}

// Side returns the order side
func (o *Order) Side() Side {
	return o.side
}

// Price returns the resting price
func (o *Order) Price() fpdecimal.Decimal {
	return o.price
}

// Size returns the remaining quantity
func (o *Order) Size() int64 {
	return o.size
}

// DecreaseSize reduces the remaining quantity by the filled amount
func (o *Order) DecreaseSize(by int64) {
	o.size -= by
}
