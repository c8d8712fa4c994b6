package core

import (
	"github.com/nikolaydubina/fpdecimal"
)

// BookBackend defines the interface for different backend implementations
type BookBackend interface {
	// Order registry operations
	GetOrder(orderID uint64) *Order
	StoreOrder(order *Order)
	DeleteOrder(orderID uint64)

	// Aggregate level operations. AddToLevel creates the level when
	// absent; ReduceLevel removes it when the aggregate drops to <=0.
	AddToLevel(side Side, price fpdecimal.Decimal, size int64)
	ReduceLevel(side Side, price fpdecimal.Decimal, size int64)

	// Depth views, best price first
	BidLevels(n int) []Level
	AskLevels(n int) []Level

	// Reset clears the registry and both sides
	Reset()
}
