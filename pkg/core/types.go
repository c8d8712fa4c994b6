package core

import (
	"github.com/nikolaydubina/fpdecimal"
)

// Side represents the bid or ask side of the book
type Side int

// Book sides
const (
	SideUnknown Side = iota
	Bid
	Ask
)

// String returns side as string
func (s Side) String() string {
	switch s {
	case Bid:
		return "BID"
	case Ask:
		return "ASK"
	default:
		return "UNKNOWN"
	}
}

// Action represents the lifecycle action carried by an MBO event
type Action int

// Event actions
const (
	ActionOther Action = iota
	ActionAdd
	ActionCancel
	ActionFill
	ActionReset
)

// String returns action as string
func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "ADD"
	case ActionCancel:
		return "CANCEL"
	case ActionFill:
		return "FILL"
	case ActionReset:
		return "RESET"
	default:
		return "OTHER"
	}
}

// Event is one decoded MBO record. Timestamp is opaque and echoed
// back verbatim on the snapshot row, never parsed.
type Event struct {
	Timestamp string
	Action    Action
	Side      Side
	OrderID   uint64
	Price     fpdecimal.Decimal
	Size      int64
}

// Level is the aggregate resting size at one price on one side.
type Level struct {
	Price fpdecimal.Decimal
	Size  int64
}
