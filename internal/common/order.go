package common

import "time"

// OrderId uniquely identifies an order within a single book. Ids are
// assigned by the owning OrderBook starting at 1 and increase
// monotonically; they are never reused.
type OrderId uint64

// Side is which direction of a trade an order represents.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// OrderType distinguishes resting limit orders from immediate-or-die
// market orders.
type OrderType int

const (
	LimitOrder OrderType = iota
	MarketOrder
)

func (t OrderType) String() string {
	if t == LimitOrder {
		return "limit"
	}
	return "market"
}

// OrderStatus tracks an order's position in its lifecycle. Status never
// moves out of a terminal state (Filled, Cancelled).
type OrderStatus int

const (
	Open OrderStatus = iota
	PartiallyFilled
	Filled
	Cancelled
)

func (s OrderStatus) String() string {
	switch s {
	case Open:
		return "open"
	case PartiallyFilled:
		return "partially_filled"
	case Filled:
		return "filled"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Order is a single resting or taking order. Invariants: 0 <= Remaining <=
// Original; Remaining == 0 iff Status == Filled; Status never leaves a
// terminal state once reached.
type Order struct {
	Id        OrderId
	Trader    TokenId
	Side      Side
	Type      OrderType
	Price     Price
	Original  Amount
	Remaining Amount
	Status    OrderStatus
	Timestamp time.Time
}

// NewLimitOrder creates an Open limit order with Remaining == Original.
func NewLimitOrder(id OrderId, trader TokenId, side Side, price Price, amount Amount) Order {
	return Order{
		Id:        id,
		Trader:    trader,
		Side:      side,
		Type:      LimitOrder,
		Price:     price,
		Original:  amount,
		Remaining: amount,
		Status:    Open,
		Timestamp: time.Now(),
	}
}

// NewMarketOrder creates an Open market order, choosing the sentinel
// price by side (buy pays any price, sell accepts any price).
func NewMarketOrder(id OrderId, trader TokenId, side Side, amount Amount) Order {
	price := MaxSellPrice()
	if side == Buy {
		price = MaxBuyPrice()
	}
	return Order{
		Id:        id,
		Trader:    trader,
		Side:      side,
		Type:      MarketOrder,
		Price:     price,
		Original:  amount,
		Remaining: amount,
		Status:    Open,
		Timestamp: time.Now(),
	}
}

// IsActive reports whether the order can still be matched.
func (o *Order) IsActive() bool {
	return o.Status == Open || o.Status == PartiallyFilled
}

// Fill subtracts amount from Remaining (saturating at zero) and
// transitions Status to Filled or PartiallyFilled. Must not be called on
// a terminal order.
func (o *Order) Fill(amount Amount) {
	o.Remaining = SaturatingSub(o.Remaining, amount)
	if o.Remaining.IsZero() {
		o.Status = Filled
	} else {
		o.Status = PartiallyFilled
	}
}

// Cancel forces the order into the Cancelled terminal state.
func (o *Order) Cancel() {
	o.Status = Cancelled
}

// FilledAmount returns how much of the order has been matched so far.
func (o *Order) FilledAmount() Amount {
	return SaturatingSub(o.Original, o.Remaining)
}

// CanMatch reports whether o (the taker) can cross with other (the
// maker): opposite sides and a price-compatible buy >= sell.
func (o *Order) CanMatch(other *Order) bool {
	if o.Side == other.Side {
		return false
	}
	if o.Side == Buy {
		return o.Price.GreaterOrEqual(other.Price)
	}
	return o.Price.LessOrEqual(other.Price)
}
