package matchengine

import "github.com/shopspring/decimal"

type Side int8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "invalid"
}

func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

func (s Side) valid() bool {
	return s == Buy || s == Sell
}

// Order is a limit order. Qty is the remaining volume and is decremented in
// place as the order fills; an order never splits into separate entities.
type Order struct {
	ID    string
	Side  Side
	Price decimal.Decimal
	Qty   int64

	// seq is the admission sequence assigned by the engine, the tie-break at
	// equal price. Strictly increasing across every order ever submitted.
	seq uint64

	// resting location, owned by bookSide
	level *priceLevel
	next  *Order
	prev  *Order
}

// Sequence reports the admission sequence. Zero until the order has been
// accepted by Submit.
func (o *Order) Sequence() uint64 {
	return o.seq
}

// Fill is one matched quantity between a resting maker and an incoming taker.
// The maker's limit price is the trade price.
type Fill struct {
	Symbol       string
	MakerOrderID string
	TakerOrderID string
	Price        decimal.Decimal
	Qty          int64
	MatchSeq     uint64
}

// DepthLevel is one price level of aggregated resting volume on one side.
type DepthLevel struct {
	Price  decimal.Decimal
	Volume int64
}
