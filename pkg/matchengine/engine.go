package matchengine

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Engine matches limit orders for a single symbol under strict price-time
// priority. It keeps three synchronized views of the resting book per side:
// the bookSide itself, the id index and the depth aggregate. All three move
// together only through Submit and Cancel, never independently.
//
// Mutations are serialized behind one mutex. Matching is pure in-memory work
// with no I/O, so a call either completes fully or is rejected before any
// state changes.
type Engine struct {
	symbol string

	bids *bookSide
	asks *bookSide

	bidDepth *depthView
	askDepth *depthView

	ordersByID map[string]*Order

	seq      uint64
	matchSeq uint64

	callbacks []func([]*Fill)

	mu sync.Mutex
}

func NewEngine(symbol string) *Engine {
	return &Engine{
		symbol:     symbol,
		bids:       newBookSide(Buy),
		asks:       newBookSide(Sell),
		bidDepth:   newDepthView(Buy),
		askDepth:   newDepthView(Sell),
		ordersByID: make(map[string]*Order),
	}
}

func (e *Engine) Symbol() string { return e.symbol }

// RegisterFillCallback subscribes to fills. Callbacks run synchronously
// inside Submit, in trade order, before Submit returns, so a consumer never
// sees fills reordered or after-the-fact.
func (e *Engine) RegisterFillCallback(fn func([]*Fill)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callbacks = append(e.callbacks, fn)
}

// Submit matches order against the opposite side while prices cross, then
// rests any remainder on its own side. It returns the fills produced, in the
// order they happened. A validation failure rejects the order before any
// state is touched.
func (e *Engine) Submit(order *Order) ([]*Fill, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validate(order); err != nil {
		return nil, err
	}

	e.seq++
	order.seq = e.seq

	fills := e.match(order)

	if order.Qty > 0 {
		e.admit(order)
	}

	if len(fills) > 0 {
		for _, cb := range e.callbacks {
			cb(fills)
		}
	}
	return fills, nil
}

func (e *Engine) validate(order *Order) error {
	switch {
	case order.ID == "":
		return ErrEmptyOrderID
	case !order.Side.valid():
		return ErrInvalidSide
	case order.Price.Sign() <= 0:
		return ErrInvalidPrice
	case order.Qty <= 0:
		return ErrInvalidQty
	}
	if _, ok := e.ordersByID[order.ID]; ok {
		return ErrDuplicateOrderID
	}
	return nil
}

// match sweeps the opposite side best-first. The maker's limit sets the trade
// price: the taker may trade better than its own limit, never worse.
func (e *Engine) match(taker *Order) []*Fill {
	counter := e.bookFor(taker.Side.Opposite())

	crosses := func(makerPrice decimal.Decimal) bool {
		if taker.Side == Buy {
			return makerPrice.LessThanOrEqual(taker.Price)
		}
		return makerPrice.GreaterThanOrEqual(taker.Price)
	}

	var fills []*Fill
	for taker.Qty > 0 {
		maker := counter.peekBest()
		if maker == nil || !crosses(maker.Price) {
			break
		}

		qty := min(taker.Qty, maker.Qty)
		taker.Qty -= qty
		maker.Qty -= qty
		e.depthFor(maker.Side).adjust(maker.Price, -qty)

		e.matchSeq++
		fills = append(fills, &Fill{
			Symbol:       e.symbol,
			MakerOrderID: maker.ID,
			TakerOrderID: taker.ID,
			Price:        maker.Price,
			Qty:          qty,
			MatchSeq:     e.matchSeq,
		})

		if maker.Qty == 0 {
			counter.remove(maker)
			delete(e.ordersByID, maker.ID)
		}
	}
	return fills
}

// admit rests the remainder: book, id index and depth move as one.
func (e *Engine) admit(order *Order) {
	e.bookFor(order.Side).insert(order)
	e.ordersByID[order.ID] = order
	e.depthFor(order.Side).adjust(order.Price, order.Qty)
}

// Cancel removes a resting order and reports whether anything was removed.
// An unknown id is a clean no-op, not an error: from the caller's point of
// view the order may already have filled or been cancelled.
func (e *Engine) Cancel(orderID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.ordersByID[orderID]
	if !ok {
		return false
	}
	if !e.bookFor(order.Side).remove(order) {
		panic("matchengine: order " + orderID + " indexed but not resting")
	}
	e.depthFor(order.Side).adjust(order.Price, -order.Qty)
	delete(e.ordersByID, orderID)
	return true
}

// Depth returns every resting price level on side, price ascending.
func (e *Engine) Depth(side Side) []DepthLevel {
	if !side.valid() {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.depthFor(side).snapshot()
}

// DepthRange returns side's levels with low <= price <= high, price
// ascending. Both bounds inclusive; an inverted range is empty.
func (e *Engine) DepthRange(side Side, low, high decimal.Decimal) []DepthLevel {
	if !side.valid() {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.depthFor(side).rangeSnapshot(low, high)
}

func (e *Engine) bookFor(side Side) *bookSide {
	if side == Buy {
		return e.bids
	}
	return e.asks
}

func (e *Engine) depthFor(side Side) *depthView {
	if side == Buy {
		return e.bidDepth
	}
	return e.askDepth
}
