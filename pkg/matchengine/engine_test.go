package matchengine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func limit(id string, side Side, price string, qty int64) *Order {
	return &Order{ID: id, Side: side, Price: dec(price), Qty: qty}
}

func mustSubmit(t *testing.T, e *Engine, o *Order) []*Fill {
	t.Helper()
	fills, err := e.Submit(o)
	if err != nil {
		t.Fatalf("submit %s: %v", o.ID, err)
	}
	return fills
}

func TestSimpleMatch(t *testing.T) {
	e := NewEngine("ABC")

	mustSubmit(t, e, limit("S1", Sell, "99.0", 10))
	fills := mustSubmit(t, e, limit("B1", Buy, "100.0", 10))

	if len(fills) != 1 {
		t.Fatalf("expected 1 fill, got %d", len(fills))
	}
	f := fills[0]
	if f.MakerOrderID != "S1" || f.TakerOrderID != "B1" {
		t.Errorf("incorrect order IDs in fill: %+v", f)
	}
	if f.Qty != 10 || !f.Price.Equal(dec("99.0")) {
		t.Errorf("incorrect qty/price: %+v", f)
	}
	if len(e.Depth(Buy)) != 0 || len(e.Depth(Sell)) != 0 {
		t.Errorf("book should be empty after full match")
	}
}

func TestNoMatchDueToPrice(t *testing.T) {
	e := NewEngine("ABC")

	mustSubmit(t, e, limit("S1", Sell, "100.0", 10))
	fills := mustSubmit(t, e, limit("B1", Buy, "98.0", 10))

	if len(fills) != 0 {
		t.Fatalf("expected no fill, got %d", len(fills))
	}
	if got := e.Depth(Buy); len(got) != 1 || got[0].Volume != 10 {
		t.Errorf("buy side should rest 10, got %+v", got)
	}
	if got := e.Depth(Sell); len(got) != 1 || got[0].Volume != 10 {
		t.Errorf("sell side should rest 10, got %+v", got)
	}
}

// The taker crosses a cheaper ask and rests the remainder at its own limit.
func TestPartialMatchRemainderRests(t *testing.T) {
	e := NewEngine("ABC")

	mustSubmit(t, e, limit("S1", Sell, "100.0", 5))
	fills := mustSubmit(t, e, limit("B1", Buy, "101.0", 10))

	if len(fills) != 1 {
		t.Fatalf("expected 1 fill, got %d", len(fills))
	}
	if fills[0].Qty != 5 || !fills[0].Price.Equal(dec("100.0")) {
		t.Errorf("expected 5@100.0, got %+v", fills[0])
	}

	buy := e.Depth(Buy)
	if len(buy) != 1 || !buy[0].Price.Equal(dec("101.0")) || buy[0].Volume != 5 {
		t.Errorf("expected buy depth [(101.0,5)], got %+v", buy)
	}
	if sell := e.Depth(Sell); len(sell) != 0 {
		t.Errorf("expected empty sell depth, got %+v", sell)
	}
}

func TestAdmissionSequenceStrictlyIncreasing(t *testing.T) {
	e := NewEngine("ABC")

	var last uint64
	for i := 0; i < 5; i++ {
		o := limit(fmt.Sprintf("S%d", i), Sell, fmt.Sprintf("%d.0", 100+i), 10)
		if o.Sequence() != 0 {
			t.Fatalf("sequence before submit = %d, want 0", o.Sequence())
		}
		mustSubmit(t, e, o)
		if o.Sequence() <= last {
			t.Fatalf("sequence %d not above previous %d", o.Sequence(), last)
		}
		last = o.Sequence()
	}

	// a rejected order is never assigned a sequence
	bad := limit("", Sell, "100.0", 10)
	if _, err := e.Submit(bad); err == nil {
		t.Fatalf("expected rejection")
	}
	if bad.Sequence() != 0 {
		t.Errorf("rejected order sequence = %d, want 0", bad.Sequence())
	}
}

func TestFIFOSamePrice(t *testing.T) {
	e := NewEngine("ABC")

	mustSubmit(t, e, limit("S1", Sell, "100.0", 5))
	mustSubmit(t, e, limit("S2", Sell, "100.0", 5))
	fills := mustSubmit(t, e, limit("B1", Buy, "100.0", 7))

	if len(fills) != 2 {
		t.Fatalf("expected 2 fills, got %d", len(fills))
	}
	if fills[0].MakerOrderID != "S1" || fills[0].Qty != 5 {
		t.Errorf("expected S1 filled first for 5, got %+v", fills[0])
	}
	if fills[1].MakerOrderID != "S2" || fills[1].Qty != 2 {
		t.Errorf("expected S2 filled second for 2, got %+v", fills[1])
	}

	sell := e.Depth(Sell)
	if len(sell) != 1 || sell[0].Volume != 3 {
		t.Errorf("expected S2 resting 3, got %+v", sell)
	}
	if len(e.Depth(Buy)) != 0 {
		t.Errorf("buy side should be empty")
	}
}

// Sweep over two price levels: each fill at the maker's price.
func TestMultiLevelSweep(t *testing.T) {
	e := NewEngine("ABC")

	mustSubmit(t, e, limit("S1", Sell, "100.0", 5))
	mustSubmit(t, e, limit("S2", Sell, "101.0", 5))
	fills := mustSubmit(t, e, limit("B1", Buy, "101.0", 7))

	if len(fills) != 2 {
		t.Fatalf("expected 2 fills, got %d", len(fills))
	}
	if fills[0].MakerOrderID != "S1" || !fills[0].Price.Equal(dec("100.0")) || fills[0].Qty != 5 {
		t.Errorf("expected S1 5@100.0, got %+v", fills[0])
	}
	if fills[1].MakerOrderID != "S2" || !fills[1].Price.Equal(dec("101.0")) || fills[1].Qty != 2 {
		t.Errorf("expected S2 2@101.0, got %+v", fills[1])
	}
	if fills[1].MatchSeq <= fills[0].MatchSeq {
		t.Errorf("match sequence must increase: %+v", fills)
	}

	sell := e.Depth(Sell)
	if len(sell) != 1 || sell[0].Volume != 3 {
		t.Errorf("expected S2 resting 3, got %+v", sell)
	}
}

func TestDepthAggregatesLevels(t *testing.T) {
	e := NewEngine("ABC")

	mustSubmit(t, e, limit("B1", Buy, "100.0", 10))
	mustSubmit(t, e, limit("B2", Buy, "101.0", 15))
	mustSubmit(t, e, limit("B3", Buy, "100.0", 5))

	got := e.Depth(Buy)
	if len(got) != 2 {
		t.Fatalf("expected 2 levels, got %+v", got)
	}
	if !got[0].Price.Equal(dec("100.0")) || got[0].Volume != 15 {
		t.Errorf("expected (100.0,15) first, got %+v", got[0])
	}
	if !got[1].Price.Equal(dec("101.0")) || got[1].Volume != 15 {
		t.Errorf("expected (101.0,15) second, got %+v", got[1])
	}
}

func TestDepthRange(t *testing.T) {
	e := NewEngine("ABC")

	mustSubmit(t, e, limit("B1", Buy, "100.0", 10))
	mustSubmit(t, e, limit("B2", Buy, "101.0", 15))
	mustSubmit(t, e, limit("B3", Buy, "100.0", 5))

	got := e.DepthRange(Buy, dec("100.0"), dec("100.0"))
	if len(got) != 1 || !got[0].Price.Equal(dec("100.0")) || got[0].Volume != 15 {
		t.Errorf("expected [(100.0,15)], got %+v", got)
	}

	if got := e.DepthRange(Buy, dec("102.0"), dec("100.0")); len(got) != 0 {
		t.Errorf("inverted range should be empty, got %+v", got)
	}
	if got := e.DepthRange(Buy, dec("1.0"), dec("999.0")); len(got) != 2 {
		t.Errorf("wide range should cover both levels, got %+v", got)
	}
}

func TestCancel(t *testing.T) {
	e := NewEngine("ABC")

	mustSubmit(t, e, limit("B1", Buy, "100.0", 10))

	if !e.Cancel("B1") {
		t.Fatalf("expected cancel success")
	}
	if got := e.Depth(Buy); len(got) != 0 {
		t.Errorf("expected empty depth after cancel, got %+v", got)
	}
	if _, ok := e.ordersByID["B1"]; ok {
		t.Errorf("order should be removed from ordersByID")
	}

	// repeated cancel is an idempotent no-op
	if e.Cancel("B1") {
		t.Errorf("second cancel should report not found")
	}
	if e.Cancel("never-seen") {
		t.Errorf("cancel of unknown id should report not found")
	}
}

func TestCancelPartiallyFilled(t *testing.T) {
	e := NewEngine("ABC")

	mustSubmit(t, e, limit("B1", Buy, "100.0", 10))
	mustSubmit(t, e, limit("S1", Sell, "100.0", 4))

	if got := e.Depth(Buy); len(got) != 1 || got[0].Volume != 6 {
		t.Fatalf("expected remaining 6 at 100.0, got %+v", got)
	}
	if !e.Cancel("B1") {
		t.Fatalf("expected cancel success")
	}
	if got := e.Depth(Buy); len(got) != 0 {
		t.Errorf("expected empty depth, got %+v", got)
	}
}

func TestCancelFilledOrderIsNoop(t *testing.T) {
	e := NewEngine("ABC")

	mustSubmit(t, e, limit("S1", Sell, "100.0", 5))
	mustSubmit(t, e, limit("B1", Buy, "100.0", 5))

	if e.Cancel("S1") {
		t.Errorf("filled maker should no longer be cancellable")
	}
	if e.Cancel("B1") {
		t.Errorf("filled taker should never have rested")
	}
}

func TestSubmitValidation(t *testing.T) {
	e := NewEngine("ABC")

	cases := []struct {
		name  string
		order *Order
		want  error
	}{
		{"empty id", limit("", Buy, "100.0", 10), ErrEmptyOrderID},
		{"bad side", &Order{ID: "X", Side: Side(9), Price: dec("100.0"), Qty: 10}, ErrInvalidSide},
		{"zero price", limit("X", Buy, "0", 10), ErrInvalidPrice},
		{"negative price", limit("X", Buy, "-1.5", 10), ErrInvalidPrice},
		{"zero qty", limit("X", Buy, "100.0", 0), ErrInvalidQty},
		{"negative qty", limit("X", Buy, "100.0", -3), ErrInvalidQty},
	}
	for _, tc := range cases {
		if _, err := e.Submit(tc.order); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	if got := e.Depth(Buy); len(got) != 0 {
		t.Fatalf("rejected orders must not touch the book, got %+v", got)
	}

	mustSubmit(t, e, limit("B1", Buy, "100.0", 10))
	if _, err := e.Submit(limit("B1", Buy, "101.0", 5)); !errors.Is(err, ErrDuplicateOrderID) {
		t.Errorf("expected duplicate id rejection, got %v", err)
	}
	if got := e.Depth(Buy); len(got) != 1 || got[0].Volume != 10 {
		t.Errorf("duplicate rejection must leave state untouched, got %+v", got)
	}
}

// After any submit the book must not be crossed.
func TestBookNeverCrossed(t *testing.T) {
	e := NewEngine("ABC")

	orders := []*Order{
		limit("S1", Sell, "101.0", 5),
		limit("B1", Buy, "100.0", 5),
		limit("B2", Buy, "103.0", 3),
		limit("S2", Sell, "99.0", 10),
		limit("B3", Buy, "99.5", 4),
		limit("S3", Sell, "99.5", 20),
	}
	for _, o := range orders {
		mustSubmit(t, e, o)
		assertNotCrossed(t, e)
	}
}

func assertNotCrossed(t *testing.T, e *Engine) {
	t.Helper()
	bids, asks := e.Depth(Buy), e.Depth(Sell)
	if len(bids) == 0 || len(asks) == 0 {
		return
	}
	bestBid := bids[len(bids)-1].Price
	bestAsk := asks[0].Price
	if bestBid.GreaterThanOrEqual(bestAsk) {
		t.Fatalf("book crossed: best bid %s >= best ask %s", bestBid, bestAsk)
	}
}

// Depth must equal the sum of remaining volumes at each level after an
// arbitrary mix of submits, fills and cancels.
func TestDepthStaysConsistent(t *testing.T) {
	e := NewEngine("ABC")

	mustSubmit(t, e, limit("B1", Buy, "100.0", 10))
	mustSubmit(t, e, limit("B2", Buy, "100.0", 7))
	mustSubmit(t, e, limit("B3", Buy, "99.0", 4))
	mustSubmit(t, e, limit("S1", Sell, "100.0", 12)) // fills B1, part of B2
	e.Cancel("B3")

	got := e.Depth(Buy)
	if len(got) != 1 || !got[0].Price.Equal(dec("100.0")) || got[0].Volume != 5 {
		t.Errorf("expected [(100.0,5)], got %+v", got)
	}

	for id, o := range e.ordersByID {
		if o.Qty <= 0 {
			t.Errorf("resting order %s has non-positive qty %d", id, o.Qty)
		}
	}
}

func TestFillCallbackBeforeReturn(t *testing.T) {
	e := NewEngine("ABC")

	var seen []*Fill
	e.RegisterFillCallback(func(fills []*Fill) {
		seen = append(seen, fills...)
	})

	mustSubmit(t, e, limit("S1", Sell, "100.0", 5))
	fills := mustSubmit(t, e, limit("B1", Buy, "100.0", 5))

	if len(seen) != len(fills) {
		t.Fatalf("callback saw %d fills, submit returned %d", len(seen), len(fills))
	}
	for i := range seen {
		if seen[i] != fills[i] {
			t.Errorf("callback fill %d differs from returned fill", i)
		}
	}
}

func TestHighVolumeOrders(t *testing.T) {
	e := NewEngine("ABC")

	fills := 0
	e.RegisterFillCallback(func(fs []*Fill) {
		fills += len(fs)
	})

	num := 10_000
	for i := 0; i < num; i++ {
		side := Buy
		if i%2 == 0 {
			side = Sell
		}
		mustSubmit(t, e, limit(fmt.Sprintf("ORD-%d", i), side, "100.0", 10))
	}

	if fills != num/2 {
		t.Errorf("expected %d fills, got %d", num/2, fills)
	}
}

func BenchmarkSubmit(b *testing.B) {
	e := NewEngine("ABC")

	for i := 0; i < 10_000; i++ {
		price := fmt.Sprintf("%d.0", 100+i%5)
		_, _ = e.Submit(limit(fmt.Sprintf("SELL-%d", i), Sell, price, 10))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Submit(limit(fmt.Sprintf("BUY-%d", i), Buy, "101.0", 10))
	}
}
