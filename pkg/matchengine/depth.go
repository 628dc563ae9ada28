package matchengine

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// depthView is the per-side price -> aggregate resting volume mapping. The
// engine adjusts it in lockstep with the bookSide on every admission, fill
// and cancel, so a snapshot never needs to walk the book itself.
type depthView struct {
	side   Side
	levels *btree.BTreeG[*DepthLevel]
}

func newDepthView(side Side) *depthView {
	return &depthView{
		side: side,
		levels: btree.NewBTreeG(func(a, b *DepthLevel) bool {
			return a.Price.LessThan(b.Price)
		}),
	}
}

// adjust adds delta to the aggregate at price. A level drained to zero is
// deleted; absence means zero depth. A negative aggregate means the book and
// the depth view have drifted apart, which is a defect, not a user error.
func (d *depthView) adjust(price decimal.Decimal, delta int64) {
	if delta == 0 {
		return
	}
	probe := &DepthLevel{Price: price}
	level, ok := d.levels.Get(probe)
	if !ok {
		if delta < 0 {
			panic(fmt.Sprintf("matchengine: %s depth at %s missing, delta %d", d.side, price, delta))
		}
		probe.Volume = delta
		d.levels.Set(probe)
		return
	}

	level.Volume += delta
	if level.Volume < 0 {
		panic(fmt.Sprintf("matchengine: %s depth at %s went negative (%d)", d.side, price, level.Volume))
	}
	if level.Volume == 0 {
		d.levels.Delete(level)
	}
}

// snapshot returns every present level, price ascending.
func (d *depthView) snapshot() []DepthLevel {
	out := make([]DepthLevel, 0, d.levels.Len())
	d.levels.Scan(func(l *DepthLevel) bool {
		out = append(out, *l)
		return true
	})
	return out
}

// rangeSnapshot returns levels with low <= price <= high, price ascending.
// An inverted range is empty, not an error.
func (d *depthView) rangeSnapshot(low, high decimal.Decimal) []DepthLevel {
	if low.GreaterThan(high) {
		return nil
	}
	var out []DepthLevel
	d.levels.Ascend(&DepthLevel{Price: low}, func(l *DepthLevel) bool {
		if l.Price.GreaterThan(high) {
			return false
		}
		out = append(out, *l)
		return true
	})
	return out
}
