package matchengine

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// priceLevel is a FIFO of resting orders at one price, linked through the
// orders themselves so a cancel unlinks in O(1) once the order is found.
type priceLevel struct {
	price decimal.Decimal
	head  *Order
	tail  *Order
	count int
}

func (l *priceLevel) enqueue(o *Order) {
	if l.head == nil {
		l.head = o
	} else {
		l.tail.next = o
		o.prev = l.tail
	}
	l.tail = o
	o.level = l
	l.count++
}

func (l *priceLevel) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.next, o.prev, o.level = nil, nil, nil
	l.count--
}

// bookSide holds one side's resting orders: price levels in a B-tree keyed by
// price, FIFO inside each level. Best means highest price for bids, lowest
// for asks; within a level the earliest admission wins.
type bookSide struct {
	side   Side
	levels *btree.BTreeG[*priceLevel]
	size   int
}

func newBookSide(side Side) *bookSide {
	return &bookSide{
		side: side,
		levels: btree.NewBTreeG(func(a, b *priceLevel) bool {
			return a.price.LessThan(b.price)
		}),
	}
}

func (b *bookSide) len() int { return b.size }

// peekBest returns the order next in line to trade, or nil on an empty side.
func (b *bookSide) peekBest() *Order {
	var level *priceLevel
	var ok bool
	if b.side == Buy {
		level, ok = b.levels.Max()
	} else {
		level, ok = b.levels.Min()
	}
	if !ok {
		return nil
	}
	return level.head
}

func (b *bookSide) insert(o *Order) {
	probe := &priceLevel{price: o.Price}
	level, ok := b.levels.Get(probe)
	if !ok {
		level = probe
		b.levels.Set(level)
	}
	level.enqueue(o)
	b.size++
}

// remove unlinks a resting order and drops its level when drained. Reports
// false when the order is not resting on this side, so the caller can tell a
// cancel of a live order from one that already filled.
func (b *bookSide) remove(o *Order) bool {
	level := o.level
	if level == nil {
		return false
	}
	level.unlink(o)
	if level.count == 0 {
		b.levels.Delete(level)
	}
	b.size--
	return true
}
