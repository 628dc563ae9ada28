package matchengine

import (
	"sync"

	"github.com/shopspring/decimal"
)

// EngineManager routes per-symbol commands to their Engine, creating books on
// first use. Fill callbacks registered here apply to every book, existing and
// future.
type EngineManager struct {
	books     sync.Map
	callbacks []func([]*Fill)
	mu        sync.Mutex
}

func NewEngineManager() *EngineManager {
	return &EngineManager{}
}

func (m *EngineManager) Submit(symbol string, order *Order) ([]*Fill, error) {
	return m.getOrCreateBook(symbol).Submit(order)
}

func (m *EngineManager) Cancel(symbol, orderID string) bool {
	return m.getOrCreateBook(symbol).Cancel(orderID)
}

func (m *EngineManager) Depth(symbol string, side Side) []DepthLevel {
	return m.getOrCreateBook(symbol).Depth(side)
}

func (m *EngineManager) DepthRange(symbol string, side Side, low, high decimal.Decimal) []DepthLevel {
	return m.getOrCreateBook(symbol).DepthRange(side, low, high)
}

func (m *EngineManager) RegisterFillCallback(cb func([]*Fill)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)

	// apply callback to all existing books
	m.books.Range(func(_, v any) bool {
		v.(*Engine).RegisterFillCallback(cb)
		return true
	})
}

func (m *EngineManager) Symbols() []string {
	var symbols []string
	m.books.Range(func(k, _ any) bool {
		symbols = append(symbols, k.(string))
		return true
	})
	return symbols
}

func (m *EngineManager) getOrCreateBook(symbol string) *Engine {
	if val, ok := m.books.Load(symbol); ok {
		return val.(*Engine)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	book := NewEngine(symbol)
	for _, cb := range m.callbacks {
		book.RegisterFillCallback(cb)
	}

	actual, _ := m.books.LoadOrStore(symbol, book)
	return actual.(*Engine)
}
