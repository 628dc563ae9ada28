package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderEvent is one order-state transition, appended to the event store and
// persisted downstream by the worker.
type OrderEvent struct {
	EventID       string `gorm:"primaryKey"`
	OrderID       string
	GatewayID     string
	OrigGatewayID string
	Symbol        string
	ExecType      OrderExecType
	Status        OrderStatus
	Qty           int64
	Price         decimal.Decimal `gorm:"type:numeric"`
	Timestamp     time.Time
}

func (OrderEvent) TableName() string { return "order_events" }

func NewOrderEvent(order Order, ts time.Time) *OrderEvent {
	return &OrderEvent{
		EventID:       NewEventID(order.OrderID, order.ExecID),
		OrderID:       order.OrderID,
		GatewayID:     order.GatewayID,
		OrigGatewayID: order.OrigGatewayID,
		Symbol:        order.Symbol,
		ExecType:      order.ExecType,
		Status:        order.Status,
		Qty:           order.LastQuantity.IntPart(),
		Price:         order.Price,
		Timestamp:     ts,
	}
}

func NewEventID(orderID, execID string) string {
	return fmt.Sprintf("%s-%s", orderID, execID)
}
