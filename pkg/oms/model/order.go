package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joripage/matching-engine/pkg/matchengine"
)

type OrderStatus string

const (
	OrderStatusPendingNew      OrderStatus = "PendingNew"
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusCanceled        OrderStatus = "Canceled"
	OrderStatusReplaced        OrderStatus = "Replaced"
	OrderStatusRejected        OrderStatus = "Rejected"
	OrderStatusExpired         OrderStatus = "Expired"
)

type OrderExecType string

const (
	ExecTypePendingNew OrderExecType = "PendingNew"
	ExecTypeNew        OrderExecType = "New"
	ExecTypeTrade      OrderExecType = "Trade"
	ExecTypeCanceled   OrderExecType = "Canceled"
	ExecTypeReplaced   OrderExecType = "Replaced"
	ExecTypeRejected   OrderExecType = "Rejected"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// EngineSide maps the service-level side onto the engine's closed enum.
func (s OrderSide) EngineSide() (matchengine.Side, bool) {
	switch s {
	case OrderSideBuy:
		return matchengine.Buy, true
	case OrderSideSell:
		return matchengine.Sell, true
	}
	return matchengine.Side(-1), false
}

type OrderType string

const (
	OrderTypeLimit OrderType = "LIMIT"
)

type OrderTimeInForce string

const (
	OrderTimeInForceDAY OrderTimeInForce = "DAY"
	OrderTimeInForceGTC OrderTimeInForce = "GTC"
)

type Order struct {
	// init info
	GatewayID     string
	OrigGatewayID string
	Account       string
	Symbol        string
	SecurityID    string
	Side          OrderSide
	Type          OrderType
	TimeInForce   OrderTimeInForce
	Price         decimal.Decimal
	Quantity      decimal.Decimal
	TransactTime  time.Time

	// calculated info
	OrderID        string
	ExecID         string
	Status         OrderStatus
	ExecType       OrderExecType
	CumQuantity    decimal.Decimal
	LeavesQuantity decimal.Decimal
	LastQuantity   decimal.Decimal
	LastPrice      decimal.Decimal
}

func (o *Order) UpdateAddOrder(add *AddOrder) {
	o.GatewayID = add.GatewayID
	o.Account = add.Account
	o.Symbol = add.Symbol
	o.SecurityID = add.SecurityID
	o.Side = add.Side
	o.Type = add.Type
	o.TimeInForce = add.TimeInForce
	o.Price = add.Price
	o.Quantity = add.Quantity
	o.TransactTime = add.TransactTime

	o.OrderID = uuid.New().String()
	o.ExecID = uuid.New().String()
	o.Status = OrderStatusNew
	o.ExecType = ExecTypeNew
	o.CumQuantity = decimal.Zero
	o.LeavesQuantity = add.Quantity
}

// UpdateFill applies one engine fill to whichever leg of the trade this order
// is. Remaining quantity reaching zero makes the order terminal.
func (o *Order) UpdateFill(fill *matchengine.Fill) {
	qty := decimal.NewFromInt(fill.Qty)
	o.ExecID = uuid.New().String()
	o.LastQuantity = qty
	o.LastPrice = fill.Price
	o.CumQuantity = o.CumQuantity.Add(qty)
	o.LeavesQuantity = o.Quantity.Sub(o.CumQuantity)

	o.ExecType = ExecTypeTrade
	if o.LeavesQuantity.IsZero() {
		o.Status = OrderStatusFilled
	} else {
		o.Status = OrderStatusPartiallyFilled
	}
}

func (o *Order) UpdateCancelOrder(cancel *CancelOrder) {
	o.ExecID = uuid.New().String()
	o.GatewayID = cancel.GatewayID
	o.OrigGatewayID = cancel.OrigGatewayID
	o.LeavesQuantity = decimal.Zero
	o.Status = OrderStatusCanceled
	o.ExecType = ExecTypeCanceled
}

func (o *Order) UpdateModifyOrder(modify *ModifyOrder) {
	o.ExecID = uuid.New().String()
	o.GatewayID = modify.GatewayID
	o.OrigGatewayID = modify.OrigGatewayID
	o.Price = modify.NewPrice
	o.Quantity = modify.NewQuantity
	o.LeavesQuantity = modify.NewQuantity.Sub(o.CumQuantity)
	o.Status = OrderStatusReplaced
	o.ExecType = ExecTypeReplaced
}

func (o *Order) Reject() {
	o.ExecID = uuid.New().String()
	o.Status = OrderStatusRejected
	o.ExecType = ExecTypeRejected
}

func (o *Order) CanCancel() bool {
	return !o.IsEnd()
}

func (o *Order) CanModify() bool {
	return !o.IsEnd()
}

// IsEnd reports whether the order reached a terminal state.
func (o *Order) IsEnd() bool {
	switch o.Status {
	case OrderStatusFilled, OrderStatusCanceled, OrderStatusRejected, OrderStatusExpired:
		return true
	}
	return false
}
