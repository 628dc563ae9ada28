package fixgateway

import (
	"time"

	"github.com/google/uuid"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"

	"github.com/joripage/matching-engine/pkg/oms/model"
)

var orderStatusMapping = map[model.OrderStatus]enum.OrdStatus{
	model.OrderStatusPendingNew:      enum.OrdStatus_PENDING_NEW,
	model.OrderStatusNew:             enum.OrdStatus_NEW,
	model.OrderStatusPartiallyFilled: enum.OrdStatus_PARTIALLY_FILLED,
	model.OrderStatusFilled:          enum.OrdStatus_FILLED,
	model.OrderStatusCanceled:        enum.OrdStatus_CANCELED,
	model.OrderStatusReplaced:        enum.OrdStatus_REPLACED,
	model.OrderStatusRejected:        enum.OrdStatus_REJECTED,
	model.OrderStatusExpired:         enum.OrdStatus_EXPIRED,
}

var execTypeMapping = map[model.OrderExecType]enum.ExecType{
	model.ExecTypePendingNew: enum.ExecType_PENDING_NEW,
	model.ExecTypeNew:        enum.ExecType_NEW,
	model.ExecTypeTrade:      enum.ExecType_TRADE,
	model.ExecTypeCanceled:   enum.ExecType_CANCELED,
	model.ExecTypeReplaced:   enum.ExecType_REPLACED,
	model.ExecTypeRejected:   enum.ExecType_REJECTED,
}

var execSideMapping = map[model.OrderSide]enum.Side{
	model.OrderSideBuy:  enum.Side_BUY,
	model.OrderSideSell: enum.Side_SELL,
}

func buildExecutionReport(order model.Order) executionreport.ExecutionReport {
	msg := executionreport.New(
		field.NewOrderID(order.OrderID),
		field.NewExecID(order.ExecID),
		field.NewExecType(execTypeMapping[order.ExecType]),
		field.NewOrdStatus(orderStatusMapping[order.Status]),
		field.NewSide(execSideMapping[order.Side]),
		field.NewLeavesQty(order.LeavesQuantity, 0),
		field.NewCumQty(order.CumQuantity, 0),
		field.NewAvgPx(order.LastPrice, 2),
	)

	msg.SetClOrdID(order.GatewayID)
	if order.OrigGatewayID != "" {
		msg.SetOrigClOrdID(order.OrigGatewayID)
	}
	msg.SetAccount(order.Account)
	msg.SetSymbol(order.Symbol)
	msg.SetOrderQty(order.Quantity, 0)
	msg.SetPrice(order.Price, 2)
	msg.SetTransactTime(order.TransactTime)
	if !order.LastQuantity.IsZero() {
		msg.SetLastQty(order.LastQuantity, 0)
		msg.SetLastPx(order.LastPrice, 2)
	}

	return msg
}

func orderReportToExecutionReport(order model.Order, sessionID *quickfix.SessionID) error {
	return quickfix.SendToTarget(buildExecutionReport(order), *sessionID)
}

// sendRejectReport answers a request the service refused before an order
// record existed, so OrderID is the FIX "NONE" sentinel.
func sendRejectReport(sessionID *quickfix.SessionID, clOrdID string, side enum.Side, reason string) error {
	msg := executionreport.New(
		field.NewOrderID("NONE"),
		field.NewExecID(uuid.New().String()),
		field.NewExecType(enum.ExecType_REJECTED),
		field.NewOrdStatus(enum.OrdStatus_REJECTED),
		field.NewSide(side),
		field.NewLeavesQty(decimal.Zero, 0),
		field.NewCumQty(decimal.Zero, 0),
		field.NewAvgPx(decimal.Zero, 2),
	)
	msg.SetClOrdID(clOrdID)
	msg.SetText(reason)
	msg.SetTransactTime(time.Now())

	return quickfix.SendToTarget(msg, *sessionID)
}
