package fixgateway

import (
	"testing"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/shopspring/decimal"

	"github.com/joripage/matching-engine/pkg/oms/model"
)

var testOrder = model.Order{
	OrderID:        "O1",
	ExecID:         "E1",
	GatewayID:      "C1",
	OrigGatewayID:  "C0",
	Account:        "ACC1",
	Symbol:         "AAPL",
	Side:           model.OrderSideBuy,
	Type:           model.OrderTypeLimit,
	Price:          decimal.RequireFromString("100.5"),
	Quantity:       decimal.NewFromInt(100),
	TransactTime:   time.Now(),
	Status:         model.OrderStatusPartiallyFilled,
	ExecType:       model.ExecTypeTrade,
	CumQuantity:    decimal.NewFromInt(40),
	LeavesQuantity: decimal.NewFromInt(60),
	LastQuantity:   decimal.NewFromInt(40),
	LastPrice:      decimal.RequireFromString("100.5"),
}

func TestBuildExecutionReport(t *testing.T) {
	msg := buildExecutionReport(testOrder)

	ordStatus, err := msg.GetOrdStatus()
	if err != nil {
		t.Fatalf("get OrdStatus: %v", err)
	}
	if ordStatus != enum.OrdStatus_PARTIALLY_FILLED {
		t.Errorf("OrdStatus = %v, want PartiallyFilled", ordStatus)
	}

	execType, err := msg.GetExecType()
	if err != nil {
		t.Fatalf("get ExecType: %v", err)
	}
	if execType != enum.ExecType_TRADE {
		t.Errorf("ExecType = %v, want Trade", execType)
	}

	side, err := msg.GetSide()
	if err != nil {
		t.Fatalf("get Side: %v", err)
	}
	if side != enum.Side_BUY {
		t.Errorf("Side = %v, want Buy", side)
	}

	clOrdID, err := msg.GetClOrdID()
	if err != nil {
		t.Fatalf("get ClOrdID: %v", err)
	}
	if clOrdID != "C1" {
		t.Errorf("ClOrdID = %s, want C1", clOrdID)
	}

	origClOrdID, err := msg.GetOrigClOrdID()
	if err != nil {
		t.Fatalf("get OrigClOrdID: %v", err)
	}
	if origClOrdID != "C0" {
		t.Errorf("OrigClOrdID = %s, want C0", origClOrdID)
	}

	leaves, err := msg.GetLeavesQty()
	if err != nil {
		t.Fatalf("get LeavesQty: %v", err)
	}
	if !leaves.Equal(decimal.NewFromInt(60)) {
		t.Errorf("LeavesQty = %s, want 60", leaves)
	}

	lastQty, err := msg.GetLastQty()
	if err != nil {
		t.Fatalf("get LastQty: %v", err)
	}
	if !lastQty.Equal(decimal.NewFromInt(40)) {
		t.Errorf("LastQty = %s, want 40", lastQty)
	}
}

func TestBuildExecutionReportNewOrder(t *testing.T) {
	order := testOrder
	order.Status = model.OrderStatusNew
	order.ExecType = model.ExecTypeNew
	order.OrigGatewayID = ""
	order.CumQuantity = decimal.Zero
	order.LeavesQuantity = order.Quantity
	order.LastQuantity = decimal.Zero
	order.LastPrice = decimal.Zero

	msg := buildExecutionReport(order)

	if msg.HasOrigClOrdID() {
		t.Errorf("OrigClOrdID set on order without a replace chain")
	}
	if msg.HasLastQty() {
		t.Errorf("LastQty set on order without fills")
	}

	ordStatus, _ := msg.GetOrdStatus()
	if ordStatus != enum.OrdStatus_NEW {
		t.Errorf("OrdStatus = %v, want New", ordStatus)
	}
}

func BenchmarkBuildExecutionReport(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = buildExecutionReport(testOrder)
	}
}
