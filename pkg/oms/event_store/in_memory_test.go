package eventstore

import (
	"testing"
	"time"

	"github.com/joripage/matching-engine/pkg/oms/model"
)

func eventFor(orderID, gatewayID, origGatewayID string) *model.OrderEvent {
	order := model.Order{
		OrderID:       orderID,
		ExecID:        gatewayID + "-exec",
		GatewayID:     gatewayID,
		OrigGatewayID: origGatewayID,
		Symbol:        "AAPL",
		Status:        model.OrderStatusNew,
		ExecType:      model.ExecTypeNew,
	}
	return model.NewOrderEvent(order, time.Now())
}

func TestAddEventTracksGatewayChain(t *testing.T) {
	s := NewInMemoryEventStore()

	s.AddEvent(eventFor("O1", "gw-1", ""))

	if got := s.GetOrderID("gw-1"); got != "O1" {
		t.Errorf("GetOrderID(gw-1) = %s, want O1", got)
	}
	if got := s.GetLatestGatewayID("O1"); got != "gw-1" {
		t.Errorf("GetLatestGatewayID(O1) = %s, want gw-1", got)
	}
	if got := s.GetOrderID("missing"); got != "" {
		t.Errorf("GetOrderID(missing) = %s, want empty", got)
	}
}

func TestReconstructChain(t *testing.T) {
	s := NewInMemoryEventStore()

	s.AddEvent(eventFor("O1", "gw-1", ""))
	s.AddEvent(eventFor("O1", "gw-2", "gw-1"))
	s.AddEvent(eventFor("O1", "gw-3", "gw-2"))

	chain := s.ReconstructChain("gw-3")
	want := []string{"gw-3", "gw-2", "gw-1"}
	if len(chain) != len(want) {
		t.Fatalf("chain = %v, want %v", chain, want)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Errorf("chain[%d] = %s, want %s", i, chain[i], want[i])
		}
	}

	if got := s.GetLatestGatewayID("O1"); got != "gw-3" {
		t.Errorf("GetLatestGatewayID(O1) = %s, want gw-3", got)
	}
	if got := s.GetOrderID("gw-2"); got != "O1" {
		t.Errorf("GetOrderID(gw-2) = %s, want O1", got)
	}
}
