package eventstore

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/joripage/matching-engine/pkg/oms/model"
)

// JetStreamEventStore keeps the in-memory store as the hot index and mirrors
// every event onto a JetStream subject for the persistence worker. Publishing
// is async; a publish failure is logged, never blocks order flow.
type JetStreamEventStore struct {
	inner   *InMemoryEventStore
	js      nats.JetStreamContext
	subject string
}

func NewJetStreamEventStore(js nats.JetStreamContext, subject string) *JetStreamEventStore {
	return &JetStreamEventStore{
		inner:   NewInMemoryEventStore(),
		js:      js,
		subject: subject,
	}
}

func (s *JetStreamEventStore) AddEvent(ev *model.OrderEvent) {
	s.inner.AddEvent(ev)

	data, err := json.Marshal(ev)
	if err != nil {
		zap.S().Errorf("marshal order event %s: %v", ev.EventID, err)
		return
	}
	if _, err := s.js.PublishAsync(s.subject, data); err != nil {
		zap.S().Errorf("publish order event %s: %v", ev.EventID, err)
	}
}

func (s *JetStreamEventStore) TrackGatewayChain(orderID, gatewayID, origGatewayID string) {
	s.inner.TrackGatewayChain(orderID, gatewayID, origGatewayID)
}

func (s *JetStreamEventStore) GetLatestGatewayID(orderID string) string {
	return s.inner.GetLatestGatewayID(orderID)
}

func (s *JetStreamEventStore) GetOrigGatewayID(gatewayID string) string {
	return s.inner.GetOrigGatewayID(gatewayID)
}

func (s *JetStreamEventStore) GetOrderID(gatewayID string) string {
	return s.inner.GetOrderID(gatewayID)
}

func (s *JetStreamEventStore) ReconstructChain(gatewayID string) []string {
	return s.inner.ReconstructChain(gatewayID)
}
