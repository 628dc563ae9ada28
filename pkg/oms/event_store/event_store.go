package eventstore

import "github.com/joripage/matching-engine/pkg/oms/model"

type EventStore interface {
	AddEvent(ev *model.OrderEvent)

	// gateway id chain: a cancel/replace references its predecessor by
	// OrigGatewayID, so the current id of an order changes over time.
	TrackGatewayChain(orderID, gatewayID, origGatewayID string)
	GetLatestGatewayID(orderID string) string
	GetOrigGatewayID(gatewayID string) string
	GetOrderID(gatewayID string) string
	ReconstructChain(gatewayID string) []string
}
