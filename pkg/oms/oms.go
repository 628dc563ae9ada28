package oms

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/joripage/matching-engine/pkg/logging"
	"github.com/joripage/matching-engine/pkg/matchengine"
	eventstore "github.com/joripage/matching-engine/pkg/oms/event_store"
	"github.com/joripage/matching-engine/pkg/oms/model"
	riskrule "github.com/joripage/matching-engine/pkg/oms/risk_rule"
)

// OMS sits between order gateways and the matching engine: it validates and
// tracks orders, converts gateway commands into engine submits/cancels, and
// turns engine fills into execution reports, events and published trades.
type OMS struct {
	orderGateway  OrderGateway
	engineManager *matchengine.EngineManager
	eventstore    eventstore.EventStore

	tradePublisher *TradePublisher
	rules          []riskrule.RiskRule

	orderIDMapping sync.Map
	reports        *reportQueue
	stopCh         chan struct{}
}

func NewOMS(orderGateway OrderGateway) *OMS {
	s := &OMS{
		orderGateway:  orderGateway,
		engineManager: matchengine.NewEngineManager(),
		eventstore:    eventstore.NewInMemoryEventStore(),
		stopCh:        make(chan struct{}),
	}
	s.reports = newReportQueue(func(ctx context.Context, order model.Order) {
		s.orderGateway.OnOrderReport(ctx, order)
	})

	return s
}

func (s *OMS) SetEventStore(es eventstore.EventStore) {
	s.eventstore = es
}

func (s *OMS) SetTradePublisher(tp *TradePublisher) {
	s.tradePublisher = tp
}

func (s *OMS) AddRiskRule(rule riskrule.RiskRule) {
	s.rules = append(s.rules, rule)
}

func (s *OMS) Start(ctx context.Context) error {
	go s.reports.run(ctx)
	go s.startCleaner(10 * time.Second)
	return s.orderGateway.Start(ctx)
}

func (s *OMS) Stop() {
	close(s.stopCh)
}

func (s *OMS) AddOrder(ctx context.Context, addOrder *model.AddOrder) error {
	log, ctx := logging.GetLogger(logging.WithRequestID(ctx, uuid.New().String()))
	log.Info(ctx, "add order",
		zap.String("gateway_id", addOrder.GatewayID),
		zap.String("symbol", addOrder.Symbol),
		zap.String("side", string(addOrder.Side)))

	if addOrder.Type != model.OrderTypeLimit {
		return errUnsupportedOrderType
	}
	side, ok := addOrder.Side.EngineSide()
	if !ok {
		return errInvalidSide
	}
	for _, rule := range s.rules {
		if err := rule.Check(addOrder); err != nil {
			zap.S().Warnf("risk rule rejected %s: %v", addOrder.GatewayID, err)
			return err
		}
	}
	if s.eventstore.GetOrderID(addOrder.GatewayID) != "" {
		return errDuplicateOrder
	}

	order := &model.Order{}
	order.UpdateAddOrder(addOrder)
	s.AddOrderToMap(order)

	fills, err := s.engineManager.Submit(order.Symbol, &matchengine.Order{
		ID:    order.OrderID,
		Side:  side,
		Price: order.Price,
		Qty:   order.Quantity.IntPart(),
	})
	if err != nil {
		order.Reject()
		s.record(order)
		return err
	}

	// booked -> report New before any trade that may follow it
	s.record(order)
	s.processFills(ctx, fills)

	return nil
}

func (s *OMS) CancelOrder(ctx context.Context, cancelOrder *model.CancelOrder) error {
	log, ctx := logging.GetLogger(logging.WithRequestID(ctx, uuid.New().String()))
	log.Info(ctx, "cancel order",
		zap.String("gateway_id", cancelOrder.GatewayID),
		zap.String("orig_gateway_id", cancelOrder.OrigGatewayID))

	orderID := s.eventstore.GetOrderID(cancelOrder.OrigGatewayID)
	order, err := s.GetOrderByOrderID(orderID)
	if err != nil {
		return errGatewayIDNotFound
	}

	if !order.CanCancel() {
		return errInvalidOrderStatus
	}

	if !s.engineManager.Cancel(order.Symbol, order.OrderID) {
		// already filled or cancelled between status check and engine call
		return errInvalidOrderStatus
	}
	order.UpdateCancelOrder(cancelOrder)
	s.record(order)

	return nil
}

// ModifyOrder is cancel/replace: the remainder loses time priority and is
// re-admitted at the new price and quantity.
func (s *OMS) ModifyOrder(ctx context.Context, modifyOrder *model.ModifyOrder) error {
	log, ctx := logging.GetLogger(logging.WithRequestID(ctx, uuid.New().String()))
	log.Info(ctx, "modify order",
		zap.String("gateway_id", modifyOrder.GatewayID),
		zap.String("orig_gateway_id", modifyOrder.OrigGatewayID))

	orderID := s.eventstore.GetOrderID(modifyOrder.OrigGatewayID)
	order, err := s.GetOrderByOrderID(orderID)
	if err != nil {
		return errGatewayIDNotFound
	}

	if !order.CanModify() {
		return errInvalidOrderStatus
	}

	// the replace must leave something to trade, otherwise the order would
	// be stranded non-terminal with nothing resting in the engine
	if modifyOrder.NewQuantity.LessThanOrEqual(order.CumQuantity) {
		return errInvalidModifyQty
	}

	if !s.engineManager.Cancel(order.Symbol, order.OrderID) {
		return errInvalidOrderStatus
	}

	order.UpdateModifyOrder(modifyOrder)
	s.record(order)

	leaves := order.LeavesQuantity.IntPart()
	side, _ := order.Side.EngineSide()
	fills, err := s.engineManager.Submit(order.Symbol, &matchengine.Order{
		ID:    order.OrderID,
		Side:  side,
		Price: order.Price,
		Qty:   leaves,
	})
	if err != nil {
		order.Reject()
		s.record(order)
		return err
	}
	s.processFills(ctx, fills)

	return nil
}

func (s *OMS) Depth(symbol string, side model.OrderSide) []matchengine.DepthLevel {
	engineSide, ok := side.EngineSide()
	if !ok {
		return nil
	}
	return s.engineManager.Depth(symbol, engineSide)
}

func (s *OMS) DepthRange(symbol string, side model.OrderSide, low, high decimal.Decimal) []matchengine.DepthLevel {
	engineSide, ok := side.EngineSide()
	if !ok {
		return nil
	}
	return s.engineManager.DepthRange(symbol, engineSide, low, high)
}

func (s *OMS) EngineManager() *matchengine.EngineManager {
	return s.engineManager
}

func (s *OMS) processFills(ctx context.Context, fills []*matchengine.Fill) {
	for _, fill := range fills {
		if s.tradePublisher != nil {
			s.tradePublisher.PublishFill(ctx, fill)
		}

		maker, err := s.GetOrderByOrderID(fill.MakerOrderID)
		if err != nil {
			zap.S().Errorf("fill makerOrderID=%s not found", fill.MakerOrderID)
		} else {
			maker.UpdateFill(fill)
			s.record(maker)
		}

		taker, err := s.GetOrderByOrderID(fill.TakerOrderID)
		if err != nil {
			zap.S().Errorf("fill takerOrderID=%s not found", fill.TakerOrderID)
			continue
		}
		taker.UpdateFill(fill)
		s.record(taker)
	}
}

// record snapshots the order into an event and a gateway report. The copy is
// deliberate: the live order keeps mutating as later fills arrive.
func (s *OMS) record(order *model.Order) {
	bkOrder := *order
	s.eventstore.AddEvent(model.NewOrderEvent(bkOrder, time.Now()))
	s.reports.enqueue(bkOrder)
}
