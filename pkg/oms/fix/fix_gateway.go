package fixgateway

import (
	"context"
	"errors"
	"sync"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"
	"go.uber.org/zap"

	"github.com/joripage/matching-engine/pkg/oms"
	"github.com/joripage/matching-engine/pkg/oms/model"
)

var orderTypeMapping = map[enum.OrdType]model.OrderType{
	enum.OrdType_LIMIT: model.OrderTypeLimit,
}

var timeInForceMapping = map[enum.TimeInForce]model.OrderTimeInForce{
	enum.TimeInForce_DAY:              model.OrderTimeInForceDAY,
	enum.TimeInForce_GOOD_TILL_CANCEL: model.OrderTimeInForceGTC,
}

var sideMapping = map[enum.Side]model.OrderSide{
	enum.Side_BUY:  model.OrderSideBuy,
	enum.Side_SELL: model.OrderSideSell,
}

// FixGateway accepts FIX 4.4 sessions and bridges them onto the order
// management service. One session may carry many orders; reports route back
// by the ClOrdID that carried the request in.
type FixGateway struct {
	cfg         *FixGatewayConfig
	app         *Application
	omsInstance oms.IOMS

	requestMapping sync.Map // ClOrdID -> *quickfix.SessionID
}

type FixGatewayConfig struct {
	ConfigFilepath string
}

func NewFixGateway(cfg *FixGatewayConfig) *FixGateway {
	return &FixGateway{
		cfg: cfg,
	}
}

func (s *FixGateway) AddOmsInstance(o oms.IOMS) {
	s.omsInstance = o
}

func (s *FixGateway) Start(ctx context.Context) error {
	app, err := startApp(s.cfg.ConfigFilepath, s)
	if err != nil {
		zap.S().Errorf("start app err=%v", err)
		return err
	}
	s.app = app
	return nil
}

func (s *FixGateway) Stop() {
	if s.app != nil {
		stopApp(s.app)
	}
}

func (s *FixGateway) AddOrder(ctx context.Context, newOrderSingle *NewOrderSingle) {
	s.addRequestToMap(newOrderSingle.ClOrdID, newOrderSingle.SessionID)

	orderType, ok := orderTypeMapping[newOrderSingle.OrdType]
	if !ok {
		s.rejectRequest(newOrderSingle.SessionID, newOrderSingle.ClOrdID, newOrderSingle.Side, "unsupported order type")
		return
	}

	err := s.omsInstance.AddOrder(ctx, &model.AddOrder{
		GatewayID:    newOrderSingle.ClOrdID,
		Account:      newOrderSingle.Account,
		Symbol:       newOrderSingle.Symbol,
		SecurityID:   newOrderSingle.SecurityID,
		Type:         orderType,
		Price:        newOrderSingle.Price,
		TimeInForce:  timeInForceMapping[newOrderSingle.TimeInForce],
		Side:         sideMapping[newOrderSingle.Side],
		TransactTime: newOrderSingle.TransactTime,
		Quantity:     newOrderSingle.OrderQty,
	})
	if err != nil {
		s.rejectRequest(newOrderSingle.SessionID, newOrderSingle.ClOrdID, newOrderSingle.Side, err.Error())
	}
}

func (s *FixGateway) CancelOrder(ctx context.Context, req *OrderCancelRequest) {
	s.addRequestToMap(req.ClOrdID, req.SessionID)

	err := s.omsInstance.CancelOrder(ctx, &model.CancelOrder{
		GatewayID:     req.ClOrdID,
		OrigGatewayID: req.OrigClOrdID,
	})
	if err != nil {
		s.rejectRequest(req.SessionID, req.ClOrdID, req.Side, err.Error())
	}
}

func (s *FixGateway) ModifyOrder(ctx context.Context, req *OrderCancelReplaceRequest) {
	s.addRequestToMap(req.ClOrdID, req.SessionID)

	err := s.omsInstance.ModifyOrder(ctx, &model.ModifyOrder{
		GatewayID:     req.ClOrdID,
		OrigGatewayID: req.OrigClOrdID,
		NewPrice:      req.Price,
		NewQuantity:   req.OrderQty,
	})
	if err != nil {
		s.rejectRequest(req.SessionID, req.ClOrdID, req.Side, err.Error())
	}
}

// OnOrderReport implements oms.OrderGateway.
func (s *FixGateway) OnOrderReport(ctx context.Context, order model.Order) {
	sessionID, err := s.getSessionByClOrdID(order.GatewayID)
	if err != nil {
		zap.S().Errorf("report ClOrdID=%s has no session", order.GatewayID)
		return
	}

	if err := orderReportToExecutionReport(order, sessionID); err != nil {
		zap.S().Errorf("send execution report err=%v", err)
	}
}

func (s *FixGateway) addRequestToMap(clOrdID string, sessionID *quickfix.SessionID) {
	s.requestMapping.Store(clOrdID, sessionID)
}

func (s *FixGateway) getSessionByClOrdID(clOrdID string) (*quickfix.SessionID, error) {
	v, ok := s.requestMapping.Load(clOrdID)
	if !ok {
		return nil, errors.New("ClOrdID not found")
	}
	return v.(*quickfix.SessionID), nil
}

func (s *FixGateway) rejectRequest(sessionID *quickfix.SessionID, clOrdID string, side enum.Side, reason string) {
	if err := sendRejectReport(sessionID, clOrdID, side, reason); err != nil {
		zap.S().Errorf("send reject err=%v", err)
	}
}
