package oms

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/joripage/matching-engine/pkg/matchengine"
	"github.com/joripage/matching-engine/pkg/oms/model"
)

type IOMS interface {
	AddOrder(ctx context.Context, addOrder *model.AddOrder) error
	CancelOrder(ctx context.Context, cancelOrder *model.CancelOrder) error
	ModifyOrder(ctx context.Context, modifyOrder *model.ModifyOrder) error

	Depth(symbol string, side model.OrderSide) []matchengine.DepthLevel
	DepthRange(symbol string, side model.OrderSide, low, high decimal.Decimal) []matchengine.DepthLevel
}
