package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/matching-engine/pkg/matchengine"
)

// Trade is one engine fill as persisted and published downstream.
type Trade struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	Symbol       string
	MakerOrderID string
	TakerOrderID string
	Price        decimal.Decimal `gorm:"type:numeric"`
	Qty          int64
	MatchSeq     uint64
	CreatedAt    time.Time
}

func (Trade) TableName() string { return "trades" }

func NewTrade(fill *matchengine.Fill, ts time.Time) *Trade {
	return &Trade{
		Symbol:       fill.Symbol,
		MakerOrderID: fill.MakerOrderID,
		TakerOrderID: fill.TakerOrderID,
		Price:        fill.Price,
		Qty:          fill.Qty,
		MatchSeq:     fill.MatchSeq,
		CreatedAt:    ts,
	}
}
