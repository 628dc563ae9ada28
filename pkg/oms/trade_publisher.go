package oms

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/joripage/matching-engine/pkg/kafkawrapper"
	"github.com/joripage/matching-engine/pkg/matchengine"
	"github.com/joripage/matching-engine/pkg/oms/model"
)

// TradePublisher pushes every fill onto a Kafka topic, keyed by symbol so a
// symbol's trades stay ordered within one partition.
type TradePublisher struct {
	producer *kafkawrapper.Producer
	topic    string
}

func NewTradePublisher(producer *kafkawrapper.Producer, topic string) *TradePublisher {
	return &TradePublisher{
		producer: producer,
		topic:    topic,
	}
}

func (p *TradePublisher) PublishFill(ctx context.Context, fill *matchengine.Fill) {
	trade := model.NewTrade(fill, time.Now())
	if err := p.producer.PublishJSON(ctx, p.topic, trade.Symbol, trade); err != nil {
		zap.S().Errorf("publish trade %s/%d: %v", trade.Symbol, trade.MatchSeq, err)
	}
}

func (p *TradePublisher) Close() error {
	return p.producer.Close()
}
