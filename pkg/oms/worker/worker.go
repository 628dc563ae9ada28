// Package worker drains the durable event streams into postgres: order
// events from JetStream and published trades from Kafka.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/joripage/matching-engine/pkg/kafkawrapper"
	"github.com/joripage/matching-engine/pkg/oms/model"
	"github.com/joripage/matching-engine/pkg/oms/repo"
)

type Worker struct {
	orderEvent repo.IOrderEvent
	trade      repo.ITrade
}

func NewWorker(repo repo.IRepo) *Worker {
	return &Worker{
		orderEvent: repo.OrderEvent(),
		trade:      repo.Trade(),
	}
}

// StartEventConsumer pulls order events from a durable JetStream consumer
// and persists them. Events are acked only after the insert succeeds, so a
// crashed worker replays instead of losing rows.
func (w *Worker) StartEventConsumer(ctx context.Context, js nats.JetStreamContext, subject, durable string) error {
	sub, err := js.PullSubscribe(subject, durable)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := sub.Fetch(10, nats.Context(ctx))
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			if !errors.Is(err, nats.ErrTimeout) && !errors.Is(err, context.DeadlineExceeded) {
				zap.S().Errorf("jetstream fetch: %v", err)
				time.Sleep(time.Second)
			}
			continue
		}

		events := make([]*model.OrderEvent, 0, len(msgs))
		acks := make([]*nats.Msg, 0, len(msgs))
		for _, msg := range msgs {
			var ev model.OrderEvent
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				zap.S().Errorf("order event unmarshal: %v", err)
				_ = msg.Ack()
				continue
			}
			events = append(events, &ev)
			acks = append(acks, msg)
		}
		if len(events) == 0 {
			continue
		}

		if _, err := w.orderEvent.BulkCreate(ctx, events); err != nil {
			zap.S().Errorf("order event insert: %v", err)
			continue
		}
		for _, msg := range acks {
			_ = msg.Ack()
		}
	}
}

// StartTradeConsumer persists the trade feed published by the matching
// service. The consumer group commits after the batch lands in postgres.
func (w *Worker) StartTradeConsumer(ctx context.Context, cg *kafkawrapper.ConsumerGroup) error {
	return cg.Run(ctx, func(ctx context.Context, msgs []kafkawrapper.Message) error {
		trades := make([]*model.Trade, 0, len(msgs))
		for _, msg := range msgs {
			var trade model.Trade
			if err := json.Unmarshal(msg.Value, &trade); err != nil {
				zap.S().Errorf("trade unmarshal: %v", err)
				continue
			}
			trades = append(trades, &trade)
		}
		if len(trades) == 0 {
			return nil
		}
		_, err := w.trade.BulkCreate(ctx, trades)
		return err
	})
}
