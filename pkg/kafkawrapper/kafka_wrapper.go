// Package kafkawrapper wraps segmentio/kafka-go with the small surface the
// service needs: an async JSON producer and a batch consumer group with
// retry and commit handling.
package kafkawrapper

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cenkalti/backoff"
	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Time      time.Time
}

type ProducerConfig struct {
	Brokers      []string
	BatchSize    int
	BatchTimeout time.Duration
}

type Producer struct {
	w *kafka.Writer
}

func NewProducer(cfg ProducerConfig) *Producer {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	return &Producer{w: &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
	}}
}

func (p *Producer) Publish(ctx context.Context, topic string, key, value []byte) error {
	if p == nil || p.w == nil {
		return errors.New("producer not initialized")
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Producer) PublishJSON(ctx context.Context, topic, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.Publish(ctx, topic, []byte(key), b)
}

func (p *Producer) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}

type ConsumerConfig struct {
	Brokers      []string
	GroupID      string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	MaxRetries   uint64
}

// ConsumerGroup fetches messages and hands them to a handler in batches.
// Offsets commit only after the handler accepts the batch.
type ConsumerGroup struct {
	r   *kafka.Reader
	cfg ConsumerConfig
}

func NewConsumerGroup(cfg ConsumerConfig) *ConsumerGroup {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 50
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 200 * time.Millisecond
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 5
	}
	return &ConsumerGroup{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     cfg.Brokers,
			GroupID:     cfg.GroupID,
			Topic:       cfg.Topic,
			StartOffset: kafka.FirstOffset,
			MaxWait:     500 * time.Millisecond,
			MinBytes:    1,
			MaxBytes:    10 << 20,
		}),
		cfg: cfg,
	}
}

func (cg *ConsumerGroup) Close() error {
	if cg == nil || cg.r == nil {
		return nil
	}
	return cg.r.Close()
}

// Run blocks until ctx is cancelled. Handler errors are retried with
// exponential backoff; a batch that exhausts its retries is committed and
// dropped so the partition does not stall.
func (cg *ConsumerGroup) Run(ctx context.Context, handler func(context.Context, []Message) error) error {
	if cg == nil || cg.r == nil {
		return errors.New("consumer not initialized")
	}

	var raw []kafka.Message
	deadline := time.Now().Add(cg.cfg.BatchTimeout)

	for {
		fetchCtx, cancel := context.WithDeadline(ctx, deadline)
		m, err := cg.r.FetchMessage(fetchCtx)
		cancel()

		switch {
		case err == nil:
			raw = append(raw, m)
			if len(raw) < cg.cfg.BatchSize {
				continue
			}
		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			// batch window elapsed, flush what we have
		case errors.Is(err, context.Canceled) || ctx.Err() != nil:
			return ctx.Err()
		default:
			zap.S().Errorf("kafka fetch: %v", err)
			time.Sleep(200 * time.Millisecond)
			continue
		}

		if len(raw) > 0 {
			if err := cg.deliver(ctx, raw, handler); err != nil {
				return err
			}
			raw = nil
		}
		deadline = time.Now().Add(cg.cfg.BatchTimeout)
	}
}

func (cg *ConsumerGroup) deliver(ctx context.Context, raw []kafka.Message, handler func(context.Context, []Message) error) error {
	batch := make([]Message, len(raw))
	for i, m := range raw {
		batch[i] = Message{
			Topic:     m.Topic,
			Partition: m.Partition,
			Offset:    m.Offset,
			Key:       m.Key,
			Value:     m.Value,
			Time:      m.Time,
		}
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), cg.cfg.MaxRetries), ctx)
	err := backoff.Retry(func() error {
		return handler(ctx, batch)
	}, policy)

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		zap.S().Errorf("kafka batch dropped after retries: %v", err)
	}
	return cg.r.CommitMessages(ctx, raw...)
}
