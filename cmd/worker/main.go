package main

import (
	"context"
	"flag"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/joripage/matching-engine/config"
	postgres_wrapper "github.com/joripage/matching-engine/pkg/infra/postgres"
	"github.com/joripage/matching-engine/pkg/kafkawrapper"
	"github.com/joripage/matching-engine/pkg/logging"
	"github.com/joripage/matching-engine/pkg/oms/repo"
	"github.com/joripage/matching-engine/pkg/oms/worker"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	log := logging.Init(logging.INFO)
	defer log.Sync() // nolint

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	db, err := postgres_wrapper.InitPostgres(cfg.OmsDB)
	if err != nil {
		zap.S().Errorf("init db fail with err: %v", err)
		panic(err)
	}

	sqlRepo := repo.NewRepo(db)
	w := worker.NewWorker(sqlRepo)

	if cfg.Nats != nil {
		nc, err := nats.Connect(cfg.Nats.URL)
		if err != nil {
			zap.S().Fatalf("connect nats fail: %v", err)
		}
		defer nc.Close()

		js, err := nc.JetStream()
		if err != nil {
			zap.S().Fatalf("get jetstream fail: %v", err)
		}
		if _, err := js.AddStream(&nats.StreamConfig{
			Name:     cfg.Nats.Stream,
			Subjects: []string{cfg.Nats.Stream + ".*"},
		}); err != nil {
			zap.S().Warnf("add stream: %v", err)
		}

		go func() {
			if err := w.StartEventConsumer(ctx, js, cfg.Nats.Subject, cfg.Nats.Durable); err != nil {
				zap.S().Errorf("event consumer stopped: %v", err)
			}
		}()
	}

	if cfg.Kafka != nil {
		cg := kafkawrapper.NewConsumerGroup(kafkawrapper.ConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			GroupID: cfg.Kafka.GroupID,
			Topic:   cfg.Kafka.TradeTopic,
		})
		defer cg.Close() // nolint

		go func() {
			if err := w.StartTradeConsumer(ctx, cg); err != nil {
				zap.S().Errorf("trade consumer stopped: %v", err)
			}
		}()
	}

	select {}
}
