package main

import (
	"context"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/joripage/matching-engine/config"
	redis_wrapper "github.com/joripage/matching-engine/pkg/infra/redis"
	"github.com/joripage/matching-engine/pkg/kafkawrapper"
	"github.com/joripage/matching-engine/pkg/logging"
	"github.com/joripage/matching-engine/pkg/oms"
	eventstore "github.com/joripage/matching-engine/pkg/oms/event_store"
	fixgateway "github.com/joripage/matching-engine/pkg/oms/fix"
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

	go func() {
		http.ListenAndServe("localhost:6060", nil) // nolint
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	fixGateway := fixgateway.NewFixGateway(&fixgateway.FixGatewayConfig{
		ConfigFilepath: cfg.Fix.ConfigFilepath,
	})
	omsInstance := oms.NewOMS(fixGateway)
	fixGateway.AddOmsInstance(omsInstance)

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

		omsInstance.SetEventStore(eventstore.NewJetStreamEventStore(js, cfg.Nats.Subject))
	}

	if cfg.Kafka != nil {
		producer := kafkawrapper.NewProducer(kafkawrapper.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
		})
		defer producer.Close() // nolint
		omsInstance.SetTradePublisher(oms.NewTradePublisher(producer, cfg.Kafka.TradeTopic))
	}

	if cfg.Redis != nil && cfg.Depth != nil {
		rdb, err := redis_wrapper.InitRedis(ctx, cfg.Redis)
		if err != nil {
			zap.S().Fatalf("connect redis fail: %v", err)
		}
		defer rdb.Close() // nolint

		depthCache := oms.NewDepthCache(rdb, omsInstance.EngineManager(), cfg.Depth.RefreshInterval())
		depthCache.Start(ctx)
	}

	if err := omsInstance.Start(ctx); err != nil {
		zap.S().Fatalf("start oms fail: %v", err)
	}
	zap.S().Infof("%s started", cfg.ServiceName)

	<-sigs
	zap.S().Info("shutting down...")

	omsInstance.Stop()
	fixGateway.Stop()
	cancel()

	zap.S().Info("exited cleanly")
}
