package oms

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/joripage/matching-engine/pkg/matchengine"
)

// DepthCache periodically snapshots every book's depth into Redis so market
// data consumers read aggregated levels without touching the engine.
type DepthCache struct {
	rdb      *redis.Client
	manager  *matchengine.EngineManager
	interval time.Duration
	ttl      time.Duration
}

func NewDepthCache(rdb *redis.Client, manager *matchengine.EngineManager, interval time.Duration) *DepthCache {
	return &DepthCache{
		rdb:      rdb,
		manager:  manager,
		interval: interval,
		ttl:      10 * interval,
	}
}

func (c *DepthCache) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.refresh(ctx)
			}
		}
	}()
}

func (c *DepthCache) refresh(ctx context.Context) {
	for _, symbol := range c.manager.Symbols() {
		for _, side := range []matchengine.Side{matchengine.Buy, matchengine.Sell} {
			levels := c.manager.Depth(symbol, side)
			if err := c.write(ctx, symbol, side, levels); err != nil {
				zap.S().Errorf("depth cache %s/%s: %v", symbol, side, err)
			}
		}
	}
}

func (c *DepthCache) write(ctx context.Context, symbol string, side matchengine.Side, levels []matchengine.DepthLevel) error {
	data, err := json.Marshal(levels)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, depthKey(symbol, side), data, c.ttl).Err()
}

func depthKey(symbol string, side matchengine.Side) string {
	return fmt.Sprintf("depth:%s:%s", symbol, side)
}
