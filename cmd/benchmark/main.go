package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/matching-engine/pkg/matchengine"
)

const (
	numOrders = 1_000_000
	minPrice  = 10000 // cents
	maxPrice  = 20000
	minQty    = 1
	maxQty    = 100
)

func randomOrder(rng *rand.Rand, id int) *matchengine.Order {
	side := matchengine.Buy
	if rng.Intn(2) == 0 {
		side = matchengine.Sell
	}
	cents := int64(rng.Intn(maxPrice-minPrice+1) + minPrice)
	qty := int64(rng.Intn(maxQty-minQty+1) + minQty)

	return &matchengine.Order{
		ID:    fmt.Sprintf("ORD-%06d", id),
		Side:  side,
		Price: decimal.New(cents, -2),
		Qty:   qty,
	}
}

func main() {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	manager := matchengine.NewEngineManager()

	totalMatched := 0
	totalQty := int64(0)
	manager.RegisterFillCallback(func(fills []*matchengine.Fill) {
		for _, f := range fills {
			totalMatched++
			totalQty += f.Qty
			if totalMatched <= 5 {
				fmt.Printf("match: %s <=> %s @ %s qty %d\n",
					f.TakerOrderID, f.MakerOrderID, f.Price, f.Qty)
			}
		}
	})

	start := time.Now()
	for i := 0; i < numOrders; i++ {
		if _, err := manager.Submit("ABC", randomOrder(rng, i+1)); err != nil {
			panic(err)
		}
	}
	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("total orders     : %d\n", numOrders)
	fmt.Printf("total matches    : %d\n", totalMatched)
	fmt.Printf("total matched qty: %d\n", totalQty)
	fmt.Printf("time taken       : %s\n", elapsed)
	fmt.Printf("orders/sec       : %.0f\n", float64(numOrders)/elapsed.Seconds())
}
