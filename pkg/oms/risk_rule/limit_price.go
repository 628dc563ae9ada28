package riskrule

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/joripage/matching-engine/pkg/oms/model"
)

type PriceBand struct {
	Floor decimal.Decimal
	Ceil  decimal.Decimal
}

// LimitPriceRule rejects orders priced outside the symbol's daily band.
// Symbols without a band are unrestricted.
type LimitPriceRule struct {
	bands map[string]PriceBand
}

func NewLimitPriceRule(bands map[string]PriceBand) *LimitPriceRule {
	return &LimitPriceRule{bands: bands}
}

func (r *LimitPriceRule) Check(add *model.AddOrder) error {
	band, ok := r.bands[add.Symbol]
	if !ok {
		return nil
	}
	if add.Price.GreaterThan(band.Ceil) || add.Price.LessThan(band.Floor) {
		return fmt.Errorf("price %s outside band [%s, %s] for %s",
			add.Price, band.Floor, band.Ceil, add.Symbol)
	}
	return nil
}
