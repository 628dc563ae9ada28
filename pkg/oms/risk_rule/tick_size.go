package riskrule

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/joripage/matching-engine/pkg/oms/model"
)

type tickSizeBand struct {
	MaxPrice decimal.Decimal `json:"maxPrice"` // zero = no upper bound
	Step     decimal.Decimal `json:"step"`
}

// TickSizeRule validates that a price lands on the tick grid of its symbol.
// Bands are ordered by MaxPrice; the first band covering the price applies.
type TickSizeRule struct {
	Config map[string][]tickSizeBand
}

func NewTickSizeRuleFromFile(path string) (*TickSizeRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg map[string][]tickSizeBand
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &TickSizeRule{Config: cfg}, nil
}

func (r *TickSizeRule) Check(add *model.AddOrder) error {
	bands, ok := r.Config[add.Symbol]
	if !ok { // no config -> no rule
		return nil
	}

	for _, band := range bands {
		if band.MaxPrice.IsZero() || add.Price.LessThanOrEqual(band.MaxPrice) {
			if !add.Price.Mod(band.Step).IsZero() {
				return fmt.Errorf("price %s not a multiple of tick %s", add.Price, band.Step)
			}
			return nil
		}
	}

	return nil
}
