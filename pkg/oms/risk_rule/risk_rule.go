package riskrule

import "github.com/joripage/matching-engine/pkg/oms/model"

type RiskRule interface {
	Check(add *model.AddOrder) error
}
