package types

import "github.com/shopspring/decimal"

// RiskLimits are the tunable-at-runtime bounds the risk manager checks
// an opportunity against. All fields are positive decimals.
type RiskLimits struct {
	MaxPositionPerMarket decimal.Decimal
	MaxTotalExposure     decimal.Decimal
	MinProfitThreshold   decimal.Decimal
	MaxSlippage          decimal.Decimal // fraction, e.g. 0.10 = 10%
}
