package types

import (
	"github.com/shopspring/decimal"
)

// usdcScale is the fractional-digit scale the arbitrage engine uses for
// all on-chain-adjacent arithmetic (USDC has 6 decimals).
const usdcScale = 6

func init() {
	// Arithmetic on Decimal values must never round asymmetrically;
	// pin a fixed division precision so intermediate divisions (e.g.
	// volume = cost / price) never depend on the caller's rounding mode.
	decimal.DivisionPrecision = usdcScale + 2
}

// Price is a fixed-point decimal in the closed interval [0, 1] for share
// markets. Never a float64 in the hot path.
type Price struct{ decimal.Decimal }

// Volume is a fixed-point decimal, always non-negative.
type Volume struct{ decimal.Decimal }

// NewPrice builds a Price, clamping to [0, 1] per the numeric policy.
func NewPrice(d decimal.Decimal) Price {
	return Price{clamp(d, decimal.Zero, decimal.NewFromInt(1))}
}

// NewVolume builds a Volume, clamping to non-negative.
func NewVolume(d decimal.Decimal) Volume {
	if d.IsNegative() {
		d = decimal.Zero
	}
	return Volume{d.Round(usdcScale)}
}

// PriceFromString parses a decimal string (as found in feed messages).
func PriceFromString(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, err
	}
	return NewPrice(d), nil
}

// VolumeFromString parses a decimal string (as found in feed messages).
func VolumeFromString(s string) (Volume, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Volume{}, err
	}
	return NewVolume(d), nil
}

func clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}

// Add returns p+o, clamped to [0,1].
func (p Price) Add(o Price) Price { return NewPrice(p.Decimal.Add(o.Decimal)) }

// Sub returns p-o, clamped to [0,1].
func (p Price) Sub(o Price) Price { return NewPrice(p.Decimal.Sub(o.Decimal)) }

// Mul multiplies a Price by a Volume, returning a plain decimal (a cost,
// not itself clamped to [0,1]).
func (p Price) Mul(v Volume) decimal.Decimal { return p.Decimal.Mul(v.Decimal) }

// Add returns v+o.
func (v Volume) Add(o Volume) Volume { return NewVolume(v.Decimal.Add(o.Decimal)) }

// Min returns the smaller of v and o.
func (v Volume) Min(o Volume) Volume {
	if v.Decimal.LessThan(o.Decimal) {
		return v
	}
	return o
}

// ToUSDCUnits converts a decimal amount to integer USDC base units
// (10^6 per dollar).
func ToUSDCUnits(d decimal.Decimal) int64 {
	return d.Shift(usdcScale).Round(0).IntPart()
}

// FromUSDCUnits converts integer USDC base units back to a decimal
// amount. FromUSDCUnits(ToUSDCUnits(d)) == d for any d already rounded
// to <= 6 fractional digits.
func FromUSDCUnits(units int64) decimal.Decimal {
	return decimal.NewFromInt(units).Shift(-usdcScale)
}
