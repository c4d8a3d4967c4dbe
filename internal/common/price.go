package common

import "math/big"

// Price is a reduced-on-display rational numerator/denominator, both
// 256-bit, quote-per-base. Ordering is by cross-multiplication; integer
// division truncates toward zero.
type Price struct {
	Numerator   Amount
	Denominator Amount
}

// NewPrice builds a Price from a numerator and denominator without
// validating them; OrderBook.PlaceLimitOrder rejects a zero numerator or
// zero denominator with ErrInvalidPrice (internal/book).
func NewPrice(numerator, denominator Amount) Price {
	return Price{Numerator: numerator, Denominator: denominator}
}

// PriceFromUint64 builds a Price from machine-word numerator/denominator,
// mainly useful in tests.
func PriceFromUint64(numerator, denominator uint64) Price {
	return NewPrice(AmountFromUint64(numerator), AmountFromUint64(denominator))
}

// MaxBuyPrice is the market-order sentinel for a buy: willing to pay any
// price.
func MaxBuyPrice() Price {
	return NewPrice(MaxAmount(), AmountFromUint64(1))
}

// MaxSellPrice is the market-order sentinel for a sell: willing to accept
// any price.
func MaxSellPrice() Price {
	return NewPrice(AmountFromUint64(1), MaxAmount())
}

// QuoteAmount computes (base * numerator) / denominator, the quote-token
// cost of trading baseAmount base tokens at this price. The second return
// value is false if the multiplication overflows 256 bits.
func (p Price) QuoteAmount(baseAmount Amount) (Amount, bool) {
	product, ok := CheckedMul(baseAmount, p.Numerator)
	if !ok {
		return ZeroAmount(), false
	}
	quote, ok := CheckedDiv(product, p.Denominator)
	if !ok {
		return ZeroAmount(), false
	}
	return quote, true
}

// BaseAmount computes (quote * denominator) / numerator, the base-token
// amount purchasable with quoteAmount quote tokens at this price.
func (p Price) BaseAmount(quoteAmount Amount) (Amount, bool) {
	product, ok := CheckedMul(quoteAmount, p.Denominator)
	if !ok {
		return ZeroAmount(), false
	}
	base, ok := CheckedDiv(product, p.Numerator)
	if !ok {
		return ZeroAmount(), false
	}
	return base, true
}

// Invert swaps numerator and denominator.
func (p Price) Invert() Price {
	return Price{Numerator: p.Denominator, Denominator: p.Numerator}
}

// Cmp compares p and other by cross-multiplication (p.Numerator *
// other.Denominator vs other.Numerator * p.Denominator). When either
// cross product overflows 256 bits it falls back to comparing the
// saturating products, which is exact except in the degenerate case
// where both sides independently saturate to the maximum value.
func (p Price) Cmp(other Price) int {
	lhs, lhsOK := CheckedMul(p.Numerator, other.Denominator)
	rhs, rhsOK := CheckedMul(other.Numerator, p.Denominator)
	if !lhsOK || !rhsOK {
		lhs = SaturatingMul(p.Numerator, other.Denominator)
		rhs = SaturatingMul(other.Numerator, p.Denominator)
	}
	return lhs.Cmp(&rhs)
}

// LessThan reports whether p < other.
func (p Price) LessThan(other Price) bool { return p.Cmp(other) < 0 }

// GreaterThan reports whether p > other.
func (p Price) GreaterThan(other Price) bool { return p.Cmp(other) > 0 }

// GreaterOrEqual reports whether p >= other.
func (p Price) GreaterOrEqual(other Price) bool { return p.Cmp(other) >= 0 }

// LessOrEqual reports whether p <= other.
func (p Price) LessOrEqual(other Price) bool { return p.Cmp(other) <= 0 }

// Equal reports whether p and other represent the same ratio.
func (p Price) Equal(other Price) bool { return p.Cmp(other) == 0 }

// Float64 converts the price to a float64, for display metrics (such as
// price impact in basis points) where 256-bit exactness is unnecessary.
// Returns 0 if the denominator is zero.
func (p Price) Float64() float64 {
	if p.Denominator.IsZero() {
		return 0
	}
	num := new(big.Float).SetInt(p.Numerator.ToBig())
	den := new(big.Float).SetInt(p.Denominator.ToBig())
	quotient := new(big.Float).Quo(num, den)
	f, _ := quotient.Float64()
	return f
}

// String renders numerator/denominator reduced to lowest terms, omitting
// the denominator when it is exactly one.
func (p Price) String() string {
	num, den := p.Numerator.ToBig(), p.Denominator.ToBig()
	if gcd := new(big.Int).GCD(nil, nil, num, den); gcd.Sign() > 0 {
		num.Quo(num, gcd)
		den.Quo(den, gcd)
	}
	if den.Cmp(big.NewInt(1)) == 0 {
		return num.String()
	}
	return num.String() + "/" + den.String()
}
