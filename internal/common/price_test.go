package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceCmpCrossMultiplication(t *testing.T) {
	cheap := PriceFromUint64(100, 1)  // 100/1
	costly := PriceFromUint64(150, 1) // 150/1
	assert.True(t, cheap.LessThan(costly))
	assert.True(t, costly.GreaterThan(cheap))

	equalA := PriceFromUint64(1, 2)
	equalB := PriceFromUint64(2, 4)
	assert.True(t, equalA.Equal(equalB))
}

func TestPriceCmpOverflowFallsBackToSaturatingMul(t *testing.T) {
	huge := PriceFromUint64(1, 1)
	huge.Numerator = MaxAmount()
	other := PriceFromUint64(2, 1)
	other.Denominator = MaxAmount()

	// huge.Numerator * other.Denominator (MAX * MAX) overflows; the
	// saturating fallback must not panic and must still order huge above
	// other (MAX vs 2*1).
	assert.NotPanics(t, func() {
		huge.Cmp(other)
	})
	assert.Equal(t, 1, huge.Cmp(other))
}

func TestQuoteAndBaseAmountRoundTrip(t *testing.T) {
	price := PriceFromUint64(100, 1) // 100 quote per base
	quote, ok := price.QuoteAmount(AmountFromUint64(5))
	assert.True(t, ok)
	assert.Equal(t, AmountFromUint64(500), quote)

	base, ok := price.BaseAmount(AmountFromUint64(500))
	assert.True(t, ok)
	assert.Equal(t, AmountFromUint64(5), base)
}

func TestInvert(t *testing.T) {
	price := PriceFromUint64(3, 7)
	inverted := price.Invert()
	assert.Equal(t, AmountFromUint64(7), inverted.Numerator)
	assert.Equal(t, AmountFromUint64(3), inverted.Denominator)
}

func TestMarketOrderSentinels(t *testing.T) {
	buySentinel := MaxBuyPrice()
	sellSentinel := MaxSellPrice()
	assert.True(t, buySentinel.GreaterThan(PriceFromUint64(1_000_000, 1)))
	assert.True(t, sellSentinel.LessThan(PriceFromUint64(1, 1_000_000)))
}
