package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haardikk21/enshrined-dex/internal/common"
	"github.com/haardikk21/enshrined-dex/internal/config"
)

func trader(n byte) common.TokenId {
	var t common.TokenId
	t[19] = n
	return t
}

func testPair() common.Pair {
	return common.NewPair(trader(0xE1), trader(0xE2)) // stand-ins for ETH/USDC
}

func newTestBook() *OrderBook {
	return New(testPair())
}

func TestPriceTimePriority(t *testing.T) {
	ob := newTestBook()
	cfg := config.Default()

	a, b := trader(1), trader(2)
	price := common.PriceFromUint64(100, 1)
	amount := common.AmountFromUint64(500)

	_, _, err := ob.PlaceLimitOrder(a, common.Sell, price, amount, cfg)
	require.NoError(t, err)
	_, _, err = ob.PlaceLimitOrder(b, common.Sell, price, amount, cfg)
	require.NoError(t, err)

	c := trader(3)
	result, err := ob.PlaceMarketOrder(c, common.Buy, amount, cfg)
	require.NoError(t, err)

	require.Len(t, result.Fills, 1)
	assert.Equal(t, common.OrderId(1), result.Fills[0].MakerOrderId)
	assert.True(t, result.FullyFilled)

	makerB, ok := ob.GetOrder(2)
	require.True(t, ok)
	assert.Equal(t, common.Open, makerB.Status)
	assert.Equal(t, amount, makerB.Remaining)
}

func TestLevelSweep(t *testing.T) {
	ob := newTestBook()
	cfg := config.Default()

	maker := trader(1)
	_, _, err := ob.PlaceLimitOrder(maker, common.Sell, common.PriceFromUint64(2000, 1), common.AmountFromUint64(10), cfg)
	require.NoError(t, err)
	_, _, err = ob.PlaceLimitOrder(maker, common.Sell, common.PriceFromUint64(2010, 1), common.AmountFromUint64(10), cfg)
	require.NoError(t, err)
	_, _, err = ob.PlaceLimitOrder(maker, common.Sell, common.PriceFromUint64(2020, 1), common.AmountFromUint64(10), cfg)
	require.NoError(t, err)

	taker := trader(2)
	_, result, err := ob.PlaceLimitOrder(taker, common.Buy, common.PriceFromUint64(2020, 1), common.AmountFromUint64(25), cfg)
	require.NoError(t, err)

	require.Len(t, result.Fills, 3)
	assert.Equal(t, common.AmountFromUint64(10), result.Fills[0].BaseAmount)
	assert.Equal(t, common.PriceFromUint64(2000, 1), result.Fills[0].Price)
	// The hot path records the taker fee (30bps of 20000 = 60) but leaves
	// the fill's amounts pre-fee.
	assert.Equal(t, common.AmountFromUint64(20000), result.Fills[0].QuoteAmount)
	assert.Equal(t, common.AmountFromUint64(60), result.Fills[0].TakerFee)
	assert.Equal(t, common.AmountFromUint64(10), result.Fills[1].BaseAmount)
	assert.Equal(t, common.PriceFromUint64(2010, 1), result.Fills[1].Price)
	assert.Equal(t, common.AmountFromUint64(5), result.Fills[2].BaseAmount)
	assert.Equal(t, common.PriceFromUint64(2020, 1), result.Fills[2].Price)

	liquidity := ob.LiquidityAtPrice(common.Sell, common.PriceFromUint64(2020, 1))
	assert.Equal(t, common.AmountFromUint64(5), liquidity)
}

func TestSelfTradePrevention(t *testing.T) {
	ob := newTestBook()
	cfg := config.Default()

	alice := trader(1)
	_, _, err := ob.PlaceLimitOrder(alice, common.Sell, common.PriceFromUint64(2000, 1), common.AmountFromUint64(10), cfg)
	require.NoError(t, err)

	id, result, err := ob.PlaceLimitOrder(alice, common.Buy, common.PriceFromUint64(2000, 1), common.AmountFromUint64(5), cfg)
	require.NoError(t, err)

	assert.Empty(t, result.Fills)

	resting, ok := ob.GetOrder(id)
	require.True(t, ok)
	assert.Equal(t, common.Open, resting.Status)
	assert.Equal(t, common.AmountFromUint64(5), resting.Remaining)
}

func TestInsufficientLiquidity(t *testing.T) {
	ob := newTestBook()
	cfg := config.Default()

	maker := trader(1)
	_, _, err := ob.PlaceLimitOrder(maker, common.Sell, common.PriceFromUint64(2000, 1), common.AmountFromUint64(10), cfg)
	require.NoError(t, err)

	taker := trader(2)
	result, err := ob.PlaceMarketOrder(taker, common.Buy, common.AmountFromUint64(1000), cfg)
	require.NoError(t, err)

	require.Len(t, result.Fills, 1)
	assert.Equal(t, common.AmountFromUint64(10), result.Fills[0].BaseAmount)
	assert.False(t, result.FullyFilled)
	assert.Equal(t, common.AmountFromUint64(990), result.RemainingAmount)

	_, askOk := ob.BestAsk()
	assert.False(t, askOk)
}

func TestCancelOrder(t *testing.T) {
	ob := newTestBook()
	cfg := config.Default()

	id, _, err := ob.PlaceLimitOrder(trader(1), common.Buy, common.PriceFromUint64(100, 1), common.AmountFromUint64(10), cfg)
	require.NoError(t, err)

	cancelled, err := ob.CancelOrder(id)
	require.NoError(t, err)
	assert.Equal(t, common.Cancelled, cancelled.Status)

	_, err = ob.CancelOrder(id)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, bidOk := ob.BestBid()
	assert.False(t, bidOk)
}

func TestBelowMinimumSize(t *testing.T) {
	ob := newTestBook()
	cfg := config.Default().WithMinOrderSize(common.AmountFromUint64(5))

	_, _, err := ob.PlaceLimitOrder(trader(1), common.Buy, common.PriceFromUint64(100, 1), common.AmountFromUint64(1), cfg)
	assert.ErrorIs(t, err, ErrBelowMinimumSize)
}

func TestInvalidPrice(t *testing.T) {
	ob := newTestBook()
	cfg := config.Default()

	zeroNumerator := common.NewPrice(common.ZeroAmount(), common.AmountFromUint64(1))
	_, _, err := ob.PlaceLimitOrder(trader(1), common.Buy, zeroNumerator, common.AmountFromUint64(10), cfg)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	zeroDenominator := common.NewPrice(common.AmountFromUint64(1), common.ZeroAmount())
	_, _, err = ob.PlaceLimitOrder(trader(1), common.Buy, zeroDenominator, common.AmountFromUint64(10), cfg)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestBestBidAskNeverCrossed(t *testing.T) {
	ob := newTestBook()
	cfg := config.Default()

	_, _, err := ob.PlaceLimitOrder(trader(1), common.Buy, common.PriceFromUint64(99, 1), common.AmountFromUint64(10), cfg)
	require.NoError(t, err)
	_, _, err = ob.PlaceLimitOrder(trader(2), common.Sell, common.PriceFromUint64(100, 1), common.AmountFromUint64(10), cfg)
	require.NoError(t, err)

	bid, ask, ok := ob.Spread()
	require.True(t, ok)
	assert.True(t, bid.LessThan(ask))
}

func TestSimulateMarketBuyAppliesFee(t *testing.T) {
	ob := newTestBook()
	cfg := config.Default()

	_, _, err := ob.PlaceLimitOrder(trader(1), common.Sell, common.PriceFromUint64(100, 1), common.AmountFromUint64(100), cfg)
	require.NoError(t, err)

	amountOut, _, ok := ob.SimulateMarketBuy(common.AmountFromUint64(1000), cfg)
	require.True(t, ok)
	// 1000 quote buys 10 base at price 100; fee 30bps of 10 = 0 (integer truncation)
	assert.Equal(t, common.AmountFromUint64(10), amountOut)

	_, _, err = ob.PlaceLimitOrder(trader(2), common.Sell, common.PriceFromUint64(1, 1), common.AmountFromUint64(1000), cfg)
	require.NoError(t, err)

	amountOut, _, ok = ob.SimulateMarketBuy(common.AmountFromUint64(1000), cfg)
	require.True(t, ok)
	// 1000 quote buys 1000 base at price 1; fee 30bps of 1000 = 3
	assert.Equal(t, common.AmountFromUint64(997), amountOut)
}

func TestPairIdSymmetry(t *testing.T) {
	a, b := trader(1), trader(2)
	assert.Equal(t, common.NewPair(a, b).Id(), common.NewPair(b, a).Id())
}
