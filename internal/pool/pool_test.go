package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haardikk21/enshrined-dex/internal/book"
	"github.com/haardikk21/enshrined-dex/internal/common"
)

func token(n byte) common.TokenId {
	var t common.TokenId
	t[19] = n
	return t
}

func TestCreatePairRejectsDuplicateAndSameToken(t *testing.T) {
	p := New()
	eth, usdc := token(1), token(2)

	_, err := p.CreatePair(eth, eth)
	assert.ErrorIs(t, err, ErrInvalidPair)

	_, err = p.CreatePair(eth, usdc)
	require.NoError(t, err)

	_, err = p.CreatePair(eth, usdc)
	assert.ErrorIs(t, err, ErrPairAlreadyExists)

	_, err = p.CreatePair(usdc, eth) // either direction, same PairId
	assert.ErrorIs(t, err, ErrPairAlreadyExists)

	assert.Len(t, p.Pairs(), 1)
}

func TestCancelUnknownOrderLeavesBookUntouched(t *testing.T) {
	p := New()
	eth, usdc := token(1), token(2)
	_, err := p.CreatePair(eth, usdc)
	require.NoError(t, err)

	_, _, err = p.PlaceLimitOrder(eth, usdc, token(9), common.Buy, common.PriceFromUint64(100, 1), common.AmountFromUint64(10))
	require.NoError(t, err)
	statsBefore, err := p.PairStats(eth, usdc)
	require.NoError(t, err)

	_, err = p.CancelOrder(eth, usdc, 999)
	assert.ErrorIs(t, err, book.ErrOrderNotFound)

	statsAfter, err := p.PairStats(eth, usdc)
	require.NoError(t, err)
	assert.Equal(t, statsBefore, statsAfter)

	unrelated := token(5)
	_, err = p.CancelOrder(eth, unrelated, 1)
	assert.ErrorIs(t, err, ErrPairNotFound)
}

func TestMultiHopRouting(t *testing.T) {
	p := New()
	link, eth, usdc := token(1), token(2), token(3)

	_, err := p.CreatePair(eth, usdc)
	require.NoError(t, err)
	_, err = p.CreatePair(link, eth)
	require.NoError(t, err)

	maker := token(9)

	// A LINK->USDC swap sells LINK into the LINK/ETH book and then sells
	// the resulting ETH into the ETH/USDC book, so each hop needs a
	// resting bid (Buy) for its input token, not an ask.

	// LINK/ETH: buy up to 1000 LINK @ 0.1 ETH per LINK.
	_, _, err = p.PlaceLimitOrder(link, eth, maker, common.Buy, common.PriceFromUint64(1, 10), common.AmountFromUint64(1000))
	require.NoError(t, err)

	// ETH/USDC: buy up to 1000 ETH @ 2000 USDC per ETH.
	_, _, err = p.PlaceLimitOrder(eth, usdc, maker, common.Buy, common.PriceFromUint64(2000, 1), common.AmountFromUint64(1000))
	require.NoError(t, err)

	quote, err := p.GetQuote(link, usdc, common.AmountFromUint64(100))
	require.NoError(t, err)

	assert.False(t, quote.IsDirect)
	assert.Equal(t, 2, quote.Route.Len())
	assert.False(t, quote.AmountOut.IsZero())
}

func TestSlippageGuardLeavesBooksUnchanged(t *testing.T) {
	p := New()
	eth, usdc := token(1), token(2)
	_, err := p.CreatePair(eth, usdc)
	require.NoError(t, err)

	// An ETH->USDC swap sells ETH, so the resting liquidity it needs to
	// cross is a bid (Buy), not an ask.
	maker := token(9)
	_, _, err = p.PlaceLimitOrder(eth, usdc, maker, common.Buy, common.PriceFromUint64(2000, 1), common.AmountFromUint64(1000))
	require.NoError(t, err)

	statsBefore, err := p.PairStats(eth, usdc)
	require.NoError(t, err)

	_, err = p.ExecuteSwap(token(3), eth, usdc, common.AmountFromUint64(5), common.AmountFromUint64(100_000_000))
	assert.ErrorIs(t, err, ErrSlippageExceeded)

	statsAfter, err := p.PairStats(eth, usdc)
	require.NoError(t, err)
	assert.Equal(t, statsBefore, statsAfter)
}

func TestInsufficientLiquidityReportsPartialFill(t *testing.T) {
	p := New()
	eth, usdc := token(1), token(2)
	_, err := p.CreatePair(eth, usdc)
	require.NoError(t, err)

	maker := token(9)
	_, _, err = p.PlaceLimitOrder(eth, usdc, maker, common.Sell, common.PriceFromUint64(2000, 1), common.AmountFromUint64(10))
	require.NoError(t, err)

	taker := token(3)
	result, err := p.PlaceMarketOrder(eth, usdc, taker, common.Buy, common.AmountFromUint64(1000))
	require.NoError(t, err)

	assert.False(t, result.FullyFilled)
	assert.Equal(t, common.AmountFromUint64(990), result.RemainingAmount)

	ob, ok := p.GetOrderbook(eth, usdc)
	require.True(t, ok)
	_, askOk := ob.BestAsk()
	assert.False(t, askOk)
}

func TestGetQuoteRejectsSameTokenAndZeroAmount(t *testing.T) {
	p := New()
	eth, usdc := token(1), token(2)
	_, err := p.CreatePair(eth, usdc)
	require.NoError(t, err)

	_, err = p.GetQuote(eth, eth, common.AmountFromUint64(1))
	assert.ErrorIs(t, err, ErrInvalidPair)

	_, err = p.GetQuote(eth, usdc, common.ZeroAmount())
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestGetQuoteNoRouteFound(t *testing.T) {
	p := New()
	eth, usdc, link := token(1), token(2), token(3)
	_, err := p.CreatePair(eth, usdc)
	require.NoError(t, err)

	_, err = p.GetQuote(link, usdc, common.AmountFromUint64(1))
	assert.ErrorIs(t, err, ErrNoRouteFound)
}
