package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haardikk21/enshrined-dex/internal/book"
	"github.com/haardikk21/enshrined-dex/internal/common"
	"github.com/haardikk21/enshrined-dex/internal/config"
)

func token(n byte) common.TokenId {
	var t common.TokenId
	t[19] = n
	return t
}

func TestFindRoutesDirectAndMultiHop(t *testing.T) {
	link, eth, usdc := token(1), token(2), token(3)

	ethUsdc := common.NewPair(eth, usdc)
	linkEth := common.NewPair(link, eth)

	books := map[common.PairId]*book.OrderBook{
		ethUsdc.Id(): book.New(ethUsdc),
		linkEth.Id(): book.New(linkEth),
	}

	r := New()
	r.AddPair(ethUsdc)
	r.AddPair(linkEth)

	routes := r.FindRoutes(link, usdc, 3, books)
	require.Len(t, routes, 1)
	assert.Equal(t, 2, routes[0].Len())

	tokenIn, _ := routes[0].TokenIn()
	tokenOut, _ := routes[0].TokenOut()
	assert.Equal(t, link, tokenIn)
	assert.Equal(t, usdc, tokenOut)

	direct := r.FindRoutes(eth, usdc, 3, books)
	require.Len(t, direct, 1)
	assert.Equal(t, 1, direct[0].Len())
}

func TestFindRoutesRejectsHopsMissingFromBooks(t *testing.T) {
	a, b, c := token(1), token(2), token(3)
	pairAB := common.NewPair(a, b)
	pairBC := common.NewPair(b, c)

	// Router knows about both pairs, but only a->b has a book.
	books := map[common.PairId]*book.OrderBook{
		pairAB.Id(): book.New(pairAB),
	}

	r := New()
	r.AddPair(pairAB)
	r.AddPair(pairBC)

	routes := r.FindRoutes(a, c, 3, books)
	assert.Empty(t, routes)
}

func TestFindBestRouteSimulatesEachPath(t *testing.T) {
	link, eth, usdc := token(1), token(2), token(3)
	ethUsdc := common.NewPair(eth, usdc)
	linkEth := common.NewPair(link, eth)

	ethUsdcBook := book.New(ethUsdc)
	linkEthBook := book.New(linkEth)

	cfg := config.Default()
	maker := token(9)

	// A LINK->USDC swap sells LINK then sells the resulting ETH, so each
	// hop needs a resting bid (Buy) for its input token to cross against.
	_, _, err := linkEthBook.PlaceLimitOrder(maker, common.Buy, common.PriceFromUint64(1, 10), common.AmountFromUint64(1000), cfg)
	require.NoError(t, err)
	_, _, err = ethUsdcBook.PlaceLimitOrder(maker, common.Buy, common.PriceFromUint64(2000, 1), common.AmountFromUint64(1000), cfg)
	require.NoError(t, err)

	books := map[common.PairId]*book.OrderBook{
		ethUsdc.Id(): ethUsdcBook,
		linkEth.Id(): linkEthBook,
	}

	r := New()
	r.AddPair(ethUsdc)
	r.AddPair(linkEth)

	route, amountOut, totalFee, found := r.FindBestRoute(link, usdc, common.AmountFromUint64(100), 3, books, cfg)
	require.True(t, found)
	assert.Equal(t, 2, route.Len())
	assert.False(t, amountOut.IsZero())
	assert.False(t, totalFee.IsZero())
}

func TestReachableTokensAndHasPath(t *testing.T) {
	a, b, c, isolated := token(1), token(2), token(3), token(4)
	r := New()
	r.AddPair(common.NewPair(a, b))
	r.AddPair(common.NewPair(b, c))

	reachable := r.ReachableTokens(a)
	assert.Contains(t, reachable, b)
	assert.Contains(t, reachable, c)
	assert.NotContains(t, reachable, isolated)

	assert.True(t, r.HasPath(a, c))
	assert.False(t, r.HasPath(a, isolated))
}

func TestRemovePair(t *testing.T) {
	a, b := token(1), token(2)
	pair := common.NewPair(a, b)

	r := New()
	r.AddPair(pair)
	assert.True(t, r.HasPath(a, b))

	r.RemovePair(pair)
	assert.False(t, r.HasPath(a, b))
}
