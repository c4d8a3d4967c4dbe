// Package pool owns every orderbook in the engine, the token-adjacency
// router, and the single-writer/many-reader lock guarding both. It is the
// one type the host layer talks to.
package pool

import (
	"errors"
	"sync"

	"github.com/haardikk21/enshrined-dex/internal/book"
	"github.com/haardikk21/enshrined-dex/internal/common"
	"github.com/haardikk21/enshrined-dex/internal/config"
	"github.com/haardikk21/enshrined-dex/internal/router"
)

var (
	ErrPairAlreadyExists     = errors.New("pair already exists")
	ErrPairNotFound          = errors.New("pair not found")
	ErrInvalidPair           = errors.New("base and quote token must differ")
	ErrInvalidAmount         = errors.New("amount must be non-zero")
	ErrNoRouteFound          = errors.New("no route found between tokens")
	ErrInsufficientLiquidity = errors.New("no route produced any output")
	ErrSlippageExceeded      = errors.New("output below minimum acceptable amount")
)

// PoolManager is the engine's root: every orderbook, the router built from
// their pairs, and the config they're all evaluated against. Reads take
// the RLock; any operation that can mutate a book takes the write lock for
// its whole duration, including the match it triggers, so a book is never
// observed mid-match.
type PoolManager struct {
	mu         sync.RWMutex
	config     config.DexConfig
	orderbooks map[common.PairId]*book.OrderBook
	tokenPairs map[common.TokenId]map[common.PairId]struct{}
	router     *router.Router
}

// New returns a PoolManager using config.Default().
func New() *PoolManager {
	return WithConfig(config.Default())
}

// WithConfig returns a PoolManager using the given configuration.
func WithConfig(cfg config.DexConfig) *PoolManager {
	return &PoolManager{
		config:     cfg,
		orderbooks: make(map[common.PairId]*book.OrderBook),
		tokenPairs: make(map[common.TokenId]map[common.PairId]struct{}),
		router:     router.New(),
	}
}

// Config returns the manager's current configuration.
func (p *PoolManager) Config() config.DexConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.config
}

// SetConfig replaces the manager's configuration.
func (p *PoolManager) SetConfig(cfg config.DexConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config = cfg
}

// CreatePair registers a new trading pair and its empty orderbook.
func (p *PoolManager) CreatePair(base, quote common.TokenId) (common.Pair, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if base == quote {
		return common.Pair{}, ErrInvalidPair
	}

	pair := common.NewPair(base, quote)
	id := pair.Id()

	if _, exists := p.orderbooks[id]; exists {
		return common.Pair{}, ErrPairAlreadyExists
	}

	p.orderbooks[id] = book.New(pair)
	p.router.AddPair(pair)

	p.addTokenPair(base, id)
	p.addTokenPair(quote, id)

	return pair, nil
}

func (p *PoolManager) addTokenPair(token common.TokenId, id common.PairId) {
	if p.tokenPairs[token] == nil {
		p.tokenPairs[token] = make(map[common.PairId]struct{})
	}
	p.tokenPairs[token][id] = struct{}{}
}

// GetOrderbook returns the book for (base, quote) in either direction.
func (p *PoolManager) GetOrderbook(base, quote common.TokenId) (*book.OrderBook, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ob, ok := p.orderbooks[common.NewPair(base, quote).Id()]
	return ob, ok
}

// GetOrderbookByID returns the book for a known PairId.
func (p *PoolManager) GetOrderbookByID(id common.PairId) (*book.OrderBook, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ob, ok := p.orderbooks[id]
	return ob, ok
}

// PairExists reports whether a book for (base, quote) has been created.
func (p *PoolManager) PairExists(base, quote common.TokenId) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.orderbooks[common.NewPair(base, quote).Id()]
	return ok
}

// Pairs returns every pair's canonical (base, quote) as first registered.
func (p *PoolManager) Pairs() []common.Pair {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pairs := make([]common.Pair, 0, len(p.orderbooks))
	for _, ob := range p.orderbooks {
		pairs = append(pairs, ob.Pair())
	}
	return pairs
}

// PairsForToken returns every PairId that has token on either side.
func (p *PoolManager) PairsForToken(token common.TokenId) []common.PairId {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]common.PairId, 0, len(p.tokenPairs[token]))
	for id := range p.tokenPairs[token] {
		ids = append(ids, id)
	}
	return ids
}

func (p *PoolManager) booksSnapshot() map[common.PairId]*book.OrderBook {
	snapshot := make(map[common.PairId]*book.OrderBook, len(p.orderbooks))
	for id, ob := range p.orderbooks {
		snapshot[id] = ob
	}
	return snapshot
}

// PlaceLimitOrder dispatches to the (base, quote) book's PlaceLimitOrder.
func (p *PoolManager) PlaceLimitOrder(
	base, quote common.TokenId,
	trader common.TokenId,
	side common.Side,
	price common.Price,
	amount common.Amount,
) (common.OrderId, book.TradeResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ob, ok := p.orderbooks[common.NewPair(base, quote).Id()]
	if !ok {
		return 0, book.TradeResult{}, ErrPairNotFound
	}
	return ob.PlaceLimitOrder(trader, side, price, amount, p.config)
}

// PlaceMarketOrder dispatches to the (base, quote) book's PlaceMarketOrder.
func (p *PoolManager) PlaceMarketOrder(
	base, quote common.TokenId,
	trader common.TokenId,
	side common.Side,
	amount common.Amount,
) (book.TradeResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ob, ok := p.orderbooks[common.NewPair(base, quote).Id()]
	if !ok {
		return book.TradeResult{}, ErrPairNotFound
	}
	return ob.PlaceMarketOrder(trader, side, amount, p.config)
}

// CancelOrder cancels an order resting in the (base, quote) book.
func (p *PoolManager) CancelOrder(base, quote common.TokenId, id common.OrderId) (common.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ob, ok := p.orderbooks[common.NewPair(base, quote).Id()]
	if !ok {
		return common.Order{}, ErrPairNotFound
	}
	return ob.CancelOrder(id)
}

// Quote is the result of a quote request.
type Quote struct {
	TokenIn        common.TokenId
	TokenOut       common.TokenId
	AmountIn       common.Amount
	AmountOut      common.Amount
	Route          router.Route
	PriceImpactBps uint64
	TotalFee       common.Amount
	IsDirect       bool
}

// GetQuote tries a direct book first, then falls back to the best routed
// path across up to config.MaxRoutingHops.
func (p *PoolManager) GetQuote(tokenIn, tokenOut common.TokenId, amountIn common.Amount) (Quote, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.quoteLocked(tokenIn, tokenOut, amountIn)
}

// quoteLocked is GetQuote's body, factored out so ExecuteSwap (which
// already holds the write lock) can call it without re-locking a
// non-reentrant sync.RWMutex.
func (p *PoolManager) quoteLocked(tokenIn, tokenOut common.TokenId, amountIn common.Amount) (Quote, error) {
	if tokenIn == tokenOut {
		return Quote{}, ErrInvalidPair
	}
	if amountIn.IsZero() {
		return Quote{}, ErrInvalidAmount
	}

	if quote, ok := p.getDirectQuote(tokenIn, tokenOut, amountIn); ok {
		return quote, nil
	}

	return p.getRoutedQuote(tokenIn, tokenOut, amountIn)
}

func (p *PoolManager) getDirectQuote(tokenIn, tokenOut common.TokenId, amountIn common.Amount) (Quote, bool) {
	id := common.NewPair(tokenIn, tokenOut).Id()
	ob, ok := p.orderbooks[id]
	if !ok {
		return Quote{}, false
	}

	var amountOut common.Amount
	var avgPrice common.Price
	var simOk bool
	if ob.Pair().Base == tokenIn {
		amountOut, avgPrice, simOk = ob.SimulateMarketSell(amountIn, p.config)
	} else {
		amountOut, avgPrice, simOk = ob.SimulateMarketBuy(amountIn, p.config)
	}
	if !simOk {
		return Quote{}, false
	}

	hop := router.Hop{Pair: ob.Pair(), TokenIn: tokenIn, TokenOut: tokenOut}
	return Quote{
		TokenIn:        tokenIn,
		TokenOut:       tokenOut,
		AmountIn:       amountIn,
		AmountOut:      amountOut,
		Route:          router.Route{Hops: []router.Hop{hop}},
		PriceImpactBps: p.calculatePriceImpact(ob, avgPrice),
		TotalFee:       p.config.FeeFromPostFeeAmount(amountOut),
		IsDirect:       true,
	}, true
}

// calculatePriceImpact computes |exec_price - mid_price| / mid_price *
// 10000, using float64 since this is a display metric only. Returns zero
// if the book has no two-sided market to derive a mid price from.
func (p *PoolManager) calculatePriceImpact(ob *book.OrderBook, execPrice common.Price) uint64 {
	bid, ask, ok := ob.Spread()
	if !ok {
		return 0
	}
	mid := (bid.Float64() + ask.Float64()) / 2
	if mid == 0 {
		return 0
	}
	exec := execPrice.Float64()
	impact := exec - mid
	if impact < 0 {
		impact = -impact
	}
	return uint64((impact / mid) * 10000)
}

func (p *PoolManager) getRoutedQuote(tokenIn, tokenOut common.TokenId, amountIn common.Amount) (Quote, error) {
	books := p.booksSnapshot()

	paths := p.router.FindRoutes(tokenIn, tokenOut, p.config.MaxRoutingHops, books)
	if len(paths) == 0 {
		return Quote{}, ErrNoRouteFound
	}

	route, amountOut, totalFee, ok := p.router.FindBestRoute(tokenIn, tokenOut, amountIn, p.config.MaxRoutingHops, books, p.config)
	if !ok {
		return Quote{}, ErrInsufficientLiquidity
	}

	return Quote{
		TokenIn:        tokenIn,
		TokenOut:       tokenOut,
		AmountIn:       amountIn,
		AmountOut:      amountOut,
		Route:          route,
		PriceImpactBps: 0, // cumulative multi-hop price impact is not computed; routed quotes report zero (see SPEC_FULL.md §9)
		TotalFee:       totalFee,
		IsDirect:       false,
	}, nil
}

// SwapResult is the outcome of an executed swap: how much went in, how
// much came out, the route taken, and each hop's trade result.
type SwapResult struct {
	AmountIn  common.Amount
	AmountOut common.Amount
	Route     router.Route
	Trades    []book.TradeResult
}

// ExecuteSwap routes amountIn from tokenIn to tokenOut, executing one
// market order per hop, and rejects the whole swap (without executing any
// hop) if the simulated output would fall below minOut.
func (p *PoolManager) ExecuteSwap(
	trader common.TokenId,
	tokenIn, tokenOut common.TokenId,
	amountIn common.Amount,
	minOut common.Amount,
) (SwapResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	quote, err := p.quoteLocked(tokenIn, tokenOut, amountIn)
	if err != nil {
		return SwapResult{}, err
	}
	if quote.AmountOut.Cmp(&minOut) < 0 {
		return SwapResult{}, ErrSlippageExceeded
	}

	route := quote.Route
	trades := make([]book.TradeResult, 0, len(route.Hops))
	current := amountIn

	for _, hop := range route.Hops {
		ob := p.orderbooks[hop.Pair.Id()]

		var side common.Side
		if ob.Pair().Base == hop.TokenIn {
			side = common.Sell
		} else {
			side = common.Buy
		}

		result, err := ob.PlaceMarketOrder(trader, side, current, p.config)
		if err != nil {
			return SwapResult{}, err
		}
		trades = append(trades, result)

		current = hopOutput(result, hop, ob)
	}

	return SwapResult{
		AmountIn:  amountIn,
		AmountOut: current,
		Route:     route,
		Trades:    trades,
	}, nil
}

// hopOutput sums a hop's actual fills into the amount carried to the next
// hop, in whichever token the hop produced.
func hopOutput(result book.TradeResult, hop router.Hop, ob *book.OrderBook) common.Amount {
	total := common.ZeroAmount()
	producingQuote := ob.Pair().Base == hop.TokenIn
	for _, fill := range result.Fills {
		if producingQuote {
			total = common.SaturatingAdd(total, fill.QuoteAmount)
		} else {
			total = common.SaturatingAdd(total, fill.BaseAmount)
		}
	}
	return total
}

// AllStats returns every registered pair's current PairStats.
func (p *PoolManager) AllStats() map[common.PairId]common.PairStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := make(map[common.PairId]common.PairStats, len(p.orderbooks))
	for id, ob := range p.orderbooks {
		stats[id] = ob.Stats()
	}
	return stats
}

// PairStats returns the stats for a single (base, quote) book.
func (p *PoolManager) PairStats(base, quote common.TokenId) (common.PairStats, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ob, ok := p.orderbooks[common.NewPair(base, quote).Id()]
	if !ok {
		return common.PairStats{}, ErrPairNotFound
	}
	return ob.Stats(), nil
}
