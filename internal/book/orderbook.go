// Package book implements the per-pair central limit orderbook: ordered
// price-level storage, the matching loop, and the pure simulation
// primitives used for quoting.
package book

import (
	"errors"

	"github.com/haardikk21/enshrined-dex/internal/common"
	"github.com/haardikk21/enshrined-dex/internal/config"
	"github.com/tidwall/btree"
)

var (
	ErrBelowMinimumSize      = errors.New("order amount is below minimum size")
	ErrOrderNotFound         = errors.New("order not found")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrInvalidPrice          = errors.New("invalid price")
)

// Fill is a single (partial or complete) match between a taker and a
// resting maker order.
type Fill struct {
	MakerOrderId common.OrderId
	Maker        common.TokenId
	BaseAmount   common.Amount
	QuoteAmount  common.Amount
	Price        common.Price
	TakerFee     common.Amount
	MakerFee     common.Amount
}

// TradeResult is everything that happened from placing a single order.
type TradeResult struct {
	TakerOrderId    common.OrderId
	Fills           []Fill
	RemainingAmount common.Amount
	FullyFilled     bool
}

// PriceLevel is every active order resting at a single price, in FIFO
// (price-time priority) order.
type PriceLevel struct {
	Price  common.Price
	Orders []*common.Order
}

// PriceLevels is the ordered container backing one side of the book.
type PriceLevels = btree.BTreeG[*PriceLevel]

// orderLocation is the index entry for an active order: enough to find
// its price level in O(log n) and then its slot in the level in O(k).
type orderLocation struct {
	side  common.Side
	price common.Price
}

// OrderBook holds the bids/asks for a single trading pair.
//
// bids sort descending by price (highest first); asks sort ascending
// (lowest first). index maps an OrderId to its level locator for
// cancellation. A price level is present iff its queue is non-empty.
type OrderBook struct {
	pair        common.Pair
	bids        *PriceLevels
	asks        *PriceLevels
	index       map[common.OrderId]orderLocation
	nextOrderId uint64
	totalVolume common.Amount
}

// New creates an empty orderbook for pair.
func New(pair common.Pair) *OrderBook {
	bids := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.Price.GreaterThan(b.Price) // descending: highest first
	})
	asks := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.Price.LessThan(b.Price) // ascending: lowest first
	})
	return &OrderBook{
		pair:        pair,
		bids:        bids,
		asks:        asks,
		index:       make(map[common.OrderId]orderLocation),
		nextOrderId: 1,
		totalVolume: common.ZeroAmount(),
	}
}

// Pair returns the trading pair this book serves.
func (b *OrderBook) Pair() common.Pair { return b.pair }

// TotalVolume returns the monotonically increasing base-token volume
// traded across all fills.
func (b *OrderBook) TotalVolume() common.Amount { return b.totalVolume }

func (b *OrderBook) nextId() common.OrderId {
	id := common.OrderId(b.nextOrderId)
	b.nextOrderId++
	return id
}

// PlaceLimitOrder assigns a fresh OrderId, matches the order against the
// opposite side, and rests any residual at the tail of its price level.
func (b *OrderBook) PlaceLimitOrder(
	trader common.TokenId,
	side common.Side,
	price common.Price,
	amount common.Amount,
	cfg config.DexConfig,
) (common.OrderId, TradeResult, error) {
	if amount.Cmp(&cfg.MinOrderSize) < 0 {
		return 0, TradeResult{}, ErrBelowMinimumSize
	}
	if price.Numerator.IsZero() || price.Denominator.IsZero() {
		return 0, TradeResult{}, ErrInvalidPrice
	}

	id := b.nextId()
	order := common.NewLimitOrder(id, trader, side, price, amount)

	result := b.matchOrder(&order, cfg)

	if !order.Remaining.IsZero() && order.IsActive() {
		b.rest(&order)
	}

	return id, result, nil
}

// PlaceMarketOrder assigns a fresh OrderId, matches immediately at the
// book's best available price, and discards any unfilled residual (no
// resting).
func (b *OrderBook) PlaceMarketOrder(
	trader common.TokenId,
	side common.Side,
	amount common.Amount,
	cfg config.DexConfig,
) (TradeResult, error) {
	if amount.Cmp(&cfg.MinOrderSize) < 0 {
		return TradeResult{}, ErrBelowMinimumSize
	}

	id := b.nextId()
	order := common.NewMarketOrder(id, trader, side, amount)

	return b.matchOrder(&order, cfg), nil
}

// rest inserts order at the tail of its price level's FIFO queue,
// creating the level if necessary, and records its locator in the index.
func (b *OrderBook) rest(order *common.Order) {
	tree := b.treeFor(order.Side)
	dummy := &PriceLevel{Price: order.Price}

	level, found := tree.GetMut(dummy)
	if !found {
		level = &PriceLevel{Price: order.Price}
		tree.Set(level)
	}
	level.Orders = append(level.Orders, order)

	b.index[order.Id] = orderLocation{side: order.Side, price: order.Price}
}

func (b *OrderBook) treeFor(side common.Side) *PriceLevels {
	if side == common.Buy {
		return b.bids
	}
	return b.asks
}

// oppositeTreeFor returns the resting side a taker of `side` crosses
// into: a buy crosses the asks, a sell crosses the bids.
func (b *OrderBook) oppositeTreeFor(side common.Side) *PriceLevels {
	if side == common.Buy {
		return b.asks
	}
	return b.bids
}

// matchOrder is the hot path: it walks the opposite side in its natural
// (best-price-first) order, consuming maker liquidity in price-time
// priority until the taker is filled or no further level can cross.
func (b *OrderBook) matchOrder(taker *common.Order, cfg config.DexConfig) TradeResult {
	var fills []Fill
	oppositeTree := b.oppositeTreeFor(taker.Side)

	var emptyLevels []*PriceLevel

	oppositeTree.Scan(func(level *PriceLevel) bool {
		if taker.Remaining.IsZero() {
			return false
		}

		var canMatch bool
		if taker.Side == common.Buy {
			canMatch = taker.Price.GreaterOrEqual(level.Price)
		} else {
			canMatch = taker.Price.LessOrEqual(level.Price)
		}
		if !canMatch {
			// The ordered container guarantees no better level follows.
			return false
		}

		i := 0
		for i < len(level.Orders) && !taker.Remaining.IsZero() {
			maker := level.Orders[i]

			if !maker.IsActive() {
				i++
				continue
			}
			if !cfg.AllowSelfTrade && taker.Trader == maker.Trader {
				i++
				continue
			}

			fillBase := common.Min(taker.Remaining, maker.Remaining)

			// Open question (spec §9): on overflow the fill still
			// proceeds with a zero quote amount rather than being
			// rejected.
			fillQuote, ok := maker.Price.QuoteAmount(fillBase)
			if !ok {
				fillQuote = common.ZeroAmount()
			}

			takerFee := cfg.CalculateFee(fillQuote)
			makerFee := common.ZeroAmount()

			taker.Fill(fillBase)
			maker.Fill(fillBase)

			fills = append(fills, Fill{
				MakerOrderId: maker.Id,
				Maker:        maker.Trader,
				BaseAmount:   fillBase,
				QuoteAmount:  fillQuote,
				Price:        maker.Price,
				TakerFee:     takerFee,
				MakerFee:     makerFee,
			})

			b.totalVolume = common.SaturatingAdd(b.totalVolume, fillBase)

			if !maker.IsActive() {
				delete(b.index, maker.Id)
			}

			i++
		}

		// Prune terminal orders from the level in place.
		kept := level.Orders[:0]
		for _, o := range level.Orders {
			if o.IsActive() {
				kept = append(kept, o)
			}
		}
		level.Orders = kept

		if len(level.Orders) == 0 {
			emptyLevels = append(emptyLevels, level)
		}
		return true
	})

	for _, level := range emptyLevels {
		oppositeTree.Delete(level)
	}

	return TradeResult{
		TakerOrderId:    taker.Id,
		Fills:           fills,
		RemainingAmount: taker.Remaining,
		FullyFilled:     taker.Remaining.IsZero(),
	}
}

// CancelOrder removes an order from its resting level and returns it with
// status Cancelled.
func (b *OrderBook) CancelOrder(id common.OrderId) (common.Order, error) {
	loc, found := b.index[id]
	if !found {
		return common.Order{}, ErrOrderNotFound
	}

	tree := b.treeFor(loc.side)
	dummy := &PriceLevel{Price: loc.price}
	level, found := tree.GetMut(dummy)
	if !found {
		return common.Order{}, ErrOrderNotFound
	}

	idx := -1
	for i, o := range level.Orders {
		if o.Id == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return common.Order{}, ErrOrderNotFound
	}

	order := level.Orders[idx]
	level.Orders = append(level.Orders[:idx], level.Orders[idx+1:]...)
	delete(b.index, id)

	if len(level.Orders) == 0 {
		tree.Delete(dummy)
	}

	order.Cancel()
	return *order, nil
}

// GetOrder looks up a resting order by id. Filled and cancelled orders
// are removed from the index and are not found.
func (b *OrderBook) GetOrder(id common.OrderId) (common.Order, bool) {
	loc, found := b.index[id]
	if !found {
		return common.Order{}, false
	}
	tree := b.treeFor(loc.side)
	level, found := tree.GetMut(&PriceLevel{Price: loc.price})
	if !found {
		return common.Order{}, false
	}
	for _, o := range level.Orders {
		if o.Id == id {
			return *o, true
		}
	}
	return common.Order{}, false
}

// BestBid returns the highest resting buy price, if any.
func (b *OrderBook) BestBid() (common.Price, bool) {
	level, found := b.bids.Min()
	if !found {
		return common.Price{}, false
	}
	return level.Price, true
}

// BestAsk returns the lowest resting sell price, if any.
func (b *OrderBook) BestAsk() (common.Price, bool) {
	level, found := b.asks.Min()
	if !found {
		return common.Price{}, false
	}
	return level.Price, true
}

// Spread returns (bestBid, bestAsk) if both sides have resting liquidity.
func (b *OrderBook) Spread() (bid common.Price, ask common.Price, ok bool) {
	bid, bidOk := b.BestBid()
	ask, askOk := b.BestAsk()
	if !bidOk || !askOk {
		return common.Price{}, common.Price{}, false
	}
	return bid, ask, true
}

// LiquidityAtPrice sums the active remaining amount resting at an exact
// price on the given side.
func (b *OrderBook) LiquidityAtPrice(side common.Side, price common.Price) common.Amount {
	tree := b.treeFor(side)
	level, found := tree.GetMut(&PriceLevel{Price: price})
	if !found {
		return common.ZeroAmount()
	}
	total := common.ZeroAmount()
	for _, o := range level.Orders {
		if o.IsActive() {
			total = common.SaturatingAdd(total, o.Remaining)
		}
	}
	return total
}

// LevelLiquidity is one row of a depth-limited liquidity snapshot.
type LevelLiquidity struct {
	Price  common.Price
	Amount common.Amount
}

// BidLiquidity returns up to depth bid levels, best first, each with its
// total active remaining amount.
func (b *OrderBook) BidLiquidity(depth int) []LevelLiquidity {
	return levelLiquidity(b.bids, depth)
}

// AskLiquidity returns up to depth ask levels, best first, each with its
// total active remaining amount.
func (b *OrderBook) AskLiquidity(depth int) []LevelLiquidity {
	return levelLiquidity(b.asks, depth)
}

func levelLiquidity(tree *PriceLevels, depth int) []LevelLiquidity {
	var out []LevelLiquidity
	tree.Scan(func(level *PriceLevel) bool {
		if len(out) >= depth {
			return false
		}
		total := common.ZeroAmount()
		for _, o := range level.Orders {
			if o.IsActive() {
				total = common.SaturatingAdd(total, o.Remaining)
			}
		}
		out = append(out, LevelLiquidity{Price: level.Price, Amount: total})
		return true
	})
	return out
}

// Stats summarizes the book's current state.
func (b *OrderBook) Stats() common.PairStats {
	stats := common.PairStats{TotalVolume: b.totalVolume}

	if bid, ok := b.BestBid(); ok {
		stats.BestBid = &bid
	}
	if ask, ok := b.BestAsk(); ok {
		stats.BestAsk = &ask
	}

	b.bids.Scan(func(level *PriceLevel) bool {
		stats.BuyOrderCount += len(level.Orders)
		return true
	})
	b.asks.Scan(func(level *PriceLevel) bool {
		stats.SellOrderCount += len(level.Orders)
		return true
	})

	return stats
}

// SimulateMarketBuy is the pure, non-mutating analogue of a market buy:
// given quoteIn quote tokens, it walks the asks ascending and reports how
// much base token would be bought and at what average price, after fees.
// Returns ok=false if no liquidity would be consumed.
func (b *OrderBook) SimulateMarketBuy(quoteIn common.Amount, cfg config.DexConfig) (amountOut common.Amount, avgPrice common.Price, ok bool) {
	remainingQuote := quoteIn
	totalBase := common.ZeroAmount()

	overflowed := false
	b.asks.Scan(func(level *PriceLevel) bool {
		if remainingQuote.IsZero() {
			return false
		}
		for _, order := range level.Orders {
			if !order.IsActive() || remainingQuote.IsZero() {
				continue
			}

			orderQuoteValue, qok := order.Price.QuoteAmount(order.Remaining)
			if !qok {
				overflowed = true
				return false
			}

			if remainingQuote.Cmp(&orderQuoteValue) >= 0 {
				totalBase = common.SaturatingAdd(totalBase, order.Remaining)
				remainingQuote = common.SaturatingSub(remainingQuote, orderQuoteValue)
			} else {
				baseBought, bok := order.Price.BaseAmount(remainingQuote)
				if !bok {
					overflowed = true
					return false
				}
				totalBase = common.SaturatingAdd(totalBase, baseBought)
				remainingQuote = common.ZeroAmount()
			}
		}
		return true
	})

	if overflowed || totalBase.IsZero() {
		return common.ZeroAmount(), common.Price{}, false
	}

	fee := cfg.CalculateFee(totalBase)
	outputAfterFee := common.SaturatingSub(totalBase, fee)

	spent := common.SaturatingSub(quoteIn, remainingQuote)
	avgPrice = common.NewPrice(spent, totalBase)

	return outputAfterFee, avgPrice, true
}

// SimulateMarketSell is the pure, non-mutating analogue of a market sell:
// given baseIn base tokens, it walks the bids descending and reports how
// much quote token would be received and at what average price, after
// fees. Returns ok=false if no liquidity would be consumed.
func (b *OrderBook) SimulateMarketSell(baseIn common.Amount, cfg config.DexConfig) (amountOut common.Amount, avgPrice common.Price, ok bool) {
	remainingBase := baseIn
	totalQuote := common.ZeroAmount()

	overflowed := false
	b.bids.Scan(func(level *PriceLevel) bool {
		if remainingBase.IsZero() {
			return false
		}
		for _, order := range level.Orders {
			if !order.IsActive() || remainingBase.IsZero() {
				continue
			}

			if remainingBase.Cmp(&order.Remaining) >= 0 {
				quoteValue, qok := order.Price.QuoteAmount(order.Remaining)
				if !qok {
					overflowed = true
					return false
				}
				totalQuote = common.SaturatingAdd(totalQuote, quoteValue)
				remainingBase = common.SaturatingSub(remainingBase, order.Remaining)
			} else {
				quoteValue, qok := order.Price.QuoteAmount(remainingBase)
				if !qok {
					overflowed = true
					return false
				}
				totalQuote = common.SaturatingAdd(totalQuote, quoteValue)
				remainingBase = common.ZeroAmount()
			}
		}
		return true
	})

	if overflowed || totalQuote.IsZero() {
		return common.ZeroAmount(), common.Price{}, false
	}

	fee := cfg.CalculateFee(totalQuote)
	outputAfterFee := common.SaturatingSub(totalQuote, fee)

	sold := common.SaturatingSub(baseIn, remainingBase)
	avgPrice = common.NewPrice(totalQuote, sold)

	return outputAfterFee, avgPrice, true
}
