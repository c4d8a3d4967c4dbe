// Package host adapts decoded wire operations onto a PoolManager and
// turns its results into report/event payloads. It stands in for "a
// transaction targeting the enshrined DEX address is intercepted, its
// calldata decoded, and the operation mutates the engine" — the part of
// the design explicitly left as an external collaborator, implemented
// here only far enough to drive the engine end-to-end over a wire.
package host

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/haardikk21/enshrined-dex/internal/common"
	"github.com/haardikk21/enshrined-dex/internal/pool"
	"github.com/haardikk21/enshrined-dex/internal/wire"
)

var ErrUnsupportedOp = errors.New("unsupported operation")

// Reporter receives the events an Adapter emits. A TCP host implements it
// by writing the serialized report back to the originating session; a
// test double can just record calls.
type Reporter interface {
	ReportEvent(clientAddress string, payload []byte) error
	ReportError(clientAddress string, err error) error
}

// Adapter dispatches decoded wire.Op values to a PoolManager and reports
// the outcome via a Reporter.
type Adapter struct {
	pool     *pool.PoolManager
	reporter Reporter
}

// New returns an Adapter driving mgr and reporting through reporter.
func New(mgr *pool.PoolManager, reporter Reporter) *Adapter {
	return &Adapter{pool: mgr, reporter: reporter}
}

// Handle dispatches a single decoded operation, reporting its outcome (or
// failure) back through the Reporter.
func (a *Adapter) Handle(clientAddress string, op wire.Op) error {
	var err error
	switch o := op.(type) {
	case wire.CreatePairOp:
		err = a.handleCreatePair(clientAddress, o)
	case wire.PlaceLimitOrderOp:
		err = a.handlePlaceLimitOrder(clientAddress, o)
	case wire.CancelOrderOp:
		err = a.handleCancelOrder(clientAddress, o)
	case wire.SwapOp:
		err = a.handleSwap(clientAddress, o)
	case wire.GetQuoteOp:
		err = a.handleGetQuote(clientAddress, o)
	default:
		err = ErrUnsupportedOp
	}

	if err != nil {
		log.Error().
			Err(err).
			Str("clientAddress", clientAddress).
			Msg("error handling operation")
		return a.reporter.ReportError(clientAddress, err)
	}
	return nil
}

func (a *Adapter) handleCreatePair(clientAddress string, op wire.CreatePairOp) error {
	pair, err := a.pool.CreatePair(op.Token0, op.Token1)
	if err != nil {
		return err
	}

	event := wire.PairCreated{Token0: pair.Base, Token1: pair.Quote, PairId: pair.Id()}
	return a.reporter.ReportEvent(clientAddress, event.Serialize())
}

func (a *Adapter) handlePlaceLimitOrder(clientAddress string, op wire.PlaceLimitOrderOp) error {
	side := common.Sell
	if op.IsBuy {
		side = common.Buy
	}
	price := common.NewPrice(op.PriceNum, op.PriceDenom)

	orderId, _, err := a.pool.PlaceLimitOrder(op.TokenIn, op.TokenOut, op.Trader, side, price, op.Amount)
	if err != nil {
		return err
	}

	event := wire.OrderPlaced{
		OrderId:    orderId,
		Trader:     op.Trader,
		TokenIn:    op.TokenIn,
		TokenOut:   op.TokenOut,
		IsBuy:      op.IsBuy,
		Amount:     op.Amount,
		PriceNum:   op.PriceNum,
		PriceDenom: op.PriceDenom,
	}
	return a.reporter.ReportEvent(clientAddress, event.Serialize())
}

func (a *Adapter) handleCancelOrder(clientAddress string, op wire.CancelOrderOp) error {
	_, err := a.pool.CancelOrder(op.Base, op.Quote, op.OrderId)
	if err != nil {
		return err
	}

	event := wire.OrderCancelled{OrderId: op.OrderId, Trader: op.Trader}
	return a.reporter.ReportEvent(clientAddress, event.Serialize())
}

func (a *Adapter) handleSwap(clientAddress string, op wire.SwapOp) error {
	result, err := a.pool.ExecuteSwap(op.Trader, op.TokenIn, op.TokenOut, op.AmountIn, op.MinAmountOut)
	if err != nil {
		return err
	}

	route := make([]common.PairId, len(result.Route.Hops))
	for i, hop := range result.Route.Hops {
		route[i] = hop.Pair.Id()
	}

	event := wire.Swap{
		Trader:    op.Trader,
		TokenIn:   op.TokenIn,
		TokenOut:  op.TokenOut,
		AmountIn:  result.AmountIn,
		AmountOut: result.AmountOut,
		Route:     route,
	}
	return a.reporter.ReportEvent(clientAddress, event.Serialize())
}

func (a *Adapter) handleGetQuote(clientAddress string, op wire.GetQuoteOp) error {
	quote, err := a.pool.GetQuote(op.TokenIn, op.TokenOut, op.AmountIn)
	if err != nil {
		return err
	}

	route := make([]common.PairId, len(quote.Route.Hops))
	for i, hop := range quote.Route.Hops {
		route[i] = hop.Pair.Id()
	}

	event := wire.Swap{
		Trader:    common.TokenId{},
		TokenIn:   op.TokenIn,
		TokenOut:  op.TokenOut,
		AmountIn:  quote.AmountIn,
		AmountOut: quote.AmountOut,
		Route:     route,
	}
	return a.reporter.ReportEvent(clientAddress, event.Serialize())
}
