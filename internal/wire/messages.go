// Package wire implements the binary protocol the host uses to decode
// calldata aimed at the enshrined DEX contract address into engine
// operations, and to serialize reports/events back onto the wire.
package wire

import (
	"encoding/binary"
	"errors"

	"github.com/haardikk21/enshrined-dex/internal/common"
)

var (
	ErrInvalidOpType   = errors.New("invalid operation type")
	ErrMessageTooShort = errors.New("message too short for its operation type")
)

// OpType tags the operation a decoded message carries.
type OpType uint16

const (
	OpCreatePair OpType = iota
	OpPlaceLimitOrder
	OpCancelOrder
	OpSwap
	OpGetQuote
)

// Field widths. TokenId is a 20-byte address; Amount, Price numerator and
// denominator, and (per the external-representation note) OrderId are
// each carried in a 32-byte field, zero-padded where the value is
// narrower than the field.
const (
	headerLen   = 2
	tokenLen    = 20
	wordLen     = 32
	boolLen     = 1
	orderIdWire = 32

	createPairBodyLen      = tokenLen + tokenLen
	placeLimitOrderBodyLen = tokenLen + tokenLen + tokenLen + boolLen + wordLen + wordLen + wordLen
	cancelOrderBodyLen     = tokenLen + tokenLen + tokenLen + orderIdWire
	swapBodyLen            = tokenLen + tokenLen + tokenLen + wordLen + wordLen
	getQuoteBodyLen        = tokenLen + tokenLen + wordLen
)

// Op is implemented by every decoded operation.
type Op interface {
	Type() OpType
}

// CreatePairOp is createPair(token0, token1).
type CreatePairOp struct {
	Token0 common.TokenId
	Token1 common.TokenId
}

func (CreatePairOp) Type() OpType { return OpCreatePair }

// PlaceLimitOrderOp is placeLimitOrder(token_in, token_out, isBuy, amount,
// priceNum, priceDenom), with the trader address carried ahead of the
// taxonomy fields since the engine needs it for self-trade checks.
type PlaceLimitOrderOp struct {
	Trader     common.TokenId
	TokenIn    common.TokenId
	TokenOut   common.TokenId
	IsBuy      bool
	Amount     common.Amount
	PriceNum   common.Amount
	PriceDenom common.Amount
}

func (PlaceLimitOrderOp) Type() OpType { return OpPlaceLimitOrder }

// CancelOrderOp is cancelOrder(orderId), scoped to the (base, quote) book
// that the order was placed against.
type CancelOrderOp struct {
	Trader  common.TokenId
	Base    common.TokenId
	Quote   common.TokenId
	OrderId common.OrderId
}

func (CancelOrderOp) Type() OpType { return OpCancelOrder }

// SwapOp is swap(token_in, token_out, amount_in, min_amount_out).
type SwapOp struct {
	Trader       common.TokenId
	TokenIn      common.TokenId
	TokenOut     common.TokenId
	AmountIn     common.Amount
	MinAmountOut common.Amount
}

func (SwapOp) Type() OpType { return OpSwap }

// GetQuoteOp is getQuote(token_in, token_out, amount_in).
type GetQuoteOp struct {
	TokenIn  common.TokenId
	TokenOut common.TokenId
	AmountIn common.Amount
}

func (GetQuoteOp) Type() OpType { return OpGetQuote }

// Decode reads the 2-byte type header and dispatches to the matching
// operation parser.
func Decode(msg []byte) (Op, error) {
	if len(msg) < headerLen {
		return nil, ErrMessageTooShort
	}
	opType := OpType(binary.BigEndian.Uint16(msg[0:2]))
	body := msg[headerLen:]

	switch opType {
	case OpCreatePair:
		return decodeCreatePair(body)
	case OpPlaceLimitOrder:
		return decodePlaceLimitOrder(body)
	case OpCancelOrder:
		return decodeCancelOrder(body)
	case OpSwap:
		return decodeSwap(body)
	case OpGetQuote:
		return decodeGetQuote(body)
	default:
		return nil, ErrInvalidOpType
	}
}

func readToken(buf []byte) common.TokenId {
	var t common.TokenId
	copy(t[:], buf[:tokenLen])
	return t
}

func writeToken(buf []byte, t common.TokenId) {
	copy(buf, t[:])
}

func readAmount(buf []byte) common.Amount {
	var a common.Amount
	a.SetBytes32(buf[:wordLen])
	return a
}

func writeAmount(buf []byte, a common.Amount) {
	b := a.Bytes32()
	copy(buf, b[:])
}

func decodeCreatePair(body []byte) (CreatePairOp, error) {
	if len(body) < createPairBodyLen {
		return CreatePairOp{}, ErrMessageTooShort
	}
	return CreatePairOp{
		Token0: readToken(body[0:20]),
		Token1: readToken(body[20:40]),
	}, nil
}

func decodePlaceLimitOrder(body []byte) (PlaceLimitOrderOp, error) {
	if len(body) < placeLimitOrderBodyLen {
		return PlaceLimitOrderOp{}, ErrMessageTooShort
	}
	offset := 0
	trader := readToken(body[offset : offset+tokenLen])
	offset += tokenLen
	tokenIn := readToken(body[offset : offset+tokenLen])
	offset += tokenLen
	tokenOut := readToken(body[offset : offset+tokenLen])
	offset += tokenLen
	isBuy := body[offset] != 0
	offset += boolLen
	amount := readAmount(body[offset : offset+wordLen])
	offset += wordLen
	priceNum := readAmount(body[offset : offset+wordLen])
	offset += wordLen
	priceDenom := readAmount(body[offset : offset+wordLen])

	return PlaceLimitOrderOp{
		Trader:     trader,
		TokenIn:    tokenIn,
		TokenOut:   tokenOut,
		IsBuy:      isBuy,
		Amount:     amount,
		PriceNum:   priceNum,
		PriceDenom: priceDenom,
	}, nil
}

func decodeCancelOrder(body []byte) (CancelOrderOp, error) {
	if len(body) < cancelOrderBodyLen {
		return CancelOrderOp{}, ErrMessageTooShort
	}
	offset := 0
	trader := readToken(body[offset : offset+tokenLen])
	offset += tokenLen
	base := readToken(body[offset : offset+tokenLen])
	offset += tokenLen
	quote := readToken(body[offset : offset+tokenLen])
	offset += tokenLen
	orderId := readAmount(body[offset : offset+orderIdWire])

	return CancelOrderOp{
		Trader:  trader,
		Base:    base,
		Quote:   quote,
		OrderId: common.OrderId(orderId.Uint64()),
	}, nil
}

func decodeSwap(body []byte) (SwapOp, error) {
	if len(body) < swapBodyLen {
		return SwapOp{}, ErrMessageTooShort
	}
	offset := 0
	trader := readToken(body[offset : offset+tokenLen])
	offset += tokenLen
	tokenIn := readToken(body[offset : offset+tokenLen])
	offset += tokenLen
	tokenOut := readToken(body[offset : offset+tokenLen])
	offset += tokenLen
	amountIn := readAmount(body[offset : offset+wordLen])
	offset += wordLen
	minAmountOut := readAmount(body[offset : offset+wordLen])

	return SwapOp{
		Trader:       trader,
		TokenIn:      tokenIn,
		TokenOut:     tokenOut,
		AmountIn:     amountIn,
		MinAmountOut: minAmountOut,
	}, nil
}

func decodeGetQuote(body []byte) (GetQuoteOp, error) {
	if len(body) < getQuoteBodyLen {
		return GetQuoteOp{}, ErrMessageTooShort
	}
	offset := 0
	tokenIn := readToken(body[offset : offset+tokenLen])
	offset += tokenLen
	tokenOut := readToken(body[offset : offset+tokenLen])
	offset += tokenLen
	amountIn := readAmount(body[offset : offset+wordLen])

	return GetQuoteOp{
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		AmountIn: amountIn,
	}, nil
}

// EncodeCreatePair is the client-side counterpart of decodeCreatePair,
// used by dexctl and tests.
func EncodeCreatePair(op CreatePairOp) []byte {
	buf := make([]byte, headerLen+createPairBodyLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(OpCreatePair))
	writeToken(buf[2:22], op.Token0)
	writeToken(buf[22:42], op.Token1)
	return buf
}

// EncodePlaceLimitOrder is the client-side counterpart of
// decodePlaceLimitOrder.
func EncodePlaceLimitOrder(op PlaceLimitOrderOp) []byte {
	buf := make([]byte, headerLen+placeLimitOrderBodyLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(OpPlaceLimitOrder))
	offset := headerLen
	writeToken(buf[offset:offset+tokenLen], op.Trader)
	offset += tokenLen
	writeToken(buf[offset:offset+tokenLen], op.TokenIn)
	offset += tokenLen
	writeToken(buf[offset:offset+tokenLen], op.TokenOut)
	offset += tokenLen
	if op.IsBuy {
		buf[offset] = 1
	}
	offset += boolLen
	writeAmount(buf[offset:offset+wordLen], op.Amount)
	offset += wordLen
	writeAmount(buf[offset:offset+wordLen], op.PriceNum)
	offset += wordLen
	writeAmount(buf[offset:offset+wordLen], op.PriceDenom)
	return buf
}

// EncodeCancelOrder is the client-side counterpart of decodeCancelOrder.
func EncodeCancelOrder(op CancelOrderOp) []byte {
	buf := make([]byte, headerLen+cancelOrderBodyLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(OpCancelOrder))
	offset := headerLen
	writeToken(buf[offset:offset+tokenLen], op.Trader)
	offset += tokenLen
	writeToken(buf[offset:offset+tokenLen], op.Base)
	offset += tokenLen
	writeToken(buf[offset:offset+tokenLen], op.Quote)
	offset += tokenLen
	writeAmount(buf[offset:offset+orderIdWire], common.AmountFromUint64(uint64(op.OrderId)))
	return buf
}

// EncodeSwap is the client-side counterpart of decodeSwap.
func EncodeSwap(op SwapOp) []byte {
	buf := make([]byte, headerLen+swapBodyLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(OpSwap))
	offset := headerLen
	writeToken(buf[offset:offset+tokenLen], op.Trader)
	offset += tokenLen
	writeToken(buf[offset:offset+tokenLen], op.TokenIn)
	offset += tokenLen
	writeToken(buf[offset:offset+tokenLen], op.TokenOut)
	offset += tokenLen
	writeAmount(buf[offset:offset+wordLen], op.AmountIn)
	offset += wordLen
	writeAmount(buf[offset:offset+wordLen], op.MinAmountOut)
	return buf
}

// EncodeGetQuote is the client-side counterpart of decodeGetQuote.
func EncodeGetQuote(op GetQuoteOp) []byte {
	buf := make([]byte, headerLen+getQuoteBodyLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(OpGetQuote))
	offset := headerLen
	writeToken(buf[offset:offset+tokenLen], op.TokenIn)
	offset += tokenLen
	writeToken(buf[offset:offset+tokenLen], op.TokenOut)
	offset += tokenLen
	writeAmount(buf[offset:offset+wordLen], op.AmountIn)
	return buf
}
