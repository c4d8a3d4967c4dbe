package wire

import (
	"encoding/binary"

	"github.com/haardikk21/enshrined-dex/internal/common"
)

// ReportType tags a report/event payload sent back to the host.
type ReportType uint8

const (
	ReportPairCreated ReportType = iota
	ReportOrderPlaced
	ReportOrderCancelled
	ReportSwap
	ReportError
)

// PairCreated is PairCreated(token0, token1, pairId).
type PairCreated struct {
	Token0 common.TokenId
	Token1 common.TokenId
	PairId common.PairId
}

// Serialize lays out: type(1) + token0(20) + token1(20) + pairId(32).
func (e PairCreated) Serialize() []byte {
	buf := make([]byte, 1+tokenLen+tokenLen+wordLen)
	buf[0] = byte(ReportPairCreated)
	writeToken(buf[1:21], e.Token0)
	writeToken(buf[21:41], e.Token1)
	copy(buf[41:73], e.PairId[:])
	return buf
}

// OrderPlaced is OrderPlaced(orderId, trader, token_in, token_out, is_buy,
// amount, priceNum, priceDenom).
type OrderPlaced struct {
	OrderId    common.OrderId
	Trader     common.TokenId
	TokenIn    common.TokenId
	TokenOut   common.TokenId
	IsBuy      bool
	Amount     common.Amount
	PriceNum   common.Amount
	PriceDenom common.Amount
}

// Serialize lays out: type(1) + orderId(32) + trader(20) + tokenIn(20) +
// tokenOut(20) + isBuy(1) + amount(32) + priceNum(32) + priceDenom(32).
func (e OrderPlaced) Serialize() []byte {
	buf := make([]byte, 1+wordLen+tokenLen*3+boolLen+wordLen*3)
	buf[0] = byte(ReportOrderPlaced)
	offset := 1
	writeAmount(buf[offset:offset+wordLen], common.AmountFromUint64(uint64(e.OrderId)))
	offset += wordLen
	writeToken(buf[offset:offset+tokenLen], e.Trader)
	offset += tokenLen
	writeToken(buf[offset:offset+tokenLen], e.TokenIn)
	offset += tokenLen
	writeToken(buf[offset:offset+tokenLen], e.TokenOut)
	offset += tokenLen
	if e.IsBuy {
		buf[offset] = 1
	}
	offset += boolLen
	writeAmount(buf[offset:offset+wordLen], e.Amount)
	offset += wordLen
	writeAmount(buf[offset:offset+wordLen], e.PriceNum)
	offset += wordLen
	writeAmount(buf[offset:offset+wordLen], e.PriceDenom)
	return buf
}

// OrderCancelled is OrderCancelled(orderId, trader).
type OrderCancelled struct {
	OrderId common.OrderId
	Trader  common.TokenId
}

// Serialize lays out: type(1) + orderId(32) + trader(20).
func (e OrderCancelled) Serialize() []byte {
	buf := make([]byte, 1+wordLen+tokenLen)
	buf[0] = byte(ReportOrderCancelled)
	writeAmount(buf[1:1+wordLen], common.AmountFromUint64(uint64(e.OrderId)))
	writeToken(buf[1+wordLen:1+wordLen+tokenLen], e.Trader)
	return buf
}

// Swap is Swap(trader, token_in, token_out, amount_in, amount_out,
// route[]), where route is the ordered list of PairIds traversed.
type Swap struct {
	Trader    common.TokenId
	TokenIn   common.TokenId
	TokenOut  common.TokenId
	AmountIn  common.Amount
	AmountOut common.Amount
	Route     []common.PairId
}

// Serialize lays out the fixed fields followed by a route-length prefix
// (2 bytes) and the route's PairIds (32 bytes each), mirroring the
// length-prefixed variable trailer pattern used for report strings.
func (e Swap) Serialize() []byte {
	fixedLen := 1 + tokenLen*3 + wordLen*2 + 2
	buf := make([]byte, fixedLen+len(e.Route)*wordLen)
	buf[0] = byte(ReportSwap)
	offset := 1
	writeToken(buf[offset:offset+tokenLen], e.Trader)
	offset += tokenLen
	writeToken(buf[offset:offset+tokenLen], e.TokenIn)
	offset += tokenLen
	writeToken(buf[offset:offset+tokenLen], e.TokenOut)
	offset += tokenLen
	writeAmount(buf[offset:offset+wordLen], e.AmountIn)
	offset += wordLen
	writeAmount(buf[offset:offset+wordLen], e.AmountOut)
	offset += wordLen
	binary.BigEndian.PutUint16(buf[offset:offset+2], uint16(len(e.Route)))
	offset += 2
	for _, pairId := range e.Route {
		copy(buf[offset:offset+wordLen], pairId[:])
		offset += wordLen
	}
	return buf
}

// ErrorReport carries an operation's failure back to the host, with the
// error message as a length-prefixed trailer.
type ErrorReport struct {
	Message string
}

// Serialize lays out: type(1) + msgLen(4) + message.
func (e ErrorReport) Serialize() []byte {
	buf := make([]byte, 1+4+len(e.Message))
	buf[0] = byte(ReportError)
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(e.Message)))
	copy(buf[5:], e.Message)
	return buf
}
