package common

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// Pair is an ordered (base, quote) directional trading pair. Its identity
// (PairId) is direction-independent; the struct itself is directional.
type Pair struct {
	Base  TokenId
	Quote TokenId
}

// NewPair constructs a directional pair.
func NewPair(base, quote TokenId) Pair {
	return Pair{Base: base, Quote: quote}
}

// Id returns the direction-independent identifier for this pair.
func (p Pair) Id() PairId {
	return PairIdFromTokens(p.Base, p.Quote)
}

// Inverse returns the pair with base and quote swapped.
func (p Pair) Inverse() Pair {
	return Pair{Base: p.Quote, Quote: p.Base}
}

// Contains reports whether token is either side of the pair.
func (p Pair) Contains(token TokenId) bool {
	return p.Base == token || p.Quote == token
}

// OtherToken returns the side of the pair that is not token, and false if
// token is not part of the pair.
func (p Pair) OtherToken(token TokenId) (TokenId, bool) {
	switch token {
	case p.Base:
		return p.Quote, true
	case p.Quote:
		return p.Base, true
	default:
		return TokenId{}, false
	}
}

// String renders "base/quote".
func (p Pair) String() string {
	return fmt.Sprintf("%s/%s", p.Base, p.Quote)
}

// PairIdFromTokens computes the canonical, direction-independent PairId:
// Keccak-256 of the two 20-byte addresses concatenated after sorting them
// lexicographically.
func PairIdFromTokens(a, b TokenId) PairId {
	first, second := a, b
	if bytes.Compare(a[:], b[:]) > 0 {
		first, second = b, a
	}

	var data [40]byte
	copy(data[:20], first[:])
	copy(data[20:], second[:])

	return PairId(crypto.Keccak256Hash(data[:]))
}

// PairStats summarizes an orderbook's current state for a pair.
type PairStats struct {
	BestBid        *Price
	BestAsk        *Price
	TotalVolume    Amount
	BuyOrderCount  int
	SellOrderCount int
}
