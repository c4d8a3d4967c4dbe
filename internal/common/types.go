// Package common holds the core value types shared by every other engine
// package: 256-bit amounts, rational prices, token/pair identifiers, and
// the Order record.
package common

import (
	"github.com/ethereum/go-ethereum/common"
)

// TokenId identifies a token by its 20-byte contract address. The all-zero
// address is the native-asset sentinel (ETH).
type TokenId = common.Address

// NativeToken is the sentinel TokenId for the chain's native asset.
var NativeToken = TokenId{}

// PairId is the direction-independent identifier of a trading pair: the
// Keccak-256 hash of the two token addresses concatenated after sorting
// them lexicographically.
type PairId = common.Hash
