// Package config holds the engine's tunable parameters: fee, routing
// depth, minimum order size, and the self-trade toggle.
package config

import "github.com/haardikk21/enshrined-dex/internal/common"

// DexConfig is the engine's configuration, consumed by every book/router/
// pool operation that needs fee, sizing, or routing-depth parameters.
type DexConfig struct {
	// FeeBps is the fee charged per trade in basis points (30 = 0.30%).
	FeeBps uint32
	// MaxRoutingHops bounds how many edges a multi-hop route may cross.
	MaxRoutingHops int
	// MinOrderSize rejects orders placed below this base-token amount.
	MinOrderSize common.Amount
	// AllowSelfTrade, when false, skips makers sharing the taker's address.
	AllowSelfTrade bool
}

// Default returns the engine's default configuration: 30 bps fee, 3 max
// hops, minimum order size of 1, self-trade disallowed.
func Default() DexConfig {
	return DexConfig{
		FeeBps:         30,
		MaxRoutingHops: 3,
		MinOrderSize:   common.AmountFromUint64(1),
		AllowSelfTrade: false,
	}
}

// WithFeeBps returns a copy of cfg with FeeBps replaced.
func (cfg DexConfig) WithFeeBps(feeBps uint32) DexConfig {
	cfg.FeeBps = feeBps
	return cfg
}

// WithMaxRoutingHops returns a copy of cfg with MaxRoutingHops replaced.
func (cfg DexConfig) WithMaxRoutingHops(maxHops int) DexConfig {
	cfg.MaxRoutingHops = maxHops
	return cfg
}

// WithMinOrderSize returns a copy of cfg with MinOrderSize replaced.
func (cfg DexConfig) WithMinOrderSize(minSize common.Amount) DexConfig {
	cfg.MinOrderSize = minSize
	return cfg
}

// WithSelfTrade returns a copy of cfg with AllowSelfTrade replaced.
func (cfg DexConfig) WithSelfTrade(allow bool) DexConfig {
	cfg.AllowSelfTrade = allow
	return cfg
}

// CalculateFee returns saturating(amount * FeeBps) / 10000.
func (cfg DexConfig) CalculateFee(amount common.Amount) common.Amount {
	product := common.SaturatingMul(amount, common.AmountFromUint64(uint64(cfg.FeeBps)))
	fee, _ := common.CheckedDiv(product, common.AmountFromUint64(10000))
	return fee
}

// AmountAfterFee returns amount minus CalculateFee(amount).
func (cfg DexConfig) AmountAfterFee(amount common.Amount) common.Amount {
	return common.SaturatingSub(amount, cfg.CalculateFee(amount))
}

// FeeFromPostFeeAmount reconstructs the fee that was already subtracted
// from a post-fee amount: pre = post * 10000 / (10000 - FeeBps).
func (cfg DexConfig) FeeFromPostFeeAmount(postFee common.Amount) common.Amount {
	denom := 10000 - uint64(cfg.FeeBps)
	if denom == 0 {
		return common.ZeroAmount()
	}
	scaled := common.SaturatingMul(postFee, common.AmountFromUint64(10000))
	preFee, ok := common.CheckedDiv(scaled, common.AmountFromUint64(denom))
	if !ok {
		return common.ZeroAmount()
	}
	return common.SaturatingSub(preFee, postFee)
}
