package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haardikk21/enshrined-dex/internal/common"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	assert.Equal(t, uint32(30), cfg.FeeBps)
	assert.Equal(t, 3, cfg.MaxRoutingHops)
	assert.Equal(t, common.AmountFromUint64(1), cfg.MinOrderSize)
	assert.False(t, cfg.AllowSelfTrade)
}

func TestBuilderMethodsDoNotMutateOriginal(t *testing.T) {
	base := Default()
	derived := base.WithFeeBps(50).WithMaxRoutingHops(5).WithSelfTrade(true)

	assert.Equal(t, uint32(30), base.FeeBps)
	assert.Equal(t, uint32(50), derived.FeeBps)
	assert.Equal(t, 5, derived.MaxRoutingHops)
	assert.True(t, derived.AllowSelfTrade)
}

func TestCalculateFee(t *testing.T) {
	cfg := Default().WithFeeBps(30)
	fee := cfg.CalculateFee(common.AmountFromUint64(10000))
	assert.Equal(t, common.AmountFromUint64(30), fee)
}

func TestAmountAfterFee(t *testing.T) {
	cfg := Default().WithFeeBps(30)
	after := cfg.AmountAfterFee(common.AmountFromUint64(10000))
	assert.Equal(t, common.AmountFromUint64(9970), after)
}
