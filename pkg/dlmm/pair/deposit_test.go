package pair

import (
	"testing"

	"github.com/solana-zh/solroute/pkg/dlmm/bin"
	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

// compositionFeePair is tuned so a deposit imbalance in the low hundreds of
// tokens produces an easily-checked nonzero composition fee: base fee alone
// (no volatility) is 55_000 * 100 * 10 = 55_000_000 (5.5%, well under the
// 10% cap), and ProtocolShare=1_000 bps routes 10% of any fee to the pool.
func compositionFeePair() *Pair {
	p := newTestFullPair()
	p.Parameters.BaseFactor = 55_000
	p.Parameters.ProtocolShare = 1_000
	p.Parameters.VariableFeeControl = 0
	p.BinStep = 100
	p.ActiveID = 0
	return p
}

// TestDepositAtActiveBinChargesCompositionFee is spec.md §8's scenario 3:
// depositing (amount_x=2_000, amount_y=0) at active_id=0 into a bin holding
// (500, 500) at liquidity_supply=2^65 is a pure-X top-up against a balanced
// pool, so part of the deposit is implicitly "swapped" into covering Y's
// share of the new total and charged the pair's composition fee. At id=0
// price is exactly 1.0, so bin-liquidity value equals token amount and the
// whole chain can be hand-verified:
//
//	in_liquidity = 2000, bin_liquidity = 1000, share_before_fee = 2000*2^65/1000 = 2^66
//	sum_x, sum_y, supply_after = 2500, 500, 3*2^65
//	out_x, out_y = floor(2^66*2500/(3*2^65)), floor(2^66*500/(3*2^65)) = 1666, 333
//	out_y(333) > amount_y(0) -> composition_fee_x on delta = amount_x(2000) - out_x(1666) = 334
//	composition_fee_x = floor(334 * 55_000_000 * 1_055_000_000 / 1e18) = 19
//	protocol_fee_x = floor(19 * 1_000 / 10_000) = 1
func TestDepositAtActiveBinChargesCompositionFee(t *testing.T) {
	p := compositionFeePair()
	b := &bin.Bin{
		AmountX:         500,
		AmountY:         500,
		LiquiditySupply: uint128.From64(1).Lsh(65),
	}
	origSupply := b.LiquiditySupply

	result, err := p.DepositAtBin(b, p.ActiveID, 2000, 0, 1000)
	require.NoError(t, err)

	assert.Equal(t, uint64(19), result.CompositionFeeX)
	assert.Equal(t, uint64(0), result.CompositionFeeY)
	assert.Equal(t, uint64(1), result.ProtocolFeeX)
	assert.Equal(t, uint64(0), result.ProtocolFeeY)
	assert.True(t, result.LiquidityShare.Cmp(uint128.Zero) > 0)

	// Protocol's cut is the only amount diverted from the bin's reserves;
	// everything else the depositor put in lands back in the bin one way
	// or another (either as principal or as the LP-credited fee share).
	assert.Equal(t, uint64(500+2000-1), b.AmountX)
	assert.Equal(t, uint64(500), b.AmountY)
	assert.True(t, b.LiquiditySupply.Cmp(origSupply) > 0)

	assert.Equal(t, uint64(1), p.ProtocolFee.AmountX)
	assert.Equal(t, uint64(0), p.ProtocolFee.AmountY)
}

// TestDepositAtActiveBinBalancedSkipsCompositionFee confirms a deposit whose
// ratio matches the bin's existing reserve ratio needs no rebalancing: no
// fee is charged and the plain deposit path runs.
func TestDepositAtActiveBinBalancedSkipsCompositionFee(t *testing.T) {
	p := compositionFeePair()
	b := &bin.Bin{
		AmountX:         500,
		AmountY:         500,
		LiquiditySupply: uint128.From64(1).Lsh(65),
	}

	result, err := p.DepositAtBin(b, p.ActiveID, 1000, 1000, 1000)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), result.CompositionFeeX)
	assert.Equal(t, uint64(0), result.CompositionFeeY)
	assert.Equal(t, uint64(1500), b.AmountX)
	assert.Equal(t, uint64(1500), b.AmountY)
	assert.Equal(t, uint64(0), p.ProtocolFee.AmountX)
	assert.Equal(t, uint64(0), p.ProtocolFee.AmountY)
}

// TestDepositOffActiveBinSingleSided confirms a bin above the active id
// mints a share from a pure-X deposit with no composition-fee machinery
// involved at all.
func TestDepositOffActiveBinSingleSided(t *testing.T) {
	p := compositionFeePair()
	p.ActiveID = 0
	b := &bin.Bin{}

	result, err := p.DepositAtBin(b, 1, 1000, 0, 1000)
	require.NoError(t, err)
	assert.True(t, result.LiquidityShare.Cmp(uint128.Zero) > 0)
	assert.Equal(t, uint64(1000), b.AmountX)
	assert.Equal(t, uint64(0), b.AmountY)
}

// TestVerifyInAmountsRejectsWrongSideBelowActive covers spec §4.8's
// composition-factor-flawed edge case: a bin strictly below the active bin
// may only ever receive token Y.
func TestVerifyInAmountsRejectsWrongSideBelowActive(t *testing.T) {
	p := compositionFeePair()
	p.ActiveID = 5
	b := &bin.Bin{}

	_, err := p.DepositAtBin(b, 4, 1000, 0, 1000)
	require.Error(t, err)
	assert.True(t, dlmmerr.Is(err, dlmmerr.CompositionFactorFlawed))
}

// TestVerifyInAmountsRejectsWrongSideAboveActive is the symmetric case: a
// bin strictly above the active bin may only ever receive token X.
func TestVerifyInAmountsRejectsWrongSideAboveActive(t *testing.T) {
	p := compositionFeePair()
	p.ActiveID = 5
	b := &bin.Bin{}

	_, err := p.DepositAtBin(b, 6, 0, 1000, 1000)
	require.Error(t, err)
	assert.True(t, dlmmerr.Is(err, dlmmerr.CompositionFactorFlawed))
}
