package pair

import (
	"testing"

	"github.com/solana-zh/solroute/pkg/dlmm/bin"
	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
	"github.com/solana-zh/solroute/pkg/dlmm/feemath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

type singleArraySource struct {
	array *bin.BinArray
}

func (s singleArraySource) ArrayForBin(binID int32) (*bin.BinArray, error) {
	return s.array, nil
}

func newSwapTestPair() (*Pair, *bin.BinArray) {
	p := &Pair{
		Parameters: feemath.StaticParameters{
			MinBinID: -100,
			MaxBinID: 100,
		},
		BinStep:  10,
		Status:   StatusEnabled,
		ActiveID: 0,
	}
	arr := &bin.BinArray{Index: 0}
	b, _ := arr.GetBinMut(0)
	b.AmountX = 1_000_000
	b.AmountY = 1_000_000
	b.LiquiditySupply = uint128.From64(1).Lsh(64)
	return p, arr
}

func TestSwapExactInZeroFee(t *testing.T) {
	p, arr := newSwapTestPair()
	source := singleArraySource{array: arr}

	res, err := p.SwapExactIn(source, 1000, true, 0, nil)
	require.NoError(t, err)
	assert.True(t, res.AmountOut > 0)
	assert.True(t, res.AmountOut <= 1000)
	assert.Equal(t, int32(0), p.ActiveID)

	b, err := arr.GetBin(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000+1000), b.AmountX)
}

func TestSwapExactOutZeroFee(t *testing.T) {
	p, arr := newSwapTestPair()
	source := singleArraySource{array: arr}

	res, err := p.SwapExactOut(source, 500, true, 0, nil)
	require.NoError(t, err)
	assert.True(t, res.AmountIn >= 500)
}

func TestSwapExactInAdvancesAcrossDrainedBin(t *testing.T) {
	p, arr := newSwapTestPair()
	b0, _ := arr.GetBinMut(0)
	b0.AmountX = 10
	b1, _ := arr.GetBinMut(1)
	b1.AmountX = 1_000_000
	b1.AmountY = 0
	b1.LiquiditySupply = uint128.From64(1).Lsh(64)

	source := singleArraySource{array: arr}
	res, err := p.SwapExactIn(source, 100, false, 0, nil)
	require.NoError(t, err)
	assert.True(t, res.AmountOut > 10)
	assert.Equal(t, int32(1), p.ActiveID)
}

func TestSwapExactInCappedUnderCapMatchesPlainSwap(t *testing.T) {
	p, arr := newSwapTestPair()
	source := singleArraySource{array: arr}

	res, err := p.SwapExactInCapped(source, 1000, true, 0, nil, 1_000_000)
	require.NoError(t, err)
	assert.True(t, res.AmountOut > 0)
	assert.True(t, res.AmountOut <= 1000)

	b, err := arr.GetBin(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000+1000), b.AmountX)
	assert.Equal(t, uint64(1000), b.AmountXIn.Lo)
	assert.Equal(t, uint64(0), b.AmountYIn.Lo)
}

func TestSwapExactInCappedErrorsWhenCapExhausted(t *testing.T) {
	p, arr := newSwapTestPair()
	source := singleArraySource{array: arr}

	_, err := p.SwapExactInCapped(source, 1000, true, 0, nil, 500)
	require.Error(t, err)
	assert.True(t, dlmmerr.Is(err, dlmmerr.ExceedMaxSwappedAmount))
}

func TestSwapExactInErrorsWhenLiquidityExhausted(t *testing.T) {
	p := &Pair{
		Parameters: feemath.StaticParameters{MinBinID: 0, MaxBinID: 0},
		BinStep:    10,
		Status:     StatusEnabled,
		ActiveID:   0,
	}
	arr := &bin.BinArray{Index: 0}
	b, _ := arr.GetBinMut(0)
	b.AmountY = 10
	b.LiquiditySupply = uint128.From64(1).Lsh(64)

	source := singleArraySource{array: arr}
	_, err := p.SwapExactIn(source, 1000, true, 0, nil)
	assert.Error(t, err)
}
