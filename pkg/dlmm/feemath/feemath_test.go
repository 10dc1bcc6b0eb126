package feemath

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBaseFee(t *testing.T) {
	p := DefaultStaticParameters()
	fee := GetBaseFee(p, 10)
	assert.Equal(t, big.NewInt(10_000*10*10), fee)
}

func TestGetBaseFeeAppliesPowerFactor(t *testing.T) {
	p := DefaultStaticParameters()
	p.BaseFeePowerFactor = 2
	fee := GetBaseFee(p, 10)
	assert.Equal(t, big.NewInt(10_000*10*10*100), fee)
}

func TestGetVariableFeeZeroWhenControlZero(t *testing.T) {
	p := DefaultStaticParameters()
	p.VariableFeeControl = 0
	fee := GetVariableFee(p, 10, 100_000)
	assert.Equal(t, big.NewInt(0), fee)
}

func TestGetVariableFeeIncreasesWithVolatility(t *testing.T) {
	p := DefaultStaticParameters()
	low := GetVariableFee(p, 10, 1_000)
	high := GetVariableFee(p, 10, 100_000)
	assert.True(t, high.Cmp(low) > 0)
}

func TestGetTotalFeeCapsAtMax(t *testing.T) {
	p := DefaultStaticParameters()
	p.BaseFactor = 60_000
	p.VariableFeeControl = 1_000_000
	total := GetTotalFee(p, 100, p.MaxVolatilityAccumulator)
	assert.Equal(t, big.NewInt(MaxFeeRate), total)
}

func TestComputeFeeCeilsUp(t *testing.T) {
	fee, err := ComputeFee(3, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), fee)
}

func TestComputeFeeFromAmountRoundTripsAgainstComputeFee(t *testing.T) {
	rate := big.NewInt(1_000_000) // 0.1%
	amountExcl := uint64(1_000_000)

	feeFromAmount, err := ComputeFeeFromAmount(amountExcl, rate)
	require.NoError(t, err)

	amountWithFees := amountExcl + feeFromAmount
	fee, err := ComputeFee(amountWithFees, rate)
	require.NoError(t, err)
	assert.True(t, fee >= feeFromAmount-1 && fee <= feeFromAmount+1)
}

func TestComputeFeeFromAmountRejectsRateAtOrAbovePrecision(t *testing.T) {
	_, err := ComputeFeeFromAmount(100, big.NewInt(FeePrecision))
	assert.Error(t, err)
}

func TestComputeProtocolFee(t *testing.T) {
	fee, err := ComputeProtocolFee(10_000, 1_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), fee)
}

func TestComputeHostFeeZeroWhenBpsZero(t *testing.T) {
	fee, err := ComputeHostFee(10_000, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), fee)
}

func TestComputeHostFee(t *testing.T) {
	fee, err := ComputeHostFee(10_000, 2_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000), fee)
}

func TestComputeCompositionFeeZeroWhenRateZero(t *testing.T) {
	fee, err := ComputeCompositionFee(1_000_000, big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), fee)
}

func TestComputeCompositionFeePositiveForNonZeroRate(t *testing.T) {
	fee, err := ComputeCompositionFee(1_000_000, big.NewInt(10_000_000))
	require.NoError(t, err)
	assert.True(t, fee > 0)
}
