package pair

import (
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/solana-zh/solroute/pkg/dlmm/feemath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFullPair() *Pair {
	yMint := solana.NewWallet().PublicKey()
	return &Pair{
		Parameters: feemath.StaticParameters{
			BaseFactor:               10_000,
			MaxVolatilityAccumulator: 350_000,
			ProtocolShare:            1_000,
			MinBinID:                 -100,
			MaxBinID:                 100,
		},
		BinStep:    10,
		Status:     StatusEnabled,
		TokenYMint: yMint,
	}
}

func TestSwapForY(t *testing.T) {
	p := newTestFullPair()
	assert.True(t, p.SwapForY(p.TokenYMint))
	assert.False(t, p.SwapForY(solana.NewWallet().PublicKey()))
}

func TestAdvanceActiveBinRespectsBounds(t *testing.T) {
	p := newTestFullPair()
	p.ActiveID = 100
	assert.Error(t, p.AdvanceActiveBin(false))

	p.ActiveID = -100
	assert.Error(t, p.AdvanceActiveBin(true))

	p.ActiveID = 0
	require.NoError(t, p.AdvanceActiveBin(false))
	assert.Equal(t, int32(1), p.ActiveID)
	require.NoError(t, p.AdvanceActiveBin(true))
	assert.Equal(t, int32(0), p.ActiveID)
}

func TestGetFeesComposeToTotal(t *testing.T) {
	p := newTestFullPair()
	p.VParameters.VolatilityAccumulator = 10_000

	base := p.GetBaseFee()
	variable := p.GetVariableFee()
	total := p.GetTotalFee()
	assert.Equal(t, new(big.Int).Add(base, variable), total)
}

func TestComputeFeeRoundTrip(t *testing.T) {
	p := newTestFullPair()

	fee, err := p.ComputeFee(1_000_000)
	require.NoError(t, err)
	assert.True(t, fee > 0)

	protocolFee, err := p.ComputeProtocolFee(fee)
	require.NoError(t, err)
	assert.True(t, protocolFee <= fee)
}

func TestAccumulateAndWithdrawProtocolFee(t *testing.T) {
	p := newTestFullPair()
	require.NoError(t, p.AccumulateProtocolFees(100, 200))
	assert.Equal(t, uint64(100), p.ProtocolFee.AmountX)
	assert.Equal(t, uint64(200), p.ProtocolFee.AmountY)

	require.NoError(t, p.WithdrawProtocolFee(40, 50))
	assert.Equal(t, uint64(60), p.ProtocolFee.AmountX)
	assert.Equal(t, uint64(150), p.ProtocolFee.AmountY)

	assert.Error(t, p.WithdrawProtocolFee(1000, 0))
}

func TestUpdateVolatilityParametersStampsTimestamp(t *testing.T) {
	p := newTestFullPair()
	require.NoError(t, p.UpdateVolatilityParameters(500))
	assert.Equal(t, int64(500), p.LastUpdatedAt)
}

func TestOracleInitialized(t *testing.T) {
	p := newTestFullPair()
	assert.False(t, p.OracleInitialized())
	p.Oracle = solana.NewWallet().PublicKey()
	assert.True(t, p.OracleInitialized())
}

func TestValidateSwapActivation(t *testing.T) {
	p := newTestFullPair()
	require.NoError(t, p.ValidateSwapActivation(0))

	p.Status = StatusDisabled
	assert.Error(t, p.ValidateSwapActivation(0))

	p.Status = StatusEnabled
	p.PairType = TypePermission
	p.ActivationPoint = 1000
	assert.Error(t, p.ValidateSwapActivation(500))
	require.NoError(t, p.ValidateSwapActivation(1000))
}

func TestRewardInfoUpdateRateAfterFunding(t *testing.T) {
	r := &RewardInfo{RewardDuration: 100}
	require.NoError(t, r.UpdateRateAfterFunding(0, 1000))
	assert.Equal(t, uint64(100), r.RewardDurationEnd)
	assert.False(t, r.RewardRate.IsZero())

	require.NoError(t, r.UpdateRateAfterFunding(50, 500))
	assert.Equal(t, uint64(150), r.RewardDurationEnd)
}

func TestRewardInfoSecondsElapsedSinceLastUpdate(t *testing.T) {
	r := &RewardInfo{RewardDurationEnd: 1000, LastUpdateTime: 100}
	elapsed, err := r.SecondsElapsedSinceLastUpdate(150)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), elapsed)

	elapsed, err = r.SecondsElapsedSinceLastUpdate(2000)
	require.NoError(t, err)
	assert.Equal(t, uint64(900), elapsed)
}

func TestRewardInfoInitialized(t *testing.T) {
	r := &RewardInfo{}
	assert.False(t, r.Initialized())
	r.Mint = solana.NewWallet().PublicKey()
	assert.True(t, r.Initialized())
}

func TestRewardInfoUpdateLastUpdateTimeClampsToDurationEnd(t *testing.T) {
	r := &RewardInfo{RewardDurationEnd: 100}
	r.UpdateLastUpdateTime(50)
	assert.Equal(t, uint64(50), r.LastUpdateTime)
	r.UpdateLastUpdateTime(200)
	assert.Equal(t, uint64(100), r.LastUpdateTime)
}
