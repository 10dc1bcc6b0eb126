package codec

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	dlmmbin "github.com/solana-zh/solroute/pkg/dlmm/bin"
	"github.com/solana-zh/solroute/pkg/dlmm/bitmap"
	"github.com/solana-zh/solroute/pkg/dlmm/feemath"
	"github.com/solana-zh/solroute/pkg/dlmm/pair"
	"github.com/solana-zh/solroute/pkg/dlmm/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func TestBinArrayRoundTrip(t *testing.T) {
	a := &dlmmbin.BinArray{
		Index:   -3,
		Version: 1,
		LbPair:  solana.NewWallet().PublicKey(),
	}
	a.Bins[5].AmountX = 123
	a.Bins[5].AmountY = 456
	a.Bins[5].Price = uint128.From64(1).Lsh(64)
	a.Bins[5].LiquiditySupply = uint128.From64(999)

	data, err := EncodeBinArray(a)
	require.NoError(t, err)

	got, err := DecodeBinArray(data)
	require.NoError(t, err)
	assert.Equal(t, a.Index, got.Index)
	assert.Equal(t, a.Version, got.Version)
	assert.True(t, a.LbPair.Equals(got.LbPair))
	assert.Equal(t, a.Bins[5].AmountX, got.Bins[5].AmountX)
	assert.Equal(t, a.Bins[5].AmountY, got.Bins[5].AmountY)
	assert.Equal(t, a.Bins[5].Price, got.Bins[5].Price)
	assert.Equal(t, a.Bins[5].LiquiditySupply, got.Bins[5].LiquiditySupply)
}

func TestDecodeBinArrayRejectsBadDiscriminator(t *testing.T) {
	_, err := DecodeBinArray(make([]byte, 32))
	assert.Error(t, err)
}

func TestBitmapExtensionRoundTrip(t *testing.T) {
	ext := &bitmap.Extension{}
	ext.Positive[0][0] = 0xDEADBEEF
	ext.Negative[1][2] = 0xCAFE

	owner := solana.NewWallet().PublicKey()
	data, err := EncodeBitmapExtension(owner, ext)
	require.NoError(t, err)

	gotOwner, gotExt, err := DecodeBitmapExtension(data)
	require.NoError(t, err)
	assert.True(t, owner.Equals(gotOwner))
	assert.Equal(t, ext.Positive, gotExt.Positive)
	assert.Equal(t, ext.Negative, gotExt.Negative)
}

func TestPositionRoundTrip(t *testing.T) {
	p, err := position.New(solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), -2, 2)
	require.NoError(t, err)
	require.NoError(t, p.Deposit(0, uint128.From64(42)))
	p.TotalClaimedFeeXAmount = 7
	p.LockReleasePoint = 100
	p.SubjectedToBootstrapLiquidityLocking = true

	data, err := EncodePosition(p)
	require.NoError(t, err)

	got, err := DecodePosition(data)
	require.NoError(t, err)
	assert.True(t, p.LbPair.Equals(got.LbPair))
	assert.True(t, p.Owner.Equals(got.Owner))
	assert.Equal(t, p.LowerBinID, got.LowerBinID)
	assert.Equal(t, p.UpperBinID, got.UpperBinID)
	assert.Equal(t, p.TotalClaimedFeeXAmount, got.TotalClaimedFeeXAmount)
	assert.Equal(t, p.LockReleasePoint, got.LockReleasePoint)
	assert.True(t, got.SubjectedToBootstrapLiquidityLocking)
	share, err := got.GetLiquidityShareInBin(0)
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(42), share)
}

func TestPairRoundTrip(t *testing.T) {
	p := &pair.Pair{
		Parameters: feemath.StaticParameters{
			BaseFactor: 10,
			MinBinID:   -1000,
			MaxBinID:   1000,
		},
		PairType:   pair.TypePermissionless,
		ActiveID:   42,
		BinStep:    25,
		Status:     pair.StatusEnabled,
		TokenXMint: solana.NewWallet().PublicKey(),
		TokenYMint: solana.NewWallet().PublicKey(),
	}
	p.RewardInfos[0].RewardRate = uint128.From64(1).Lsh(64)

	data, err := EncodePair(p)
	require.NoError(t, err)

	got, err := DecodePair(data)
	require.NoError(t, err)
	assert.Equal(t, p.ActiveID, got.ActiveID)
	assert.Equal(t, p.BinStep, got.BinStep)
	assert.Equal(t, p.Status, got.Status)
	assert.True(t, p.TokenXMint.Equals(got.TokenXMint))
	assert.Equal(t, p.Parameters, got.Parameters)
	assert.Equal(t, p.RewardInfos[0].RewardRate, got.RewardInfos[0].RewardRate)
}
