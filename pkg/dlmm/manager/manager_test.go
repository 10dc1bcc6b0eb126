package manager

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/solana-zh/solroute/pkg/dlmm/bin"
	"github.com/solana-zh/solroute/pkg/dlmm/bitmap"
	"github.com/solana-zh/solroute/pkg/dlmm/pair"
	"github.com/solana-zh/solroute/pkg/dlmm/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func TestArrayForBinAndContiguity(t *testing.T) {
	m := New()
	m.Add(&bin.BinArray{Index: 0})
	m.Add(&bin.BinArray{Index: 1})

	a, err := m.ArrayForBin(5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), a.Index)

	require.NoError(t, m.ValidateContiguous(0, 139))

	m2 := New()
	m2.Add(&bin.BinArray{Index: 0})
	assert.Error(t, m2.ValidateContiguous(0, 139))
}

func TestSyncBitmapReflectsLiquidity(t *testing.T) {
	m := New()
	arr := &bin.BinArray{Index: 0}
	m.Add(arr)
	bm := &bitmap.Bitmap{}

	require.NoError(t, m.SyncBitmap(bm, nil))
	set, err := bm.IsSet(0)
	require.NoError(t, err)
	assert.False(t, set)

	b, err := arr.GetBinMut(5)
	require.NoError(t, err)
	b.LiquiditySupply = uint128.From64(1000)

	require.NoError(t, m.SyncBitmap(bm, nil))
	set, err = bm.IsSet(0)
	require.NoError(t, err)
	assert.True(t, set)
}

func TestUpdateRewardsSplitsProportionally(t *testing.T) {
	m := New()
	arr := &bin.BinArray{Index: 0}
	m.Add(arr)

	b0, err := arr.GetBinMut(0)
	require.NoError(t, err)
	b0.LiquiditySupply = uint128.From64(1).Lsh(64)

	b1, err := arr.GetBinMut(1)
	require.NoError(t, err)
	b1.LiquiditySupply = uint128.From64(1).Lsh(64)

	ri := &pair.RewardInfo{
		RewardRate:         uint128.From64(1).Lsh(64), // 1 token/sec in Q64.64
		RewardDurationEnd:  1_000_000,
		LastUpdateTime:     0,
	}

	require.NoError(t, m.UpdateRewards(0, 1, 0, ri, 10))
	assert.Equal(t, uint64(10), ri.LastUpdateTime)

	b0, err = arr.GetBinMut(0)
	require.NoError(t, err)
	assert.False(t, b0.RewardPerTokenStored[0].IsZero())
}

func TestUpdateRewardsAccumulatesEmptyLiquidityClawback(t *testing.T) {
	m := New()
	arr := &bin.BinArray{Index: 0}
	m.Add(arr)

	ri := &pair.RewardInfo{
		RewardRate:        uint128.From64(1).Lsh(64),
		RewardDurationEnd: 1_000_000,
		LastUpdateTime:    0,
	}

	require.NoError(t, m.UpdateRewards(0, 1, 0, ri, 10))
	assert.Equal(t, uint64(10), ri.CumulativeSecondsWithEmptyLiquidityReward)
}

func TestMigrateToV2RescalesArraysAndPositions(t *testing.T) {
	m := New()
	arr := &bin.BinArray{Index: 0}
	m.Add(arr)

	b0, err := arr.GetBinMut(0)
	require.NoError(t, err)
	b0.LiquiditySupply = uint128.From64(1_000)

	pos, err := position.New(solana.PublicKey{}, solana.PublicKey{}, 0, 1)
	require.NoError(t, err)
	pos.BinData[0].LiquidityShare = uint128.From64(500)
	pos.BinData[1].LiquidityShare = uint128.From64(250)

	require.NoError(t, m.MigrateToV2([]*position.Position{pos}, map[*position.Position][]uint64{
		pos: {500, 250},
	}))

	assert.Equal(t, uint8(2), arr.Version)
	assert.Equal(t, uint128.From64(1_000).Lsh(64), b0.LiquiditySupply)
	assert.Equal(t, uint128.From64(500).Lsh(64), pos.BinData[0].LiquidityShare)
	assert.Equal(t, uint128.From64(250).Lsh(64), pos.BinData[1].LiquidityShare)
}

func TestMigrateToV2SkipsPositionsWithoutV1Shares(t *testing.T) {
	m := New()
	pos, err := position.New(solana.PublicKey{}, solana.PublicKey{}, 0, 1)
	require.NoError(t, err)
	pos.BinData[0].LiquidityShare = uint128.From64(42)

	require.NoError(t, m.MigrateToV2([]*position.Position{pos}, nil))
	assert.Equal(t, uint128.From64(42), pos.BinData[0].LiquidityShare)
}
