package bitmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlipAndIsSet(t *testing.T) {
	var b Bitmap
	set, err := b.IsSet(5)
	require.NoError(t, err)
	assert.False(t, set)

	require.NoError(t, b.Flip(5))
	set, err = b.IsSet(5)
	require.NoError(t, err)
	assert.True(t, set)

	require.NoError(t, b.Flip(5))
	set, err = b.IsSet(5)
	require.NoError(t, err)
	assert.False(t, set)
}

func TestFlipOutsideWindowErrors(t *testing.T) {
	var b Bitmap
	assert.Error(t, b.Flip(MaxBitmapID+1))
	assert.Error(t, b.Flip(MinBitmapID-1))
}

func TestIsRangeEmpty(t *testing.T) {
	var b Bitmap
	empty, err := b.IsRangeEmpty(-10, 10)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, b.Set(3, true))
	empty, err = b.IsRangeEmpty(-10, 10)
	require.NoError(t, err)
	assert.False(t, empty)

	empty, err = b.IsRangeEmpty(-10, 2)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestNextWithLiquiditySearchesBothDirections(t *testing.T) {
	var b Bitmap
	require.NoError(t, b.Set(-5, true))
	require.NoError(t, b.Set(20, true))

	idx, found := b.NextWithLiquidity(false, 0)
	require.True(t, found)
	assert.Equal(t, int32(20), idx)

	idx, found = b.NextWithLiquidity(true, 0)
	require.True(t, found)
	assert.Equal(t, int32(-5), idx)
}

func TestNextWithLiquidityNotFoundReturnsWindowEdge(t *testing.T) {
	var b Bitmap
	_, found := b.NextWithLiquidity(false, 0)
	assert.False(t, found)
	_, found = b.NextWithLiquidity(true, 0)
	assert.False(t, found)
}

func TestExtensionFlipAndIsSet(t *testing.T) {
	var e Extension
	set, err := e.IsSet(MaxBitmapID + 100)
	require.NoError(t, err)
	assert.False(t, set)

	require.NoError(t, e.Flip(MaxBitmapID+100))
	set, err = e.IsSet(MaxBitmapID + 100)
	require.NoError(t, err)
	assert.True(t, set)

	require.NoError(t, e.Flip(MinBitmapID-100))
	set, err = e.IsSet(MinBitmapID - 100)
	require.NoError(t, err)
	assert.True(t, set)
}

func TestExtensionRejectsIndexWithinWindow(t *testing.T) {
	var e Extension
	assert.Error(t, e.Flip(0))
	_, err := e.IsSet(MinBitmapID)
	assert.Error(t, err)
}

func TestExtensionIsRangeEmpty(t *testing.T) {
	var e Extension
	from := int32(MaxBitmapID + 1)
	to := from + 50
	empty, err := e.IsRangeEmpty(from, to)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, e.Set(from+10, true))
	empty, err = e.IsRangeEmpty(from, to)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestExtensionNextWithLiquidity(t *testing.T) {
	var e Extension
	idx := int32(MaxBitmapID + 30)
	require.NoError(t, e.Set(idx, true))

	foundIdx, found := e.NextWithLiquidity(false, MaxBitmapID+1)
	require.True(t, found)
	assert.Equal(t, idx, foundIdx)
}
