package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracleUpdateSameSampleIfLifetimeNotExpired(t *testing.T) {
	created := int64(1698225292)
	current := created
	activeID := int32(5555)

	o := New(2)
	require.NoError(t, o.Update(activeID, current))
	assert.Equal(t, uint64(0), o.Idx)

	sample := o.GetLatestSample()
	assert.Equal(t, int64(activeID), sample.CumulativeActiveBinID.Int64())
	assert.Equal(t, created, sample.CreatedAt)

	current += 5
	require.NoError(t, o.Update(activeID, current))
	assert.Equal(t, uint64(0), o.Idx)
	sample = o.GetLatestSample()
	assert.Equal(t, created, sample.CreatedAt)
	assert.Equal(t, current, sample.LastUpdatedAt)
}

func TestOracleRollsToNextSlotAfterSampleLifetime(t *testing.T) {
	current := int64(1698225292)
	activeID := int32(5555)

	o := New(2)
	require.NoError(t, o.Update(activeID, current))
	assert.Equal(t, uint64(0), o.Idx)

	current += SampleLifetime
	require.NoError(t, o.Update(activeID, current))
	assert.Equal(t, uint64(1), o.Idx)

	current += SampleLifetime
	require.NoError(t, o.Update(activeID, current))
	assert.Equal(t, uint64(0), o.Idx)
}

func TestOracleActiveSizeSaturatesAtLength(t *testing.T) {
	current := int64(1698225292)
	activeID := int32(5555)

	o := New(3)
	for i := 0; i < 5; i++ {
		require.NoError(t, o.Update(activeID, current))
		current += SampleLifetime
	}
	assert.Equal(t, uint64(3), o.ActiveSize)
}

func TestOracleIncreaseLength(t *testing.T) {
	o := New(2)
	o.IncreaseLength(3)
	assert.Equal(t, uint64(5), o.Length)
	assert.Len(t, o.Observations, 5)
}
