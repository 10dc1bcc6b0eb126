package clockfeed

import (
	"context"
	"testing"

	"github.com/solana-zh/solroute/pkg/dlmm/pair"
	"github.com/solana-zh/solroute/pkg/sol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClockSource struct {
	clock *sol.Clock
	err   error
}

func (f fakeClockSource) GetClock(ctx context.Context) (*sol.Clock, error) {
	return f.clock, f.err
}

func TestCurrentPointReturnsSlotForActivationSlot(t *testing.T) {
	src := fakeClockSource{clock: &sol.Clock{Slot: 123, UnixTimestamp: 456}}
	p, err := CurrentPoint(context.Background(), src, pair.ActivationSlot)
	require.NoError(t, err)
	assert.Equal(t, uint64(123), p)
}

func TestCurrentPointReturnsTimestampForActivationTimestamp(t *testing.T) {
	src := fakeClockSource{clock: &sol.Clock{Slot: 123, UnixTimestamp: 456}}
	p, err := CurrentPoint(context.Background(), src, pair.ActivationTimestamp)
	require.NoError(t, err)
	assert.Equal(t, uint64(456), p)
}

func TestCurrentTimestamp(t *testing.T) {
	src := fakeClockSource{clock: &sol.Clock{UnixTimestamp: 789}}
	ts, err := CurrentTimestamp(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, int64(789), ts)
}
