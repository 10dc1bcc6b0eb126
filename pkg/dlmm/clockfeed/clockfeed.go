// Package clockfeed adapts the Solana on-chain Clock sysvar (pkg/sol) to the
// (currentPoint, currentTimestamp) pair every pair/swap/oracle operation
// takes as an argument instead of reading time itself. Grounded on the
// teacher's own pkg/sol/clock.go, which already parses the sysvar account
// but, prior to this package, had no caller outside the router CLI.
package clockfeed

import (
	"context"
	"fmt"

	"github.com/solana-zh/solroute/pkg/dlmm/pair"
	"github.com/solana-zh/solroute/pkg/sol"
)

// ClockSource is satisfied by *sol.Client; narrowed to the one call the
// dlmm packages need so callers can fake it in tests without a live RPC
// endpoint.
type ClockSource interface {
	GetClock(ctx context.Context) (*sol.Clock, error)
}

// CurrentPoint resolves the clock value a Pair's ActivationType expects:
// the slot for ActivationSlot pairs, or the unix timestamp for
// ActivationTimestamp pairs. This is the value callers pass as
// currentPoint to Pair.ValidateSwapActivation and quote.ExactIn/ExactOut.
func CurrentPoint(ctx context.Context, src ClockSource, activationType pair.ActivationKind) (uint64, error) {
	clock, err := src.GetClock(ctx)
	if err != nil {
		return 0, fmt.Errorf("clockfeed: fetch clock: %w", err)
	}
	switch activationType {
	case pair.ActivationSlot:
		return clock.Slot, nil
	case pair.ActivationTimestamp:
		return clock.UnixTimestamp, nil
	default:
		return 0, fmt.Errorf("clockfeed: unknown activation type %d", activationType)
	}
}

// CurrentTimestamp returns the sysvar's unix timestamp, the value the
// volatility-parameter and oracle updates are always driven by regardless
// of a pair's ActivationType (which only governs ActivationPoint).
func CurrentTimestamp(ctx context.Context, src ClockSource) (int64, error) {
	clock, err := src.GetClock(ctx)
	if err != nil {
		return 0, fmt.Errorf("clockfeed: fetch clock: %w", err)
	}
	return int64(clock.UnixTimestamp), nil
}
