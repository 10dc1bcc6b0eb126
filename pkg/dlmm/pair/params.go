// Package pair implements the DLMM pair aggregate: static/variable fee
// parameters, the dynamic-fee volatility state machine, reward funding, and
// the exact-in/exact-out swap loop that walks bins and bin arrays. Grounded
// on programs/lb_clmm/src/state/lb_pair/state.rs and state/parameters.rs.
package pair

import (
	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
	"github.com/solana-zh/solroute/pkg/dlmm/feemath"
)

// VariableParameters mirrors parameters.rs::VariableParameters, the
// dynamic-fee volatility state updated on every swap.
type VariableParameters struct {
	VolatilityAccumulator uint32
	VolatilityReference   uint32
	IndexReference        int32
	LastUpdateTimestamp   int64
}

// UpdateVolatilityAccumulator mirrors
// VariableParameters::update_volatility_accumulator: the delta between the
// reference and current active bin is upscaled by BASIS_POINT_MAX before
// being folded into the accumulator, preventing overflow when swapping
// across the full width of the bin space in one transaction.
func (v *VariableParameters) UpdateVolatilityAccumulator(activeID int32, sp feemath.StaticParameters) error {
	deltaID := int64(v.IndexReference) - int64(activeID)
	if deltaID < 0 {
		deltaID = -deltaID
	}
	accumulator := uint64(v.VolatilityReference) + uint64(deltaID)*feemath.BasisPointMax
	if accumulator > uint64(sp.MaxVolatilityAccumulator) {
		accumulator = uint64(sp.MaxVolatilityAccumulator)
	}
	if accumulator > (1<<32 - 1) {
		return dlmmerr.New(dlmmerr.TypeCastFailed, "update_volatility_accumulator: overflows u32")
	}
	v.VolatilityAccumulator = uint32(accumulator)
	return nil
}

// UpdateReferences mirrors VariableParameters::update_references. Note it
// does NOT touch LastUpdateTimestamp itself (the Rust source leaves that
// assignment commented out) -- callers (Pair's swap-loop wrapper) are
// responsible for stamping LastUpdateTimestamp once the full volatility
// update sequence has run.
func (v *VariableParameters) UpdateReferences(activeID int32, currentTimestamp int64, sp feemath.StaticParameters) error {
	elapsed := currentTimestamp - v.LastUpdateTimestamp
	if elapsed >= int64(sp.FilterPeriod) {
		v.IndexReference = activeID
		if elapsed < int64(sp.DecayPeriod) {
			v.VolatilityReference = v.VolatilityAccumulator * uint32(sp.ReductionFactor) / feemath.BasisPointMax
		} else {
			v.VolatilityReference = 0
		}
	}
	return nil
}

// UpdateVolatilityParameter runs UpdateReferences then
// UpdateVolatilityAccumulator, matching
// VariableParameters::update_volatility_parameter.
func (v *VariableParameters) UpdateVolatilityParameter(activeID int32, currentTimestamp int64, sp feemath.StaticParameters) error {
	if err := v.UpdateReferences(activeID, currentTimestamp, sp); err != nil {
		return err
	}
	return v.UpdateVolatilityAccumulator(activeID, sp)
}
