// Package feemath implements the DLMM dynamic fee curve: base fee scaled by
// bin step, a variable fee driven by the volatility accumulator, and the two
// directions of fee-from-amount conversion used by the single-bin swap.
// Grounded on lb_pair/state.rs's get_base_fee/get_variable_fee/get_total_fee
// family and the teacher's own big.Int ceiling-division style in
// pkg/pool/meteora/dlmm.go ComputeFee / price.go ComputeVariableFee.
package feemath

import (
	"math/big"

	"cosmossdk.io/math"
	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
)

const (
	// BasisPointMax is the bps denominator used throughout the core.
	BasisPointMax = 10_000
	// FeePrecision is the fixed-point scale a fee rate is expressed in.
	FeePrecision = 1_000_000_000
	// MaxFeeRate caps total_fee_rate at 10%.
	MaxFeeRate = 100_000_000
)

// StaticParameters mirrors spec.md §3's "parameters" record.
type StaticParameters struct {
	BaseFactor              uint16
	FilterPeriod            uint16
	DecayPeriod             uint16
	ReductionFactor         uint16
	VariableFeeControl      uint32
	MaxVolatilityAccumulator uint32
	MinBinID                int32
	MaxBinID                int32
	ProtocolShare           uint16
	BaseFeePowerFactor      uint8
}

// DefaultStaticParameters mirrors StaticParameters::default() ("references
// from Trader Joe").
func DefaultStaticParameters() StaticParameters {
	return StaticParameters{
		BaseFactor:               10_000,
		FilterPeriod:             30,
		DecayPeriod:              600,
		ReductionFactor:          500,
		VariableFeeControl:       40_000,
		ProtocolShare:            1_000,
		MaxVolatilityAccumulator: 350_000,
		MinBinID:                 -443636,
		MaxBinID:                 443636,
		BaseFeePowerFactor:       0,
	}
}

// GetBaseFee returns base_factor * bin_step * 10 * 10^base_fee_power_factor, in
// FeePrecision units (spec §4.6).
func GetBaseFee(p StaticParameters, binStep uint16) *big.Int {
	v := new(big.Int).Mul(big.NewInt(int64(p.BaseFactor)), big.NewInt(int64(binStep)))
	v.Mul(v, big.NewInt(10))
	if p.BaseFeePowerFactor > 0 {
		pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(p.BaseFeePowerFactor)), nil)
		v.Mul(v, pow)
	}
	return v
}

// GetVariableFee returns ceil(variable_fee_control * (va*bin_step)^2 / 1e11),
// matching lb_pair::compute_variable_fee / the teacher's ComputeVariableFee.
func GetVariableFee(p StaticParameters, binStep uint16, volatilityAccumulator uint32) *big.Int {
	if p.VariableFeeControl == 0 {
		return big.NewInt(0)
	}
	square := math.NewIntFromUint64(uint64(volatilityAccumulator)).Mul(math.NewIntFromUint64(uint64(binStep)))
	squareBig := square.BigInt()
	squareBig.Mul(squareBig, squareBig)

	vFee := new(big.Int).Mul(big.NewInt(int64(p.VariableFeeControl)), squareBig)
	// ceil division by 1e11
	denom := big.NewInt(100_000_000_000)
	q, r := new(big.Int).QuoRem(vFee, denom, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// GetTotalFee returns min(base+variable, MAX_FEE_RATE).
func GetTotalFee(p StaticParameters, binStep uint16, volatilityAccumulator uint32) *big.Int {
	total := new(big.Int).Add(GetBaseFee(p, binStep), GetVariableFee(p, binStep, volatilityAccumulator))
	max := big.NewInt(MaxFeeRate)
	if total.Cmp(max) > 0 {
		return max
	}
	return total
}

func ceilDiv(num, den *big.Int) (*big.Int, error) {
	if den.Sign() == 0 {
		return nil, dlmmerr.New(dlmmerr.MathOverflow, "ceil_div: zero denominator")
	}
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q, nil
}

// ComputeFee returns ceil(amount * total_fee_rate / FEE_PRECISION): the fee
// portion of an amount that already includes fees.
func ComputeFee(amountWithFees uint64, totalFeeRate *big.Int) (uint64, error) {
	num := new(big.Int).Mul(big.NewInt(int64(amountWithFees)), totalFeeRate)
	q, err := ceilDiv(num, big.NewInt(FeePrecision))
	if err != nil {
		return 0, err
	}
	if !q.IsUint64() {
		return 0, dlmmerr.New(dlmmerr.MathOverflow, "compute_fee: result overflows u64")
	}
	return q.Uint64(), nil
}

// ComputeFeeFromAmount returns ceil(amount * total_fee_rate / (FEE_PRECISION
// - total_fee_rate)): the fee that, once added to amount, yields the
// amount-with-fees the swap would have needed to fully drain a bin.
func ComputeFeeFromAmount(amountExcludingFees uint64, totalFeeRate *big.Int) (uint64, error) {
	denom := new(big.Int).Sub(big.NewInt(FeePrecision), totalFeeRate)
	if denom.Sign() <= 0 {
		return 0, dlmmerr.New(dlmmerr.MathOverflow, "compute_fee_from_amount: fee rate exceeds precision")
	}
	num := new(big.Int).Mul(big.NewInt(int64(amountExcludingFees)), totalFeeRate)
	q, err := ceilDiv(num, denom)
	if err != nil {
		return 0, err
	}
	if !q.IsUint64() {
		return 0, dlmmerr.New(dlmmerr.MathOverflow, "compute_fee_from_amount: result overflows u64")
	}
	return q.Uint64(), nil
}

// ComputeProtocolFee returns fee * protocol_share / BASIS_POINT_MAX.
func ComputeProtocolFee(feeAmount uint64, protocolShare uint16) (uint64, error) {
	num := new(big.Int).Mul(big.NewInt(int64(feeAmount)), big.NewInt(int64(protocolShare)))
	q := new(big.Int).Div(num, big.NewInt(BasisPointMax))
	if !q.IsUint64() {
		return 0, dlmmerr.New(dlmmerr.MathOverflow, "compute_protocol_fee: overflow")
	}
	return q.Uint64(), nil
}

// ComputeHostFee returns protocol_fee * host_bps / BASIS_POINT_MAX.
func ComputeHostFee(protocolFee uint64, hostBps uint16) (uint64, error) {
	if hostBps == 0 {
		return 0, nil
	}
	num := new(big.Int).Mul(big.NewInt(int64(protocolFee)), big.NewInt(int64(hostBps)))
	q := new(big.Int).Div(num, big.NewInt(BasisPointMax))
	if !q.IsUint64() {
		return 0, dlmmerr.New(dlmmerr.MathOverflow, "compute_host_fee: overflow")
	}
	return q.Uint64(), nil
}

// ComputeCompositionFee returns swap_amount * total_fee_rate * (1 +
// total_fee_rate) / 1e18, the fee charged on the "worse" side of an
// unbalanced deposit at the active bin (spec §4.6 / bin.rs
// deposit_composition_fee).
func ComputeCompositionFee(swapAmount uint64, totalFeeRate *big.Int) (uint64, error) {
	onePlusFee := new(big.Int).Add(big.NewInt(FeePrecision), totalFeeRate)
	num := new(big.Int).Mul(big.NewInt(int64(swapAmount)), totalFeeRate)
	num.Mul(num, onePlusFee)
	denom := new(big.Int).Mul(big.NewInt(FeePrecision), big.NewInt(FeePrecision))
	q := new(big.Int).Div(num, denom)
	if !q.IsUint64() {
		return 0, dlmmerr.New(dlmmerr.MathOverflow, "compute_composition_fee: overflow")
	}
	return q.Uint64(), nil
}
