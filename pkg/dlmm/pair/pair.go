package pair

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/solana-zh/solroute/pkg/dlmm/bitmap"
	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
	"github.com/solana-zh/solroute/pkg/dlmm/dlog"
	"github.com/solana-zh/solroute/pkg/dlmm/feemath"
	"github.com/solana-zh/solroute/pkg/dlmm/math128"
	"lukechampine.com/uint128"
)

// NumRewards is the number of concurrent reward streams (spec §3: K=2).
const NumRewards = 2

// Status mirrors PairStatus: Enabled pairs accept swaps, Disabled pairs only
// allow withdrawals.
type Status uint8

const (
	StatusEnabled Status = iota
	StatusDisabled
)

// Type mirrors PairType: Permissionless pairs are always active once
// Enabled, Permission pairs gate activation on ActivationPoint.
type Type uint8

const (
	TypePermissionless Type = iota
	TypePermission
)

// ActivationKind selects whether ActivationPoint is a slot or a timestamp.
type ActivationKind uint8

const (
	ActivationSlot ActivationKind = iota
	ActivationTimestamp
)

// ProtocolFee is the pool's uncollected protocol-share fee, per side.
type ProtocolFee struct {
	AmountX uint64
	AmountY uint64
}

// RewardInfo is a single linear-rate funding stream (spec §4.10), grounded
// on lb_pair/state.rs::RewardInfo.
type RewardInfo struct {
	Mint                                   solana.PublicKey
	Vault                                  solana.PublicKey
	Funder                                 solana.PublicKey
	RewardDuration                         uint64
	RewardDurationEnd                      uint64
	RewardRate                             uint128.Uint128 // Q64.64 tokens/sec
	LastUpdateTime                         uint64
	CumulativeSecondsWithEmptyLiquidityReward uint64
}

// Initialized reports whether a reward slot has ever been funded.
func (r *RewardInfo) Initialized() bool {
	return !r.Mint.IsZero()
}

// UpdateLastUpdateTime clamps current_time to the funding window end.
func (r *RewardInfo) UpdateLastUpdateTime(currentTime uint64) {
	if currentTime < r.RewardDurationEnd {
		r.LastUpdateTime = currentTime
	} else {
		r.LastUpdateTime = r.RewardDurationEnd
	}
}

// SecondsElapsedSinceLastUpdate returns the reward-applicable time window
// since the last per-token-stored update.
func (r *RewardInfo) SecondsElapsedSinceLastUpdate(currentTime uint64) (uint64, error) {
	applicable := currentTime
	if r.RewardDurationEnd < applicable {
		applicable = r.RewardDurationEnd
	}
	if applicable < r.LastUpdateTime {
		return 0, dlmmerr.New(dlmmerr.MathOverflow, "seconds_elapsed_since_last_update: underflow")
	}
	return applicable - r.LastUpdateTime, nil
}

// UpdateRateAfterFunding recomputes RewardRate folding in a new funding
// deposit: any reward owed but not yet distributed under the old rate
// ("leftover") is combined with the new funding and spread back out evenly
// over RewardDuration (spec §4.10 / RewardInfo::update_rate_after_funding).
func (r *RewardInfo) UpdateRateAfterFunding(currentTime, fundingAmount uint64) error {
	var totalAmount uint64
	if currentTime >= r.RewardDurationEnd {
		totalAmount = fundingAmount
	} else {
		remainingSeconds := r.RewardDurationEnd - currentTime
		leftover, err := math128.MulShr(r.RewardRate, uint128.From64(remainingSeconds), math128.ScaleOffset, math128.Down)
		if err != nil {
			return err
		}
		if leftover.Hi != 0 {
			return dlmmerr.New(dlmmerr.TypeCastFailed, "update_rate_after_funding: leftover overflows u64")
		}
		sum := new(big.Int).Add(big.NewInt(0).SetUint64(leftover.Lo), big.NewInt(0).SetUint64(fundingAmount))
		if !sum.IsUint64() {
			return dlmmerr.New(dlmmerr.MathOverflow, "update_rate_after_funding: total_amount overflow")
		}
		totalAmount = sum.Uint64()
	}

	rate, err := math128.ShlDiv(uint128.From64(totalAmount), uint128.From64(r.RewardDuration), math128.ScaleOffset, math128.Down)
	if err != nil {
		return err
	}
	r.RewardRate = rate
	r.LastUpdateTime = currentTime
	end := new(big.Int).Add(big.NewInt(0).SetUint64(currentTime), big.NewInt(0).SetUint64(r.RewardDuration))
	if !end.IsUint64() {
		return dlmmerr.New(dlmmerr.MathOverflow, "update_rate_after_funding: duration_end overflow")
	}
	r.RewardDurationEnd = end.Uint64()
	dlog.RewardRateUpdate(r.RewardDurationEnd, fundingAmount)
	return nil
}

// Pair is the DLMM pool aggregate: parameters, active bin cursor, bitmap
// index, protocol fee ledger, and reward streams (spec §3/§6), grounded on
// lb_pair/state.rs::LbPair.
type Pair struct {
	Parameters  feemath.StaticParameters
	VParameters VariableParameters

	PairType Type
	ActiveID int32
	BinStep  uint16
	Status   Status

	TokenXMint solana.PublicKey
	TokenYMint solana.PublicKey
	ReserveX   solana.PublicKey
	ReserveY   solana.PublicKey

	ProtocolFee ProtocolFee
	FeeOwner    solana.PublicKey

	RewardInfos [NumRewards]RewardInfo

	Oracle solana.PublicKey

	BinArrayBitmap          bitmap.Bitmap
	BinArrayBitmapExtension *bitmap.Extension

	LastUpdatedAt int64

	ActivationType  ActivationKind
	ActivationPoint uint64
}

// SwapForY reports whether a swap whose desired output mint is outMint
// drains the X side (true) or the Y side (false).
func (p *Pair) SwapForY(outMint solana.PublicKey) bool {
	return outMint.Equals(p.TokenYMint)
}

// AdvanceActiveBin moves the active bin cursor one step in the swap
// direction, erroring if it would leave the supported bin range.
func (p *Pair) AdvanceActiveBin(swapForY bool) error {
	next := p.ActiveID
	if swapForY {
		next--
	} else {
		next++
	}
	if next < p.Parameters.MinBinID || next > p.Parameters.MaxBinID {
		return dlmmerr.New(dlmmerr.PairInsufficientLiquidity, "advance_active_bin: exhausted supported bin range")
	}
	p.ActiveID = next
	return nil
}

// GetBaseFee returns base_factor * bin_step * 10 * 10^base_fee_power_factor
// in FEE_PRECISION units.
func (p *Pair) GetBaseFee() *big.Int {
	return feemath.GetBaseFee(p.Parameters, p.BinStep)
}

// GetVariableFee returns the volatility-driven fee component.
func (p *Pair) GetVariableFee() *big.Int {
	return feemath.GetVariableFee(p.Parameters, p.BinStep, p.VParameters.VolatilityAccumulator)
}

// GetTotalFee returns min(base+variable, MAX_FEE_RATE).
func (p *Pair) GetTotalFee() *big.Int {
	return feemath.GetTotalFee(p.Parameters, p.BinStep, p.VParameters.VolatilityAccumulator)
}

// ComputeFee returns the fee portion of an amount that already includes fees.
func (p *Pair) ComputeFee(amountWithFees uint64) (uint64, error) {
	return feemath.ComputeFee(amountWithFees, p.GetTotalFee())
}

// ComputeFeeFromAmount returns the fee implied by a fee-excluded amount.
func (p *Pair) ComputeFeeFromAmount(amountExcludingFees uint64) (uint64, error) {
	return feemath.ComputeFeeFromAmount(amountExcludingFees, p.GetTotalFee())
}

// ComputeProtocolFee returns the protocol's share of a collected fee.
func (p *Pair) ComputeProtocolFee(feeAmount uint64) (uint64, error) {
	return feemath.ComputeProtocolFee(feeAmount, p.Parameters.ProtocolShare)
}

// ComputeCompositionFee returns the fee charged on an unbalanced deposit
// into the active bin.
func (p *Pair) ComputeCompositionFee(swapAmount uint64) (uint64, error) {
	return feemath.ComputeCompositionFee(swapAmount, p.GetTotalFee())
}

// AccumulateProtocolFees credits newly collected protocol-share fees.
func (p *Pair) AccumulateProtocolFees(feeX, feeY uint64) error {
	newX := new(big.Int).Add(big.NewInt(0).SetUint64(p.ProtocolFee.AmountX), big.NewInt(0).SetUint64(feeX))
	newY := new(big.Int).Add(big.NewInt(0).SetUint64(p.ProtocolFee.AmountY), big.NewInt(0).SetUint64(feeY))
	if !newX.IsUint64() || !newY.IsUint64() {
		return dlmmerr.New(dlmmerr.MathOverflow, "accumulate_protocol_fees: overflow")
	}
	p.ProtocolFee.AmountX = newX.Uint64()
	p.ProtocolFee.AmountY = newY.Uint64()
	return nil
}

// WithdrawProtocolFee debits collected protocol fees on payout.
func (p *Pair) WithdrawProtocolFee(amountX, amountY uint64) error {
	if amountX > p.ProtocolFee.AmountX || amountY > p.ProtocolFee.AmountY {
		return dlmmerr.New(dlmmerr.MathOverflow, "withdraw_protocol_fee: underflow")
	}
	p.ProtocolFee.AmountX -= amountX
	p.ProtocolFee.AmountY -= amountY
	return nil
}

// UpdateVolatilityParameters runs the full reference+accumulator update for
// the pair's current active bin, then stamps LastUpdatedAt with
// currentTimestamp.
func (p *Pair) UpdateVolatilityParameters(currentTimestamp int64) error {
	if err := p.VParameters.UpdateVolatilityParameter(p.ActiveID, currentTimestamp, p.Parameters); err != nil {
		return err
	}
	p.LastUpdatedAt = currentTimestamp
	dlog.VolatilityUpdate(p.ActiveID, p.VParameters.VolatilityAccumulator, p.VParameters.VolatilityReference, p.VParameters.IndexReference)
	return nil
}

// OracleInitialized reports whether an oracle account has been attached.
func (p *Pair) OracleInitialized() bool {
	return !p.Oracle.IsZero()
}

// ValidateSwapActivation enforces spec §4.3 step 1: the pair must be
// Enabled, and a Permission pair must additionally have reached its
// activation point.
func (p *Pair) ValidateSwapActivation(currentPoint uint64) error {
	if p.Status != StatusEnabled {
		return dlmmerr.New(dlmmerr.PoolDisabled, "validate_swap_activation: pair disabled")
	}
	if p.PairType == TypePermission && currentPoint < p.ActivationPoint {
		return dlmmerr.New(dlmmerr.NotEnabled, "validate_swap_activation: not yet activated")
	}
	return nil
}
