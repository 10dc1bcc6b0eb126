// Package position implements the DLMM liquidity position: a contiguous
// run of per-bin liquidity shares plus fee/reward accrual snapshots, with
// resize-by-rotation and version migration. Grounded on
// state/dynamic_position.rs (the resizable V3 layout, which this package
// models directly) and state/position.rs (the fixed-width V1/V2 layouts,
// kept here only as migration sources).
package position

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/solana-zh/solroute/pkg/dlmm/bin"
	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
	"github.com/solana-zh/solroute/pkg/dlmm/math128"
	"lukechampine.com/uint128"
)

// NumRewards is the number of concurrent reward streams tracked per bin slot.
const NumRewards = 2

// FeeInfo is a position's per-bin fee accrual snapshot (spec §4.9),
// grounded on position.rs::FeeInfo.
type FeeInfo struct {
	FeeXPerTokenComplete uint128.Uint128
	FeeYPerTokenComplete uint128.Uint128
	FeeXPending          uint64
	FeeYPending          uint64
}

// UserRewardInfo is a position's per-bin reward accrual snapshot.
type UserRewardInfo struct {
	RewardPerTokenCompletes [NumRewards]uint128.Uint128
	RewardPendings          [NumRewards]uint64
}

// BinData is one bin slot's worth of position state: the LP share minted
// into that bin plus its fee/reward snapshots (dynamic_position.rs::
// PositionBinData).
type BinData struct {
	LiquidityShare uint128.Uint128
	Reward         UserRewardInfo
	Fee            FeeInfo
}

func (d *BinData) updateFeePerTokenStored(kind string, perTokenStored, perTokenComplete uint128.Uint128) (uint64, uint128.Uint128, error) {
	shares := d.LiquidityShare.Rsh(math128.ScaleOffset)
	delta, err := math128.MulShr(shares, subSat128(perTokenStored, perTokenComplete), math128.ScaleOffset, math128.Down)
	if err != nil {
		return 0, uint128.Zero, err
	}
	if delta.Hi != 0 {
		return 0, uint128.Zero, dlmmerr.New(dlmmerr.TypeCastFailed, "update_fee_per_token_stored: delta overflows u64")
	}
	return delta.Lo, perTokenStored, nil
}

func subSat128(a, b uint128.Uint128) uint128.Uint128 {
	bigA := a.Big()
	bigB := b.Big()
	d := new(big.Int).Sub(bigA, bigB)
	if d.Sign() < 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), 128)
		d.Add(d, mod)
	}
	return uint128.FromBig(d)
}

// UpdateFeePerTokenStored folds the bin's new fee_x/fee_y per-token-stored
// totals into this slot's pending fee, snapshotting fee_*_per_token_complete
// forward (the same snapshot-delta pattern bin.rs uses for
// fee_amount_*_per_token_stored and RewardInfo uses for reward_rate).
func (d *BinData) UpdateFeePerTokenStored(feeXPerTokenStored, feeYPerTokenStored uint128.Uint128) error {
	deltaX, _, err := d.updateFeePerTokenStored("x", feeXPerTokenStored, d.Fee.FeeXPerTokenComplete)
	if err != nil {
		return err
	}
	deltaY, _, err := d.updateFeePerTokenStored("y", feeYPerTokenStored, d.Fee.FeeYPerTokenComplete)
	if err != nil {
		return err
	}
	d.Fee.FeeXPending += deltaX
	d.Fee.FeeYPending += deltaY
	d.Fee.FeeXPerTokenComplete = feeXPerTokenStored
	d.Fee.FeeYPerTokenComplete = feeYPerTokenStored
	return nil
}

// UpdateRewardPerTokenStored folds stream k's new per-token-stored total
// into this slot's pending reward.
func (d *BinData) UpdateRewardPerTokenStored(k int, rewardPerTokenStored uint128.Uint128) error {
	delta, _, err := d.updateFeePerTokenStored("reward", rewardPerTokenStored, d.Reward.RewardPerTokenCompletes[k])
	if err != nil {
		return err
	}
	d.Reward.RewardPendings[k] += delta
	d.Reward.RewardPerTokenCompletes[k] = rewardPerTokenStored
	return nil
}

// IsEmpty reports whether this slot holds no shares and no unclaimed
// fee/reward.
func (d *BinData) IsEmpty() bool {
	if !d.LiquidityShare.IsZero() {
		return false
	}
	if d.Fee.FeeXPending != 0 || d.Fee.FeeYPending != 0 {
		return false
	}
	for _, p := range d.Reward.RewardPendings {
		if p != 0 {
			return false
		}
	}
	return true
}

// Position is the resizable liquidity position (spec §3/§4.9), grounded on
// dynamic_position.rs::{PositionV3, DynamicPosition}.
type Position struct {
	LbPair    solana.PublicKey
	Owner     solana.PublicKey
	FeeOwner  solana.PublicKey
	Operator  solana.PublicKey

	LowerBinID int32
	UpperBinID int32

	LastUpdatedAt int64

	TotalClaimedFeeXAmount uint64
	TotalClaimedFeeYAmount uint64
	TotalClaimedRewards    [NumRewards]uint64

	LockReleasePoint                    uint64
	SubjectedToBootstrapLiquidityLocking bool

	BinData []BinData
}

// New creates an empty position spanning [lowerBinID, upperBinID] inclusive.
func New(lbPair, owner solana.PublicKey, lowerBinID, upperBinID int32) (*Position, error) {
	if upperBinID < lowerBinID {
		return nil, dlmmerr.New(dlmmerr.InvalidPosition, "new: upper_bin_id < lower_bin_id")
	}
	width := int(upperBinID-lowerBinID) + 1
	return &Position{
		LbPair:     lbPair,
		Owner:      owner,
		LowerBinID: lowerBinID,
		UpperBinID: upperBinID,
		BinData:    make([]BinData, width),
	}, nil
}

// Width returns the number of bin slots the position currently spans.
func (p *Position) Width() int {
	return int(p.UpperBinID-p.LowerBinID) + 1
}

func (p *Position) idx(binID int32) (int, error) {
	if binID < p.LowerBinID || binID > p.UpperBinID {
		return 0, dlmmerr.Newf(dlmmerr.InvalidBinId, "bin id %d outside position range [%d,%d]", binID, p.LowerBinID, p.UpperBinID)
	}
	return int(binID - p.LowerBinID), nil
}

// FromIdxToBinID is the inverse of idx.
func (p *Position) FromIdxToBinID(idx int) int32 {
	return p.LowerBinID + int32(idx)
}

// GetLiquidityShareInBin returns the share minted at binID.
func (p *Position) GetLiquidityShareInBin(binID int32) (uint128.Uint128, error) {
	i, err := p.idx(binID)
	if err != nil {
		return uint128.Zero, err
	}
	return p.BinData[i].LiquidityShare, nil
}

// Deposit credits liquidityShare to binID's slot.
func (p *Position) Deposit(binID int32, liquidityShare uint128.Uint128) error {
	i, err := p.idx(binID)
	if err != nil {
		return err
	}
	p.BinData[i].LiquidityShare = p.BinData[i].LiquidityShare.Add(liquidityShare)
	return nil
}

// Withdraw debits liquidityShare from binID's slot.
func (p *Position) Withdraw(binID int32, liquidityShare uint128.Uint128) error {
	i, err := p.idx(binID)
	if err != nil {
		return err
	}
	if p.BinData[i].LiquidityShare.Cmp(liquidityShare) < 0 {
		return dlmmerr.New(dlmmerr.MathOverflow, "withdraw: share exceeds position balance")
	}
	p.BinData[i].LiquidityShare = p.BinData[i].LiquidityShare.Sub(liquidityShare)
	return nil
}

// UpdateEarningPerTokenStored folds each covered bin's current fee/reward
// per-token-stored totals into the position's snapshots. bins must cover at
// least [LowerBinID, UpperBinID].
func (p *Position) UpdateEarningPerTokenStored(bins func(binID int32) (*bin.Bin, error), currentTimestamp int64) error {
	for id := p.LowerBinID; id <= p.UpperBinID; id++ {
		b, err := bins(id)
		if err != nil {
			return err
		}
		i, _ := p.idx(id)
		if err := p.BinData[i].UpdateFeePerTokenStored(b.FeeAmountXPerTokenStored, b.FeeAmountYPerTokenStored); err != nil {
			return err
		}
		for k := 0; k < NumRewards; k++ {
			if err := p.BinData[i].UpdateRewardPerTokenStored(k, b.RewardPerTokenStored[k]); err != nil {
				return err
			}
		}
	}
	p.LastUpdatedAt = currentTimestamp
	return nil
}

// ClaimFee zeroes and returns the summed pending fee across the whole
// position.
func (p *Position) ClaimFee() (feeX, feeY uint64, err error) {
	for i := range p.BinData {
		feeX += p.BinData[i].Fee.FeeXPending
		feeY += p.BinData[i].Fee.FeeYPending
		p.BinData[i].Fee.FeeXPending = 0
		p.BinData[i].Fee.FeeYPending = 0
	}
	return feeX, feeY, nil
}

// GetTotalReward returns stream k's summed pending reward across the
// position without clearing it.
func (p *Position) GetTotalReward(k int) uint64 {
	var total uint64
	for i := range p.BinData {
		total += p.BinData[i].Reward.RewardPendings[k]
	}
	return total
}

// ResetAllPendingReward zeroes stream k's pending reward across every slot,
// after the caller has paid it out.
func (p *Position) ResetAllPendingReward(k int) {
	for i := range p.BinData {
		p.BinData[i].Reward.RewardPendings[k] = 0
	}
}

// AccumulateTotalClaimedFees folds a fee payout into the lifetime totals.
func (p *Position) AccumulateTotalClaimedFees(feeX, feeY uint64) {
	p.TotalClaimedFeeXAmount += feeX
	p.TotalClaimedFeeYAmount += feeY
}

// AccumulateTotalClaimedRewards folds a reward payout into the lifetime
// totals.
func (p *Position) AccumulateTotalClaimedRewards(k int, amount uint64) {
	p.TotalClaimedRewards[k] += amount
}

// IsEmpty reports whether every slot has zero share and zero pending
// fee/reward.
func (p *Position) IsEmpty() bool {
	for i := range p.BinData {
		if !p.BinData[i].IsEmpty() {
			return false
		}
	}
	return true
}

// IsLiquidityLocked reports whether the position is still inside its
// bootstrap lock window.
func (p *Position) IsLiquidityLocked(currentPoint uint64) bool {
	return p.SubjectedToBootstrapLiquidityLocking && currentPoint < p.LockReleasePoint
}

// SetLockReleasePoint sets the slot/timestamp at which the bootstrap lock
// releases.
func (p *Position) SetLockReleasePoint(point uint64) {
	p.LockReleasePoint = point
}

// IDWithinPosition reports whether binID falls inside [LowerBinID, UpperBinID].
func (p *Position) IDWithinPosition(binID int32) bool {
	return binID >= p.LowerBinID && binID <= p.UpperBinID
}
