package pair

import (
	"math/big"

	"github.com/solana-zh/solroute/pkg/dlmm/bin"
	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
	"github.com/solana-zh/solroute/pkg/dlmm/dlog"
	"lukechampine.com/uint128"
)

// CompositionDepositResult is the outcome of DepositAtBin: the liquidity
// share minted plus whatever composition fee was charged getting there (both
// zero for a deposit that needed no rebalancing).
type CompositionDepositResult struct {
	LiquidityShare  uint128.Uint128
	CompositionFeeX uint64
	CompositionFeeY uint64
	ProtocolFeeX    uint64
	ProtocolFeeY    uint64
}

// verifyInAmounts enforces add_liquidity.rs::verify_in_amounts: a bin
// strictly below the active bin can only ever receive token Y, one strictly
// above only token X -- only the active bin itself may receive both sides.
func verifyInAmounts(amountX, amountY uint64, activeID, id int32) error {
	switch {
	case id < activeID && amountX != 0:
		return dlmmerr.New(dlmmerr.CompositionFactorFlawed, "verify_in_amounts: bin below active id must not receive token x")
	case id > activeID && amountY != 0:
		return dlmmerr.New(dlmmerr.CompositionFactorFlawed, "verify_in_amounts: bin above active id must not receive token y")
	}
	return nil
}

func addU64Checked(a, b uint64) (uint64, error) {
	sum := new(big.Int).Add(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	if !sum.IsUint64() {
		return 0, dlmmerr.New(dlmmerr.MathOverflow, "add_u64_checked: overflow")
	}
	return sum.Uint64(), nil
}

// compositionFeeOnSide mirrors one of add_liquidity.rs::compute_composition_
// fee's two (swapped-argument) call sites: if withdrawing the freshly minted
// share right back out would pay out more of the OTHER side than was
// deposited, the excess came from rebalancing THIS side against the rest of
// the pool -- an implicit internal swap of (amountSelfIntoBin - outSelf) of
// this side, charged the pair's normal swap fee.
func (p *Pair) compositionFeeOnSide(outOther, amountOtherIntoBin, amountSelfIntoBin, outSelf uint64) (uint64, error) {
	if outOther <= amountOtherIntoBin {
		return 0, nil
	}
	if outSelf > amountSelfIntoBin {
		return 0, dlmmerr.New(dlmmerr.MathOverflow, "compute_composition_fee: out_self exceeds amount_self_into_bin")
	}
	return p.ComputeCompositionFee(amountSelfIntoBin - outSelf)
}

// liquidityValue prices b's current reserves at price, erroring with
// ZeroLiquidity if the bin has minted shares but no priceable value (a state
// that should be unreachable but would otherwise divide by zero below).
func liquidityValue(b *bin.Bin, price uint128.Uint128) (uint128.Uint128, error) {
	v, err := bin.GetLiquidity(b.AmountX, b.AmountY, price)
	if err != nil {
		return uint128.Zero, err
	}
	if v.IsZero() && !b.IsZeroLiquidity() {
		return uint128.Zero, dlmmerr.New(dlmmerr.ZeroLiquidity, "deposit: zero bin liquidity value")
	}
	return v, nil
}

// shareForAmounts mints a share for (amountX, amountY) against b's current
// reserves, per add_liquidity.rs::get_liquidity_share_by_in_amount. Used for
// the off-active-bin deposit, the speculative (before-fee) share at the
// active bin, and the final (after-fee) share once a composition fee has
// been charged.
func shareForAmounts(b *bin.Bin, amountX, amountY uint64, price uint128.Uint128) (uint128.Uint128, error) {
	inLiquidity, err := bin.GetLiquidity(amountX, amountY, price)
	if err != nil {
		return uint128.Zero, err
	}
	if b.IsZeroLiquidity() {
		return inLiquidity, nil
	}
	binLiquidity, err := liquidityValue(b, price)
	if err != nil {
		return uint128.Zero, err
	}
	return bin.GetLiquidityShare(inLiquidity, binLiquidity, b.LiquiditySupply)
}

// DepositAtBin deposits (amountX, amountY) into bin b at binID, mirroring
// add_liquidity.rs::deposit_in_bin_id. Off-active-bin deposits are always
// single-sided (verifyInAmounts enforces it) and mint a share directly. A
// deposit at the pair's active bin is checked against the bin's existing
// reserve ratio: if it is unbalanced, the heavier side is treated as an
// implicit internal swap and charged the pair's normal swap fee, split
// between the LP (credited back to the bin's reserves) and the protocol
// (moved to Pair.ProtocolFee), before the fee-adjusted amounts are priced
// into the final liquidity share.
func (p *Pair) DepositAtBin(b *bin.Bin, binID int32, amountX, amountY uint64, currentTimestamp int64) (*CompositionDepositResult, error) {
	if err := verifyInAmounts(amountX, amountY, p.ActiveID, binID); err != nil {
		return nil, err
	}

	price, err := b.GetOrStoreBinPrice(binID, p.BinStep)
	if err != nil {
		return nil, err
	}

	if binID != p.ActiveID {
		share, err := shareForAmounts(b, amountX, amountY, price)
		if err != nil {
			return nil, err
		}
		if err := b.Deposit(amountX, amountY, share); err != nil {
			return nil, err
		}
		return &CompositionDepositResult{LiquidityShare: share}, nil
	}

	if err := p.UpdateVolatilityParameters(currentTimestamp); err != nil {
		return nil, err
	}

	shareBeforeFee, err := shareForAmounts(b, amountX, amountY, price)
	if err != nil {
		return nil, err
	}

	sumX, err := addU64Checked(b.AmountX, amountX)
	if err != nil {
		return nil, err
	}
	sumY, err := addU64Checked(b.AmountY, amountY)
	if err != nil {
		return nil, err
	}
	supplyAfter := b.LiquiditySupply.Add(shareBeforeFee)

	outX, err := bin.GetOutAmount(shareBeforeFee, sumX, supplyAfter)
	if err != nil {
		return nil, err
	}
	outY, err := bin.GetOutAmount(shareBeforeFee, sumY, supplyAfter)
	if err != nil {
		return nil, err
	}

	compositionFeeY, err := p.compositionFeeOnSide(outX, amountX, amountY, outY)
	if err != nil {
		return nil, err
	}
	compositionFeeX, err := p.compositionFeeOnSide(outY, amountY, amountX, outX)
	if err != nil {
		return nil, err
	}

	if compositionFeeX == 0 && compositionFeeY == 0 {
		if err := b.Deposit(amountX, amountY, shareBeforeFee); err != nil {
			return nil, err
		}
		return &CompositionDepositResult{LiquidityShare: shareBeforeFee}, nil
	}

	protocolFeeX, err := p.ComputeProtocolFee(compositionFeeX)
	if err != nil {
		return nil, err
	}
	protocolFeeY, err := p.ComputeProtocolFee(compositionFeeY)
	if err != nil {
		return nil, err
	}
	if err := p.AccumulateProtocolFees(protocolFeeX, protocolFeeY); err != nil {
		return nil, err
	}
	if err := b.DepositCompositionFee(compositionFeeX-protocolFeeX, compositionFeeY-protocolFeeY); err != nil {
		return nil, err
	}

	amountXAfterFee := amountX - compositionFeeX
	amountYAfterFee := amountY - compositionFeeY

	share, err := shareForAmounts(b, amountXAfterFee, amountYAfterFee, price)
	if err != nil {
		return nil, err
	}
	if err := b.Deposit(amountXAfterFee, amountYAfterFee, share); err != nil {
		return nil, err
	}

	dlog.CompositionFeeCharged(binID, compositionFeeX, compositionFeeY, protocolFeeX, protocolFeeY)

	return &CompositionDepositResult{
		LiquidityShare:  share,
		CompositionFeeX: compositionFeeX,
		CompositionFeeY: compositionFeeY,
		ProtocolFeeX:    protocolFeeX,
		ProtocolFeeY:    protocolFeeY,
	}, nil
}
