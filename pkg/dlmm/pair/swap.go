package pair

import (
	"github.com/solana-zh/solroute/pkg/dlmm/bin"
	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
	"github.com/solana-zh/solroute/pkg/dlmm/dlog"
)

// BinArraySource resolves the bin array that currently covers the pair's
// active bin. ArrayForBin must return the SAME array instance (and the same
// *bin.Bin storage) across calls made within one swap, so mutations made via
// the returned pointer are visible to the caller once the swap returns --
// this is what lets the exact-in loops below serve both a real,
// state-mutating swap and a pure quote computed against cloned state (spec
// §9's note that quote and swap must share one algorithm rather than two
// parallel implementations). SwapExactIn and SwapExactInCapped write bin
// reserves and fee accumulators through the returned array; SwapExactOut
// only reads them.
type BinArraySource interface {
	ArrayForBin(binID int32) (*bin.BinArray, error)
}

// SwapExactInResult is the outcome of SwapExactIn.
type SwapExactInResult struct {
	AmountOut uint64
	Fee       uint64
}

// SwapExactOutResult is the outcome of SwapExactOut.
type SwapExactOutResult struct {
	AmountIn uint64
	Fee      uint64
}

func (p *Pair) feeParams(hostFeeBps *uint16) bin.FeeParams {
	return bin.FeeParams{
		TotalFeeRate:  p.GetTotalFee(),
		ProtocolShare: p.Parameters.ProtocolShare,
		HostFeeBps:    hostFeeBps,
	}
}

// SwapExactIn walks bins from the pair's active id in the swap direction,
// consuming amountIn (already net of any external transfer fee) until it is
// exhausted, accumulating the output and fee collected along the way.
// Mirrors commons/quote.rs::quote_exact_in's inner algorithm, with one
// deliberate correction: the loop-continuation and bin-array-advance checks
// below gate on the REMAINING balance (amountLeft), not the original
// amountIn parameter -- the Rust source gates on the original amount_in,
// which never changes inside the loop and so never stops the bin-array
// advance even after the swap is fully filled.
func (p *Pair) SwapExactIn(source BinArraySource, amountIn uint64, swapForY bool, currentTimestamp int64, hostFeeBps *uint16) (*SwapExactInResult, error) {
	if err := p.UpdateReferencesOnly(currentTimestamp); err != nil {
		return nil, err
	}

	var totalOut, totalFee uint64
	amountLeft := amountIn
	fp := p.feeParams(hostFeeBps)

	for amountLeft > 0 {
		array, err := source.ArrayForBin(p.ActiveID)
		if err != nil {
			return nil, err
		}

		for {
			if !array.IsBinIDWithinRange(p.ActiveID) || amountLeft == 0 {
				break
			}

			if err := p.VParameters.UpdateVolatilityAccumulator(p.ActiveID, p.Parameters); err != nil {
				return nil, err
			}

			activeBin, err := array.GetBinMut(p.ActiveID)
			if err != nil {
				return nil, err
			}
			price, err := activeBin.GetOrStoreBinPrice(p.ActiveID, p.BinStep)
			if err != nil {
				return nil, err
			}

			if !activeBin.IsEmpty(!swapForY) {
				res, err := activeBin.Swap(amountLeft, price, swapForY, fp)
				if err != nil {
					return nil, err
				}
				if res.AmountInWithFees > amountLeft {
					return nil, dlmmerr.New(dlmmerr.MathOverflow, "swap_exact_in: amount_in_with_fees exceeds remaining balance")
				}
				amountLeft -= res.AmountInWithFees
				totalOut += res.AmountOut
				totalFee += res.Fee

				if err := activeBin.UpdateFeePerTokenStored(res.Fee-res.ProtocolFeeAfterHostFee-res.HostFee, swapForY); err != nil {
					return nil, err
				}
				protocolFeeX, protocolFeeY := protocolFeeXY(res, swapForY)
				if err := p.AccumulateProtocolFees(protocolFeeX, protocolFeeY); err != nil {
					return nil, err
				}
			}

			if amountLeft > 0 {
				if err := p.AdvanceActiveBin(swapForY); err != nil {
					return nil, err
				}
			}
		}
	}

	p.LastUpdatedAt = currentTimestamp
	dlog.SwapExecuted(swapForY, amountIn, totalOut, totalFee)
	return &SwapExactInResult{AmountOut: totalOut, Fee: totalFee}, nil
}

// SwapExactOut walks bins to deliver exactly amountOut, returning the input
// (including fees) required. Mirrors commons/quote.rs::quote_exact_out.
// Bin reserves, fee-per-token accumulators and the pair's protocol fee are
// left unchanged (a bin's price may be cached into it); only ActiveID, the
// volatility parameters and LastUpdatedAt are updated.
func (p *Pair) SwapExactOut(source BinArraySource, amountOut uint64, swapForY bool, currentTimestamp int64, hostFeeBps *uint16) (*SwapExactOutResult, error) {
	if err := p.UpdateReferencesOnly(currentTimestamp); err != nil {
		return nil, err
	}

	var totalIn, totalFee uint64
	fp := p.feeParams(hostFeeBps)

	for amountOut > 0 {
		array, err := source.ArrayForBin(p.ActiveID)
		if err != nil {
			return nil, err
		}

		for {
			if !array.IsBinIDWithinRange(p.ActiveID) || amountOut == 0 {
				break
			}

			if err := p.VParameters.UpdateVolatilityAccumulator(p.ActiveID, p.Parameters); err != nil {
				return nil, err
			}

			activeBin, err := array.GetBinMut(p.ActiveID)
			if err != nil {
				return nil, err
			}
			price, err := activeBin.GetOrStoreBinPrice(p.ActiveID, p.BinStep)
			if err != nil {
				return nil, err
			}

			if !activeBin.IsEmpty(!swapForY) {
				binMaxOut := activeBin.GetMaxAmountOut(swapForY)
				if amountOut >= binMaxOut {
					maxIn, err := activeBin.GetMaxAmountIn(price, swapForY)
					if err != nil {
						return nil, err
					}
					maxFee, err := p.ComputeFeeFromAmount(maxIn)
					if err != nil {
						return nil, err
					}
					totalIn += maxIn
					totalFee += maxFee
					amountOut -= binMaxOut
				} else {
					amtIn, err := bin.GetAmountIn(amountOut, price, swapForY)
					if err != nil {
						return nil, err
					}
					fee, err := p.ComputeFeeFromAmount(amtIn)
					if err != nil {
						return nil, err
					}
					totalIn += amtIn
					totalFee += fee
					amountOut = 0
				}
			}

			if amountOut > 0 {
				if err := p.AdvanceActiveBin(swapForY); err != nil {
					return nil, err
				}
			}
		}
	}

	totalIn += totalFee
	p.LastUpdatedAt = currentTimestamp
	return &SwapExactOutResult{AmountIn: totalIn, Fee: totalFee}, nil
}

// SwapExactInCapped is SwapExactIn's throttled variant (spec §4.2's "capped
// variant"): each bin's swap is run through bin.SwapWithCap against a shared
// remainingCap budget, and every swap's actual inflow is folded into the
// bin's AccumulateAmountsIn tracking counters. If a bin's swap reaches the
// cap while balance is still unswapped, the call returns
// ExceedMaxSwappedAmount at that bin rather than a silently partial
// fill -- grounded on bin.rs::swap_with_cap's reached_cap
// flag; the per-pair-type cap-activation gating state.rs derives it from
// (max_swapped_amount, swap_cap_deactivate_slot) is not reconstructed here,
// so the cap is simply whatever the caller supplies.
func (p *Pair) SwapExactInCapped(source BinArraySource, amountIn uint64, swapForY bool, currentTimestamp int64, hostFeeBps *uint16, maxSwappedAmount uint64) (*SwapExactInResult, error) {
	if err := p.UpdateReferencesOnly(currentTimestamp); err != nil {
		return nil, err
	}

	var totalOut, totalFee uint64
	amountLeft := amountIn
	remainingCap := maxSwappedAmount
	fp := p.feeParams(hostFeeBps)

	for amountLeft > 0 {
		array, err := source.ArrayForBin(p.ActiveID)
		if err != nil {
			return nil, err
		}

		for {
			if !array.IsBinIDWithinRange(p.ActiveID) || amountLeft == 0 {
				break
			}

			if err := p.VParameters.UpdateVolatilityAccumulator(p.ActiveID, p.Parameters); err != nil {
				return nil, err
			}

			activeBin, err := array.GetBinMut(p.ActiveID)
			if err != nil {
				return nil, err
			}
			price, err := activeBin.GetOrStoreBinPrice(p.ActiveID, p.BinStep)
			if err != nil {
				return nil, err
			}

			if !activeBin.IsEmpty(!swapForY) {
				res, err := activeBin.SwapWithCap(amountLeft, price, swapForY, fp, remainingCap)
				if err != nil {
					return nil, err
				}
				if res.AmountInWithFees > amountLeft {
					return nil, dlmmerr.New(dlmmerr.MathOverflow, "swap_exact_in_capped: amount_in_with_fees exceeds remaining balance")
				}
				amountLeft -= res.AmountInWithFees
				totalOut += res.AmountOut
				totalFee += res.Fee
				if res.AmountOut > remainingCap {
					remainingCap = 0
				} else {
					remainingCap -= res.AmountOut
				}

				if err := activeBin.UpdateFeePerTokenStored(res.Fee-res.ProtocolFeeAfterHostFee-res.HostFee, swapForY); err != nil {
					return nil, err
				}
				protocolFeeX, protocolFeeY := protocolFeeXY(res, swapForY)
				if err := p.AccumulateProtocolFees(protocolFeeX, protocolFeeY); err != nil {
					return nil, err
				}
				inX, inY := accumulatedAmountsInXY(res, swapForY)
				activeBin.AccumulateAmountsIn(inX, inY)

				if res.IsReachCap && amountLeft > 0 {
					return nil, dlmmerr.New(dlmmerr.ExceedMaxSwappedAmount, "swap_exact_in_capped: swap cap exhausted with balance remaining")
				}
			}

			if amountLeft > 0 {
				if err := p.AdvanceActiveBin(swapForY); err != nil {
					return nil, err
				}
			}
		}
	}

	p.LastUpdatedAt = currentTimestamp
	dlog.SwapExecuted(swapForY, amountIn, totalOut, totalFee)
	return &SwapExactInResult{AmountOut: totalOut, Fee: totalFee}, nil
}

func accumulatedAmountsInXY(res *bin.SwapResult, swapForY bool) (amountXIn, amountYIn uint64) {
	if swapForY {
		return res.AmountInWithFees, 0
	}
	return 0, res.AmountInWithFees
}

// UpdateReferencesOnly runs just the reference half of the volatility update
// (quote_exact_in/out call lb_pair.update_references once up front, then
// update_volatility_accumulator per bin visited inside the loop).
func (p *Pair) UpdateReferencesOnly(currentTimestamp int64) error {
	return p.VParameters.UpdateReferences(p.ActiveID, currentTimestamp, p.Parameters)
}

func protocolFeeXY(res *bin.SwapResult, swapForY bool) (uint64, uint64) {
	if swapForY {
		return res.ProtocolFeeAfterHostFee, 0
	}
	return 0, res.ProtocolFeeAfterHostFee
}
