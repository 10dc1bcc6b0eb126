// Package bin implements the per-bin reserve/liquidity-share record and its
// swap/deposit/withdraw primitives (spec §4.2), plus the fixed-width bin
// array that groups 70 contiguous bins under a signed array index (spec §3).
// Grounded directly on programs/lb_clmm/src/state/bin.rs: the teacher's Go
// meteora package references a `Bin` type and its methods
// (GetOrStoreBinPrice, GetMaxAmountOut, swap...) without ever defining them,
// so this is built fresh from the Rust original rather than adapted from Go.
package bin

import (
	"math/big"

	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
	"github.com/solana-zh/solroute/pkg/dlmm/feemath"
	"github.com/solana-zh/solroute/pkg/dlmm/math128"
	"lukechampine.com/uint128"
)

// NumRewards is the number of concurrent linear-rate reward streams a bin
// tracks (spec §3: K=2).
const NumRewards = 2

// MaxBinPerArray is the fixed width of a bin array.
const MaxBinPerArray = 70

// Bin is the 16-byte-aligned per-bin record described in spec §6.
type Bin struct {
	AmountX                  uint64
	AmountY                  uint64
	Price                    uint128.Uint128
	LiquiditySupply          uint128.Uint128
	RewardPerTokenStored     [NumRewards]uint128.Uint128
	FeeAmountXPerTokenStored uint128.Uint128
	FeeAmountYPerTokenStored uint128.Uint128
	AmountXIn                uint128.Uint128
	AmountYIn                uint128.Uint128
}

// SwapResult mirrors bin.rs::SwapResult.
type SwapResult struct {
	AmountInWithFees         uint64
	AmountOut                uint64
	Fee                      uint64
	ProtocolFeeAfterHostFee  uint64
	HostFee                  uint64
	IsReachCap               bool
}

// IsZeroLiquidity reports whether the bin currently has no minted shares.
func (b *Bin) IsZeroLiquidity() bool {
	return b.LiquiditySupply.IsZero()
}

// IsEmpty reports whether the requested side's reserve is zero.
func (b *Bin) IsEmpty(isX bool) bool {
	if isX {
		return b.AmountX == 0
	}
	return b.AmountY == 0
}

// Deposit credits reserves and mints liquidity_share worth of supply.
func (b *Bin) Deposit(amountX, amountY uint64, liquidityShare uint128.Uint128) error {
	newX := new(big.Int).Add(big.NewInt(0).SetUint64(b.AmountX), big.NewInt(0).SetUint64(amountX))
	newY := new(big.Int).Add(big.NewInt(0).SetUint64(b.AmountY), big.NewInt(0).SetUint64(amountY))
	if !newX.IsUint64() || !newY.IsUint64() {
		return dlmmerr.New(dlmmerr.MathOverflow, "deposit: reserve overflow")
	}
	b.AmountX = newX.Uint64()
	b.AmountY = newY.Uint64()
	b.LiquiditySupply = b.LiquiditySupply.Add(liquidityShare)
	return nil
}

// DepositCompositionFee credits the in-bin-fee portion of a composition fee
// back into reserves (the protocol-share portion has already been removed).
func (b *Bin) DepositCompositionFee(feeX, feeY uint64) error {
	newX := new(big.Int).Add(big.NewInt(0).SetUint64(b.AmountX), big.NewInt(0).SetUint64(feeX))
	newY := new(big.Int).Add(big.NewInt(0).SetUint64(b.AmountY), big.NewInt(0).SetUint64(feeY))
	if !newX.IsUint64() || !newY.IsUint64() {
		return dlmmerr.New(dlmmerr.MathOverflow, "deposit_composition_fee: reserve overflow")
	}
	b.AmountX = newX.Uint64()
	b.AmountY = newY.Uint64()
	return nil
}

// GetOrStoreBinPrice lazily computes and caches the bin's Q64.64 price.
func (b *Bin) GetOrStoreBinPrice(id int32, binStep uint16) (uint128.Uint128, error) {
	if b.Price.IsZero() {
		p, err := math128.PriceFromID(binStep, id, feemath.BasisPointMax)
		if err != nil {
			return uint128.Zero, err
		}
		b.Price = p
	}
	return b.Price, nil
}

// UpdateFeePerTokenStored folds a just-collected fee into the bin's
// per-share fee accumulator on the side the input was collected on.
func (b *Bin) UpdateFeePerTokenStored(fee uint64, swapForY bool) error {
	shares := b.LiquiditySupply.Rsh(math128.ScaleOffset)
	if shares.IsZero() {
		// No counterparty liquidity; nothing to attribute the fee to.
		return nil
	}
	feePerToken, err := math128.ShlDiv(uint128.From64(fee), shares, math128.ScaleOffset, math128.Down)
	if err != nil {
		return err
	}
	if swapForY {
		b.FeeAmountXPerTokenStored = b.FeeAmountXPerTokenStored.Add(feePerToken)
	} else {
		b.FeeAmountYPerTokenStored = b.FeeAmountYPerTokenStored.Add(feePerToken)
	}
	return nil
}

// GetMaxAmountOut returns the opposite-side reserve, the most this bin can
// ever pay out in the given direction.
func (b *Bin) GetMaxAmountOut(swapForY bool) uint64 {
	if swapForY {
		return b.AmountY
	}
	return b.AmountX
}

// GetAmountOut floors price*amountIn (X->Y) or amountIn/price (Y->X).
func GetAmountOut(amountIn uint64, price uint128.Uint128, swapForY bool) (uint64, error) {
	var v uint128.Uint128
	var err error
	if swapForY {
		v, err = math128.MulShr(price, uint128.From64(amountIn), math128.ScaleOffset, math128.Down)
	} else {
		v, err = math128.ShlDiv(uint128.From64(amountIn), price, math128.ScaleOffset, math128.Down)
	}
	if err != nil {
		return 0, err
	}
	if v.Hi != 0 {
		return 0, dlmmerr.New(dlmmerr.TypeCastFailed, "get_amount_out: result overflows u64")
	}
	return v.Lo, nil
}

// GetAmountIn is the reverse of GetAmountOut: the input needed to realize a
// given (already-known-achievable) output.
func GetAmountIn(amountOut uint64, price uint128.Uint128, swapForY bool) (uint64, error) {
	var v uint128.Uint128
	var err error
	if swapForY {
		v, err = math128.ShlDiv(uint128.From64(amountOut), price, math128.ScaleOffset, math128.Down)
	} else {
		v, err = math128.MulShr(uint128.From64(amountOut), price, math128.ScaleOffset, math128.Down)
	}
	if err != nil {
		return 0, err
	}
	if v.Hi != 0 {
		return 0, dlmmerr.New(dlmmerr.TypeCastFailed, "get_amount_in: result overflows u64")
	}
	return v.Lo, nil
}

// GetMaxAmountIn returns the (ceiled) amount needed to fully drain the
// opposite reserve at this bin's price.
func (b *Bin) GetMaxAmountIn(price uint128.Uint128, swapForY bool) (uint64, error) {
	var v uint128.Uint128
	var err error
	if swapForY {
		v, err = math128.ShlDiv(uint128.From64(b.AmountY), price, math128.ScaleOffset, math128.Up)
	} else {
		v, err = math128.MulShr(uint128.From64(b.AmountX), price, math128.ScaleOffset, math128.Up)
	}
	if err != nil {
		return 0, err
	}
	if v.Hi != 0 {
		return 0, dlmmerr.New(dlmmerr.TypeCastFailed, "get_max_amount_in: result overflows u64")
	}
	return v.Lo, nil
}

// GetMaxAmountsIn returns get_max_amount_in for both directions.
func (b *Bin) GetMaxAmountsIn(price uint128.Uint128) (x, y uint64, err error) {
	x, err = b.GetMaxAmountIn(price, true)
	if err != nil {
		return 0, 0, err
	}
	y, err = b.GetMaxAmountIn(price, false)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// FeeParams bundles the fee-curve inputs a single-bin swap needs from its
// pair, keeping this package decoupled from the pair package.
type FeeParams struct {
	TotalFeeRate  *big.Int
	ProtocolShare uint16
	HostFeeBps    *uint16
}

func (f FeeParams) computeFee(amountWithFees uint64) (uint64, error) {
	return feemath.ComputeFee(amountWithFees, f.TotalFeeRate)
}

func (f FeeParams) computeFeeFromAmount(amountExcludingFees uint64) (uint64, error) {
	return feemath.ComputeFeeFromAmount(amountExcludingFees, f.TotalFeeRate)
}

func (f FeeParams) computeProtocolFee(fee uint64) (uint64, error) {
	return feemath.ComputeProtocolFee(fee, f.ProtocolShare)
}

// Swap executes the single-bin swap algorithm of spec §4.2 / bin.rs::swap.
func (b *Bin) Swap(amountIn uint64, price uint128.Uint128, swapForY bool, fee FeeParams) (*SwapResult, error) {
	maxAmountOut := b.GetMaxAmountOut(swapForY)
	maxAmountIn, err := b.GetMaxAmountIn(price, swapForY)
	if err != nil {
		return nil, err
	}
	maxFee, err := fee.computeFeeFromAmount(maxAmountIn)
	if err != nil {
		return nil, err
	}
	maxAmountInSum := new(big.Int).Add(big.NewInt(0).SetUint64(maxAmountIn), big.NewInt(0).SetUint64(maxFee))
	if !maxAmountInSum.IsUint64() {
		return nil, dlmmerr.New(dlmmerr.MathOverflow, "swap: max_amount_in overflow")
	}
	maxAmountInWithFee := maxAmountInSum.Uint64()

	var amountInWithFees, amountOut, feeAmt, protocolFee uint64
	if amountIn > maxAmountInWithFee {
		amountInWithFees = maxAmountInWithFee
		amountOut = maxAmountOut
		feeAmt = maxFee
		protocolFee, err = fee.computeProtocolFee(maxFee)
		if err != nil {
			return nil, err
		}
	} else {
		feeAmt, err = fee.computeFee(amountIn)
		if err != nil {
			return nil, err
		}
		if feeAmt > amountIn {
			return nil, dlmmerr.New(dlmmerr.MathOverflow, "swap: fee exceeds amount_in")
		}
		amountInAfterFee := amountIn - feeAmt
		out, err := GetAmountOut(amountInAfterFee, price, swapForY)
		if err != nil {
			return nil, err
		}
		if out > maxAmountOut {
			out = maxAmountOut
		}
		amountInWithFees = amountIn
		amountOut = out
		protocolFee, err = fee.computeProtocolFee(feeAmt)
		if err != nil {
			return nil, err
		}
	}

	var hostFee uint64
	if fee.HostFeeBps != nil {
		hf, err := feemath.ComputeHostFee(protocolFee, *fee.HostFeeBps)
		if err != nil {
			return nil, err
		}
		hostFee = hf
	}
	if hostFee > protocolFee {
		return nil, dlmmerr.New(dlmmerr.MathOverflow, "swap: host fee exceeds protocol fee")
	}
	protocolFeeAfterHost := protocolFee - hostFee

	if feeAmt > amountInWithFees {
		return nil, dlmmerr.New(dlmmerr.MathOverflow, "swap: fee exceeds amount_in_with_fees")
	}
	amountIntoBin := amountInWithFees - feeAmt

	if swapForY {
		newX := new(big.Int).Add(big.NewInt(0).SetUint64(b.AmountX), big.NewInt(0).SetUint64(amountIntoBin))
		if !newX.IsUint64() {
			return nil, dlmmerr.New(dlmmerr.MathOverflow, "swap: amount_x overflow")
		}
		if amountOut > b.AmountY {
			return nil, dlmmerr.New(dlmmerr.MathOverflow, "swap: amount_y underflow")
		}
		b.AmountX = newX.Uint64()
		b.AmountY -= amountOut
	} else {
		newY := new(big.Int).Add(big.NewInt(0).SetUint64(b.AmountY), big.NewInt(0).SetUint64(amountIntoBin))
		if !newY.IsUint64() {
			return nil, dlmmerr.New(dlmmerr.MathOverflow, "swap: amount_y overflow")
		}
		if amountOut > b.AmountX {
			return nil, dlmmerr.New(dlmmerr.MathOverflow, "swap: amount_x underflow")
		}
		b.AmountY = newY.Uint64()
		b.AmountX -= amountOut
	}

	return &SwapResult{
		AmountInWithFees:        amountInWithFees,
		AmountOut:               amountOut,
		Fee:                     feeAmt,
		ProtocolFeeAfterHostFee: protocolFeeAfterHost,
		HostFee:                 hostFee,
		IsReachCap:              false,
	}, nil
}

// SwapWithCap is the throttled variant of Swap used when a per-pair swap cap
// is in effect (spec §4.2's "capped variant").
func (b *Bin) SwapWithCap(amountIn uint64, price uint128.Uint128, swapForY bool, fee FeeParams, remainingCap uint64) (*SwapResult, error) {
	maxAmountOut := b.GetMaxAmountOut(swapForY)
	if maxAmountOut < remainingCap {
		return b.Swap(amountIn, price, swapForY, fee)
	}
	capped, err := GetAmountIn(remainingCap, price, swapForY)
	if err != nil {
		return nil, err
	}
	if capped < amountIn {
		amountIn = capped
	}
	res, err := b.Swap(amountIn, price, swapForY, fee)
	if err != nil {
		return nil, err
	}
	res.IsReachCap = true
	return res, nil
}

// CalculateOutAmount returns the proportional (x, y) a given share is
// entitled to withdraw, floored.
func (b *Bin) CalculateOutAmount(liquidityShare uint128.Uint128) (outX, outY uint64, err error) {
	if b.LiquiditySupply.IsZero() {
		return 0, 0, dlmmerr.New(dlmmerr.ZeroLiquidity, "calculate_out_amount: zero liquidity supply")
	}
	x, err := math128.MulDiv(liquidityShare, uint128.From64(b.AmountX), b.LiquiditySupply, math128.Down)
	if err != nil {
		return 0, 0, err
	}
	y, err := math128.MulDiv(liquidityShare, uint128.From64(b.AmountY), b.LiquiditySupply, math128.Down)
	if err != nil {
		return 0, 0, err
	}
	if x.Hi != 0 || y.Hi != 0 {
		return 0, 0, dlmmerr.New(dlmmerr.TypeCastFailed, "calculate_out_amount: result overflows u64")
	}
	return x.Lo, y.Lo, nil
}

// Withdraw removes liquidityShare worth of reserves and supply.
func (b *Bin) Withdraw(liquidityShare uint128.Uint128) (outX, outY uint64, err error) {
	outX, outY, err = b.CalculateOutAmount(liquidityShare)
	if err != nil {
		return 0, 0, err
	}
	if outX > b.AmountX || outY > b.AmountY {
		return 0, 0, dlmmerr.New(dlmmerr.MathOverflow, "withdraw: reserve underflow")
	}
	if b.LiquiditySupply.Cmp(liquidityShare) < 0 {
		return 0, 0, dlmmerr.New(dlmmerr.MathOverflow, "withdraw: share exceeds supply")
	}
	b.AmountX -= outX
	b.AmountY -= outY
	b.LiquiditySupply = b.LiquiditySupply.Sub(liquidityShare)
	return outX, outY, nil
}

// AccumulateAmountsIn bumps the tracking-only wrapping inflow counters.
func (b *Bin) AccumulateAmountsIn(amountXIn, amountYIn uint64) {
	b.AmountXIn = wrappingAdd128(b.AmountXIn, uint128.From64(amountXIn))
	b.AmountYIn = wrappingAdd128(b.AmountYIn, uint128.From64(amountYIn))
}

func wrappingAdd128(a, b uint128.Uint128) uint128.Uint128 {
	sum := new(big.Int).Add(a.Big(), b.Big())
	mod := new(big.Int).Lsh(big.NewInt(1), 128)
	sum.Mod(sum, mod)
	return uint128.FromBig(sum)
}

// GetOutAmount computes liquidity_share * bin_token_amount / liquidity_supply,
// floored, returning 0 when the bin has no supply yet.
func GetOutAmount(liquidityShare uint128.Uint128, binTokenAmount uint64, liquiditySupply uint128.Uint128) (uint64, error) {
	if liquiditySupply.IsZero() {
		return 0, nil
	}
	v, err := math128.MulDiv(liquidityShare, uint128.From64(binTokenAmount), liquiditySupply, math128.Down)
	if err != nil {
		return 0, err
	}
	if v.Hi != 0 {
		return 0, dlmmerr.New(dlmmerr.TypeCastFailed, "get_out_amount: result overflows u64")
	}
	return v.Lo, nil
}

// GetLiquidityShare computes the share minted for a deposit of in_liquidity
// into a bin currently holding bin_liquidity against liquidity_supply.
func GetLiquidityShare(inLiquidity, binLiquidity, liquiditySupply uint128.Uint128) (uint128.Uint128, error) {
	return math128.MulDiv(inLiquidity, liquiditySupply, binLiquidity, math128.Down)
}

// GetLiquidity prices a (amountX, amountY) pair in bin-liquidity units at
// the given Q64.64 price, denominated in token Y (amount_x is converted
// through price, amount_y already is one). The defining Rust function
// (math::bin_math::get_liquidity, referenced from add_liquidity.rs) is not
// present in the retrieval pack, so this follows the same price convention
// GetAmountOut/GetAmountIn already use for X<->Y conversion at a bin's price.
func GetLiquidity(amountX, amountY uint64, price uint128.Uint128) (uint128.Uint128, error) {
	valueX, err := math128.MulShr(price, uint128.From64(amountX), math128.ScaleOffset, math128.Down)
	if err != nil {
		return uint128.Zero, err
	}
	sum := valueX.Big()
	sum.Add(sum, uint128.From64(amountY).Big())
	max := new(big.Int).Lsh(big.NewInt(1), 128)
	if sum.Cmp(max) >= 0 {
		return uint128.Zero, dlmmerr.New(dlmmerr.MathOverflow, "get_liquidity: result overflows u128")
	}
	return uint128.FromBig(sum), nil
}
