// Package quote computes pure, non-mutating swap quotes by running the same
// exact-in/exact-out algorithm the real swap uses (pair.SwapExactIn/
// SwapExactOut) against a cloned copy of pair and bin-array state, per
// commons/quote.rs::{quote_exact_in,quote_exact_out}. No dedicated
// quote-only math exists: quoting and swapping share one implementation
// (spec §9), so this package is a thin cloning/validation wrapper around
// the pair package.
package quote

import (
	"github.com/solana-zh/solroute/pkg/dlmm/bin"
	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
	"github.com/solana-zh/solroute/pkg/dlmm/pair"
)

// TransferFeeAdapter adjusts amounts for an SPL token-2022 transfer fee
// extension, matching calculate_transfer_fee_included_amount/
// calculate_transfer_fee_excluded_amount. Implementations with no transfer
// fee configured must be the identity function.
type TransferFeeAdapter interface {
	// IncludedAmount returns the gross amount a sender must transfer so the
	// recipient nets exactly amount after the mint's transfer fee.
	IncludedAmount(amount uint64) (uint64, error)
	// ExcludedAmount returns the net amount a recipient receives out of a
	// gross transfer of amount.
	ExcludedAmount(amount uint64) (uint64, error)
}

// NoTransferFee is a TransferFeeAdapter for mints with no transfer fee
// extension configured.
type NoTransferFee struct{}

func (NoTransferFee) IncludedAmount(amount uint64) (uint64, error) { return amount, nil }
func (NoTransferFee) ExcludedAmount(amount uint64) (uint64, error) { return amount, nil }

// ArraySnapshot is an in-memory, load-once source of bin arrays keyed by
// their own Index field, used as the pair.BinArraySource passed to a
// cloned pair during quoting.
type ArraySnapshot struct {
	arrays map[int64]*bin.BinArray
}

// NewArraySnapshot deep-copies the given arrays so mutations made while
// quoting never touch the caller's live state.
func NewArraySnapshot(arrays []*bin.BinArray) *ArraySnapshot {
	s := &ArraySnapshot{arrays: make(map[int64]*bin.BinArray, len(arrays))}
	for _, a := range arrays {
		cp := *a
		s.arrays[a.Index] = &cp
	}
	return s
}

// ArrayForBin satisfies pair.BinArraySource.
func (s *ArraySnapshot) ArrayForBin(binID int32) (*bin.BinArray, error) {
	idx := bin.BinIDToBinArrayIndex(binID)
	a, ok := s.arrays[idx]
	if !ok {
		return nil, dlmmerr.Newf(dlmmerr.InvalidBinArray, "quote: bin array %d not loaded", idx)
	}
	return a, nil
}

// ExactInResult is the outcome of ExactIn: the net amount the trader
// actually receives, and the fee charged on the input side.
type ExactInResult struct {
	AmountOut uint64
	Fee       uint64
}

// ExactOutResult is the outcome of ExactOut: the gross amount the trader
// must send (after re-including any input-side transfer fee), and the fee
// charged on the input side.
type ExactOutResult struct {
	AmountIn uint64
	Fee      uint64
}

// ExactIn quotes a swap of amountIn of the input token for the output
// token, without mutating p or arrays. currentPoint is the pair's current
// slot or timestamp, whichever its ActivationKind uses, for the activation
// check; currentTimestamp is the unix timestamp used for fee decay.
func ExactIn(p *pair.Pair, arrays []*bin.BinArray, amountIn uint64, swapForY bool, currentPoint uint64, currentTimestamp int64, hostFeeBps *uint16, inTransferFee, outTransferFee TransferFeeAdapter) (*ExactInResult, error) {
	if err := p.ValidateSwapActivation(currentPoint); err != nil {
		return nil, err
	}

	netIn, err := inTransferFee.ExcludedAmount(amountIn)
	if err != nil {
		return nil, err
	}

	clone := *p
	source := NewArraySnapshot(arrays)

	res, err := clone.SwapExactIn(source, netIn, swapForY, currentTimestamp, hostFeeBps)
	if err != nil {
		return nil, err
	}

	netOut, err := outTransferFee.ExcludedAmount(res.AmountOut)
	if err != nil {
		return nil, err
	}

	return &ExactInResult{AmountOut: netOut, Fee: res.Fee}, nil
}

// ExactOut quotes the input required to deliver exactly amountOut of the
// output token, without mutating p or arrays.
func ExactOut(p *pair.Pair, arrays []*bin.BinArray, amountOut uint64, swapForY bool, currentPoint uint64, currentTimestamp int64, hostFeeBps *uint16, inTransferFee, outTransferFee TransferFeeAdapter) (*ExactOutResult, error) {
	if err := p.ValidateSwapActivation(currentPoint); err != nil {
		return nil, err
	}

	grossOut, err := outTransferFee.IncludedAmount(amountOut)
	if err != nil {
		return nil, err
	}

	clone := *p
	source := NewArraySnapshot(arrays)

	res, err := clone.SwapExactOut(source, grossOut, swapForY, currentTimestamp, hostFeeBps)
	if err != nil {
		return nil, err
	}

	grossIn, err := inTransferFee.IncludedAmount(res.AmountIn)
	if err != nil {
		return nil, err
	}

	return &ExactOutResult{AmountIn: grossIn, Fee: res.Fee}, nil
}
