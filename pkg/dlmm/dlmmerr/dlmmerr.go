// Package dlmmerr defines the closed error taxonomy used across the DLMM
// core. Every fallible function in pkg/dlmm returns (T, error); errors that
// originate inside the core always carry one of these codes so callers can
// branch on Is(err, code) instead of string-matching.
package dlmmerr

import "fmt"

// Code identifies one of the core's non-recoverable error kinds.
type Code int

const (
	InvalidInput Code = iota
	InvalidBinId
	InvalidStartBinIndex
	InvalidBinArray
	InvalidPosition
	CompositionFactorFlawed
	ExcessiveFeeUpdate
	ExceededBinSlippageTolerance
	PairInsufficientLiquidity
	ExceedMaxSwappedAmount
	PoolDisabled
	NotEnabled
	BitmapExtensionAccountIsNotProvided
	MathOverflow
	TypeCastFailed
	ZeroLiquidity
	InvalidDiscriminator
)

var names = map[Code]string{
	InvalidInput:                        "invalid_input",
	InvalidBinId:                        "invalid_bin_id",
	InvalidStartBinIndex:                "invalid_start_bin_index",
	InvalidBinArray:                     "invalid_bin_array",
	InvalidPosition:                     "invalid_position",
	CompositionFactorFlawed:             "composition_factor_flawed",
	ExcessiveFeeUpdate:                  "excessive_fee_update",
	ExceededBinSlippageTolerance:        "exceeded_bin_slippage_tolerance",
	PairInsufficientLiquidity:           "pair_insufficient_liquidity",
	ExceedMaxSwappedAmount:              "exceed_max_swapped_amount",
	PoolDisabled:                        "pool_disabled",
	NotEnabled:                          "not_enabled",
	BitmapExtensionAccountIsNotProvided: "bitmap_extension_account_is_not_provided",
	MathOverflow:                        "math_overflow",
	TypeCastFailed:                      "type_cast_failed",
	ZeroLiquidity:                       "zero_liquidity",
	InvalidDiscriminator:                "invalid_discriminator",
}

func (c Code) String() string {
	if s, ok := names[c]; ok {
		return s
	}
	return "unknown"
}

// Error is the concrete error type returned by the core. It carries a stable
// Code for callers to branch on plus an optional wrapped cause for
// diagnostics.
type Error struct {
	Code  Code
	Msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.cause)
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Msg)
	}
	return e.Code.String()
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an Error with a message.
func New(code Code, msg string) error {
	return &Error{Code: code, Msg: msg}
}

// Newf builds an Error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that chains a lower-level cause.
func Wrap(code Code, msg string, cause error) error {
	return &Error{Code: code, Msg: msg, cause: cause}
}

// Is reports whether err is a *Error with the given code.
func Is(err error, code Code) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Code == code
}
