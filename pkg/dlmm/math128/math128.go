// Package math128 implements the checked Q64.64 fixed-point primitives the
// DLMM core is built on: rounding-aware mul_div/mul_shr/shl_div with a 256-bit
// intermediate, and price_from_id's binary-exponentiation pow. Every
// operation mirrors the teacher's own use of math/big for exact
// ceiling-division fee math (pkg/pool/meteora/dlmm.go ComputeFee), generalized
// to the full checked-arithmetic contract the spec requires.
package math128

import (
	"math/big"

	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
	"lukechampine.com/uint128"
)

// Rounding selects the rounding direction for a division-based primitive.
type Rounding int

const (
	Down Rounding = iota
	Up
)

// ScaleOffset is the number of fractional bits in a Q64.64 value.
const ScaleOffset = 64

// One is 1.0 in Q64.64.
var One = uint128.From64(1).Lsh(ScaleOffset)

var maxBig = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

func fitsU128(v *big.Int) bool {
	return v.Sign() >= 0 && v.Cmp(maxBig) <= 0
}

// MulDiv computes floor_or_ceil(x*y / denominator) using a 256-bit
// intermediate product, matching u128x128_math::mul_div.
func MulDiv(x, y, denominator uint128.Uint128, rounding Rounding) (uint128.Uint128, error) {
	if denominator.IsZero() {
		return uint128.Zero, dlmmerr.New(dlmmerr.MathOverflow, "mul_div: zero denominator")
	}
	prod := new(big.Int).Mul(x.Big(), y.Big())
	den := denominator.Big()

	var q *big.Int
	switch rounding {
	case Up:
		q = new(big.Int)
		r := new(big.Int)
		q.DivMod(prod, den, r)
		if r.Sign() != 0 {
			q.Add(q, big.NewInt(1))
		}
	default:
		q = new(big.Int).Div(prod, den)
	}
	if !fitsU128(q) {
		return uint128.Zero, dlmmerr.New(dlmmerr.MathOverflow, "mul_div: result overflows u128")
	}
	return uint128.FromBig(q), nil
}

// MulShr computes (x*y) >> offset, matching u128x128_math::mul_shr.
func MulShr(x, y uint128.Uint128, offset uint, rounding Rounding) (uint128.Uint128, error) {
	if offset >= 128 {
		return uint128.Zero, dlmmerr.New(dlmmerr.MathOverflow, "mul_shr: offset overflow")
	}
	denominator := uint128.From64(1).Lsh(offset)
	return MulDiv(x, y, denominator, rounding)
}

// ShlDiv computes (x << offset) / y, matching u128x128_math::shl_div.
func ShlDiv(x, y uint128.Uint128, offset uint, rounding Rounding) (uint128.Uint128, error) {
	if offset >= 128 {
		return uint128.Zero, dlmmerr.New(dlmmerr.MathOverflow, "shl_div: offset overflow")
	}
	scale := uint128.From64(1).Lsh(offset)
	return MulDiv(x, scale, y, rounding)
}

// maxExponential mirrors u64x64_math::MAX_EXPONENTIAL: 19 unrolled squaring
// steps are enough to cover the largest supported bin id (|id| <= 443636 for
// bin_step=1); anything at or beyond this magnitude would overflow Q64.64.
const maxExponential = 0x80000

// Pow computes base^exp in Q64.64 via binary exponentiation, inverting the
// base up front when it would otherwise double from 128 to 256 bits on the
// first squaring. Mirrors u64x64_math::pow bit for bit, including its
// domain error when |exp| >= maxExponential.
func Pow(base uint128.Uint128, exp int32) (uint128.Uint128, error) {
	if exp == 0 {
		return One, nil
	}

	invert := exp < 0
	var e uint32
	if invert {
		e = uint32(-int64(exp))
	} else {
		e = uint32(exp)
	}
	if e >= maxExponential {
		return uint128.Zero, dlmmerr.New(dlmmerr.MathOverflow, "pow: exponent out of domain")
	}

	squaredBase := base
	result := One

	if squaredBase.Cmp(result) >= 0 {
		maxU128 := uint128.Max
		d := squaredBase.Big()
		if d.Sign() == 0 {
			return uint128.Zero, dlmmerr.New(dlmmerr.MathOverflow, "pow: base is zero")
		}
		q := new(big.Int).Div(maxU128.Big(), d)
		squaredBase = uint128.FromBig(q)
		invert = !invert
	}

	mulDown := func(a, b uint128.Uint128) (uint128.Uint128, error) {
		return MulShr(a, b, ScaleOffset, Down)
	}

	for bit := uint32(1); bit < maxExponential; bit <<= 1 {
		if e&bit > 0 {
			r, err := mulDown(result, squaredBase)
			if err != nil {
				return uint128.Zero, err
			}
			result = r
		}
		if bit<<1 >= maxExponential {
			break
		}
		sb, err := mulDown(squaredBase, squaredBase)
		if err != nil {
			return uint128.Zero, err
		}
		squaredBase = sb
	}

	if result.IsZero() {
		return uint128.Zero, dlmmerr.New(dlmmerr.MathOverflow, "pow: result underflowed to zero")
	}

	if invert {
		d := result.Big()
		q := new(big.Int).Div(uint128.Max.Big(), d)
		result = uint128.FromBig(q)
	}

	return result, nil
}

// GetBase returns 1 + bin_step/BASIS_POINT_MAX in Q64.64, matching
// u64x64_math::get_base.
func GetBase(binStep uint16, basisPointMax uint32) (uint128.Uint128, error) {
	quotient := uint128.From64(uint64(binStep)).Lsh(ScaleOffset)
	fraction := quotient.Big()
	fraction.Div(fraction, big.NewInt(int64(basisPointMax)))
	fr := uint128.FromBig(fraction)
	sum := new(big.Int).Add(One.Big(), fr.Big())
	if !fitsU128(sum) {
		return uint128.Zero, dlmmerr.New(dlmmerr.MathOverflow, "get_base: overflow")
	}
	return uint128.FromBig(sum), nil
}

// PriceFromID computes base(bin_step)^id in Q64.64.
func PriceFromID(binStep uint16, id int32, basisPointMax uint32) (uint128.Uint128, error) {
	base, err := GetBase(binStep, basisPointMax)
	if err != nil {
		return uint128.Zero, err
	}
	return Pow(base, id)
}
