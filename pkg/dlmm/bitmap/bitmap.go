// Package bitmap implements the DLMM bin-array bitmap and its extension: a
// sparse 1-bit-per-array-index index of which bin arrays hold non-zero
// liquidity, with bidirectional next-set-bit search. Grounded on
// lb_pair/state.rs's bitmap/bitmap_extension methods
// (get_next_bin_array_index_with_liquidity_internal,
// is_bin_array_range_empty_internal, flip_bin_array_bit_internal) since the
// teacher's Go meteora package references this logic (FromLimbs,
// GetBinArrayOffset, BitmapTypeDetail...) without ever defining it.
package bitmap

import (
	"math/bits"

	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
)

const (
	// Words is the number of 64-bit limbs backing the in-pair bitmap (1024 bits).
	Words = 16
	// HalfWindow is the number of array indices covered on each side of zero.
	HalfWindow = 512
	// MinBitmapID / MaxBitmapID are the inclusive array-index bounds of the in-pair bitmap.
	MinBitmapID = -HalfWindow
	MaxBitmapID = HalfWindow - 1

	// ExtLanes / ExtRows describe each extension matrix ([[u64;8];12]).
	ExtLanes = 8
	ExtRows  = 12
)

// Bitmap is the pair's embedded 1024-bit index, stored as 16 little-endian
// u64 limbs exactly as spec §6/§3 describes it.
type Bitmap struct {
	Limbs [Words]uint64
}

func offsetOf(arrayIndex int32) int {
	return int(arrayIndex) + HalfWindow
}

// bitAt reports whether bit i (0..1023) is set.
func (b *Bitmap) bitAt(i int) bool {
	word := i / 64
	bit := uint(i % 64)
	return (b.Limbs[word]>>bit)&1 == 1
}

func (b *Bitmap) setBit(i int, v bool) {
	word := i / 64
	bit := uint(i % 64)
	if v {
		b.Limbs[word] |= 1 << bit
	} else {
		b.Limbs[word] &^= 1 << bit
	}
}

// InWindow reports whether arrayIndex falls within the in-pair bitmap.
func InWindow(arrayIndex int32) bool {
	return arrayIndex >= MinBitmapID && arrayIndex <= MaxBitmapID
}

// Flip toggles the bit for arrayIndex. Callers (the bin-array manager) only
// call this when a bin array transitions between zero and non-zero
// liquidity.
func (b *Bitmap) Flip(arrayIndex int32) error {
	if !InWindow(arrayIndex) {
		return dlmmerr.Newf(dlmmerr.InvalidStartBinIndex, "flip: array index %d outside bitmap window", arrayIndex)
	}
	i := offsetOf(arrayIndex)
	b.setBit(i, !b.bitAt(i))
	return nil
}

// Set sets or clears the bit for arrayIndex directly (used by migration /
// test fixtures where the before/after diff isn't available).
func (b *Bitmap) Set(arrayIndex int32, v bool) error {
	if !InWindow(arrayIndex) {
		return dlmmerr.Newf(dlmmerr.InvalidStartBinIndex, "set: array index %d outside bitmap window", arrayIndex)
	}
	b.setBit(offsetOf(arrayIndex), v)
	return nil
}

// IsSet reports the bit for arrayIndex.
func (b *Bitmap) IsSet(arrayIndex int32) (bool, error) {
	if !InWindow(arrayIndex) {
		return false, dlmmerr.Newf(dlmmerr.InvalidStartBinIndex, "is_set: array index %d outside bitmap window", arrayIndex)
	}
	return b.bitAt(offsetOf(arrayIndex)), nil
}

// shiftLeft shifts the 1024-bit value held in the 16 u64 limbs (limb 0 is
// the least significant) left by n bits.
func shiftLeft(limbs [Words]uint64, n int) [Words]uint64 {
	var out [Words]uint64
	if n >= Words*64 {
		return out
	}
	wordShift := n / 64
	bitShift := uint(n % 64)
	for i := Words - 1; i >= 0; i-- {
		srcIdx := i - wordShift
		if srcIdx < 0 {
			continue
		}
		v := limbs[srcIdx] << bitShift
		if bitShift > 0 && srcIdx-1 >= 0 {
			v |= limbs[srcIdx-1] >> (64 - bitShift)
		}
		out[i] = v
	}
	return out
}

func shiftRight(limbs [Words]uint64, n int) [Words]uint64 {
	var out [Words]uint64
	if n >= Words*64 {
		return out
	}
	wordShift := n / 64
	bitShift := uint(n % 64)
	for i := 0; i < Words; i++ {
		srcIdx := i + wordShift
		if srcIdx >= Words {
			continue
		}
		v := limbs[srcIdx] >> bitShift
		if bitShift > 0 && srcIdx+1 < Words {
			v |= limbs[srcIdx+1] << (64 - bitShift)
		}
		out[i] = v
	}
	return out
}

func isZero(limbs [Words]uint64) bool {
	for _, w := range limbs {
		if w != 0 {
			return false
		}
	}
	return true
}

// trailingZeros returns the index (0..1024) of the least significant set
// bit, or 1024 if the value is zero.
func trailingZeros(limbs [Words]uint64) int {
	for i := 0; i < Words; i++ {
		if limbs[i] != 0 {
			return i*64 + bits.TrailingZeros64(limbs[i])
		}
	}
	return Words * 64
}

// leadingZeros returns the number of leading zero bits across the 1024-bit
// value (limb Words-1 is most significant).
func leadingZeros(limbs [Words]uint64) int {
	for i := Words - 1; i >= 0; i-- {
		if limbs[i] != 0 {
			return (Words-1-i)*64 + bits.LeadingZeros64(limbs[i])
		}
	}
	return Words * 64
}

// NextWithLiquidity performs the bidirectional next-set-bit search described
// in spec §4.4, scoped to the in-pair window only. found=false means no set
// bit exists between startArrayIndex and the window edge in the requested
// direction; callers then consult the Extension.
func (b *Bitmap) NextWithLiquidity(swapForY bool, startArrayIndex int32) (nextIndex int32, found bool) {
	offset := offsetOf(startArrayIndex)
	if swapForY {
		// Moving toward lower ids: mask off bits above offset, then find the
		// highest remaining set bit via leading-zero count from the top.
		shifted := shiftLeft(b.Limbs, Words*64-1-offset)
		if isZero(shifted) {
			return MinBitmapID - 1, false
		}
		lz := leadingZeros(shifted)
		return startArrayIndex - int32(lz), true
	}
	shifted := shiftRight(b.Limbs, offset)
	if isZero(shifted) {
		return MaxBitmapID + 1, false
	}
	tz := trailingZeros(shifted)
	return startArrayIndex + int32(tz), true
}

// IsRangeEmpty reports whether every bit in [fromArrayIndex, toArrayIndex]
// (inclusive, both within the in-pair window) is clear.
func (b *Bitmap) IsRangeEmpty(fromArrayIndex, toArrayIndex int32) (bool, error) {
	if fromArrayIndex > toArrayIndex {
		return false, dlmmerr.New(dlmmerr.InvalidInput, "is_range_empty: from > to")
	}
	fromOffset := offsetOf(fromArrayIndex)
	toOffset := offsetOf(toArrayIndex)
	shifted := shiftRight(b.Limbs, fromOffset)
	shifted = shiftLeft(shifted, (Words*64-1)+fromOffset-toOffset)
	return isZero(shifted), nil
}

// Extension covers array indices beyond +-512 with two row-major matrices
// ([[u64;8];12] each), one per sign, matching spec §6's bitmap extension
// record and bin.rs's positive/negative bin array bitmaps.
type Extension struct {
	Positive [ExtRows][ExtLanes]uint64
	Negative [ExtRows][ExtLanes]uint64
}

// offsetInExtension maps an out-of-window array index to (row, lane, bit)
// within the appropriate matrix. Each row covers 64*ExtLanes = 512 array
// indices, so the extension covers 512*ExtRows = 6144 indices past the
// in-pair window boundary on each side (array indices out to +-6656).
func offsetInExtension(arrayIndex int32) (positive bool, row, lane, bit int, err error) {
	if InWindow(arrayIndex) {
		return false, 0, 0, 0, dlmmerr.New(dlmmerr.InvalidStartBinIndex, "offset_in_extension: index within pair bitmap window")
	}
	positive = arrayIndex > MaxBitmapID
	var rel int
	if positive {
		rel = int(arrayIndex) - (MaxBitmapID + 1)
	} else {
		rel = (MinBitmapID - 1) - int(arrayIndex)
	}
	maxRel := ExtRows*ExtLanes*64 - 1
	if rel < 0 || rel > maxRel {
		return positive, 0, 0, 0, dlmmerr.New(dlmmerr.InvalidStartBinIndex, "offset_in_extension: index out of extension range")
	}
	row = rel / (ExtLanes * 64)
	withinRow := rel % (ExtLanes * 64)
	lane = withinRow / 64
	bit = withinRow % 64
	return positive, row, lane, bit, nil
}

func (e *Extension) matrix(positive bool) *[ExtRows][ExtLanes]uint64 {
	if positive {
		return &e.Positive
	}
	return &e.Negative
}

// Flip toggles the extension bit for arrayIndex.
func (e *Extension) Flip(arrayIndex int32) error {
	positive, row, lane, bit, err := offsetInExtension(arrayIndex)
	if err != nil {
		return err
	}
	m := e.matrix(positive)
	m[row][lane] ^= 1 << uint(bit)
	return nil
}

// Set sets or clears the extension bit for arrayIndex.
func (e *Extension) Set(arrayIndex int32, v bool) error {
	positive, row, lane, bit, err := offsetInExtension(arrayIndex)
	if err != nil {
		return err
	}
	m := e.matrix(positive)
	if v {
		m[row][lane] |= 1 << uint(bit)
	} else {
		m[row][lane] &^= 1 << uint(bit)
	}
	return nil
}

// IsSet reports the extension bit for arrayIndex.
func (e *Extension) IsSet(arrayIndex int32) (bool, error) {
	positive, row, lane, bit, err := offsetInExtension(arrayIndex)
	if err != nil {
		return false, err
	}
	m := e.matrix(positive)
	return (m[row][lane]>>uint(bit))&1 == 1, nil
}

// NextWithLiquidity searches the extension for the next set bit in the given
// direction starting at (and including) startArrayIndex, which must already
// be outside the in-pair window (or adjacent to it, per
// next_bin_array_index_with_liquidity_from_extension). found=false means the
// extension has no more liquidity in that direction.
func (e *Extension) NextWithLiquidity(swapForY bool, startArrayIndex int32) (nextIndex int32, found bool) {
	step := int32(1)
	if swapForY {
		step = -1
	}
	idx := startArrayIndex
	if InWindow(idx) {
		if swapForY {
			idx = MinBitmapID - 1
		} else {
			idx = MaxBitmapID + 1
		}
	}
	maxSteps := ExtRows * ExtLanes * 64
	for i := 0; i < maxSteps; i++ {
		set, err := e.IsSet(idx)
		if err == nil && set {
			return idx, true
		}
		idx += step
		if err != nil {
			break
		}
	}
	return idx, false
}

// IsRangeEmpty reports whether every bit in [fromArrayIndex, toArrayIndex]
// is clear within a single extension matrix (both indices must be on the
// same side and outside the in-pair window).
func (e *Extension) IsRangeEmpty(fromArrayIndex, toArrayIndex int32) (bool, error) {
	if fromArrayIndex > toArrayIndex {
		return false, dlmmerr.New(dlmmerr.InvalidInput, "is_range_empty: from > to")
	}
	for idx := fromArrayIndex; idx <= toArrayIndex; idx++ {
		set, err := e.IsSet(idx)
		if err != nil {
			return false, err
		}
		if set {
			return false, nil
		}
	}
	return true, nil
}
