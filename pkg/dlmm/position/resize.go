package position

import (
	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
	"lukechampine.com/uint128"
)

// ResizeSide selects which end of a position's range is being grown or
// shrunk (dynamic_position.rs::ResizeSide).
type ResizeSide int

const (
	ResizeLower ResizeSide = iota
	ResizeUpper
)

// IncreaseLength grows the position by n bin slots on the given side.
// Growing the upper side only appends fresh empty slots; growing the lower
// side must also shift existing slot data toward the higher indices so slot
// i continues to describe the same bin id, which is implemented as a right
// rotation of the whole backing slice (spec §4.9's resize note).
func (p *Position) IncreaseLength(n int, side ResizeSide) error {
	if n <= 0 {
		return dlmmerr.New(dlmmerr.InvalidInput, "increase_length: n must be positive")
	}
	extra := make([]BinData, n)
	switch side {
	case ResizeUpper:
		p.BinData = append(p.BinData, extra...)
		p.UpperBinID += int32(n)
	case ResizeLower:
		p.BinData = append(p.BinData, extra...)
		rotateRight(p.BinData, n)
		p.LowerBinID -= int32(n)
	default:
		return dlmmerr.New(dlmmerr.InvalidInput, "increase_length: invalid side")
	}
	return nil
}

// DecreaseLength shrinks the position by n bin slots on the given side. Every
// slot being dropped must already be empty (spec §4.9).
func (p *Position) DecreaseLength(n int, side ResizeSide) error {
	if n <= 0 || n >= len(p.BinData) {
		return dlmmerr.New(dlmmerr.InvalidInput, "decrease_length: invalid n")
	}
	switch side {
	case ResizeUpper:
		for i := len(p.BinData) - n; i < len(p.BinData); i++ {
			if !p.BinData[i].IsEmpty() {
				return dlmmerr.New(dlmmerr.InvalidPosition, "decrease_length: non-empty slot at upper edge")
			}
		}
		p.BinData = p.BinData[:len(p.BinData)-n]
		p.UpperBinID -= int32(n)
	case ResizeLower:
		for i := 0; i < n; i++ {
			if !p.BinData[i].IsEmpty() {
				return dlmmerr.New(dlmmerr.InvalidPosition, "decrease_length: non-empty slot at lower edge")
			}
		}
		rotateLeft(p.BinData, n)
		p.BinData = p.BinData[:len(p.BinData)-n]
		p.LowerBinID += int32(n)
	default:
		return dlmmerr.New(dlmmerr.InvalidInput, "decrease_length: invalid side")
	}
	return nil
}

func rotateRight(s []BinData, n int) {
	n %= len(s)
	if n == 0 {
		return
	}
	reverse(s)
	reverse(s[:n])
	reverse(s[n:])
}

func rotateLeft(s []BinData, n int) {
	n %= len(s)
	if n == 0 {
		return
	}
	reverse(s)
	reverse(s[:len(s)-n])
	reverse(s[len(s)-n:])
}

func reverse(s []BinData) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// MigrateSharesFromV1 rescales a V1 position's u64 shares into p's u128
// slots, matching `liquidity_share << SCALE_OFFSET`.
func MigrateSharesFromV1(p *Position, v1Shares []uint64) error {
	if len(v1Shares) != len(p.BinData) {
		return dlmmerr.New(dlmmerr.InvalidPosition, "migrate_shares_from_v1: width mismatch")
	}
	const scaleOffset = 64
	for i, s := range v1Shares {
		p.BinData[i].LiquidityShare = uint128.From64(s).Lsh(scaleOffset)
	}
	return nil
}
