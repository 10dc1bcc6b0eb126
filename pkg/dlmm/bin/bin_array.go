package bin

import (
	"github.com/gagliardetto/solana-go"
	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
)

// BinArray is the fixed-width window of MaxBinPerArray contiguous bins keyed
// by a signed array index (spec §3/§6). Field order matches the teacher's Go
// struct (pkg/pool/meteora/bin_array.go) and the Rust BinArray layout.
type BinArray struct {
	Index   int64
	Version uint8
	Padding [7]uint8
	LbPair  solana.PublicKey
	Bins    [MaxBinPerArray]Bin
}

// BinIDToBinArrayIndex maps a bin id to the array index that would contain
// it, using Rust's truncating div_rem with a negative-remainder correction
// (bin_array.rs::bin_id_to_bin_array_index). Go's native `/`/`%` already
// truncate toward zero like Rust's, so only the correction term differs from
// a naive floor-division.
func BinIDToBinArrayIndex(binID int32) int64 {
	idx := int64(binID) / int64(MaxBinPerArray)
	rem := int64(binID) % int64(MaxBinPerArray)
	if binID < 0 && rem != 0 {
		idx--
	}
	return idx
}

// GetBinArrayLowerUpperBinID returns the inclusive [lower, upper] bin id
// range an array index covers.
func GetBinArrayLowerUpperBinID(index int64) (lower, upper int32) {
	lower = int32(index * int64(MaxBinPerArray))
	upper = int32(lower + int32(MaxBinPerArray) - 1)
	return lower, upper
}

// IsBinIDWithinRange reports whether binID falls inside this array.
func (a *BinArray) IsBinIDWithinRange(binID int32) bool {
	lower, upper := GetBinArrayLowerUpperBinID(a.Index)
	return binID >= lower && binID <= upper
}

// GetBinIndexInArray reproduces get_bin_index_internal, including its
// separate negative-bin-id branch. Since upper = lower + MaxBinPerArray - 1,
// that branch's MaxBinPerArray - (upper - bin_id) - 1 equals
// bin_id - lower_bin_id, so both branches give the same index as the
// teacher's Go GetBinIndexInArray, which uses plain subtraction.
func (a *BinArray) GetBinIndexInArray(binID int32) (int, error) {
	if !a.IsBinIDWithinRange(binID) {
		return 0, dlmmerr.Newf(dlmmerr.InvalidBinId, "bin id %d outside array %d", binID, a.Index)
	}
	lower, upper := GetBinArrayLowerUpperBinID(a.Index)
	if binID >= 0 {
		return int(binID - lower), nil
	}
	return int(MaxBinPerArray-(upper-binID)) - 1, nil
}

// GetBin returns a copy of the bin at binID.
func (a *BinArray) GetBin(binID int32) (Bin, error) {
	i, err := a.GetBinIndexInArray(binID)
	if err != nil {
		return Bin{}, err
	}
	return a.Bins[i], nil
}

// GetBinMut returns a mutable pointer to the bin at binID.
func (a *BinArray) GetBinMut(binID int32) (*Bin, error) {
	i, err := a.GetBinIndexInArray(binID)
	if err != nil {
		return nil, err
	}
	return &a.Bins[i], nil
}

// CheckValidIndex validates that index is the array index computed from
// binID, i.e. that the caller resolved the right array for this bin.
func CheckValidIndex(index int64, binID int32) error {
	want := BinIDToBinArrayIndex(binID)
	if want != index {
		return dlmmerr.Newf(dlmmerr.InvalidBinArray, "bin id %d belongs to array %d, not %d", binID, want, index)
	}
	return nil
}

// IsZeroLiquidityInRange reports whether every bin in [fromBinID, toBinID]
// (which must lie within this array) has zero liquidity supply.
func (a *BinArray) IsZeroLiquidityInRange(fromBinID, toBinID int32) (bool, error) {
	fromIdx, err := a.GetBinIndexInArray(fromBinID)
	if err != nil {
		return false, err
	}
	toIdx, err := a.GetBinIndexInArray(toBinID)
	if err != nil {
		return false, err
	}
	for i := fromIdx; i <= toIdx; i++ {
		if !a.Bins[i].IsZeroLiquidity() {
			return false, nil
		}
	}
	return true, nil
}

// MigrateToV2 rescales every bin's liquidity supply for the v1->v2 layout
// migration, matching the `liquidity_share << SCALE_OFFSET` rescale applied
// to positions on the same migration (dynamic_position.rs::migrate_from_v1).
func (a *BinArray) MigrateToV2() {
	const scaleOffset = 64
	for i := range a.Bins {
		a.Bins[i].LiquiditySupply = a.Bins[i].LiquiditySupply.Lsh(scaleOffset)
	}
	a.Version = 2
}
