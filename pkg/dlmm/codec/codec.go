// Package codec (de)serializes the core's records to and from their
// on-chain little-endian byte layout: an 8-byte discriminator followed by
// the record's fields in declaration order. Grounded on the teacher's own
// hand-rolled offset decoder (pkg/pool/meteora/bin_array.go::ParseBinArray)
// and its borsh encoder usage (pkg/pool/meteora/swap.go), generalized here
// to github.com/gagliardetto/binary's BorshEncoder/BorshDecoder instead of
// manual offset arithmetic.
package codec

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/solana-zh/solroute/pkg/anchor"
	dlmmbin "github.com/solana-zh/solroute/pkg/dlmm/bin"
	"github.com/solana-zh/solroute/pkg/dlmm/bitmap"
	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
	"github.com/solana-zh/solroute/pkg/dlmm/pair"
	"github.com/solana-zh/solroute/pkg/dlmm/position"
	"lukechampine.com/uint128"
)

const discriminatorLen = 8

// Account discriminators follow the Anchor convention pkg/anchor.
// AccountDiscriminator implements: sha256("account:<TypeName>")[:8].
var (
	// BinArrayDiscriminator tags a BinArray account's byte layout.
	BinArrayDiscriminator = fixedDiscriminator("BinArray")
	// PairDiscriminator tags a Pair (LbPair) account's byte layout.
	PairDiscriminator = fixedDiscriminator("LbPair")
	// PositionDiscriminator tags a Position account's byte layout.
	PositionDiscriminator = fixedDiscriminator("PositionV2")
	// BitmapExtensionDiscriminator tags a BinArrayBitmapExtension account's byte layout.
	BitmapExtensionDiscriminator = fixedDiscriminator("BinArrayBitmapExtension")
)

func fixedDiscriminator(accountName string) [discriminatorLen]byte {
	var out [discriminatorLen]byte
	copy(out[:], anchor.AccountDiscriminator(accountName))
	return out
}

func checkDiscriminator(data []byte, want [discriminatorLen]byte, name string) ([]byte, error) {
	if len(data) < discriminatorLen {
		return nil, dlmmerr.Newf(dlmmerr.InvalidInput, "decode %s: data shorter than discriminator", name)
	}
	var got [discriminatorLen]byte
	copy(got[:], data[:discriminatorLen])
	if got != want {
		return nil, dlmmerr.Newf(dlmmerr.InvalidInput, "decode %s: discriminator mismatch, want base58 %s got %s", name, base58.Encode(want[:]), base58.Encode(got[:]))
	}
	return data[discriminatorLen:], nil
}

func encodeUint128(enc *bin.Encoder, v uint128.Uint128) error {
	if err := enc.WriteUint64(v.Lo, bin.LE); err != nil {
		return err
	}
	return enc.WriteUint64(v.Hi, bin.LE)
}

func decodeUint128(dec *bin.Decoder) (uint128.Uint128, error) {
	lo, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return uint128.Zero, err
	}
	hi, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return uint128.Zero, err
	}
	return uint128.New(lo, hi), nil
}

func encodeBin(enc *bin.Encoder, b *dlmmbin.Bin) error {
	if err := enc.WriteUint64(b.AmountX, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint64(b.AmountY, bin.LE); err != nil {
		return err
	}
	if err := encodeUint128(enc, b.Price); err != nil {
		return err
	}
	if err := encodeUint128(enc, b.LiquiditySupply); err != nil {
		return err
	}
	for _, r := range b.RewardPerTokenStored {
		if err := encodeUint128(enc, r); err != nil {
			return err
		}
	}
	if err := encodeUint128(enc, b.FeeAmountXPerTokenStored); err != nil {
		return err
	}
	if err := encodeUint128(enc, b.FeeAmountYPerTokenStored); err != nil {
		return err
	}
	if err := encodeUint128(enc, b.AmountXIn); err != nil {
		return err
	}
	return encodeUint128(enc, b.AmountYIn)
}

func decodeBin(dec *bin.Decoder) (dlmmbin.Bin, error) {
	var b dlmmbin.Bin
	var err error
	if b.AmountX, err = dec.ReadUint64(bin.LE); err != nil {
		return b, err
	}
	if b.AmountY, err = dec.ReadUint64(bin.LE); err != nil {
		return b, err
	}
	if b.Price, err = decodeUint128(dec); err != nil {
		return b, err
	}
	if b.LiquiditySupply, err = decodeUint128(dec); err != nil {
		return b, err
	}
	for i := range b.RewardPerTokenStored {
		if b.RewardPerTokenStored[i], err = decodeUint128(dec); err != nil {
			return b, err
		}
	}
	if b.FeeAmountXPerTokenStored, err = decodeUint128(dec); err != nil {
		return b, err
	}
	if b.FeeAmountYPerTokenStored, err = decodeUint128(dec); err != nil {
		return b, err
	}
	if b.AmountXIn, err = decodeUint128(dec); err != nil {
		return b, err
	}
	if b.AmountYIn, err = decodeUint128(dec); err != nil {
		return b, err
	}
	return b, nil
}

// EncodeBinArray serializes a BinArray to its discriminator-prefixed wire
// layout.
func EncodeBinArray(a *dlmmbin.BinArray) ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.Write(BinArrayDiscriminator[:]); err != nil {
		return nil, err
	}
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteInt64(a.Index, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(a.Version); err != nil {
		return nil, err
	}
	if _, err := buf.Write(a.Padding[:]); err != nil {
		return nil, err
	}
	if _, err := buf.Write(a.LbPair[:]); err != nil {
		return nil, err
	}
	for i := range a.Bins {
		if err := encodeBin(enc, &a.Bins[i]); err != nil {
			return nil, fmt.Errorf("encode bin %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// DecodeBinArray deserializes a discriminator-prefixed BinArray.
func DecodeBinArray(data []byte) (*dlmmbin.BinArray, error) {
	body, err := checkDiscriminator(data, BinArrayDiscriminator, "bin_array")
	if err != nil {
		return nil, err
	}
	dec := bin.NewBorshDecoder(body)
	a := &dlmmbin.BinArray{}
	if a.Index, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, err
	}
	if a.Version, err = dec.ReadUint8(); err != nil {
		return nil, err
	}
	padding, err := dec.ReadNBytes(len(a.Padding))
	if err != nil {
		return nil, err
	}
	copy(a.Padding[:], padding)
	pubkeyBytes, err := dec.ReadNBytes(32)
	if err != nil {
		return nil, err
	}
	a.LbPair = solana.PublicKeyFromBytes(pubkeyBytes)
	for i := range a.Bins {
		b, err := decodeBin(dec)
		if err != nil {
			return nil, fmt.Errorf("decode bin %d: %w", i, err)
		}
		a.Bins[i] = b
	}
	return a, nil
}

// EncodeBitmapExtension serializes a bitmap.Extension to its
// discriminator-prefixed wire layout.
func EncodeBitmapExtension(lbPair solana.PublicKey, ext *bitmap.Extension) ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.Write(BitmapExtensionDiscriminator[:]); err != nil {
		return nil, err
	}
	if _, err := buf.Write(lbPair[:]); err != nil {
		return nil, err
	}
	enc := bin.NewBorshEncoder(buf)
	for _, row := range ext.Positive {
		for _, limb := range row {
			if err := enc.WriteUint64(limb, bin.LE); err != nil {
				return nil, err
			}
		}
	}
	for _, row := range ext.Negative {
		for _, limb := range row {
			if err := enc.WriteUint64(limb, bin.LE); err != nil {
				return nil, err
			}
		}
	}
	return buf.Bytes(), nil
}

// DecodeBitmapExtension deserializes a discriminator-prefixed
// bitmap.Extension, returning the owning pair's pubkey alongside it.
func DecodeBitmapExtension(data []byte) (solana.PublicKey, *bitmap.Extension, error) {
	body, err := checkDiscriminator(data, BitmapExtensionDiscriminator, "bitmap_extension")
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	dec := bin.NewBorshDecoder(body)
	pubkeyBytes, err := dec.ReadNBytes(32)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	lbPair := solana.PublicKeyFromBytes(pubkeyBytes)

	ext := &bitmap.Extension{}
	for i := range ext.Positive {
		for j := range ext.Positive[i] {
			v, err := dec.ReadUint64(bin.LE)
			if err != nil {
				return solana.PublicKey{}, nil, err
			}
			ext.Positive[i][j] = v
		}
	}
	for i := range ext.Negative {
		for j := range ext.Negative[i] {
			v, err := dec.ReadUint64(bin.LE)
			if err != nil {
				return solana.PublicKey{}, nil, err
			}
			ext.Negative[i][j] = v
		}
	}
	return lbPair, ext, nil
}

// EncodePosition serializes a Position to its discriminator-prefixed wire
// layout.
func EncodePosition(p *position.Position) ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.Write(PositionDiscriminator[:]); err != nil {
		return nil, err
	}
	if _, err := buf.Write(p.LbPair[:]); err != nil {
		return nil, err
	}
	if _, err := buf.Write(p.Owner[:]); err != nil {
		return nil, err
	}
	if _, err := buf.Write(p.FeeOwner[:]); err != nil {
		return nil, err
	}
	if _, err := buf.Write(p.Operator[:]); err != nil {
		return nil, err
	}
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteInt32(p.LowerBinID, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteInt32(p.UpperBinID, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteInt64(p.LastUpdatedAt, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(p.TotalClaimedFeeXAmount, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(p.TotalClaimedFeeYAmount, bin.LE); err != nil {
		return nil, err
	}
	for _, r := range p.TotalClaimedRewards {
		if err := enc.WriteUint64(r, bin.LE); err != nil {
			return nil, err
		}
	}
	if err := enc.WriteUint64(p.LockReleasePoint, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteBool(p.SubjectedToBootstrapLiquidityLocking); err != nil {
		return nil, err
	}
	if err := enc.WriteUint32(uint32(len(p.BinData)), bin.LE); err != nil {
		return nil, err
	}
	for i := range p.BinData {
		d := &p.BinData[i]
		if err := encodeUint128(enc, d.LiquidityShare); err != nil {
			return nil, err
		}
		for _, c := range d.Reward.RewardPerTokenCompletes {
			if err := encodeUint128(enc, c); err != nil {
				return nil, err
			}
		}
		for _, pend := range d.Reward.RewardPendings {
			if err := enc.WriteUint64(pend, bin.LE); err != nil {
				return nil, err
			}
		}
		if err := encodeUint128(enc, d.Fee.FeeXPerTokenComplete); err != nil {
			return nil, err
		}
		if err := encodeUint128(enc, d.Fee.FeeYPerTokenComplete); err != nil {
			return nil, err
		}
		if err := enc.WriteUint64(d.Fee.FeeXPending, bin.LE); err != nil {
			return nil, err
		}
		if err := enc.WriteUint64(d.Fee.FeeYPending, bin.LE); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// DecodePosition deserializes a discriminator-prefixed Position.
func DecodePosition(data []byte) (*position.Position, error) {
	body, err := checkDiscriminator(data, PositionDiscriminator, "position")
	if err != nil {
		return nil, err
	}
	dec := bin.NewBorshDecoder(body)

	readPubkey := func() (solana.PublicKey, error) {
		b, err := dec.ReadNBytes(32)
		if err != nil {
			return solana.PublicKey{}, err
		}
		return solana.PublicKeyFromBytes(b), nil
	}

	p := &position.Position{}
	if p.LbPair, err = readPubkey(); err != nil {
		return nil, err
	}
	if p.Owner, err = readPubkey(); err != nil {
		return nil, err
	}
	if p.FeeOwner, err = readPubkey(); err != nil {
		return nil, err
	}
	if p.Operator, err = readPubkey(); err != nil {
		return nil, err
	}
	if p.LowerBinID, err = dec.ReadInt32(bin.LE); err != nil {
		return nil, err
	}
	if p.UpperBinID, err = dec.ReadInt32(bin.LE); err != nil {
		return nil, err
	}
	if p.LastUpdatedAt, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, err
	}
	if p.TotalClaimedFeeXAmount, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if p.TotalClaimedFeeYAmount, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	for i := range p.TotalClaimedRewards {
		if p.TotalClaimedRewards[i], err = dec.ReadUint64(bin.LE); err != nil {
			return nil, err
		}
	}
	if p.LockReleasePoint, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if p.SubjectedToBootstrapLiquidityLocking, err = dec.ReadBool(); err != nil {
		return nil, err
	}
	width, err := dec.ReadUint32(bin.LE)
	if err != nil {
		return nil, err
	}
	p.BinData = make([]position.BinData, width)
	for i := range p.BinData {
		d := &p.BinData[i]
		if d.LiquidityShare, err = decodeUint128(dec); err != nil {
			return nil, err
		}
		for j := range d.Reward.RewardPerTokenCompletes {
			if d.Reward.RewardPerTokenCompletes[j], err = decodeUint128(dec); err != nil {
				return nil, err
			}
		}
		for j := range d.Reward.RewardPendings {
			if d.Reward.RewardPendings[j], err = dec.ReadUint64(bin.LE); err != nil {
				return nil, err
			}
		}
		if d.Fee.FeeXPerTokenComplete, err = decodeUint128(dec); err != nil {
			return nil, err
		}
		if d.Fee.FeeYPerTokenComplete, err = decodeUint128(dec); err != nil {
			return nil, err
		}
		if d.Fee.FeeXPending, err = dec.ReadUint64(bin.LE); err != nil {
			return nil, err
		}
		if d.Fee.FeeYPending, err = dec.ReadUint64(bin.LE); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func encodeRewardInfo(buf *bytes.Buffer, enc *bin.Encoder, r *pair.RewardInfo) error {
	if _, err := buf.Write(r.Mint[:]); err != nil {
		return err
	}
	if _, err := buf.Write(r.Vault[:]); err != nil {
		return err
	}
	if _, err := buf.Write(r.Funder[:]); err != nil {
		return err
	}
	if err := enc.WriteUint64(r.RewardDuration, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint64(r.RewardDurationEnd, bin.LE); err != nil {
		return err
	}
	if err := encodeUint128(enc, r.RewardRate); err != nil {
		return err
	}
	if err := enc.WriteUint64(r.LastUpdateTime, bin.LE); err != nil {
		return err
	}
	return enc.WriteUint64(r.CumulativeSecondsWithEmptyLiquidityReward, bin.LE)
}

func decodeRewardInfo(dec *bin.Decoder) (pair.RewardInfo, error) {
	var r pair.RewardInfo
	b, err := dec.ReadNBytes(32)
	if err != nil {
		return r, err
	}
	r.Mint = solana.PublicKeyFromBytes(b)
	if b, err = dec.ReadNBytes(32); err != nil {
		return r, err
	}
	r.Vault = solana.PublicKeyFromBytes(b)
	if b, err = dec.ReadNBytes(32); err != nil {
		return r, err
	}
	r.Funder = solana.PublicKeyFromBytes(b)
	if r.RewardDuration, err = dec.ReadUint64(bin.LE); err != nil {
		return r, err
	}
	if r.RewardDurationEnd, err = dec.ReadUint64(bin.LE); err != nil {
		return r, err
	}
	if r.RewardRate, err = decodeUint128(dec); err != nil {
		return r, err
	}
	if r.LastUpdateTime, err = dec.ReadUint64(bin.LE); err != nil {
		return r, err
	}
	if r.CumulativeSecondsWithEmptyLiquidityReward, err = dec.ReadUint64(bin.LE); err != nil {
		return r, err
	}
	return r, nil
}

// EncodePair serializes a Pair's account-resident fields to their
// discriminator-prefixed wire layout. BinArrayBitmapExtension lives in its
// own account (see Encode/DecodeBitmapExtension) and is not included here,
// matching LbPair::bin_array_bitmap_extension being an Option<Pubkey>
// on-chain rather than inline storage.
func EncodePair(p *pair.Pair) ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.Write(PairDiscriminator[:]); err != nil {
		return nil, err
	}
	enc := bin.NewBorshEncoder(buf)

	if err := enc.WriteUint16(p.Parameters.BaseFactor, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint16(p.Parameters.FilterPeriod, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint16(p.Parameters.DecayPeriod, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint16(p.Parameters.ReductionFactor, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint32(p.Parameters.VariableFeeControl, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint32(p.Parameters.MaxVolatilityAccumulator, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteInt32(p.Parameters.MinBinID, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteInt32(p.Parameters.MaxBinID, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint16(p.Parameters.ProtocolShare, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(p.Parameters.BaseFeePowerFactor); err != nil {
		return nil, err
	}

	if err := enc.WriteUint32(p.VParameters.VolatilityAccumulator, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint32(p.VParameters.VolatilityReference, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteInt32(p.VParameters.IndexReference, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteInt64(p.VParameters.LastUpdateTimestamp, bin.LE); err != nil {
		return nil, err
	}

	if err := enc.WriteUint8(uint8(p.PairType)); err != nil {
		return nil, err
	}
	if err := enc.WriteInt32(p.ActiveID, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint16(p.BinStep, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(uint8(p.Status)); err != nil {
		return nil, err
	}

	for _, pk := range []solana.PublicKey{p.TokenXMint, p.TokenYMint, p.ReserveX, p.ReserveY} {
		if _, err := buf.Write(pk[:]); err != nil {
			return nil, err
		}
	}

	if err := enc.WriteUint64(p.ProtocolFee.AmountX, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(p.ProtocolFee.AmountY, bin.LE); err != nil {
		return nil, err
	}
	if _, err := buf.Write(p.FeeOwner[:]); err != nil {
		return nil, err
	}

	for i := range p.RewardInfos {
		if err := encodeRewardInfo(buf, enc, &p.RewardInfos[i]); err != nil {
			return nil, fmt.Errorf("encode reward info %d: %w", i, err)
		}
	}

	if _, err := buf.Write(p.Oracle[:]); err != nil {
		return nil, err
	}

	for _, limb := range p.BinArrayBitmap.Limbs {
		if err := enc.WriteUint64(limb, bin.LE); err != nil {
			return nil, err
		}
	}

	if err := enc.WriteInt64(p.LastUpdatedAt, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(uint8(p.ActivationType)); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(p.ActivationPoint, bin.LE); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecodePair deserializes a discriminator-prefixed Pair, leaving
// BinArrayBitmapExtension nil -- callers load it separately via
// DecodeBitmapExtension and attach it.
func DecodePair(data []byte) (*pair.Pair, error) {
	body, err := checkDiscriminator(data, PairDiscriminator, "pair")
	if err != nil {
		return nil, err
	}
	dec := bin.NewBorshDecoder(body)
	p := &pair.Pair{}

	if p.Parameters.BaseFactor, err = dec.ReadUint16(bin.LE); err != nil {
		return nil, err
	}
	if p.Parameters.FilterPeriod, err = dec.ReadUint16(bin.LE); err != nil {
		return nil, err
	}
	if p.Parameters.DecayPeriod, err = dec.ReadUint16(bin.LE); err != nil {
		return nil, err
	}
	if p.Parameters.ReductionFactor, err = dec.ReadUint16(bin.LE); err != nil {
		return nil, err
	}
	if p.Parameters.VariableFeeControl, err = dec.ReadUint32(bin.LE); err != nil {
		return nil, err
	}
	if p.Parameters.MaxVolatilityAccumulator, err = dec.ReadUint32(bin.LE); err != nil {
		return nil, err
	}
	if p.Parameters.MinBinID, err = dec.ReadInt32(bin.LE); err != nil {
		return nil, err
	}
	if p.Parameters.MaxBinID, err = dec.ReadInt32(bin.LE); err != nil {
		return nil, err
	}
	if p.Parameters.ProtocolShare, err = dec.ReadUint16(bin.LE); err != nil {
		return nil, err
	}
	if p.Parameters.BaseFeePowerFactor, err = dec.ReadUint8(); err != nil {
		return nil, err
	}

	if p.VParameters.VolatilityAccumulator, err = dec.ReadUint32(bin.LE); err != nil {
		return nil, err
	}
	if p.VParameters.VolatilityReference, err = dec.ReadUint32(bin.LE); err != nil {
		return nil, err
	}
	if p.VParameters.IndexReference, err = dec.ReadInt32(bin.LE); err != nil {
		return nil, err
	}
	if p.VParameters.LastUpdateTimestamp, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, err
	}

	pairType, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	p.PairType = pair.Type(pairType)
	if p.ActiveID, err = dec.ReadInt32(bin.LE); err != nil {
		return nil, err
	}
	if p.BinStep, err = dec.ReadUint16(bin.LE); err != nil {
		return nil, err
	}
	status, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	p.Status = pair.Status(status)

	readPubkey := func() (solana.PublicKey, error) {
		b, err := dec.ReadNBytes(32)
		if err != nil {
			return solana.PublicKey{}, err
		}
		return solana.PublicKeyFromBytes(b), nil
	}
	if p.TokenXMint, err = readPubkey(); err != nil {
		return nil, err
	}
	if p.TokenYMint, err = readPubkey(); err != nil {
		return nil, err
	}
	if p.ReserveX, err = readPubkey(); err != nil {
		return nil, err
	}
	if p.ReserveY, err = readPubkey(); err != nil {
		return nil, err
	}

	if p.ProtocolFee.AmountX, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if p.ProtocolFee.AmountY, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if p.FeeOwner, err = readPubkey(); err != nil {
		return nil, err
	}

	for i := range p.RewardInfos {
		if p.RewardInfos[i], err = decodeRewardInfo(dec); err != nil {
			return nil, fmt.Errorf("decode reward info %d: %w", i, err)
		}
	}

	if p.Oracle, err = readPubkey(); err != nil {
		return nil, err
	}

	for i := range p.BinArrayBitmap.Limbs {
		if p.BinArrayBitmap.Limbs[i], err = dec.ReadUint64(bin.LE); err != nil {
			return nil, err
		}
	}

	if p.LastUpdatedAt, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, err
	}
	activationType, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	p.ActivationType = pair.ActivationKind(activationType)
	if p.ActivationPoint, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}

	return p, nil
}
