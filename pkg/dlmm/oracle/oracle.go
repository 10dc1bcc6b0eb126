// Package oracle implements the DLMM time-weighted active-bin-id oracle: a
// circular buffer of observations accumulating active_id*delta_t, rolling to
// a fresh slot once the current one exceeds its sample lifetime (spec
// §4.12). Grounded on state/oracle.rs's Observation/Oracle/DynamicOracle.
package oracle

import (
	"math/big"

	"github.com/solana-zh/solroute/pkg/dlmm/config"
	"github.com/solana-zh/solroute/pkg/dlmm/dlmmerr"
)

// SampleLifetime is the default number of seconds an observation slot
// accumulates before rolling forward; an Oracle rolls on the value taken
// from config (whose default is the same 120 seconds), not on this constant.
const SampleLifetime = 2 * 60 // 2 minutes, matching DEFAULT_OBSERVATION_LENGTH's intended cadence.

// DefaultObservationLength is the initial number of observation slots an
// oracle account is created with.
const DefaultObservationLength = 100

// Observation is one time-weighted active-bin-id sample.
type Observation struct {
	CumulativeActiveBinID *big.Int // i128 in the original; stored as big.Int
	CreatedAt             int64
	LastUpdatedAt         int64
}

// Initialized reports whether this slot has ever been written.
func (o *Observation) Initialized() bool {
	return o.CreatedAt > 0 && o.LastUpdatedAt > 0
}

func (o *Observation) reset() {
	o.CumulativeActiveBinID = big.NewInt(0)
	o.CreatedAt = 0
	o.LastUpdatedAt = 0
}

// AccumulateActiveBinID folds activeID*(currentTimestamp-LastUpdatedAt) into
// the running cumulative sum, or seeds it with activeID on first write.
func (o *Observation) AccumulateActiveBinID(activeID int32, currentTimestamp int64) (*big.Int, error) {
	if !o.Initialized() {
		return big.NewInt(int64(activeID)), nil
	}
	delta := currentTimestamp - o.LastUpdatedAt
	contribution := new(big.Int).Mul(big.NewInt(int64(activeID)), big.NewInt(delta))
	cur := o.CumulativeActiveBinID
	if cur == nil {
		cur = big.NewInt(0)
	}
	return new(big.Int).Add(cur, contribution), nil
}

// ComputeNextSamplingTimestamp returns the timestamp at which this slot
// should roll over, or (0, false) if the slot has never been written.
func (o *Observation) ComputeNextSamplingTimestamp(sampleLifetime int64) (int64, bool) {
	if !o.Initialized() {
		return 0, false
	}
	return o.CreatedAt + sampleLifetime, true
}

// Update overwrites the slot's running total and last-updated stamp,
// stamping CreatedAt the first time the slot is touched.
func (o *Observation) Update(cumulativeActiveBinID *big.Int, currentTimestamp int64) {
	o.CumulativeActiveBinID = cumulativeActiveBinID
	o.LastUpdatedAt = currentTimestamp
	if !o.Initialized() {
		o.CreatedAt = currentTimestamp
	}
}

// Oracle is a circular buffer of Observations (spec §3/§6). Length is fixed
// at creation time but can grow (Oracle.IncreaseLength).
type Oracle struct {
	Idx          uint64
	ActiveSize   uint64
	Length       uint64
	Observations []Observation

	// SampleLifetime is the number of seconds a slot accumulates before the
	// next Update rolls to a fresh one, read from config at creation time so
	// it can differ between a mainnet deployment and a local/devnet one.
	SampleLifetime int64
}

// New creates an oracle with length slots, all empty, reading its sample
// lifetime from the process config.
func New(length uint64) *Oracle {
	return &Oracle{
		Length:         length,
		Observations:   make([]Observation, length),
		SampleLifetime: config.GetConfig().Oracle.SampleLifetimeSeconds,
	}
}

// IncreaseLength grows the observation ring, appending fresh empty slots.
func (o *Oracle) IncreaseLength(lengthToIncrease uint64) {
	o.Length += lengthToIncrease
	for uint64(len(o.Observations)) < o.Length {
		o.Observations = append(o.Observations, Observation{})
	}
}

func nextIdx(idx, bound uint64) uint64 {
	return (idx + 1) % bound
}

func (o *Oracle) isInitialSampling() bool {
	return o.ActiveSize == 0
}

// GetLatestSample returns the most recently written observation, or nil if
// the oracle has never been written to.
func (o *Oracle) GetLatestSample() *Observation {
	if o.isInitialSampling() {
		return nil
	}
	return &o.Observations[o.Idx]
}

// GetEarliestSample returns the oldest still-retained observation.
func (o *Oracle) GetEarliestSample() *Observation {
	if o.isInitialSampling() {
		return nil
	}
	idx := nextIdx(o.Idx, o.ActiveSize)
	return &o.Observations[idx]
}

func (o *Oracle) nextReset() *Observation {
	idx := nextIdx(o.Idx, o.Length)
	o.Idx = idx
	next := &o.Observations[idx]
	if !next.Initialized() {
		o.ActiveSize++
		if o.ActiveSize > o.Length {
			o.ActiveSize = o.Length
		}
	}
	next.reset()
	return next
}

// Update folds a new active-id sample into the oracle, rolling to the next
// slot when the current one's sample lifetime has elapsed (spec §4.12 /
// DynamicOracle::update).
func (o *Oracle) Update(activeID int32, currentTimestamp int64) error {
	if o.isInitialSampling() {
		o.ActiveSize++
	}

	latest := o.GetLatestSample()
	if latest == nil {
		return dlmmerr.New(dlmmerr.InvalidInput, "oracle update: no sample slot available")
	}

	cumulative, err := latest.AccumulateActiveBinID(activeID, currentTimestamp)
	if err != nil {
		return err
	}

	if nextSampling, ok := latest.ComputeNextSamplingTimestamp(o.SampleLifetime); ok && currentTimestamp >= nextSampling {
		latest = o.nextReset()
	}
	latest.Update(cumulative, currentTimestamp)
	return nil
}
