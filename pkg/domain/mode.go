package domain

import "fmt"

// Mode names a discovery-aggressiveness profile.
type Mode string

const (
	// ModeFast accepts only strong matches and verifies few candidates.
	ModeFast Mode = "fast"
	// ModeDeep lowers the acceptance bar slightly and widens the candidate cap.
	ModeDeep Mode = "deep"
	// ModeAggressive trades precision for recall on hard records.
	ModeAggressive Mode = "aggressive"
	// ModeExhaustive additionally enables the most expensive fallback layer.
	ModeExhaustive Mode = "exhaustive"
)

// BaseAcceptThreshold is the baseline confidence a candidate must clear to
// terminate a run with FOUND_VALID. Mode profiles apply a delta to it.
const BaseAcceptThreshold = 0.75

// InvalidFloor is the minimum confidence for a rejected best candidate to
// still be reported as FOUND_INVALID instead of NOT_FOUND.
const InvalidFloor = 0.35

// ModeProfile is the configuration bound at call time: the threshold delta
// applied to the baseline acceptance threshold, the number of candidates
// verified per layer, and whether the exhaustive layer runs. Profiles are
// ordered by increasing recall and cost.
type ModeProfile struct {
	// Mode is the profile's name.
	Mode Mode
	// ThresholdDelta is added to BaseAcceptThreshold; more aggressive modes
	// use negative deltas.
	ThresholdDelta float64
	// CandidateCap bounds how many deduplicated candidates each layer verifies.
	CandidateCap int
	// RunExhaustive enables the EXHAUSTIVE_FALLBACK layer.
	RunExhaustive bool
}

// AcceptThreshold returns the effective acceptance threshold for the profile.
func (p ModeProfile) AcceptThreshold() float64 {
	return BaseAcceptThreshold + p.ThresholdDelta
}

// profiles holds the four canonical mode profiles. Deltas and caps are
// strictly monotonic so a more aggressive mode never rejects a candidate a
// stricter mode accepted.
var profiles = map[Mode]ModeProfile{
	ModeFast:       {Mode: ModeFast, ThresholdDelta: 0, CandidateCap: 6, RunExhaustive: false},
	ModeDeep:       {Mode: ModeDeep, ThresholdDelta: -0.05, CandidateCap: 12, RunExhaustive: false},
	ModeAggressive: {Mode: ModeAggressive, ThresholdDelta: -0.10, CandidateCap: 20, RunExhaustive: false},
	ModeExhaustive: {Mode: ModeExhaustive, ThresholdDelta: -0.15, CandidateCap: 30, RunExhaustive: true},
}

// ProfileFor resolves the canonical profile for a mode name. Unknown modes
// are rejected so configuration typos fail loudly instead of silently running
// in a default mode.
func ProfileFor(mode Mode) (ModeProfile, error) {
	p, ok := profiles[mode]
	if !ok {
		return ModeProfile{}, fmt.Errorf("unknown discovery mode %q", mode)
	}

	return p, nil
}
