package detect

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies the detector that produced a signal sample.
type Kind string

const (
	KindScene Kind = "scene"
	KindBlack Kind = "black"
	KindAudio Kind = "audio"
)

// Sample is a single detector observation. Magnitude is detector specific: a
// dissimilarity score for scene changes, 1.0 inside a black span (0.0
// elsewhere) for black frames, and a signed loudness delta in dB for audio.
type Sample struct {
	Timestamp float64
	Magnitude float64
}

// Streams carries the three independent signal streams for one capture. Each
// stream is independently sorted by timestamp; the streams are not assumed to
// share a sampling rate. Any stream may be empty.
type Streams struct {
	Scene []Sample
	Black []Sample
	Audio []Sample
}

// Candidate is a proposed recording boundary.
type Candidate struct {
	Timestamp float64
	Score     float64
	Signals   SignalSet
	Verified  bool
}

// Warning records a per-stream quality problem that degraded scoring evidence
// without aborting the run.
type Warning struct {
	Kind   Kind
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s stream rejected: %s", w.Kind, w.Reason)
}

// Result is the outcome of one scoring pass.
type Result struct {
	Candidates []Candidate
	NoiseZones []NoiseZone
	Warnings   []Warning
}

// SignalSet is the set of signal kinds that contributed to a candidate.
type SignalSet uint8

const (
	signalScene SignalSet = 1 << iota
	signalBlack
	signalAudio
)

func signalBit(kind Kind) SignalSet {
	switch kind {
	case KindScene:
		return signalScene
	case KindBlack:
		return signalBlack
	case KindAudio:
		return signalAudio
	default:
		return 0
	}
}

// Has reports whether the set contains the given kind.
func (s SignalSet) Has(kind Kind) bool {
	return s&signalBit(kind) != 0
}

// Count returns the number of distinct kinds in the set.
func (s SignalSet) Count() int {
	count := 0
	for _, bit := range []SignalSet{signalScene, signalBlack, signalAudio} {
		if s&bit != 0 {
			count++
		}
	}
	return count
}

func (s SignalSet) String() string {
	var parts []string
	for _, kind := range []Kind{KindScene, KindBlack, KindAudio} {
		if s.Has(kind) {
			parts = append(parts, string(kind))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// checkStream validates the ordering contract for one stream. A violation
// rejects the whole stream's contribution; detection continues on the
// remaining streams.
func checkStream(samples []Sample) error {
	prev := 0.0
	for i, sample := range samples {
		if sample.Timestamp < 0 {
			return fmt.Errorf("negative timestamp %.3f at index %d", sample.Timestamp, i)
		}
		if i > 0 && sample.Timestamp < prev {
			return fmt.Errorf("non-monotonic timestamp %.3f after %.3f at index %d", sample.Timestamp, prev, i)
		}
		prev = sample.Timestamp
	}
	return nil
}

// sortedCopy returns the samples sorted by timestamp without mutating the
// caller's slice. Streams arrive sorted per contract; this keeps the fold
// deterministic even for equal timestamps.
func sortedCopy(samples []Sample) []Sample {
	out := make([]Sample, len(samples))
	copy(out, samples)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}
