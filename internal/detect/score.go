package detect

import (
	"sort"
)

// Score converts the three signal streams into the final ordered candidate
// list. It is a pure function of its inputs: repeated invocations with the
// same streams and config produce identical results.
//
// A malformed stream (negative or non-monotonic timestamps) is dropped with a
// warning in the result rather than failing the pass; an unusable config
// returns a *ConfigError before any sample is examined. An empty candidate
// list is a legitimate result, not an error.
func Score(streams Streams, cfg Config) (Result, error) {
	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	var result Result

	scene := acceptStream(KindScene, streams.Scene, &result.Warnings)
	black := acceptStream(KindBlack, streams.Black, &result.Warnings)
	audio := acceptStream(KindAudio, streams.Audio, &result.Warnings)

	result.NoiseZones = noiseZones(scene, cfg)
	scene = suppressNoise(scene, result.NoiseZones, cfg)

	events := mergeEvents(
		sceneEvents(scene, cfg),
		blackEvents(black, cfg),
		audioEvents(audio, cfg),
	)

	candidates := clusterEvents(events, cfg)
	candidates = applyThreshold(candidates, cfg.MinConfidence)
	candidates = enforceMinGap(candidates, cfg.MinGap)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Timestamp < candidates[j].Timestamp
	})
	result.Candidates = candidates
	return result, nil
}

func acceptStream(kind Kind, samples []Sample, warnings *[]Warning) []Sample {
	if err := checkStream(samples); err != nil {
		*warnings = append(*warnings, Warning{Kind: kind, Reason: err.Error()})
		return nil
	}
	return samples
}

// clusterEvents folds the merged, pre-sorted event sequence into candidates.
// Successive events within ClusterRadius of each other share a cluster. The
// cluster timestamp is the weighted mean of its members; the score is the sum
// of member weights plus a bonus when more than one signal kind agrees.
func clusterEvents(events []event, cfg Config) []Candidate {
	var candidates []Candidate

	var (
		weightSum float64
		momentSum float64
		signals   SignalSet
		lastTime  float64
		open      bool
	)
	flush := func() {
		if !open || weightSum <= 0 {
			open = false
			return
		}
		score := weightSum
		if signals.Count() > 1 {
			score += cfg.MultiSignalBonus
		}
		candidates = append(candidates, Candidate{
			Timestamp: momentSum / weightSum,
			Score:     score,
			Signals:   signals,
		})
		open = false
	}

	for _, ev := range events {
		if ev.weight <= 0 {
			continue
		}
		if open && ev.timestamp-lastTime > cfg.ClusterRadius {
			flush()
		}
		if !open {
			weightSum, momentSum, signals = 0, 0, 0
			open = true
		}
		weightSum += ev.weight
		momentSum += ev.weight * ev.timestamp
		signals |= signalBit(ev.kind)
		lastTime = ev.timestamp
	}
	flush()
	return candidates
}

func applyThreshold(candidates []Candidate, minConfidence float64) []Candidate {
	kept := candidates[:0]
	for _, c := range candidates {
		if c.Score >= minConfidence {
			kept = append(kept, c)
		}
	}
	return kept
}

// enforceMinGap greedily accepts candidates in descending score order,
// rejecting any that fall within minGap of an already accepted one. Selection
// is by score, not by time: when two nearby candidates compete for the same
// window, the higher-confidence one wins even if it occurred later.
func enforceMinGap(candidates []Candidate, minGap float64) []Candidate {
	byScore := make([]Candidate, len(candidates))
	copy(byScore, candidates)
	sort.SliceStable(byScore, func(i, j int) bool {
		if byScore[i].Score != byScore[j].Score {
			return byScore[i].Score > byScore[j].Score
		}
		return byScore[i].Timestamp < byScore[j].Timestamp
	})

	var accepted []Candidate
	for _, c := range byScore {
		tooClose := false
		for _, a := range accepted {
			if abs(c.Timestamp-a.Timestamp) < minGap {
				tooClose = true
				break
			}
		}
		if !tooClose {
			accepted = append(accepted, c)
		}
	}
	return accepted
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
