package detect

import "sort"

// event is one discrete per-signal detection: a timestamp plus the weight it
// contributes to whichever cluster absorbs it.
type event struct {
	timestamp float64
	weight    float64
	kind      Kind
}

// saturate maps a detector magnitude to a 0..1 contribution factor. Events at
// or above the saturation point earn the signal's full weight; weaker events
// contribute proportionally less.
func saturate(magnitude, saturation float64) float64 {
	if saturation <= 0 {
		return 1
	}
	if magnitude >= saturation {
		return 1
	}
	if magnitude <= 0 {
		return 0
	}
	return magnitude / saturation
}

// sceneEvents extracts local maxima above the noise floor from the
// scene-change stream. A sample is a local maximum when no neighbor within
// ClusterRadius exceeds it; detections further apart than the radius belong to
// different clusters anyway and never shadow each other. A plateau of equal
// magnitudes yields its last sample.
func sceneEvents(samples []Sample, cfg Config) []event {
	if cfg.SceneWeight <= 0 {
		return nil
	}
	var events []event
	for i, sample := range samples {
		if sample.Magnitude < cfg.SceneNoiseFloor {
			continue
		}
		if i > 0 &&
			sample.Timestamp-samples[i-1].Timestamp <= cfg.ClusterRadius &&
			samples[i-1].Magnitude > sample.Magnitude {
			continue
		}
		if i+1 < len(samples) &&
			samples[i+1].Timestamp-sample.Timestamp <= cfg.ClusterRadius &&
			samples[i+1].Magnitude >= sample.Magnitude {
			continue
		}
		events = append(events, event{
			timestamp: sample.Timestamp,
			weight:    cfg.SceneWeight * saturate(sample.Magnitude, cfg.SceneSaturation),
			kind:      KindScene,
		})
	}
	return events
}

// blackEvents collapses contiguous black spans (magnitude >= 0.5) to a single
// event at the span midpoint. Longer spans are stronger evidence, saturating
// at BlackSaturation seconds.
func blackEvents(samples []Sample, cfg Config) []event {
	if cfg.BlackWeight <= 0 {
		return nil
	}
	var events []event
	runStart := -1
	flush := func(end int) {
		if runStart < 0 {
			return
		}
		first := samples[runStart].Timestamp
		last := samples[end].Timestamp
		duration := last - first
		if duration <= 0 {
			// Single-sample span: treat as a minimal but real black frame.
			duration = cfg.BlackSaturation / 4
		}
		events = append(events, event{
			timestamp: (first + last) / 2,
			weight:    cfg.BlackWeight * saturate(duration, cfg.BlackSaturation),
			kind:      KindBlack,
		})
		runStart = -1
	}
	for i, sample := range samples {
		if sample.Magnitude >= 0.5 {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flush(i - 1)
	}
	flush(len(samples) - 1)
	return events
}

// audioEvents extracts level transitions whose absolute loudness delta clears
// the noise floor. Rises and drops are treated alike: either can mark a
// recording boundary on tape.
func audioEvents(samples []Sample, cfg Config) []event {
	if cfg.AudioWeight <= 0 {
		return nil
	}
	var events []event
	for _, sample := range samples {
		delta := sample.Magnitude
		if delta < 0 {
			delta = -delta
		}
		if delta < cfg.AudioNoiseFloor {
			continue
		}
		events = append(events, event{
			timestamp: sample.Timestamp,
			weight:    cfg.AudioWeight * saturate(delta, cfg.AudioSaturation),
			kind:      KindAudio,
		})
	}
	return events
}

// mergeEvents combines per-signal event sequences into one timestamp-sorted
// slice. Ties sort by kind then weight so the fold is deterministic.
func mergeEvents(groups ...[]event) []event {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	merged := make([]event, 0, total)
	for _, g := range groups {
		merged = append(merged, g...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.timestamp != b.timestamp {
			return a.timestamp < b.timestamp
		}
		if a.kind != b.kind {
			return a.kind < b.kind
		}
		return a.weight > b.weight
	})
	return merged
}
