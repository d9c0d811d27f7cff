package detect

import "sort"

// NoiseZone is a span of sustained spurious scene detections, typically VHS
// static or tape damage. Detections inside a zone are suppressed except near
// its boundaries, where a real recording boundary often sits.
type NoiseZone struct {
	Start      float64
	End        float64
	Detections int
}

// Contains reports whether t falls inside the zone widened by margin.
func (z NoiseZone) Contains(t, margin float64) bool {
	return z.Start-margin <= t && t <= z.End+margin
}

// noiseZones finds regions where the scene detector fires at a sustained high
// rate. A sliding window over per-second detection counts catches noise with
// periodic spikes that a plain per-second threshold would miss.
func noiseZones(scene []Sample, cfg Config) []NoiseZone {
	perSecond := make(map[int]int)
	for _, sample := range scene {
		if sample.Magnitude < cfg.SceneNoiseFloor {
			continue
		}
		perSecond[int(sample.Timestamp)]++
	}
	if len(perSecond) == 0 {
		return nil
	}

	seconds := make([]int, 0, len(perSecond))
	for s := range perSecond {
		seconds = append(seconds, s)
	}
	sort.Ints(seconds)
	minSec, maxSec := seconds[0], seconds[len(seconds)-1]

	window := cfg.NoiseWindowSeconds
	var dense []int
	for t := minSec; t <= maxSec-window+1; t++ {
		total := 0
		for i := 0; i < window; i++ {
			total += perSecond[t+i]
		}
		if float64(total)/float64(window) >= cfg.NoiseDensity {
			dense = append(dense, t)
		}
	}
	if len(dense) == 0 {
		return nil
	}

	countIn := func(start, duration int) int {
		total := 0
		for i := 0; i < duration; i++ {
			total += perSecond[start+i]
		}
		return total
	}

	var zones []NoiseZone
	zoneStart, zoneEnd := dense[0], dense[0]
	emit := func() {
		duration := zoneEnd - zoneStart + window
		if float64(duration) >= cfg.NoiseMinDuration {
			zones = append(zones, NoiseZone{
				Start:      float64(zoneStart),
				End:        float64(zoneStart + duration),
				Detections: countIn(zoneStart, duration),
			})
		}
	}
	for _, t := range dense[1:] {
		if t <= zoneEnd+1 {
			zoneEnd = t
			continue
		}
		emit()
		zoneStart, zoneEnd = t, t
	}
	emit()

	return mergeZones(zones, cfg.NoiseMergeGap)
}

func mergeZones(zones []NoiseZone, gap float64) []NoiseZone {
	if len(zones) < 2 {
		return zones
	}
	merged := []NoiseZone{zones[0]}
	for _, z := range zones[1:] {
		last := &merged[len(merged)-1]
		if z.Start-last.End <= gap {
			last.End = z.End
			last.Detections += z.Detections
			continue
		}
		merged = append(merged, z)
	}
	return merged
}

// suppressNoise removes scene samples strictly inside a noise zone, keeping
// those within the boundary margin of either edge.
func suppressNoise(scene []Sample, zones []NoiseZone, cfg Config) []Sample {
	if len(zones) == 0 {
		return scene
	}
	kept := make([]Sample, 0, len(scene))
	for _, sample := range scene {
		inside := false
		for _, zone := range zones {
			if zone.Start+cfg.NoiseBoundaryMargin < sample.Timestamp && sample.Timestamp < zone.End-cfg.NoiseBoundaryMargin {
				inside = true
				break
			}
		}
		if !inside {
			kept = append(kept, sample)
		}
	}
	return kept
}

// NearNoiseZone reports whether t lies within margin of any zone. The
// verification pass uses it to force re-examination of candidates that sit
// close to static.
func NearNoiseZone(t float64, zones []NoiseZone, margin float64) bool {
	for _, zone := range zones {
		if zone.Contains(t, margin) {
			return true
		}
	}
	return false
}
