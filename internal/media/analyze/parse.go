package analyze

import (
	"regexp"
	"sort"
	"strconv"

	"reelcut/internal/detect"
)

var (
	scenePattern = regexp.MustCompile(`lavfi\.scd\.score:\s*([\d.]+),\s*lavfi\.scd\.time:\s*([\d.]+)`)
	blackPattern = regexp.MustCompile(`black_start:([\d.]+)\s+black_end:([\d.]+)\s+black_duration:([\d.]+)`)
	rmsPattern   = regexp.MustCompile(`pts_time:(\d+)[^\n]*\n[^\n]*RMS_level=(\S+)`)
)

// parseSceneOutput converts scdet stderr lines into scene samples. Window
// extractions report times relative to the seek point; offset restores
// absolute capture time.
func parseSceneOutput(output string, offset float64) []detect.Sample {
	var samples []detect.Sample
	for _, match := range scenePattern.FindAllStringSubmatch(output, -1) {
		score, err1 := strconv.ParseFloat(match[1], 64)
		timestamp, err2 := strconv.ParseFloat(match[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		samples = append(samples, detect.Sample{
			Timestamp: timestamp + offset,
			Magnitude: score,
		})
	}
	return samples
}

// parseBlackOutput converts blackdetect intervals into the run encoding the
// scorer expects: full-magnitude samples at the interval edges with a zero
// delimiter afterwards so separate intervals never merge into one run. The
// delimiter sits at most halfway to the next interval, which keeps the
// stream monotonic when intervals are a single frame apart.
func parseBlackOutput(output string, offset float64) []detect.Sample {
	type interval struct {
		start, end float64
	}
	var intervals []interval
	for _, match := range blackPattern.FindAllStringSubmatch(output, -1) {
		start, err1 := strconv.ParseFloat(match[1], 64)
		end, err2 := strconv.ParseFloat(match[2], 64)
		if err1 != nil || err2 != nil || end < start {
			continue
		}
		intervals = append(intervals, interval{start: start + offset, end: end + offset})
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].start < intervals[j].start })

	var samples []detect.Sample
	for i, iv := range intervals {
		delimiter := iv.end + 0.04
		if i+1 < len(intervals) {
			if mid := (iv.end + intervals[i+1].start) / 2; mid < delimiter {
				delimiter = mid
			}
		}
		samples = append(samples,
			detect.Sample{Timestamp: iv.start, Magnitude: 1},
			detect.Sample{Timestamp: iv.end, Magnitude: 1},
			detect.Sample{Timestamp: delimiter, Magnitude: 0},
		)
	}
	return samples
}

// parseAudioMetadata reduces the astats per-second RMS readings to signed
// second-over-second deltas. Silent seconds report -inf and are skipped, so
// a delta can span a silence gap.
func parseAudioMetadata(content string, offset float64) []detect.Sample {
	levels := make(map[int]float64)
	for _, match := range rmsPattern.FindAllStringSubmatch(content, -1) {
		second, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		raw := match[2]
		if raw == "-inf" || raw == "-" {
			continue
		}
		level, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		levels[second] = level
	}
	if len(levels) < 2 {
		return nil
	}

	seconds := make([]int, 0, len(levels))
	for s := range levels {
		seconds = append(seconds, s)
	}
	sort.Ints(seconds)

	var samples []detect.Sample
	for i := 1; i < len(seconds); i++ {
		t, prev := seconds[i], seconds[i-1]
		samples = append(samples, detect.Sample{
			Timestamp: float64(t) + offset,
			Magnitude: levels[t] - levels[prev],
		})
	}
	return samples
}
