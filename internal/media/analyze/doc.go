// Package analyze extracts boundary signals from captured footage by running
// ffmpeg detector filters and parsing their output into sample streams.
//
// Three extractions feed the scorer:
//   - scdet scene-change scores (with histogram equalization, which makes
//     washed-out analog footage score consistently)
//   - blackdetect black frame intervals
//   - astats per-second RMS loudness, reduced to second-over-second deltas
//
// The Analyzer also implements the resampling contract used by the
// verification pass: the same filters over a narrow window around a
// candidate.
package analyze
