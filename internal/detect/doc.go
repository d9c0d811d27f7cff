// Package detect turns the per-timestamp signal streams produced by the media
// extractor (scene-change scores, black-frame spans, audio level deltas) into
// an ordered list of recording-boundary cut candidates.
//
// The scorer is a pure function: it holds no state between invocations and may
// be called concurrently for independent captures. Candidate selection is
// greedy by score under a minimum-gap constraint, so when two nearby clusters
// compete for the same window the higher-confidence one survives regardless of
// which occurred first. The optional verification pass re-examines
// uncertain-confidence candidates against a finer resample of a narrow window
// around each one.
package detect
