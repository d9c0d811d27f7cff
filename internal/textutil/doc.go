// Package textutil provides text helpers for transcript search and filename
// sanitization.
//
// Transcripts are compared through term-frequency fingerprints and cosine
// similarity, which tolerates the word-order and filler differences typical
// of speech-to-text output. Tokenization lowercases, splits on
// non-alphanumeric runs, and drops tokens shorter than 3 characters.
package textutil
