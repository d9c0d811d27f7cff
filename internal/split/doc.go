// Package split cuts a source capture into per-recording clips at the
// confirmed cut boundaries, transcoding each segment to a shareable MP4.
package split
