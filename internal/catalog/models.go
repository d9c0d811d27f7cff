package catalog

import "time"

// Source is one capture file registered in the catalog.
type Source struct {
	ID              string
	Path            string
	DurationSeconds float64
	SizeBytes       int64
	VideoCodec      string
	Width           int
	Height          int
	FrameRate       float64
	Interlaced      bool
	AudioStreams    int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Run records one scoring pass over a source, with the thresholds that were
// in effect so old results stay interpretable after config changes.
type Run struct {
	ID            string
	SourceID      string
	MinConfidence float64
	MinGapSeconds float64
	Verified      bool
	CreatedAt     time.Time
	Cuts          []Cut
	NoiseZones    []Zone
}

// Cut is one stored boundary candidate.
type Cut struct {
	Timestamp float64
	Score     float64
	Signals   string
	Verified  bool
}

// Zone is a stored noise region.
type Zone struct {
	Start      float64
	End        float64
	Detections int
}

// Clip is one written output file belonging to a source.
type Clip struct {
	ID         string
	SourceID   string
	Path       string
	Start      float64
	End        float64
	Transcript string
	Thumbs     []string
	CreatedAt  time.Time
}
