package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"reelcut/internal/fileutil"
	"reelcut/internal/timeutil"
)

// Sidecar is the metadata.json document written beside a source's clips. It
// duplicates the catalog rows so a clip directory stays self-describing when
// copied off the machine.
type Sidecar struct {
	Source      SidecarSource `json:"source"`
	GeneratedAt time.Time     `json:"generated_at"`
	Cuts        []SidecarCut  `json:"cuts"`
	Clips       []SidecarClip `json:"clips"`
}

type SidecarSource struct {
	Path            string  `json:"path"`
	DurationSeconds float64 `json:"duration_seconds"`
	Duration        string  `json:"duration"`
	SizeBytes       int64   `json:"size_bytes"`
	VideoCodec      string  `json:"video_codec,omitempty"`
	Width           int     `json:"width,omitempty"`
	Height          int     `json:"height,omitempty"`
	FrameRate       float64 `json:"frame_rate,omitempty"`
	Interlaced      bool    `json:"interlaced,omitempty"`
}

type SidecarCut struct {
	TimestampSeconds float64 `json:"timestamp_seconds"`
	Timestamp        string  `json:"timestamp"`
	Score            float64 `json:"score"`
	Signals          string  `json:"signals"`
	Verified         bool    `json:"verified,omitempty"`
}

type SidecarClip struct {
	File         string   `json:"file"`
	StartSeconds float64  `json:"start_seconds"`
	EndSeconds   float64  `json:"end_seconds"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Transcript   string   `json:"transcript,omitempty"`
	Thumbs       []string `json:"thumbs,omitempty"`
}

// BuildSidecar assembles the sidecar document from catalog rows.
func BuildSidecar(src Source, run Run, clips []Clip) Sidecar {
	doc := Sidecar{
		Source: SidecarSource{
			Path:            src.Path,
			DurationSeconds: src.DurationSeconds,
			Duration:        timeutil.FormatDuration(src.DurationSeconds),
			SizeBytes:       src.SizeBytes,
			VideoCodec:      src.VideoCodec,
			Width:           src.Width,
			Height:          src.Height,
			FrameRate:       src.FrameRate,
			Interlaced:      src.Interlaced,
		},
		GeneratedAt: time.Now().UTC(),
		Cuts:        make([]SidecarCut, 0, len(run.Cuts)),
		Clips:       make([]SidecarClip, 0, len(clips)),
	}
	for _, cut := range run.Cuts {
		doc.Cuts = append(doc.Cuts, SidecarCut{
			TimestampSeconds: cut.Timestamp,
			Timestamp:        timeutil.FormatTime(cut.Timestamp),
			Score:            cut.Score,
			Signals:          cut.Signals,
			Verified:         cut.Verified,
		})
	}
	for _, clip := range clips {
		doc.Clips = append(doc.Clips, SidecarClip{
			File:         filepath.Base(clip.Path),
			StartSeconds: clip.Start,
			EndSeconds:   clip.End,
			Start:        timeutil.FormatTime(clip.Start),
			End:          timeutil.FormatTime(clip.End),
			Transcript:   clip.Transcript,
			Thumbs:       clip.Thumbs,
		})
	}
	return doc
}

// LoadSidecar reads a metadata.json document.
func LoadSidecar(path string) (Sidecar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sidecar{}, fmt.Errorf("read sidecar: %w", err)
	}
	var doc Sidecar
	if err := json.Unmarshal(data, &doc); err != nil {
		return Sidecar{}, fmt.Errorf("decode sidecar %s: %w", path, err)
	}
	return doc, nil
}

// WriteSidecar writes the sidecar as metadata.json in dir.
func WriteSidecar(dir string, doc Sidecar) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode sidecar: %w", err)
	}
	path := filepath.Join(dir, "metadata.json")
	if err := fileutil.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
