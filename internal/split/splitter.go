package split

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"reelcut/internal/config"
	"reelcut/internal/logging"
	"reelcut/internal/timeutil"
)

// Segment is a half-open span of the source capture destined for one clip.
type Segment struct {
	Start float64
	End   float64
}

func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Clip records one written output file.
type Clip struct {
	Path  string
	Start float64
	End   float64
}

// Splitter transcodes segments of a capture into standalone MP4 clips.
type Splitter struct {
	binary       string
	preset       string
	crf          int
	audioBitrate string
	deinterlace  bool
	denoise      bool
	minClip      float64
	logger       *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Splitter {
	return &Splitter{
		binary:       cfg.FFmpeg.FFmpegBinary,
		preset:       cfg.Split.Preset,
		crf:          cfg.Split.CRF,
		audioBitrate: cfg.Split.AudioBitrate,
		deinterlace:  cfg.Split.Deinterlace,
		denoise:      cfg.Split.Denoise,
		minClip:      cfg.Split.MinClipSeconds,
		logger:       logging.NewComponentLogger(logger, "split"),
	}
}

// Plan turns cut timestamps into the segment list to transcode. Cuts outside
// (0, duration) are dropped, duplicates collapse, and segments shorter than
// minClip are folded into their neighbor so a jittery double cut cannot
// produce a sliver clip.
func Plan(cuts []float64, duration, minClip float64) []Segment {
	if duration <= 0 {
		return nil
	}
	inside := make([]float64, 0, len(cuts))
	for _, c := range cuts {
		if c > 0 && c < duration {
			inside = append(inside, c)
		}
	}
	sort.Float64s(inside)

	boundaries := make([]float64, 0, len(inside)+2)
	boundaries = append(boundaries, 0)
	for _, c := range inside {
		if c > boundaries[len(boundaries)-1] {
			boundaries = append(boundaries, c)
		}
	}
	boundaries = append(boundaries, duration)

	segments := make([]Segment, 0, len(boundaries)-1)
	for i := 0; i < len(boundaries)-1; i++ {
		segments = append(segments, Segment{Start: boundaries[i], End: boundaries[i+1]})
	}
	return mergeShort(segments, minClip)
}

// mergeShort folds any segment shorter than minClip into its predecessor,
// or into its successor when it is the first segment.
func mergeShort(segments []Segment, minClip float64) []Segment {
	if minClip <= 0 || len(segments) <= 1 {
		return segments
	}
	merged := make([]Segment, 0, len(segments))
	for _, seg := range segments {
		if len(merged) > 0 && seg.Duration() < minClip {
			merged[len(merged)-1].End = seg.End
			continue
		}
		merged = append(merged, seg)
	}
	// A short first segment has no predecessor; absorb it forward.
	if len(merged) > 1 && merged[0].Duration() < minClip {
		merged[1].Start = merged[0].Start
		merged = merged[1:]
	}
	return merged
}

// ClipName builds the output filename for a segment starting at start.
func ClipName(source string, start float64) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return fmt.Sprintf("%s_%s.mp4", stem, timeutil.FormatFilename(start))
}

// Split transcodes every planned segment of source into outputDir and
// returns the written clips in chronological order.
func (s *Splitter) Split(ctx context.Context, source, outputDir string, cuts []float64, duration float64) ([]Clip, error) {
	segments := Plan(cuts, duration, s.minClip)
	if len(segments) == 0 {
		return nil, fmt.Errorf("split %s: no segments to write", source)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("split %s: %w", source, err)
	}

	sampler := logging.NewProgressSampler(10)
	clips := make([]Clip, 0, len(segments))
	for i, seg := range segments {
		outPath := filepath.Join(outputDir, ClipName(source, seg.Start))
		s.logger.Info("writing clip",
			logging.String(logging.FieldSource, source),
			logging.String(logging.FieldClip, filepath.Base(outPath)),
			logging.Int("segment", i+1),
			logging.Int("segments", len(segments)),
			logging.String("span", timeutil.FormatTime(seg.Start)+" -> "+timeutil.FormatTime(seg.End)),
		)
		if err := s.transcode(ctx, source, outPath, seg); err != nil {
			return clips, fmt.Errorf("split %s: segment %d: %w", source, i+1, err)
		}
		clips = append(clips, Clip{Path: outPath, Start: seg.Start, End: seg.End})

		percent := float64(i+1) / float64(len(segments)) * 100
		if sampler.ShouldLog(percent, "split") {
			s.logger.Info("split progress",
				logging.String(logging.FieldSource, source),
				logging.Int("percent", int(percent)),
			)
		}
	}
	return clips, nil
}

func (s *Splitter) transcode(ctx context.Context, source, outPath string, seg Segment) error {
	args := []string{
		"-hide_banner", "-nostats", "-y",
		"-ss", formatSeconds(seg.Start),
		"-i", source,
		"-t", formatSeconds(seg.Duration()),
	}
	if vf := s.videoFilters(); vf != "" {
		args = append(args, "-vf", vf)
	}
	args = append(args,
		"-c:v", "libx264",
		"-preset", s.preset,
		"-crf", strconv.Itoa(s.crf),
		"-c:a", "aac",
		"-b:a", s.audioBitrate,
		outPath,
	)

	cmd := exec.CommandContext(ctx, s.binary, args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", s.binary, err, tail(stderr.String(), 400))
	}
	return nil
}

// videoFilters assembles the cleanup chain for interlaced, noisy analog
// sources. Both stages are optional so progressive digital captures can
// pass through untouched.
func (s *Splitter) videoFilters() string {
	var filters []string
	if s.deinterlace {
		filters = append(filters, "yadif")
	}
	if s.denoise {
		filters = append(filters, "hqdn3d")
	}
	return strings.Join(filters, ",")
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
