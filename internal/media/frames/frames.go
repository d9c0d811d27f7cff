// Package frames extracts still images from clips: representative thumbnails
// for the gallery page and dense frame bursts for inspecting boundaries.
package frames

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"reelcut/internal/config"
	"reelcut/internal/logging"
)

// Extractor pulls JPEG stills at evenly spaced points through a clip.
type Extractor struct {
	binary string
	count  int
	logger *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Extractor {
	count := cfg.Gallery.ThumbsPerClip
	if count < 1 {
		count = 1
	}
	return &Extractor{
		binary: cfg.FFmpeg.FFmpegBinary,
		count:  count,
		logger: logging.NewComponentLogger(logger, "frames"),
	}
}

// SeekPoints returns the capture timestamps for count stills spread evenly
// through a clip of the given duration. Points sit at bucket centers rather
// than edges so the first frame is never the cut fade itself, and each is
// clamped away from the very end where a seek can land past the last frame.
func SeekPoints(duration float64, count int) []float64 {
	if count < 1 || duration <= 0 {
		return nil
	}
	points := make([]float64, count)
	for i := 0; i < count; i++ {
		pct := (float64(i) + 0.5) / float64(count)
		seek := duration * pct
		if limit := duration - 0.1; seek > limit {
			seek = limit
		}
		if seek < 0 {
			seek = 0
		}
		points[i] = seek
	}
	return points
}

// ThumbName builds the filename for the i-th still of a clip.
func ThumbName(clipPath string, i int) string {
	stem := strings.TrimSuffix(filepath.Base(clipPath), filepath.Ext(clipPath))
	return fmt.Sprintf("%s_%d.jpg", stem, i)
}

// Extract writes count stills for the clip into thumbDir and returns their
// filenames in order.
func (e *Extractor) Extract(ctx context.Context, clipPath, thumbDir string, duration float64) ([]string, error) {
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return nil, fmt.Errorf("thumbnails for %s: %w", clipPath, err)
	}
	points := SeekPoints(duration, e.count)
	names := make([]string, 0, len(points))
	for i, seek := range points {
		name := ThumbName(clipPath, i)
		if err := e.extractOne(ctx, clipPath, filepath.Join(thumbDir, name), seek); err != nil {
			return names, fmt.Errorf("thumbnails for %s: %w", clipPath, err)
		}
		names = append(names, name)
	}
	e.logger.Debug("thumbnails written",
		logging.String(logging.FieldClip, filepath.Base(clipPath)),
		logging.Int("count", len(names)),
	)
	return names, nil
}

func (e *Extractor) extractOne(ctx context.Context, clipPath, outPath string, seek float64) error {
	args := []string{
		"-hide_banner", "-nostats", "-y",
		"-ss", strconv.FormatFloat(seek, 'f', -1, 64),
		"-i", clipPath,
		"-vframes", "1",
		"-q:v", "3",
		outPath,
	}
	cmd := exec.CommandContext(ctx, e.binary, args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		trimmed := strings.TrimSpace(stderr.String())
		if len(trimmed) > 400 {
			trimmed = "..." + trimmed[len(trimmed)-400:]
		}
		return fmt.Errorf("%s: %w: %s", e.binary, err, trimmed)
	}
	return nil
}
