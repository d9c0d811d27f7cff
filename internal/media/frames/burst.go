package frames

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// BurstName builds the filename for a frame captured at the given offset.
// Millisecond precision keeps consecutive frames distinct at any sane rate.
func BurstName(clipPath string, at float64) string {
	stem := strings.TrimSuffix(filepath.Base(clipPath), filepath.Ext(clipPath))
	ms := int(math.Round(at * 1000))
	return fmt.Sprintf("%s_%02dm%02ds%03dms.jpg", stem, ms/60000, (ms/1000)%60, ms%1000)
}

// BurstCount returns how many consecutive frames cover duration seconds at
// the given rate, always at least one.
func BurstCount(fps, duration float64) int {
	if fps <= 0 {
		fps = 25
	}
	if duration < 0 {
		duration = 0
	}
	return int(fps*duration) + 1
}

// Burst writes every frame of a short window starting at `at` into outDir,
// each named with its capture offset, and returns the written paths in order.
// Meant for inspecting exactly what happens around a detected boundary.
func (e *Extractor) Burst(ctx context.Context, clipPath, outDir string, at, duration, fps float64) ([]string, error) {
	if fps <= 0 {
		fps = 25
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("frame burst for %s: %w", clipPath, err)
	}

	args := []string{
		"-hide_banner", "-nostats", "-y",
		"-ss", strconv.FormatFloat(at, 'f', -1, 64),
		"-i", clipPath,
		"-frames:v", strconv.Itoa(BurstCount(fps, duration)),
		"-q:v", "2",
		filepath.Join(outDir, "frame_%04d.jpg"),
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
		return nil, fmt.Errorf("frame burst for %s: %s: %w: %s", clipPath, e.binary, err, trimmed)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("frame burst for %s: %w", clipPath, err)
	}
	var temps []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "frame_") && strings.HasSuffix(name, ".jpg") {
			temps = append(temps, name)
		}
	}
	sort.Strings(temps)

	written := make([]string, 0, len(temps))
	for i, name := range temps {
		frameTime := at + float64(i)/fps
		dst := filepath.Join(outDir, BurstName(clipPath, frameTime))
		if err := os.Rename(filepath.Join(outDir, name), dst); err != nil {
			return written, fmt.Errorf("frame burst for %s: %w", clipPath, err)
		}
		written = append(written, dst)
	}
	return written, nil
}
