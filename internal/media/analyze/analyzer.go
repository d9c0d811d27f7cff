package analyze

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"reelcut/internal/config"
	"reelcut/internal/detect"
	"reelcut/internal/logging"
)

// Histogram equalization before scdet keeps faded analog footage from
// scoring systematically low.
const sceneFilter = "histeq,scdet=threshold=0.1"

// Analyzer runs ffmpeg detector filters against a capture and converts their
// output into the sample streams the scorer consumes.
type Analyzer struct {
	binary            string
	blackMinDuration  float64
	blackPixThreshold float64
	logger            *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		binary:            cfg.FFmpeg.FFmpegBinary,
		blackMinDuration:  cfg.Detection.BlackMinDuration,
		blackPixThreshold: cfg.Detection.BlackPictureThreshold,
		logger:            logging.NewComponentLogger(logger, "analyze"),
	}
}

// Window restricts an extraction to a span of the source. A zero Window
// means the full capture; a zero Duration means "from Start to the end".
type Window struct {
	Start    float64
	Duration float64
}

func (w Window) seekArgs() []string {
	var args []string
	if w.Start > 0 {
		args = append(args, "-ss", formatSeconds(w.Start))
	}
	if w.Duration > 0 {
		args = append(args, "-t", formatSeconds(w.Duration))
	}
	return args
}

// Streams runs all three extractions over the window.
func (a *Analyzer) Streams(ctx context.Context, path string, win Window) (detect.Streams, error) {
	scene, err := a.Scene(ctx, path, win)
	if err != nil {
		return detect.Streams{}, err
	}
	black, err := a.Black(ctx, path, win)
	if err != nil {
		return detect.Streams{}, err
	}
	audio, err := a.Audio(ctx, path, win)
	if err != nil {
		return detect.Streams{}, err
	}
	a.logger.Debug("signal extraction complete",
		logging.String(logging.FieldSource, path),
		logging.Int("scene_samples", len(scene)),
		logging.Int("black_samples", len(black)),
		logging.Int("audio_samples", len(audio)),
	)
	return detect.Streams{Scene: scene, Black: black, Audio: audio}, nil
}

// Scene extracts scene-change detections from the scdet filter.
func (a *Analyzer) Scene(ctx context.Context, path string, win Window) ([]detect.Sample, error) {
	args := append(win.seekArgs(), "-i", path, "-vf", sceneFilter, "-an", "-f", "null", "-")
	stderr, err := a.run(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("scene detection: %w", err)
	}
	return parseSceneOutput(stderr, win.Start), nil
}

// Black extracts black frame intervals from the blackdetect filter.
func (a *Analyzer) Black(ctx context.Context, path string, win Window) ([]detect.Sample, error) {
	filter := fmt.Sprintf("blackdetect=d=%s:pix_th=%s",
		formatSeconds(a.blackMinDuration), formatSeconds(a.blackPixThreshold))
	args := append(win.seekArgs(), "-i", path, "-vf", filter, "-an", "-f", "null", "-")
	stderr, err := a.run(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("black frame detection: %w", err)
	}
	return parseBlackOutput(stderr, win.Start), nil
}

// Audio extracts per-second loudness deltas. astats writes its metadata to a
// side file because ffmpeg interleaves stderr output unpredictably under
// load.
func (a *Analyzer) Audio(ctx context.Context, path string, win Window) ([]detect.Sample, error) {
	metaFile, err := os.CreateTemp("", "reelcut-rms-*.txt")
	if err != nil {
		return nil, fmt.Errorf("audio analysis: create metadata file: %w", err)
	}
	metaPath := metaFile.Name()
	metaFile.Close()
	defer os.Remove(metaPath)

	filter := "asetnsamples=n=48000,astats=metadata=1:reset=1," +
		"ametadata=print:key=lavfi.astats.Overall.RMS_level:file=" + metaPath
	args := append(win.seekArgs(), "-i", path, "-af", filter, "-vn", "-f", "null", "-")
	if _, err := a.run(ctx, args); err != nil {
		return nil, fmt.Errorf("audio analysis: %w", err)
	}

	content, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("audio analysis: read metadata: %w", err)
	}
	return parseAudioMetadata(string(content), win.Start), nil
}

// Resampler adapts the analyzer to the verification pass contract for one
// source file.
func (a *Analyzer) Resampler(path string) detect.Resampler {
	return detect.ResamplerFunc(func(ctx context.Context, start, end float64) (detect.Streams, error) {
		if start < 0 {
			start = 0
		}
		if end <= start {
			return detect.Streams{}, fmt.Errorf("resample: empty window [%0.3f, %0.3f]", start, end)
		}
		return a.Streams(ctx, path, Window{Start: start, Duration: end - start})
	})
}

func (a *Analyzer) run(ctx context.Context, args []string) (string, error) {
	full := append([]string{"-hide_banner", "-nostats"}, args...)
	cmd := exec.CommandContext(ctx, a.binary, full...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", a.binary, err, tail(stderr.String(), 400))
	}
	return stderr.String(), nil
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
