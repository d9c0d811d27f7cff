// Package transcribe produces speech transcripts for clips by driving an
// external Whisper-compatible command line tool over extracted audio.
package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"reelcut/internal/config"
	"reelcut/internal/language"
	"reelcut/internal/logging"
)

// Transcriber runs the configured transcription tool and caches results so
// repeated catalog runs do not re-transcribe unchanged clips.
type Transcriber struct {
	ffmpegBin string
	binary    string
	model     string
	language  string
	cacheDir  string
	logger    *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Transcriber {
	lang := language.ToISO2(cfg.Transcription.Language)
	if lang == "" {
		lang = cfg.Transcription.Language
	}
	return &Transcriber{
		ffmpegBin: cfg.FFmpeg.FFmpegBinary,
		binary:    cfg.Transcription.Binary,
		model:     cfg.Transcription.Model,
		language:  lang,
		cacheDir:  cfg.TranscriptCacheDir(),
		logger:    logging.NewComponentLogger(logger, "transcribe"),
	}
}

// CachePath returns where the transcript for a clip is stored.
func (t *Transcriber) CachePath(clipPath string) string {
	stem := strings.TrimSuffix(filepath.Base(clipPath), filepath.Ext(clipPath))
	return filepath.Join(t.cacheDir, stem+".txt")
}

// Transcribe returns the transcript for a clip, producing and caching it on
// first call. An empty transcript with nil error means the clip has no
// recognizable speech.
func (t *Transcriber) Transcribe(ctx context.Context, clipPath string) (string, error) {
	cachePath := t.CachePath(clipPath)
	if cached, err := os.ReadFile(cachePath); err == nil && len(bytes.TrimSpace(cached)) > 0 {
		t.logger.Debug("transcript cache hit", logging.String(logging.FieldClip, filepath.Base(clipPath)))
		return strings.TrimSpace(string(cached)), nil
	}

	if err := os.MkdirAll(t.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("transcribe %s: %w", clipPath, err)
	}

	workDir, err := os.MkdirTemp("", "reelcut-transcribe-*")
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", clipPath, err)
	}
	defer os.RemoveAll(workDir)

	wavPath := filepath.Join(workDir, "audio.wav")
	if err := t.extractAudio(ctx, clipPath, wavPath); err != nil {
		return "", fmt.Errorf("transcribe %s: %w", clipPath, err)
	}

	text, err := t.runTool(ctx, wavPath, workDir)
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", clipPath, err)
	}

	if err := os.WriteFile(cachePath, []byte(text+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("transcribe %s: cache write: %w", clipPath, err)
	}
	return text, nil
}

// extractAudio downmixes to 16 kHz mono PCM, the input format the speech
// models are trained against.
func (t *Transcriber) extractAudio(ctx context.Context, clipPath, wavPath string) error {
	args := []string{
		"-hide_banner", "-nostats", "-y",
		"-i", clipPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		wavPath,
	}
	cmd := exec.CommandContext(ctx, t.ffmpegBin, args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("audio extraction: %s: %w: %s", t.ffmpegBin, err, tail(stderr.String(), 400))
	}
	return nil
}

func (t *Transcriber) runTool(ctx context.Context, wavPath, workDir string) (string, error) {
	args := []string{
		wavPath,
		"--model", t.model,
		"--output_format", "txt",
		"--output_dir", workDir,
	}
	if t.language != "" {
		args = append(args, "--language", t.language)
	}
	cmd := exec.CommandContext(ctx, t.binary, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", t.binary, err, tail(output.String(), 400))
	}

	outPath := strings.TrimSuffix(wavPath, filepath.Ext(wavPath)) + ".txt"
	content, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("%s: read output: %w", t.binary, err)
	}
	return FlattenTranscript(string(content)), nil
}

// FlattenTranscript collapses the tool's line-per-segment output into a
// single whitespace-normalized string.
func FlattenTranscript(raw string) string {
	var parts []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
