// Package pipeline chains probing, detection, splitting, thumbnailing, and
// transcription into the operations the CLI exposes.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"reelcut/internal/catalog"
	"reelcut/internal/config"
	"reelcut/internal/detect"
	"reelcut/internal/logging"
	"reelcut/internal/media/analyze"
	"reelcut/internal/media/ffprobe"
	"reelcut/internal/media/frames"
	"reelcut/internal/split"
	"reelcut/internal/textutil"
	"reelcut/internal/timeutil"
	"reelcut/internal/transcribe"
)

// Pipeline wires the processing stages against one catalog store.
type Pipeline struct {
	cfg         *config.Config
	store       *catalog.Store
	analyzer    *analyze.Analyzer
	splitter    *split.Splitter
	frames      *frames.Extractor
	transcriber *transcribe.Transcriber
	logger      *slog.Logger
}

func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		store:       store,
		analyzer:    analyze.New(cfg, logger),
		splitter:    split.New(cfg, logger),
		frames:      frames.New(cfg, logger),
		transcriber: transcribe.New(cfg, logger),
		logger:      logging.NewComponentLogger(logger, "pipeline"),
	}
}

// DetectConfig maps the user-facing detection settings onto the scorer's
// configuration. The scorer's remaining tunables keep their defaults.
func DetectConfig(cfg *config.Config) detect.Config {
	return detect.Config{
		MinConfidence: cfg.Detection.MinConfidence,
		MinGap:        cfg.Detection.MinGapSeconds,
		SceneWeight:   cfg.Detection.SceneWeight,
		BlackWeight:   cfg.Detection.BlackWeight,
		AudioWeight:   cfg.Detection.AudioWeight,
		Verify:        cfg.Detection.Verify,
		VerifyWorkers: cfg.Detection.VerifyWorkers,
	}
}

// Outcome is what a full processing run produced for one source.
type Outcome struct {
	Source      catalog.Source
	Run         catalog.Run
	Clips       []catalog.Clip
	OutputDir   string
	SidecarPath string
	Warnings    []string
}

// SourceOutputDir returns the per-source clip directory under the configured
// output root.
func (p *Pipeline) SourceOutputDir(sourcePath string) string {
	return filepath.Join(p.cfg.Paths.OutputDir, sourceStem(sourcePath))
}

func sourceStem(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if cleaned := textutil.SanitizeFileName(stem); cleaned != "" {
		return cleaned
	}
	return stem
}

// Detect probes a capture, extracts its signal streams, scores them, and
// stores the resulting run.
func (p *Pipeline) Detect(ctx context.Context, path string) (catalog.Source, catalog.Run, error) {
	ctx, cancel := p.withToolTimeout(ctx)
	defer cancel()

	src, err := p.registerSource(ctx, path)
	if err != nil {
		return catalog.Source{}, catalog.Run{}, err
	}

	started := time.Now()
	streams, err := p.analyzer.Streams(ctx, path, analyze.Window{})
	if err != nil {
		return catalog.Source{}, catalog.Run{}, fmt.Errorf("detect %s: %w", path, err)
	}

	detectCfg := DetectConfig(p.cfg)
	result, err := detect.Score(streams, detectCfg)
	if err != nil {
		return catalog.Source{}, catalog.Run{}, fmt.Errorf("detect %s: %w", path, err)
	}
	for _, warning := range result.Warnings {
		p.logger.Warn("signal stream rejected",
			logging.String(logging.FieldSource, path),
			logging.String("reason", warning.String()),
		)
	}

	candidates := result.Candidates
	if detectCfg.Verify {
		candidates = detect.Verify(ctx, candidates, result.NoiseZones, p.analyzer.Resampler(path), detectCfg, p.logger)
	}

	run := catalog.Run{
		SourceID:      src.ID,
		MinConfidence: detectCfg.MinConfidence,
		MinGapSeconds: detectCfg.MinGap,
		Verified:      detectCfg.Verify,
	}
	for _, cand := range candidates {
		run.Cuts = append(run.Cuts, catalog.Cut{
			Timestamp: cand.Timestamp,
			Score:     cand.Score,
			Signals:   cand.Signals.String(),
			Verified:  cand.Verified,
		})
	}
	for _, zone := range result.NoiseZones {
		run.NoiseZones = append(run.NoiseZones, catalog.Zone{
			Start:      zone.Start,
			End:        zone.End,
			Detections: zone.Detections,
		})
	}

	run, err = p.store.SaveRun(ctx, run)
	if err != nil {
		return catalog.Source{}, catalog.Run{}, fmt.Errorf("detect %s: %w", path, err)
	}

	p.logger.Info("detection complete",
		logging.String(logging.FieldSource, path),
		logging.Int("cuts", len(run.Cuts)),
		logging.Int("noise_zones", len(run.NoiseZones)),
		logging.Duration(logging.FieldDuration, time.Since(started)),
	)
	return src, run, nil
}

// Process runs the full chain for one capture: detection, splitting,
// thumbnails, transcription, catalog rows, and the metadata sidecar.
func (p *Pipeline) Process(ctx context.Context, path string) (Outcome, error) {
	src, run, err := p.Detect(ctx, path)
	if err != nil {
		return Outcome{}, err
	}
	return p.finish(ctx, path, src, run)
}

// Resplit reuses a source's latest stored detection run and redoes the
// output stages, so a re-encode does not pay for detection again.
func (p *Pipeline) Resplit(ctx context.Context, path string) (Outcome, error) {
	ctx, cancel := p.withToolTimeout(ctx)
	defer cancel()

	src, err := p.store.SourceByPath(ctx, path)
	if err != nil {
		return Outcome{}, fmt.Errorf("resplit %s: %w", path, err)
	}
	run, err := p.store.LatestRun(ctx, src.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("resplit %s: %w", path, err)
	}
	return p.finish(ctx, path, src, run)
}

func (p *Pipeline) finish(ctx context.Context, path string, src catalog.Source, run catalog.Run) (Outcome, error) {
	ctx, cancel := p.withToolTimeout(ctx)
	defer cancel()

	outcome := Outcome{Source: src, Run: run, OutputDir: p.SourceOutputDir(path)}

	cuts := make([]float64, 0, len(run.Cuts))
	for _, cut := range run.Cuts {
		cuts = append(cuts, cut.Timestamp)
	}
	written, err := p.splitter.Split(ctx, path, outcome.OutputDir, cuts, src.DurationSeconds)
	if err != nil {
		return outcome, err
	}

	clips := make([]catalog.Clip, 0, len(written))
	for _, clip := range written {
		entry := catalog.Clip{Path: clip.Path, Start: clip.Start, End: clip.End}

		thumbs, err := p.frames.Extract(ctx, clip.Path, outcome.OutputDir, clip.End-clip.Start)
		if err != nil {
			outcome.Warnings = append(outcome.Warnings, err.Error())
			p.logger.Warn("thumbnail extraction failed",
				logging.String(logging.FieldClip, filepath.Base(clip.Path)),
				logging.Error(err),
			)
		}
		entry.Thumbs = thumbs

		if p.cfg.Transcription.Enabled {
			text, err := p.transcriber.Transcribe(ctx, clip.Path)
			if err != nil {
				outcome.Warnings = append(outcome.Warnings, err.Error())
				p.logger.Warn("transcription failed",
					logging.String(logging.FieldClip, filepath.Base(clip.Path)),
					logging.Error(err),
				)
			}
			entry.Transcript = text
		}
		clips = append(clips, entry)
	}

	stored, err := p.store.ReplaceClips(ctx, src.ID, clips)
	if err != nil {
		return outcome, fmt.Errorf("process %s: %w", path, err)
	}
	outcome.Clips = stored

	sidecarPath, err := catalog.WriteSidecar(outcome.OutputDir, catalog.BuildSidecar(src, run, stored))
	if err != nil {
		return outcome, fmt.Errorf("process %s: %w", path, err)
	}
	outcome.SidecarPath = sidecarPath

	p.logger.Info("processing complete",
		logging.String(logging.FieldSource, path),
		logging.Int("clips", len(stored)),
		logging.String("output", outcome.OutputDir),
	)
	return outcome, nil
}

// registerSource probes the capture and upserts its catalog row.
func (p *Pipeline) registerSource(ctx context.Context, path string) (catalog.Source, error) {
	probe, err := ffprobe.Inspect(ctx, p.cfg.FFmpeg.FFprobeBinary, path)
	if err != nil {
		return catalog.Source{}, fmt.Errorf("probe %s: %w", path, err)
	}
	duration := probe.DurationSeconds()
	if duration <= 0 {
		return catalog.Source{}, fmt.Errorf("probe %s: no duration reported", path)
	}
	if probe.IsDV() {
		p.logger.Warn("capture is raw DV, detection quality improves after preprocess",
			logging.String(logging.FieldSource, path),
		)
	}

	src := catalog.Source{
		Path:            path,
		DurationSeconds: duration,
		SizeBytes:       probe.SizeBytes(),
		FrameRate:       probe.FrameRate(),
		Interlaced:      probe.Interlaced(),
		AudioStreams:    probe.AudioStreamCount(),
	}
	if video, ok := probe.VideoStream(); ok {
		src.VideoCodec = video.CodecName
		src.Width = video.Width
		src.Height = video.Height
	}

	stored, err := p.store.UpsertSource(ctx, src)
	if err != nil {
		return catalog.Source{}, fmt.Errorf("register %s: %w", path, err)
	}
	p.logger.Debug("source registered",
		logging.String(logging.FieldSource, path),
		logging.String("duration", timeutil.FormatDuration(duration)),
		logging.Bool("interlaced", src.Interlaced),
	)
	return stored, nil
}

func (p *Pipeline) withToolTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.FFmpeg.TimeoutSeconds <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(p.cfg.FFmpeg.TimeoutSeconds)*time.Second)
}
