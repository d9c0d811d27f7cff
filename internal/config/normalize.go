package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDetection()
	c.normalizeSplit()
	c.normalizeTranscription()
	c.normalizeGallery()
	c.normalizeFFmpeg()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("REELCUT_WORKSPACE"); ok && strings.TrimSpace(value) != "" {
		c.Paths.WorkspaceDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		c.Paths.WorkspaceDir = defaultWorkspaceDir
	}
	var err error
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeDetection() {
	d := &c.Detection
	if d.MinConfidence == 0 {
		d.MinConfidence = defaultMinConfidence
	}
	if d.MinGapSeconds == 0 {
		d.MinGapSeconds = defaultMinGapSeconds
	}
	if d.BlackMinDuration <= 0 {
		d.BlackMinDuration = defaultBlackMinDuration
	}
	if d.BlackPictureThreshold <= 0 {
		d.BlackPictureThreshold = defaultBlackPictureThreshold
	}
	if d.VerifyWorkers <= 0 {
		d.VerifyWorkers = defaultVerifyWorkers
	}
}

func (c *Config) normalizeSplit() {
	s := &c.Split
	s.Preset = strings.TrimSpace(s.Preset)
	if s.Preset == "" {
		s.Preset = defaultSplitPreset
	}
	if s.CRF <= 0 {
		s.CRF = defaultSplitCRF
	}
	s.AudioBitrate = strings.TrimSpace(s.AudioBitrate)
	if s.AudioBitrate == "" {
		s.AudioBitrate = defaultAudioBitrate
	}
	if s.MinClipSeconds <= 0 {
		s.MinClipSeconds = defaultMinClipSeconds
	}
}

func (c *Config) normalizeTranscription() {
	t := &c.Transcription
	t.Binary = strings.TrimSpace(t.Binary)
	if t.Binary == "" {
		t.Binary = defaultTranscribeBinary
	}
	t.Model = strings.TrimSpace(t.Model)
	if t.Model == "" {
		t.Model = defaultTranscribeModel
	}
	t.Language = strings.ToLower(strings.TrimSpace(t.Language))
	if t.Language == "" {
		t.Language = "en"
	}
}

func (c *Config) normalizeGallery() {
	g := &c.Gallery
	g.Title = strings.TrimSpace(g.Title)
	if g.Title == "" {
		g.Title = defaultGalleryTitle
	}
	if g.ThumbsPerClip <= 0 {
		g.ThumbsPerClip = defaultThumbsPerClip
	}
}

func (c *Config) normalizeFFmpeg() {
	f := &c.FFmpeg
	f.FFmpegBinary = strings.TrimSpace(f.FFmpegBinary)
	if f.FFmpegBinary == "" {
		f.FFmpegBinary = defaultFFmpegBinary
	}
	f.FFprobeBinary = strings.TrimSpace(f.FFprobeBinary)
	if f.FFprobeBinary == "" {
		f.FFprobeBinary = defaultFFprobeBinary
	}
	if f.TimeoutSeconds <= 0 {
		f.TimeoutSeconds = defaultToolTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
