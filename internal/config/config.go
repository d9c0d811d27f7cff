package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkspaceDir string `toml:"workspace_dir"`
	OutputDir    string `toml:"output_dir"`
}

// Detection contains the cut-candidate scoring knobs. Zero values fall back
// to tested defaults during normalization.
type Detection struct {
	MinConfidence float64 `toml:"min_confidence"`
	MinGapSeconds float64 `toml:"min_gap_seconds"`
	SceneWeight   float64 `toml:"scene_weight"`
	BlackWeight   float64 `toml:"black_weight"`
	AudioWeight   float64 `toml:"audio_weight"`

	// Extraction knobs passed to the ffmpeg filters.
	BlackMinDuration      float64 `toml:"black_min_duration"`
	BlackPictureThreshold float64 `toml:"black_picture_threshold"`

	Verify        bool `toml:"verify"`
	VerifyWorkers int  `toml:"verify_workers"`
}

// Split contains transcode settings for writing clips.
type Split struct {
	Preset         string  `toml:"preset"`
	CRF            int     `toml:"crf"`
	AudioBitrate   string  `toml:"audio_bitrate"`
	Deinterlace    bool    `toml:"deinterlace"`
	Denoise        bool    `toml:"denoise"`
	MinClipSeconds float64 `toml:"min_clip_seconds"`
}

// Transcription contains settings for the external speech-to-text tool.
type Transcription struct {
	Enabled  bool   `toml:"enabled"`
	Binary   string `toml:"binary"`
	Model    string `toml:"model"`
	Language string `toml:"language"`
}

// Gallery contains settings for the static HTML browse page.
type Gallery struct {
	Title         string `toml:"title"`
	ThumbsPerClip int    `toml:"thumbs_per_clip"`
}

// FFmpeg contains tool binary names and invocation limits.
type FFmpeg struct {
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	FFprobeBinary  string `toml:"ffprobe_binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for reelcut.
//
// Configuration sections by subsystem:
//   - Paths: workspace and clip output directories
//   - Detection: scoring thresholds, signal weights, verification pass
//   - Split: transcode preset, quality, and clip length floor
//   - Transcription: external speech-to-text tool settings
//   - Gallery: static browse page settings
//   - FFmpeg: tool binaries and timeouts
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Detection     Detection     `toml:"detection"`
	Split         Split         `toml:"split"`
	Transcription Transcription `toml:"transcription"`
	Gallery       Gallery       `toml:"gallery"`
	FFmpeg        FFmpeg        `toml:"ffmpeg"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reelcut/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelcut.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// LogDir returns the directory that receives run logs.
func (c *Config) LogDir() string {
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.WorkspaceDir, "logs")
}

// CatalogPath returns the location of the catalog database.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.Paths.WorkspaceDir, "catalog.db")
}

// TranscriptCacheDir returns the directory holding cached transcripts.
func (c *Config) TranscriptCacheDir() string {
	return filepath.Join(c.Paths.WorkspaceDir, "transcripts")
}

// LockPath returns the workspace lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.WorkspaceDir, "reelcut.lock")
}

// EnsureDirectories creates the workspace directories. The clip output
// directory is created on a best-effort basis so config load succeeds when
// external storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkspaceDir, c.LogDir(), c.TranscriptCacheDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		_ = os.MkdirAll(c.Paths.OutputDir, 0o755)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
