package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelcut/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("REELCUT_WORKSPACE", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWorkspace := filepath.Join(tempHome, ".local", "share", "reelcut")
	if cfg.Paths.WorkspaceDir != wantWorkspace {
		t.Fatalf("unexpected workspace dir: got %q want %q", cfg.Paths.WorkspaceDir, wantWorkspace)
	}
	if cfg.LogDir() != filepath.Join(wantWorkspace, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.LogDir())
	}
	if cfg.CatalogPath() != filepath.Join(wantWorkspace, "catalog.db") {
		t.Fatalf("unexpected catalog path: %q", cfg.CatalogPath())
	}
	if cfg.Detection.MinConfidence != 35.0 {
		t.Fatalf("unexpected min confidence: %v", cfg.Detection.MinConfidence)
	}
	if cfg.Detection.MinGapSeconds != 10.0 {
		t.Fatalf("unexpected min gap: %v", cfg.Detection.MinGapSeconds)
	}
	if !cfg.Detection.Verify {
		t.Fatal("expected verification enabled by default")
	}
	if cfg.Split.Preset != "fast" || cfg.Split.CRF != 22 {
		t.Fatalf("unexpected split defaults: %+v", cfg.Split)
	}
	if cfg.Transcription.Enabled {
		t.Fatal("expected transcription disabled by default")
	}
	if cfg.FFmpeg.FFmpegBinary != "ffmpeg" || cfg.FFmpeg.FFprobeBinary != "ffprobe" {
		t.Fatalf("unexpected tool binaries: %+v", cfg.FFmpeg)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadReadsFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
workspace_dir = "` + dir + `/work"

[detection]
min_confidence = 50.0
scene_weight = 40.0
verify = false

[split]
preset = "  medium  "

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REELCUT_WORKSPACE", "")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}

	if cfg.Detection.MinConfidence != 50.0 {
		t.Fatalf("unexpected min confidence: %v", cfg.Detection.MinConfidence)
	}
	if cfg.Detection.SceneWeight != 40.0 {
		t.Fatalf("unexpected scene weight: %v", cfg.Detection.SceneWeight)
	}
	if cfg.Detection.Verify {
		t.Fatal("expected verification disabled by file")
	}
	if cfg.Detection.BlackWeight != 20.0 {
		t.Fatalf("unset weight should keep its default: %v", cfg.Detection.BlackWeight)
	}
	if cfg.Split.Preset != "medium" {
		t.Fatalf("preset should be trimmed: %q", cfg.Split.Preset)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format should be lowercased: %q", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level should be lowercased: %q", cfg.Logging.Level)
	}
}

func TestLoadWorkspaceEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("REELCUT_WORKSPACE", filepath.Join(dir, "override"))

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.WorkspaceDir != filepath.Join(dir, "override") {
		t.Fatalf("env override ignored: %q", cfg.Paths.WorkspaceDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantSub string
	}{
		{
			name:    "negative min confidence",
			mutate:  func(c *config.Config) { c.Detection.MinConfidence = -1 },
			wantSub: "min_confidence",
		},
		{
			name:    "zero min gap",
			mutate:  func(c *config.Config) { c.Detection.MinGapSeconds = -5 },
			wantSub: "min_gap_seconds",
		},
		{
			name: "all weights zero",
			mutate: func(c *config.Config) {
				c.Detection.SceneWeight = 0
				c.Detection.BlackWeight = 0
				c.Detection.AudioWeight = 0
			},
			wantSub: "signal weight",
		},
		{
			name:    "bogus preset",
			mutate:  func(c *config.Config) { c.Split.Preset = "turbo" },
			wantSub: "preset",
		},
		{
			name:    "crf out of range",
			mutate:  func(c *config.Config) { c.Split.CRF = 99 },
			wantSub: "crf",
		},
		{
			name:    "zero thumbs",
			mutate:  func(c *config.Config) { c.Gallery.ThumbsPerClip = -2 },
			wantSub: "thumbs_per_clip",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	t.Setenv("REELCUT_WORKSPACE", "")
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config should load cleanly: exists=%v err=%v", exists, err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = filepath.Join(dir, "work")
	cfg.Paths.OutputDir = filepath.Join(dir, "out")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, sub := range []string{cfg.LogDir(), cfg.TranscriptCacheDir(), cfg.Paths.OutputDir} {
		info, err := os.Stat(sub)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %q missing: %v", sub, err)
		}
	}
}

func TestExpandPathTilde(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	got, err := config.ExpandPath("~/captures")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(tempHome, "captures") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
