package gallery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelcut/internal/catalog"
	"reelcut/internal/testsupport"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"tape_12", "Tape 12"},
		{"summer-holiday-1987", "Summer Holiday 1987"},
		{"VHS_transfer", "VHS Transfer"},
		{"reel.3", "Reel 3"},
		{"___", "___"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.dir); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestBuildRendersSidecars(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	outputDir := cfg.Paths.OutputDir
	sourceDir := filepath.Join(outputDir, "tape_12")

	doc := catalog.BuildSidecar(
		catalog.Source{Path: "/captures/tape_12.mkv", DurationSeconds: 600},
		catalog.Run{},
		[]catalog.Clip{
			{
				Path:       filepath.Join(sourceDir, "tape_12_00h00m00s.mp4"),
				Start:      0,
				End:        240.4,
				Transcript: `han sa "hei" til kamera`,
				Thumbs:     []string{"tape_12_00h00m00s_0.jpg"},
			},
		},
	)
	if _, err := catalog.WriteSidecar(sourceDir, doc); err != nil {
		t.Fatalf("WriteSidecar failed: %v", err)
	}
	// A stray directory without a sidecar must be skipped.
	if err := os.MkdirAll(filepath.Join(outputDir, "unrelated"), 0o755); err != nil {
		t.Fatal(err)
	}

	gen := New(cfg, nil)
	path, err := gen.Build(outputDir)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	html, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(html)
	if !strings.Contains(content, "<h2>Tape 12</h2>") {
		t.Error("source heading missing")
	}
	if !strings.Contains(content, "tape_12_00h00m00s.mp4") {
		t.Error("clip file missing")
	}
	if !strings.Contains(content, "tape_12/tape_12_00h00m00s_0.jpg") {
		t.Error("thumbnail path missing")
	}
	if strings.Contains(content, `sa "hei"`) {
		t.Error("transcript quotes not escaped")
	}
	if !strings.Contains(content, "&#34;hei&#34;") {
		t.Error("escaped transcript missing")
	}
	if !strings.Contains(content, "4:00") {
		t.Error("clip duration missing")
	}
}

func TestBuildEmptyOutputDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	gen := New(cfg, nil)
	if _, err := gen.Build(cfg.Paths.OutputDir); err == nil {
		t.Fatal("Build expected error for empty output dir")
	}
}
