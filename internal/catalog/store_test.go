package catalog_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"reelcut/internal/catalog"
	"reelcut/internal/testsupport"
)

func TestUpsertSourceInsertAndRefresh(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	src, err := store.UpsertSource(ctx, catalog.Source{
		Path:            "/captures/tape 12.mkv",
		DurationSeconds: 1800,
		SizeBytes:       4 << 30,
		VideoCodec:      "ffv1",
		Width:           720,
		Height:          576,
		FrameRate:       25,
		Interlaced:      true,
		AudioStreams:    1,
	})
	if err != nil {
		t.Fatalf("UpsertSource failed: %v", err)
	}
	if src.ID == "" {
		t.Fatal("expected source ID to be assigned")
	}

	// Re-registering the same path keeps the ID and refreshes metadata.
	refreshed, err := store.UpsertSource(ctx, catalog.Source{
		Path:            "/captures/tape 12.mkv",
		DurationSeconds: 1805.5,
		SizeBytes:       4 << 30,
	})
	if err != nil {
		t.Fatalf("UpsertSource refresh failed: %v", err)
	}
	if refreshed.ID != src.ID {
		t.Fatalf("refresh changed ID: %s != %s", refreshed.ID, src.ID)
	}

	fetched, err := store.SourceByPath(ctx, "/captures/tape 12.mkv")
	if err != nil {
		t.Fatalf("SourceByPath failed: %v", err)
	}
	if fetched.DurationSeconds != 1805.5 {
		t.Errorf("duration = %v, want refreshed value", fetched.DurationSeconds)
	}
	if !fetched.UpdatedAt.After(fetched.CreatedAt) && !fetched.UpdatedAt.Equal(fetched.CreatedAt) {
		t.Errorf("updated_at %v precedes created_at %v", fetched.UpdatedAt, fetched.CreatedAt)
	}
}

func TestSourceByPathMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := store.SourceByPath(context.Background(), "/nope.mkv")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRunAndLatestRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	src := testsupport.NewSource(t, store, "/captures/reel.mkv", 2400)

	first, err := store.SaveRun(ctx, catalog.Run{
		SourceID:      src.ID,
		MinConfidence: 35,
		MinGapSeconds: 10,
		Cuts: []catalog.Cut{
			{Timestamp: 240.4, Score: 74, Signals: "scene+black+audio"},
		},
	})
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected run ID to be assigned")
	}

	second, err := store.SaveRun(ctx, catalog.Run{
		SourceID:      src.ID,
		MinConfidence: 40,
		MinGapSeconds: 10,
		Verified:      true,
		Cuts: []catalog.Cut{
			{Timestamp: 240.4, Score: 74, Signals: "scene+black+audio", Verified: true},
			{Timestamp: 702, Score: 62, Signals: "scene+audio", Verified: true},
		},
		NoiseZones: []catalog.Zone{
			{Start: 299, End: 342, Detections: 121},
		},
	})
	if err != nil {
		t.Fatalf("SaveRun second failed: %v", err)
	}

	latest, err := store.LatestRun(ctx, src.ID)
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if latest.ID != second.ID {
		t.Fatalf("LatestRun returned %s, want %s", latest.ID, second.ID)
	}
	if !latest.Verified || latest.MinConfidence != 40 {
		t.Errorf("unexpected run fields: %+v", latest)
	}
	if len(latest.Cuts) != 2 || latest.Cuts[1].Signals != "scene+audio" {
		t.Errorf("unexpected candidates: %+v", latest.Cuts)
	}
	if len(latest.NoiseZones) != 1 || latest.NoiseZones[0].Detections != 121 {
		t.Errorf("unexpected noise zones: %+v", latest.NoiseZones)
	}
}

func TestLatestRunMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	src := testsupport.NewSource(t, store, "/captures/empty.mkv", 60)
	_, err := store.LatestRun(context.Background(), src.ID)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReplaceClips(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	src := testsupport.NewSource(t, store, "/captures/reel.mkv", 600)

	stored, err := store.ReplaceClips(ctx, src.ID, []catalog.Clip{
		{Path: "/out/reel_00h00m00s.mp4", Start: 0, End: 240.4, Thumbs: []string{"reel_00h00m00s_0.jpg"}},
		{Path: "/out/reel_00h04m00s.mp4", Start: 240.4, End: 600},
	})
	if err != nil {
		t.Fatalf("ReplaceClips failed: %v", err)
	}
	if len(stored) != 2 || stored[0].ID == "" {
		t.Fatalf("unexpected stored clips: %+v", stored)
	}

	// A second replacement discards the whole previous set.
	_, err = store.ReplaceClips(ctx, src.ID, []catalog.Clip{
		{Path: "/out/reel_00h00m00s.mp4", Start: 0, End: 600},
	})
	if err != nil {
		t.Fatalf("ReplaceClips second failed: %v", err)
	}

	clips, err := store.ListClips(ctx, src.ID)
	if err != nil {
		t.Fatalf("ListClips failed: %v", err)
	}
	if len(clips) != 1 || clips[0].End != 600 {
		t.Errorf("unexpected clips after replacement: %+v", clips)
	}
	if clips[0].Thumbs == nil {
		t.Error("thumbs should decode to an empty slice, not nil")
	}
}

func TestUpdateClipTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	src := testsupport.NewSource(t, store, "/captures/reel.mkv", 600)
	stored, err := store.ReplaceClips(ctx, src.ID, []catalog.Clip{
		{Path: "/out/reel_00h00m00s.mp4", Start: 0, End: 600},
	})
	if err != nil {
		t.Fatalf("ReplaceClips failed: %v", err)
	}

	if err := store.UpdateClipTranscript(ctx, stored[0].ID, "familien samlet i hagen"); err != nil {
		t.Fatalf("UpdateClipTranscript failed: %v", err)
	}
	clips, err := store.ListClips(ctx, src.ID)
	if err != nil {
		t.Fatalf("ListClips failed: %v", err)
	}
	if clips[0].Transcript != "familien samlet i hagen" {
		t.Errorf("transcript = %q", clips[0].Transcript)
	}

	if err := store.UpdateClipTranscript(ctx, "missing-id", "x"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown clip, got %v", err)
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	src := testsupport.NewSource(t, store, "/captures/reel.mkv", 600)
	store.Close()

	if _, err := os.Stat(cfg.CatalogPath()); err != nil {
		t.Fatalf("catalog db missing: %v", err)
	}

	reopened, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	fetched, err := reopened.SourceByPath(context.Background(), "/captures/reel.mkv")
	if err != nil {
		t.Fatalf("SourceByPath after reopen failed: %v", err)
	}
	if fetched.ID != src.ID {
		t.Errorf("source ID changed across reopen: %s != %s", fetched.ID, src.ID)
	}
}
