package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"reelcut/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on incompatible schema changes. The catalog can be
// rebuilt from the source files, so there is no migration path beyond
// deleting the database.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by a different release.
var ErrSchemaMismatch = errors.New("catalog schema version mismatch")

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.CatalogPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// UpsertSource registers a source by path or refreshes its probed metadata,
// returning the stored row with its assigned ID.
func (s *Store) UpsertSource(ctx context.Context, src Source) (Source, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	existing, err := s.SourceByPath(ctx, src.Path)
	switch {
	case err == nil:
		src.ID = existing.ID
		src.CreatedAt = existing.CreatedAt
		src.UpdatedAt = now
		_, err = s.db.ExecContext(ctx,
			`UPDATE sources SET duration_seconds = ?, size_bytes = ?, video_codec = ?,
                width = ?, height = ?, frame_rate = ?, interlaced = ?, audio_streams = ?,
                updated_at = ?
             WHERE id = ?`,
			src.DurationSeconds, src.SizeBytes, src.VideoCodec,
			src.Width, src.Height, src.FrameRate, boolToInt(src.Interlaced), src.AudioStreams,
			timestamp, src.ID,
		)
		if err != nil {
			return Source{}, fmt.Errorf("update source: %w", err)
		}
		return src, nil
	case errors.Is(err, ErrNotFound):
		src.ID = uuid.NewString()
		src.CreatedAt = now
		src.UpdatedAt = now
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO sources (
                id, path, duration_seconds, size_bytes, video_codec,
                width, height, frame_rate, interlaced, audio_streams,
                created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			src.ID, src.Path, src.DurationSeconds, src.SizeBytes, src.VideoCodec,
			src.Width, src.Height, src.FrameRate, boolToInt(src.Interlaced), src.AudioStreams,
			timestamp, timestamp,
		)
		if err != nil {
			return Source{}, fmt.Errorf("insert source: %w", err)
		}
		return src, nil
	default:
		return Source{}, err
	}
}

// SourceByPath looks a source up by its capture file path.
func (s *Store) SourceByPath(ctx context.Context, path string) (Source, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, path, duration_seconds, size_bytes, video_codec,
                width, height, frame_rate, interlaced, audio_streams,
                created_at, updated_at
         FROM sources WHERE path = ?`, path)
	return scanSource(row)
}

// ListSources returns all registered sources ordered by path.
func (s *Store) ListSources(ctx context.Context) ([]Source, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, duration_seconds, size_bytes, video_codec,
                width, height, frame_rate, interlaced, audio_streams,
                created_at, updated_at
         FROM sources ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// SaveRun stores a detection run with its candidates and noise zones in one
// transaction and returns the run with its assigned ID.
func (s *Store) SaveRun(ctx context.Context, run Run) (Run, error) {
	run.ID = uuid.NewString()
	run.CreatedAt = time.Now().UTC()
	timestamp := run.CreatedAt.Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO detection_runs (id, source_id, min_confidence, min_gap_seconds, verified, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourceID, run.MinConfidence, run.MinGapSeconds, boolToInt(run.Verified), timestamp,
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	for i, cut := range run.Cuts {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO cut_candidates (run_id, position, timestamp_seconds, score, signals, verified)
             VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, i, cut.Timestamp, cut.Score, cut.Signals, boolToInt(cut.Verified),
		)
		if err != nil {
			return Run{}, fmt.Errorf("insert candidate %d: %w", i, err)
		}
	}
	for _, zone := range run.NoiseZones {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO noise_zones (run_id, start_seconds, end_seconds, detections)
             VALUES (?, ?, ?, ?)`,
			run.ID, zone.Start, zone.End, zone.Detections,
		)
		if err != nil {
			return Run{}, fmt.Errorf("insert noise zone: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

// LatestRun returns the most recent detection run for a source, with its
// candidates in chronological order.
func (s *Store) LatestRun(ctx context.Context, sourceID string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_id, min_confidence, min_gap_seconds, verified, created_at
         FROM detection_runs WHERE source_id = ?
         ORDER BY created_at DESC, id DESC LIMIT 1`, sourceID)

	var run Run
	var verified int
	var created string
	err := row.Scan(&run.ID, &run.SourceID, &run.MinConfidence, &run.MinGapSeconds, &verified, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run for source %s: %w", sourceID, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Verified = verified != 0
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)

	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp_seconds, score, signals, verified
         FROM cut_candidates WHERE run_id = ? ORDER BY position`, run.ID)
	if err != nil {
		return Run{}, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cut Cut
		var cutVerified int
		if err := rows.Scan(&cut.Timestamp, &cut.Score, &cut.Signals, &cutVerified); err != nil {
			return Run{}, fmt.Errorf("scan candidate: %w", err)
		}
		cut.Verified = cutVerified != 0
		run.Cuts = append(run.Cuts, cut)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}

	zoneRows, err := s.db.QueryContext(ctx,
		`SELECT start_seconds, end_seconds, detections
         FROM noise_zones WHERE run_id = ? ORDER BY start_seconds`, run.ID)
	if err != nil {
		return Run{}, fmt.Errorf("list noise zones: %w", err)
	}
	defer zoneRows.Close()
	for zoneRows.Next() {
		var zone Zone
		if err := zoneRows.Scan(&zone.Start, &zone.End, &zone.Detections); err != nil {
			return Run{}, fmt.Errorf("scan noise zone: %w", err)
		}
		run.NoiseZones = append(run.NoiseZones, zone)
	}
	return run, zoneRows.Err()
}

// ReplaceClips swaps the stored clip set for a source. Splitting is
// all-or-nothing per source, so stale rows from a previous run never mix
// with the new set.
func (s *Store) ReplaceClips(ctx context.Context, sourceID string, clips []Clip) ([]Clip, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin clips tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM clips WHERE source_id = ?", sourceID); err != nil {
		return nil, fmt.Errorf("clear clips: %w", err)
	}

	stored := make([]Clip, 0, len(clips))
	for _, clip := range clips {
		clip.SourceID = sourceID
		clip.ID = uuid.NewString()
		clip.CreatedAt = now
		thumbs, err := json.Marshal(orEmpty(clip.Thumbs))
		if err != nil {
			return nil, fmt.Errorf("marshal thumbs: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO clips (id, source_id, path, start_seconds, end_seconds, transcript, thumbs_json, created_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			clip.ID, clip.SourceID, clip.Path, clip.Start, clip.End, clip.Transcript, string(thumbs), timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("insert clip %s: %w", clip.Path, err)
		}
		stored = append(stored, clip)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit clips: %w", err)
	}
	return stored, nil
}

// UpdateClipTranscript stores the transcript for one clip.
func (s *Store) UpdateClipTranscript(ctx context.Context, clipID, transcript string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE clips SET transcript = ? WHERE id = ?", transcript, clipID)
	if err != nil {
		return fmt.Errorf("update transcript: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("clip %s: %w", clipID, ErrNotFound)
	}
	return nil
}

// ListClips returns a source's clips in chronological order.
func (s *Store) ListClips(ctx context.Context, sourceID string) ([]Clip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_id, path, start_seconds, end_seconds, transcript, thumbs_json, created_at
         FROM clips WHERE source_id = ? ORDER BY start_seconds`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("list clips: %w", err)
	}
	defer rows.Close()

	var clips []Clip
	for rows.Next() {
		var clip Clip
		var thumbsJSON, created string
		if err := rows.Scan(&clip.ID, &clip.SourceID, &clip.Path, &clip.Start, &clip.End,
			&clip.Transcript, &thumbsJSON, &created); err != nil {
			return nil, fmt.Errorf("scan clip: %w", err)
		}
		if err := json.Unmarshal([]byte(thumbsJSON), &clip.Thumbs); err != nil {
			return nil, fmt.Errorf("decode thumbs for %s: %w", clip.Path, err)
		}
		clip.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		clips = append(clips, clip)
	}
	return clips, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (Source, error) {
	var src Source
	var interlaced int
	var created, updated string
	err := row.Scan(&src.ID, &src.Path, &src.DurationSeconds, &src.SizeBytes, &src.VideoCodec,
		&src.Width, &src.Height, &src.FrameRate, &interlaced, &src.AudioStreams,
		&created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Source{}, ErrNotFound
	}
	if err != nil {
		return Source{}, fmt.Errorf("scan source: %w", err)
	}
	src.Interlaced = interlaced != 0
	src.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	src.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return src, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func orEmpty(thumbs []string) []string {
	if thumbs == nil {
		return []string{}
	}
	return thumbs
}
