package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_results (
    path         TEXT PRIMARY KEY,
    video_codec  TEXT NOT NULL DEFAULT '',
    audio_codec  TEXT NOT NULL DEFAULT '',
    resolution   INTEGER NOT NULL DEFAULT 0,
    bitrate_kbps INTEGER NOT NULL DEFAULT 0,
    size_bytes   INTEGER NOT NULL DEFAULT 0,
    mod_time     TEXT NOT NULL,
    issues       TEXT NOT NULL DEFAULT '',
    scanned_at   TEXT NOT NULL
);
`

// Store persists scan results in a SQLite catalog.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the catalog file location.
func (s *Store) Path() string {
	return s.path
}

// Lookup fetches the catalog entry for path, if one exists.
func (s *Store) Lookup(ctx context.Context, path string) (Result, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT path, video_codec, audio_codec, resolution, bitrate_kbps,
                size_bytes, mod_time, issues, scanned_at
           FROM audit_results WHERE path = ?`, path)
	result, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("lookup %s: %w", path, err)
	}
	return result, true, nil
}

// Upsert inserts or replaces the catalog entry for result.Path.
func (s *Store) Upsert(ctx context.Context, result Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_results (
            path, video_codec, audio_codec, resolution, bitrate_kbps,
            size_bytes, mod_time, issues, scanned_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            video_codec = excluded.video_codec,
            audio_codec = excluded.audio_codec,
            resolution = excluded.resolution,
            bitrate_kbps = excluded.bitrate_kbps,
            size_bytes = excluded.size_bytes,
            mod_time = excluded.mod_time,
            issues = excluded.issues,
            scanned_at = excluded.scanned_at`,
		result.Path,
		result.VideoCodec,
		result.AudioCodec,
		result.Resolution,
		result.BitrateKbps,
		result.SizeBytes,
		result.ModTime.Format(time.RFC3339),
		joinIssues(result.Issues),
		result.ScannedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", result.Path, err)
	}
	return nil
}

// ListFlagged returns every catalog entry with at least one issue,
// ordered by path.
func (s *Store) ListFlagged(ctx context.Context) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, video_codec, audio_codec, resolution, bitrate_kbps,
                size_bytes, mod_time, issues, scanned_at
           FROM audit_results WHERE issues != '' ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list flagged: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flagged row: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (Result, error) {
	var result Result
	var modTime, issues, scannedAt string
	if err := row.Scan(
		&result.Path,
		&result.VideoCodec,
		&result.AudioCodec,
		&result.Resolution,
		&result.BitrateKbps,
		&result.SizeBytes,
		&modTime,
		&issues,
		&scannedAt,
	); err != nil {
		return Result{}, err
	}
	if parsed, err := time.Parse(time.RFC3339, modTime); err == nil {
		result.ModTime = parsed
	}
	if parsed, err := time.Parse(time.RFC3339Nano, scannedAt); err == nil {
		result.ScannedAt = parsed
	}
	result.Issues = splitIssues(issues)
	return result, nil
}

func joinIssues(issues []Issue) string {
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		parts = append(parts, string(issue))
	}
	return strings.Join(parts, ",")
}

func splitIssues(value string) []Issue {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	issues := make([]Issue, 0, len(parts))
	for _, part := range parts {
		issues = append(issues, Issue(part))
	}
	return issues
}
