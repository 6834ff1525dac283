// Package sqlite provides a SQLite-backed implementation of the analysis
// store port.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/timbre/internal/core/domain"
	"github.com/ewilliams-labs/timbre/internal/core/ports"
)

const defaultRecentLimit = 20

// Store implements the analysis store port for SQLite.
type Store struct {
	db *sql.DB
}

// compile-time interface assertion
var _ ports.AnalysisStore = (*Store)(nil)

// NewStore creates a connection and runs the schema migration.
func NewStore(storagePath string) (*Store, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return store, nil
}

// Close ensures the DB connection is closed gracefully.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts one report per song. Re-analyzing a song overwrites the
// previous row.
func (s *Store) Save(ctx context.Context, report domain.AnalysisReport) error {
	features, err := json.Marshal(report.Features)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}

	var genre sql.NullString
	var confidence sql.NullFloat64
	if report.Classification != nil {
		genre = sql.NullString{String: report.Classification.Genre, Valid: true}
		confidence = sql.NullFloat64{Float64: report.Classification.Confidence, Valid: true}
	}

	query := `
		INSERT INTO analyses (
			song_id, tempo, duration, pitch_class, loudness_db,
			spectral_centroid, zero_crossing_rate, features, genre, confidence, analyzed_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(song_id) DO UPDATE SET
			tempo=excluded.tempo,
			duration=excluded.duration,
			pitch_class=excluded.pitch_class,
			loudness_db=excluded.loudness_db,
			spectral_centroid=excluded.spectral_centroid,
			zero_crossing_rate=excluded.zero_crossing_rate,
			features=excluded.features,
			genre=excluded.genre,
			confidence=excluded.confidence,
			analyzed_at=excluded.analyzed_at;
	`
	fv := report.Features
	if _, err := s.db.ExecContext(
		ctx,
		query,
		report.SongID,
		fv[domain.FeatTempo],
		fv[domain.FeatDuration],
		int(fv[domain.FeatKey]),
		fv[domain.FeatLoudness],
		fv[domain.FeatSpectralCentroid],
		fv[domain.FeatZeroCrossing],
		string(features),
		genre,
		confidence,
		report.AnalyzedAt.UTC(),
	); err != nil {
		return fmt.Errorf("failed to save analysis %s: %w", report.SongID, err)
	}

	return nil
}

// GetBySongID loads a single report, or domain.ErrNotFound when the song was
// never analyzed.
func (s *Store) GetBySongID(ctx context.Context, songID string) (domain.AnalysisReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT song_id, features, genre, confidence, analyzed_at
		FROM analyses
		WHERE song_id = ?
	`, songID)

	report, err := scanReport(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.AnalysisReport{}, domain.ErrNotFound
		}
		return domain.AnalysisReport{}, fmt.Errorf("failed to load analysis: %w", err)
	}
	return report, nil
}

// Recent returns the latest reports, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.AnalysisReport, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT song_id, features, genre, confidence, analyzed_at
		FROM analyses
		ORDER BY analyzed_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent analyses: %w", err)
	}
	defer rows.Close()

	reports := []domain.AnalysisReport{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}

	return reports, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (domain.AnalysisReport, error) {
	var report domain.AnalysisReport
	var featuresJSON string
	var genre sql.NullString
	var confidence sql.NullFloat64
	if err := row.Scan(&report.SongID, &featuresJSON, &genre, &confidence, &report.AnalyzedAt); err != nil {
		return domain.AnalysisReport{}, err
	}
	if err := json.Unmarshal([]byte(featuresJSON), &report.Features); err != nil {
		return domain.AnalysisReport{}, fmt.Errorf("failed to decode features: %w", err)
	}
	if genre.Valid {
		report.Classification = &domain.Classification{
			Genre:      genre.String,
			Confidence: confidence.Float64,
		}
	}
	return report, nil
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS analyses (
		song_id TEXT PRIMARY KEY,
		tempo REAL NOT NULL,
		duration REAL NOT NULL,
		pitch_class INTEGER NOT NULL,
		loudness_db REAL,
		spectral_centroid REAL,
		zero_crossing_rate REAL,
		features TEXT NOT NULL,
		genre TEXT,
		confidence REAL,
		analyzed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_analyzed_at ON analyses(analyzed_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return err
	}

	return nil
}
