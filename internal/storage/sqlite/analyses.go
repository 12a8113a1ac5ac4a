package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/skyfpv/propwash/pkg/logger"
)

// Run status values.
const (
	StatusComplete = "complete"
	StatusFailed   = "failed"
	StatusSkipped  = "skipped"
)

// AnalysisRecord is one row of analysis history.
type AnalysisRecord struct {
	ID                 int64     `json:"id"`
	VideoPath          string    `json:"video_path"`
	SidecarPath        string    `json:"sidecar_path"`
	Status             string    `json:"status"`
	FramesAnalyzed     int       `json:"frames_analyzed"`
	DurationSeconds    float64   `json:"duration_seconds"`
	AnalysisSeconds    float64   `json:"analysis_seconds"`
	TagCount           int       `json:"tag_count"`
	HighlightCount     int       `json:"highlight_count"`
	StaticSegmentCount int       `json:"static_segment_count"`
	QualityScore       int       `json:"quality_score"`
	Error              string    `json:"error,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// AnalysisStorage handles storage of analysis history records
type AnalysisStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewAnalysisStorage creates a new SQLite analysis storage
func NewAnalysisStorage(db *sql.DB, log *logger.Logger) *AnalysisStorage {
	storage := &AnalysisStorage{
		db:     db,
		logger: log.Named("sqlite-analyses"),
	}

	if err := storage.initDB(); err != nil {
		storage.logger.Error("Failed to initialize analysis storage", logger.Error(err))
	}

	return storage
}

// initDB initializes the database tables
func (s *AnalysisStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			video_path TEXT NOT NULL,
			sidecar_path TEXT NOT NULL,
			status TEXT NOT NULL,
			frames_analyzed INTEGER NOT NULL DEFAULT 0,
			duration_seconds REAL NOT NULL DEFAULT 0,
			analysis_seconds REAL NOT NULL DEFAULT 0,
			tag_count INTEGER NOT NULL DEFAULT 0,
			highlight_count INTEGER NOT NULL DEFAULT 0,
			static_segment_count INTEGER NOT NULL DEFAULT 0,
			quality_score INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create analyses table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_analyses_video_path ON analyses(video_path)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_status ON analyses(status)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at)`,
	}
	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create analysis index: %w", err)
		}
	}

	return nil
}

// Record stores one analysis run.
func (s *AnalysisStorage) Record(rec *AnalysisRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO analyses
		(video_path, sidecar_path, status, frames_analyzed, duration_seconds, analysis_seconds,
		 tag_count, highlight_count, static_segment_count, quality_score, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.VideoPath,
		rec.SidecarPath,
		rec.Status,
		rec.FramesAnalyzed,
		rec.DurationSeconds,
		rec.AnalysisSeconds,
		rec.TagCount,
		rec.HighlightCount,
		rec.StaticSegmentCount,
		rec.QualityScore,
		rec.Error,
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// Recent returns the most recent runs, newest first.
func (s *AnalysisStorage) Recent(limit int) ([]*AnalysisRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, video_path, sidecar_path, status, frames_analyzed, duration_seconds,
		 analysis_seconds, tag_count, highlight_count, static_segment_count, quality_score,
		 error, created_at
		 FROM analyses ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent analyses: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// LatestForVideo returns the most recent run for a video path, or nil.
func (s *AnalysisStorage) LatestForVideo(videoPath string) (*AnalysisRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, video_path, sidecar_path, status, frames_analyzed, duration_seconds,
		 analysis_seconds, tag_count, highlight_count, static_segment_count, quality_score,
		 error, created_at
		 FROM analyses WHERE video_path = ? ORDER BY id DESC LIMIT 1`,
		videoPath,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses by path: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// CountByStatus returns how many runs ended in the given status.
func (s *AnalysisStorage) CountByStatus(status string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM analyses WHERE status = ?`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return count, nil
}

func scanRecords(rows *sql.Rows) ([]*AnalysisRecord, error) {
	var records []*AnalysisRecord
	for rows.Next() {
		var rec AnalysisRecord
		var createdAt string
		if err := rows.Scan(
			&rec.ID,
			&rec.VideoPath,
			&rec.SidecarPath,
			&rec.Status,
			&rec.FramesAnalyzed,
			&rec.DurationSeconds,
			&rec.AnalysisSeconds,
			&rec.TagCount,
			&rec.HighlightCount,
			&rec.StaticSegmentCount,
			&rec.QualityScore,
			&rec.Error,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis record: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = ts
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
