package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/model"
)

const analysisColumns = `file_path, file_name, file_size, file_type, mime_type,
	content_type, content_summary, suggested_name, suggested_category,
	normalized_category, suggested_tags, confidence, reasoning, file_hash, modified_at`

// SaveAnalysis upserts one analysis keyed by file path.
func (s *SQLiteStorage) SaveAnalysis(ctx context.Context, analysis *model.Analysis) error {
	if analysis == nil {
		return fmt.Errorf("analysis must not be nil")
	}

	tags, err := json.Marshal(analysis.Suggestion.SuggestedTags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO file_analyses (`+analysisColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			file_name = excluded.file_name,
			file_size = excluded.file_size,
			file_type = excluded.file_type,
			mime_type = excluded.mime_type,
			content_type = excluded.content_type,
			content_summary = excluded.content_summary,
			suggested_name = excluded.suggested_name,
			suggested_category = excluded.suggested_category,
			normalized_category = excluded.normalized_category,
			suggested_tags = excluded.suggested_tags,
			confidence = excluded.confidence,
			reasoning = excluded.reasoning,
			file_hash = excluded.file_hash,
			modified_at = excluded.modified_at,
			analyzed_at = CURRENT_TIMESTAMP`,
		analysis.File.Path,
		analysis.File.Filename,
		analysis.File.Size,
		analysis.File.FileType,
		analysis.File.MimeType,
		string(analysis.File.ContentType),
		analysis.File.ContentSummary,
		analysis.Suggestion.SuggestedName,
		analysis.Suggestion.SuggestedCategory,
		analysis.Suggestion.NormalizedCategory,
		string(tags),
		analysis.Suggestion.Confidence,
		analysis.Suggestion.Reasoning,
		analysis.File.Hash,
		analysis.File.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// SaveAnalyses upserts a batch of analyses in one transaction.
func (s *SQLiteStorage) SaveAnalyses(ctx context.Context, analyses []model.Analysis) error {
	if len(analyses) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range analyses {
		a := &analyses[i]
		tags, tagErr := json.Marshal(a.Suggestion.SuggestedTags)
		if tagErr != nil {
			return fmt.Errorf("failed to encode tags for %s: %w", a.File.Path, tagErr)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO file_analyses (`+analysisColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(file_path) DO UPDATE SET
				file_name = excluded.file_name,
				file_size = excluded.file_size,
				file_type = excluded.file_type,
				mime_type = excluded.mime_type,
				content_type = excluded.content_type,
				content_summary = excluded.content_summary,
				suggested_name = excluded.suggested_name,
				suggested_category = excluded.suggested_category,
				normalized_category = excluded.normalized_category,
				suggested_tags = excluded.suggested_tags,
				confidence = excluded.confidence,
				reasoning = excluded.reasoning,
				file_hash = excluded.file_hash,
				modified_at = excluded.modified_at,
				analyzed_at = CURRENT_TIMESTAMP`,
			a.File.Path, a.File.Filename, a.File.Size, a.File.FileType, a.File.MimeType,
			string(a.File.ContentType), a.File.ContentSummary,
			a.Suggestion.SuggestedName, a.Suggestion.SuggestedCategory,
			a.Suggestion.NormalizedCategory, string(tags),
			a.Suggestion.Confidence, a.Suggestion.Reasoning,
			a.File.Hash, a.File.ModifiedAt,
		); err != nil {
			return fmt.Errorf("failed to save analysis for %s: %w", a.File.Path, err)
		}
	}

	return tx.Commit()
}

// GetAnalysisByPath returns the stored analysis for a file path.
func (s *SQLiteStorage) GetAnalysisByPath(ctx context.Context, path string) (*model.Analysis, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+analysisColumns+` FROM file_analyses WHERE file_path = ?`, path)
	return scanAnalysis(row)
}

// FindAnalysisByHash returns the first stored analysis with a matching
// content hash. Used for duplicate detection.
func (s *SQLiteStorage) FindAnalysisByHash(ctx context.Context, hash string) (*model.Analysis, error) {
	if hash == "" {
		return nil, common.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+analysisColumns+` FROM file_analyses WHERE file_hash = ? LIMIT 1`, hash)
	return scanAnalysis(row)
}

// GetAnalysesByCategory returns stored analyses in a normalized
// category, most recent first.
func (s *SQLiteStorage) GetAnalysesByCategory(ctx context.Context, category string) ([]model.Analysis, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+analysisColumns+` FROM file_analyses
		WHERE normalized_category = ? ORDER BY analyzed_at DESC`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanAnalyses(rows)
}

// GetRecentAnalyses returns the most recently analyzed files.
func (s *SQLiteStorage) GetRecentAnalyses(ctx context.Context, limit int) ([]model.Analysis, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+analysisColumns+` FROM file_analyses
		ORDER BY analyzed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanAnalyses(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*model.Analysis, error) {
	var a model.Analysis
	var contentType, tags string
	var modifiedAt sql.NullTime
	var hash sql.NullString

	err := row.Scan(
		&a.File.Path, &a.File.Filename, &a.File.Size, &a.File.FileType, &a.File.MimeType,
		&contentType, &a.File.ContentSummary,
		&a.Suggestion.SuggestedName, &a.Suggestion.SuggestedCategory,
		&a.Suggestion.NormalizedCategory, &tags,
		&a.Suggestion.Confidence, &a.Suggestion.Reasoning,
		&hash, &modifiedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan analysis: %w", err)
	}

	a.File.ContentType = model.ContentType(contentType)
	a.File.Hash = hash.String
	if modifiedAt.Valid {
		a.File.ModifiedAt = modifiedAt.Time
	}
	if err := json.Unmarshal([]byte(tags), &a.Suggestion.SuggestedTags); err != nil {
		a.Suggestion.SuggestedTags = []string{}
	}

	return &a, nil
}

func scanAnalyses(rows *sql.Rows) ([]model.Analysis, error) {
	var analyses []model.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, *a)
	}
	return analyses, rows.Err()
}
