package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/crashph/crash-server/internal/models"
	"github.com/crashph/crash-server/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// MediaService handles evidence uploads. Files go to object storage;
// only the public URL is persisted on the media row.
type MediaService struct {
	db     *pgxpool.Pool
	store  *storage.Client
	logger *zap.SugaredLogger
}

// NewMediaService creates a new media service
func NewMediaService(db *pgxpool.Pool, store *storage.Client, logger *zap.SugaredLogger) *MediaService {
	return &MediaService{db: db, store: store, logger: logger}
}

// UploadError wraps a storage failure so handlers can surface it as a
// validation error naming the underlying cause.
type UploadError struct{ Err error }

func (e *UploadError) Error() string { return fmt.Sprintf("media upload failed: %v", e.Err) }
func (e *UploadError) Unwrap() error { return e.Err }

// Upload stores the file and records the media row. fileType must be
// "image" or "video".
func (s *MediaService) Upload(ctx context.Context, reportID, senderID uuid.UUID, fileType, filename, contentType string, content []byte) (*models.Media, error) {
	if fileType != "image" && fileType != "video" {
		return nil, fmt.Errorf("invalid file_type %q", fileType)
	}

	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tbl_reports WHERE report_id = $1)`, reportID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("lookup report: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	if s.store == nil {
		return nil, &UploadError{Err: fmt.Errorf("object storage is not configured")}
	}

	media := &models.Media{
		ID:         uuid.New(),
		ReportID:   reportID,
		FileType:   fileType,
		SenderID:   senderID,
		UploadedAt: time.Now(),
	}

	objectPath := fmt.Sprintf("reports/%s/%s%s", reportID, media.ID, path.Ext(filename))
	url, err := s.store.Upload(ctx, objectPath, contentType, content)
	if err != nil {
		return nil, &UploadError{Err: err}
	}
	media.FileURL = url

	query := `
		INSERT INTO tbl_media (media_id, report_id, file_url, file_type, sender_id, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.Exec(ctx, query,
		media.ID, media.ReportID, media.FileURL, media.FileType, media.SenderID, media.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("insert media: %w", err)
	}

	return media, nil
}

// List returns media rows, optionally restricted to one report, newest
// upload first.
func (s *MediaService) List(ctx context.Context, reportID *uuid.UUID) ([]models.Media, error) {
	query := `
		SELECT media_id, report_id, file_url, file_type, sender_id, uploaded_at
		FROM tbl_media
	`
	args := []any{}
	if reportID != nil {
		query += ` WHERE report_id = $1`
		args = append(args, *reportID)
	}
	query += ` ORDER BY uploaded_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := []models.Media{}
	for rows.Next() {
		var m models.Media
		if err := rows.Scan(&m.ID, &m.ReportID, &m.FileURL, &m.FileType, &m.SenderID, &m.UploadedAt); err != nil {
			continue
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

// Get returns one media row by id.
func (s *MediaService) Get(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var m models.Media
	err := s.db.QueryRow(ctx,
		`SELECT media_id, report_id, file_url, file_type, sender_id, uploaded_at
		 FROM tbl_media WHERE media_id = $1`, id).
		Scan(&m.ID, &m.ReportID, &m.FileURL, &m.FileType, &m.SenderID, &m.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch media: %w", err)
	}
	return &m, nil
}

// Delete removes a media row. The stored object is left in place.
func (s *MediaService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tbl_media WHERE media_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
