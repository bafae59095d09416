package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crashph/crash-server/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// CheckpointService manages police patrol checkpoints and their active
// time-of-day windows.
type CheckpointService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewCheckpointService creates a new checkpoint service
func NewCheckpointService(db *pgxpool.Pool, logger *zap.SugaredLogger) *CheckpointService {
	return &CheckpointService{db: db, logger: logger}
}

// Create registers a checkpoint under a police office.
func (s *CheckpointService) Create(ctx context.Context, req *models.CheckpointCreate) (*models.Checkpoint, error) {
	officeID, err := uuid.Parse(req.OfficeID)
	if err != nil {
		return nil, fmt.Errorf("invalid office_id: %w", err)
	}

	for _, t := range []*string{req.TimeStart, req.TimeEnd} {
		if t != nil {
			if _, err := parseTimeOfDay(*t); err != nil {
				return nil, err
			}
		}
	}

	cp := &models.Checkpoint{
		ID:               uuid.New(),
		OfficeID:         officeID,
		CheckpointName:   req.CheckpointName,
		ContactNumber:    req.ContactNumber,
		TimeStart:        req.TimeStart,
		TimeEnd:          req.TimeEnd,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		AssignedOfficers: req.AssignedOfficers,
		CreatedAt:        time.Now(),
	}

	query := `
		INSERT INTO tbl_checkpoints (checkpoint_id, office_id, checkpoint_name, contact_number,
			time_start, time_end, latitude, longitude, assigned_officers, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.Exec(ctx, query,
		cp.ID, cp.OfficeID, cp.CheckpointName, cp.ContactNumber,
		cp.TimeStart, cp.TimeEnd, cp.Latitude, cp.Longitude, cp.AssignedOfficers, cp.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert checkpoint: %w", err)
	}

	return cp, nil
}

// List returns all checkpoints with their office names, newest first.
func (s *CheckpointService) List(ctx context.Context) ([]models.Checkpoint, error) {
	query := `
		SELECT c.checkpoint_id, c.office_id, c.checkpoint_name, c.contact_number,
			c.time_start, c.time_end, c.latitude, c.longitude, c.assigned_officers,
			c.created_at, o.office_name
		FROM tbl_checkpoints c
		JOIN tbl_police_offices o ON o.office_id = c.office_id
		ORDER BY c.created_at DESC
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checkpoints := []models.Checkpoint{}
	for rows.Next() {
		var cp models.Checkpoint
		if err := rows.Scan(&cp.ID, &cp.OfficeID, &cp.CheckpointName, &cp.ContactNumber,
			&cp.TimeStart, &cp.TimeEnd, &cp.Latitude, &cp.Longitude, &cp.AssignedOfficers,
			&cp.CreatedAt, &cp.OfficeName); err != nil {
			continue
		}
		checkpoints = append(checkpoints, cp)
	}
	return checkpoints, rows.Err()
}

// Get returns one checkpoint with its office name.
func (s *CheckpointService) Get(ctx context.Context, id uuid.UUID) (*models.Checkpoint, error) {
	query := `
		SELECT c.checkpoint_id, c.office_id, c.checkpoint_name, c.contact_number,
			c.time_start, c.time_end, c.latitude, c.longitude, c.assigned_officers,
			c.created_at, o.office_name
		FROM tbl_checkpoints c
		JOIN tbl_police_offices o ON o.office_id = c.office_id
		WHERE c.checkpoint_id = $1
	`
	var cp models.Checkpoint
	err := s.db.QueryRow(ctx, query, id).Scan(&cp.ID, &cp.OfficeID, &cp.CheckpointName,
		&cp.ContactNumber, &cp.TimeStart, &cp.TimeEnd, &cp.Latitude, &cp.Longitude,
		&cp.AssignedOfficers, &cp.CreatedAt, &cp.OfficeName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch checkpoint: %w", err)
	}
	return &cp, nil
}

// Update modifies a checkpoint's descriptive fields and window. The
// owning office is fixed at creation.
func (s *CheckpointService) Update(ctx context.Context, id uuid.UUID, req *models.CheckpointCreate) (*models.Checkpoint, error) {
	for _, t := range []*string{req.TimeStart, req.TimeEnd} {
		if t != nil {
			if _, err := parseTimeOfDay(*t); err != nil {
				return nil, err
			}
		}
	}

	query := `
		UPDATE tbl_checkpoints
		SET checkpoint_name = $1, contact_number = $2, time_start = $3, time_end = $4,
			latitude = $5, longitude = $6, assigned_officers = $7
		WHERE checkpoint_id = $8
	`
	tag, err := s.db.Exec(ctx, query,
		req.CheckpointName, req.ContactNumber, req.TimeStart, req.TimeEnd,
		req.Latitude, req.Longitude, req.AssignedOfficers, id)
	if err != nil {
		return nil, fmt.Errorf("update checkpoint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// ListActive returns the checkpoints whose active window contains the
// current time of day.
func (s *CheckpointService) ListActive(ctx context.Context) ([]models.Checkpoint, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterActive(all, time.Now()), nil
}

// Delete removes a checkpoint.
func (s *CheckpointService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tbl_checkpoints WHERE checkpoint_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FilterActive returns the checkpoints active at now. Checkpoints missing
// either window bound are never active.
func FilterActive(checkpoints []models.Checkpoint, now time.Time) []models.Checkpoint {
	active := []models.Checkpoint{}
	for _, cp := range checkpoints {
		if cp.TimeStart == nil || cp.TimeEnd == nil {
			continue
		}
		if WindowActive(*cp.TimeStart, *cp.TimeEnd, now) {
			active = append(active, cp)
		}
	}
	return active
}

// WindowActive reports whether now's time of day falls inside the
// [start, end) window. Windows where start > end wrap past midnight:
// 20:00-04:00 is active at 22:00 and at 02:00 but not at 12:00.
func WindowActive(start, end string, now time.Time) bool {
	startMin, err := parseTimeOfDay(start)
	if err != nil {
		return false
	}
	endMin, err := parseTimeOfDay(end)
	if err != nil {
		return false
	}

	nowMin := now.Hour()*60 + now.Minute()

	if startMin < endMin {
		return nowMin >= startMin && nowMin < endMin
	}
	return nowMin >= startMin || nowMin < endMin
}

// parseTimeOfDay converts "HH:MM" into minutes since midnight.
func parseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
