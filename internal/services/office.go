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
	"golang.org/x/crypto/bcrypt"
)

// ErrAdminNotFound means the created_by admin reference is unknown (404).
var ErrAdminNotFound = errors.New("admin account not found")

const officeColumns = `office_id, office_name, email, head_officer, contact_number, latitude, longitude, created_by, created_at`

// OfficeService manages police office accounts. The password credential
// never leaves this service.
type OfficeService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewOfficeService creates a new police office service
func NewOfficeService(db *pgxpool.Pool, logger *zap.SugaredLogger) *OfficeService {
	return &OfficeService{db: db, logger: logger}
}

// Create registers a police office under the creating admin. The plain
// password is hashed before storage.
func (s *OfficeService) Create(ctx context.Context, req *models.OfficeCreate) (*models.PoliceOffice, error) {
	adminID, err := uuid.Parse(req.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("invalid created_by: %w", err)
	}

	var exists bool
	err = s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tbl_admin WHERE admin_id = $1)`, adminID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}
	if !exists {
		return nil, ErrAdminNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	office := &models.PoliceOffice{
		ID:            uuid.New(),
		OfficeName:    req.OfficeName,
		Email:         req.Email,
		HeadOfficer:   req.HeadOfficer,
		ContactNumber: req.ContactNumber,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		CreatedBy:     &adminID,
		CreatedAt:     time.Now(),
	}

	query := `
		INSERT INTO tbl_police_offices (office_id, office_name, email, password_hash,
			head_officer, contact_number, latitude, longitude, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.Exec(ctx, query,
		office.ID, office.OfficeName, office.Email, string(hash),
		office.HeadOfficer, office.ContactNumber, office.Latitude, office.Longitude,
		office.CreatedBy, office.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert police office: %w", err)
	}

	s.logger.Infow("Police office created", "office_id", office.ID, "name", office.OfficeName)
	return office, nil
}

// List returns all police offices without credentials.
func (s *OfficeService) List(ctx context.Context) ([]models.PoliceOffice, error) {
	rows, err := s.db.Query(ctx, `SELECT `+officeColumns+` FROM tbl_police_offices ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offices := []models.PoliceOffice{}
	for rows.Next() {
		var o models.PoliceOffice
		if err := rows.Scan(&o.ID, &o.OfficeName, &o.Email, &o.HeadOfficer, &o.ContactNumber,
			&o.Latitude, &o.Longitude, &o.CreatedBy, &o.CreatedAt); err != nil {
			continue
		}
		offices = append(offices, o)
	}
	return offices, rows.Err()
}

// Get returns one police office without its credential.
func (s *OfficeService) Get(ctx context.Context, id uuid.UUID) (*models.PoliceOffice, error) {
	var o models.PoliceOffice
	err := s.db.QueryRow(ctx, `SELECT `+officeColumns+` FROM tbl_police_offices WHERE office_id = $1`, id).
		Scan(&o.ID, &o.OfficeName, &o.Email, &o.HeadOfficer, &o.ContactNumber,
			&o.Latitude, &o.Longitude, &o.CreatedBy, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch police office: %w", err)
	}
	return &o, nil
}

// Update modifies the office's descriptive fields. Credentials and
// creation metadata are not touched by this path.
func (s *OfficeService) Update(ctx context.Context, id uuid.UUID, req *models.OfficeCreate) (*models.PoliceOffice, error) {
	query := `
		UPDATE tbl_police_offices
		SET office_name = $1, head_officer = $2, contact_number = $3, latitude = $4, longitude = $5
		WHERE office_id = $6
	`
	tag, err := s.db.Exec(ctx, query,
		req.OfficeName, req.HeadOfficer, req.ContactNumber, req.Latitude, req.Longitude, id)
	if err != nil {
		return nil, fmt.Errorf("update police office: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes an office. Checkpoints cascade; assigned reports keep
// existing with a nulled office reference.
func (s *OfficeService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tbl_police_offices WHERE office_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete police office: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
