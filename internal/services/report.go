package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/crashph/crash-server/internal/geo"
	"github.com/crashph/crash-server/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// reportColumns is the enriched projection used by every read path.
const reportColumns = `
	r.report_id, r.reporter_id, r.assigned_office_id, r.category, r.description,
	r.status, r.latitude, r.longitude, r.created_at, r.remarks, r.updated_at,
	r.location_city, r.location_barangay, o.office_name, u.first_name, u.last_name
`

const reportJoins = `
	FROM tbl_reports r
	LEFT JOIN tbl_police_offices o ON o.office_id = r.assigned_office_id
	LEFT JOIN tbl_users u ON u.user_id = r.reporter_id
`

// ReportService handles the report lifecycle: creation with geocoding and
// office assignment, restricted updates, listings, routing and deletion.
type ReportService struct {
	db     *pgxpool.Pool
	geo    *geo.Client
	logger *zap.SugaredLogger
}

// NewReportService creates a new report service
func NewReportService(db *pgxpool.Pool, geoClient *geo.Client, logger *zap.SugaredLogger) *ReportService {
	return &ReportService{db: db, geo: geoClient, logger: logger}
}

// Create stores a new incident report. The coordinates are reverse-geocoded
// to city/barangay (failure is non-fatal: the report is created with null
// location names) and the report is assigned to the nearest police office.
func (s *ReportService) Create(ctx context.Context, req *models.ReportCreate) (*models.Report, error) {
	report := &models.Report{
		ID:        uuid.New(),
		Category:  req.Category,
		Status:    models.StatusPending,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		CreatedAt: time.Now(),
	}
	report.Description = req.Description

	if req.Reporter != nil {
		reporterID, err := uuid.Parse(*req.Reporter)
		if err != nil {
			return nil, fmt.Errorf("invalid reporter id: %w", err)
		}
		report.ReporterID = &reporterID
	}

	city, barangay, err := s.geo.ReverseGeocode(ctx, req.Latitude, req.Longitude)
	if err != nil {
		s.logger.Warnw("Reverse geocoding failed, storing report without location names",
			"lat", req.Latitude, "lng", req.Longitude, "error", err)
	} else {
		if city != "" {
			report.LocationCity = &city
		}
		if barangay != "" {
			report.LocationBarangay = &barangay
		}
	}

	officeID, err := s.nearestOffice(ctx, req.Latitude, req.Longitude)
	if err != nil {
		s.logger.Warnw("Office assignment failed, report left unassigned", "error", err)
	} else {
		report.AssignedOfficeID = officeID
	}

	query := `
		INSERT INTO tbl_reports (report_id, reporter_id, assigned_office_id, category,
			description, status, latitude, longitude, created_at, location_city, location_barangay)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = s.db.Exec(ctx, query,
		report.ID, report.ReporterID, report.AssignedOfficeID, report.Category,
		report.Description, report.Status, report.Latitude, report.Longitude,
		report.CreatedAt, report.LocationCity, report.LocationBarangay,
	)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}

	return report, nil
}

// nearestOffice picks the police office closest to the incident by
// great-circle distance. Returns nil when no office exists.
func (s *ReportService) nearestOffice(ctx context.Context, lat, lng float64) (*uuid.UUID, error) {
	rows, err := s.db.Query(ctx, `SELECT office_id, latitude, longitude FROM tbl_police_offices`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offices []models.PoliceOffice
	for rows.Next() {
		var o models.PoliceOffice
		if err := rows.Scan(&o.ID, &o.Latitude, &o.Longitude); err != nil {
			continue
		}
		offices = append(offices, o)
	}

	nearest := nearestOffice(offices, lat, lng)
	if nearest == nil {
		return nil, nil
	}
	return &nearest.ID, nil
}

// nearestOffice returns the office with the smallest haversine distance
// to (lat, lng), or nil for an empty slice.
func nearestOffice(offices []models.PoliceOffice, lat, lng float64) *models.PoliceOffice {
	var best *models.PoliceOffice
	bestDist := math.MaxFloat64

	for i := range offices {
		d := haversineKm(lat, lng, offices[i].Latitude, offices[i].Longitude)
		if d < bestDist {
			bestDist = d
			best = &offices[i]
		}
	}
	return best
}

// haversineKm computes the great-circle distance between two points.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0

	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func scanReportView(rows pgx.Rows) (*models.ReportView, error) {
	var (
		v          models.ReportView
		officeName *string
		firstName  *string
		lastName   *string
	)

	err := rows.Scan(&v.ID, &v.ReporterID, &v.AssignedOfficeID, &v.Category, &v.Description,
		&v.Status, &v.Latitude, &v.Longitude, &v.CreatedAt, &v.Remarks, &v.UpdatedAt,
		&v.LocationCity, &v.LocationBarangay, &officeName, &firstName, &lastName)
	if err != nil {
		return nil, err
	}

	v.AssignedOfficeName = "N/A"
	if officeName != nil {
		v.AssignedOfficeName = *officeName
	}

	v.ReporterFullName = "N/A"
	if firstName != nil && lastName != nil {
		v.ReporterFullName = *firstName + " " + *lastName
	}

	v.IncidentAddress = "Address Pending"
	if v.LocationBarangay != nil && v.LocationCity != nil {
		v.IncidentAddress = *v.LocationBarangay + ", " + *v.LocationCity
	}

	return &v, nil
}

func (s *ReportService) queryViews(ctx context.Context, query string, args ...any) ([]models.ReportView, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []models.ReportView{}
	for rows.Next() {
		v, err := scanReportView(rows)
		if err != nil {
			continue
		}
		views = append(views, *v)
	}
	return views, rows.Err()
}

// ListActive returns reports that are neither Resolved nor Canceled,
// newest first, enriched with office and reporter names.
func (s *ReportService) ListActive(ctx context.Context) ([]models.ReportView, error) {
	query := `SELECT` + reportColumns + reportJoins + `
		WHERE r.status NOT IN ($1, $2)
		ORDER BY r.created_at DESC`
	return s.queryViews(ctx, query, models.StatusResolved, models.StatusCanceled)
}

// ListResolved returns Resolved reports ordered by most recent completion.
func (s *ReportService) ListResolved(ctx context.Context) ([]models.ReportView, error) {
	query := `SELECT` + reportColumns + reportJoins + `
		WHERE r.status = $1
		ORDER BY r.updated_at DESC NULLS LAST`
	return s.queryViews(ctx, query, models.StatusResolved)
}

// Get returns one enriched report by id.
func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*models.ReportView, error) {
	query := `SELECT` + reportColumns + reportJoins + `WHERE r.report_id = $1`

	rows, err := s.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrNotFound
	}
	return scanReportView(rows)
}

// Update applies the restricted update path: only status and remarks are
// mutable. A status change is validated against the fixed set, rejected
// when the current status is terminal, and stamps updated_at.
func (s *ReportService) Update(ctx context.Context, id uuid.UUID, upd *models.ReportUpdate) (*models.ReportView, error) {
	var current string
	err := s.db.QueryRow(ctx, `SELECT status FROM tbl_reports WHERE report_id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch report status: %w", err)
	}

	if upd.Status != nil && *upd.Status != current {
		if !models.ValidStatus(*upd.Status) {
			return nil, ErrInvalidStatus
		}
		if models.TerminalStatus(current) {
			return nil, ErrTerminalStatus
		}

		_, err = s.db.Exec(ctx,
			`UPDATE tbl_reports SET status = $1, remarks = COALESCE($2, remarks), updated_at = $3 WHERE report_id = $4`,
			*upd.Status, upd.Remarks, time.Now(), id)
	} else if upd.Remarks != nil {
		_, err = s.db.Exec(ctx,
			`UPDATE tbl_reports SET remarks = $1 WHERE report_id = $2`, upd.Remarks, id)
	}
	if err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}

	return s.Get(ctx, id)
}

// Delete removes a report; messages and media cascade in the database.
func (s *ReportService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tbl_reports WHERE report_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Route returns a maps deep link from the assigned office to the incident
// plus a QR code encoding it.
func (s *ReportService) Route(ctx context.Context, id uuid.UUID) (*models.RouteInfo, error) {
	var (
		officeID             *uuid.UUID
		repLat, repLng       float64
		officeLat, officeLng *float64
	)

	query := `
		SELECT r.assigned_office_id, r.latitude, r.longitude, o.latitude, o.longitude
		FROM tbl_reports r
		LEFT JOIN tbl_police_offices o ON o.office_id = r.assigned_office_id
		WHERE r.report_id = $1
	`
	err := s.db.QueryRow(ctx, query, id).Scan(&officeID, &repLat, &repLng, &officeLat, &officeLng)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch report for routing: %w", err)
	}
	if officeID == nil || officeLat == nil || officeLng == nil {
		return nil, ErrNoOffice
	}

	mapsURL, qr, err := s.geo.DirectionsAndQR(*officeLat, *officeLng, repLat, repLng)
	if err != nil {
		return nil, fmt.Errorf("building route: %w", err)
	}

	return &models.RouteInfo{DirectionsURL: mapsURL, QRCodeBase64: qr}, nil
}

// ResolvedCases returns the filtered resolved-case rows used by the
// resolved listing and its PDF export, most recently completed first.
func (s *ReportService) ResolvedCases(ctx context.Context, f Filters) ([]models.ResolvedCase, error) {
	frag, args := f.SQL(2)
	query := `
		SELECT report_id, category, created_at, updated_at, location_city, location_barangay, remarks
		FROM tbl_reports
		WHERE status = $1 AND updated_at IS NOT NULL` + frag + `
		ORDER BY updated_at DESC`

	rows, err := s.db.Query(ctx, query, append([]any{models.StatusResolved}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cases := []models.ResolvedCase{}
	for rows.Next() {
		var c models.ResolvedCase
		if err := rows.Scan(&c.ReportID, &c.Category, &c.CreatedAt, &c.UpdatedAt,
			&c.LocationCity, &c.LocationBarangay, &c.Remarks); err != nil {
			continue
		}
		c.ResolutionTimeStr = "N/A"
		if c.UpdatedAt != nil {
			c.ResolutionTimeStr = FormatDuration(c.UpdatedAt.Sub(c.CreatedAt))
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// ResolvedCase returns one resolved report with full enrichment for the
// case-file export. Reports in any other status are treated as not found.
func (s *ReportService) ResolvedCase(ctx context.Context, id uuid.UUID) (*models.ReportView, error) {
	view, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.Status != models.StatusResolved {
		return nil, ErrNotFound
	}
	return view, nil
}
