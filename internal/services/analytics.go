package services

import (
	"context"
	"fmt"
	"time"

	"github.com/crashph/crash-server/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// AnalyticsService computes the filtered aggregations behind the
// dashboard and the PDF exports. All queries narrow through Filters.SQL
// so every consumer shares the same semantics.
type AnalyticsService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(db *pgxpool.Pool, logger *zap.SugaredLogger) *AnalyticsService {
	return &AnalyticsService{db: db, logger: logger}
}

// Overview returns the filtered report count and the average resolution
// time over resolved reports that carry a completion timestamp.
func (s *AnalyticsService) Overview(ctx context.Context, f Filters) (*models.Overview, error) {
	frag, args := f.SQL(1)

	var total int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM tbl_reports WHERE TRUE`+frag, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}

	frag, args = f.SQL(2)
	query := `
		SELECT AVG(EXTRACT(EPOCH FROM (updated_at - created_at)))
		FROM tbl_reports
		WHERE status = $1 AND updated_at IS NOT NULL` + frag

	var avgSeconds *float64
	err = s.db.QueryRow(ctx, query, append([]any{models.StatusResolved}, args...)...).Scan(&avgSeconds)
	if err != nil {
		return nil, fmt.Errorf("average resolution time: %w", err)
	}

	avgStr := "N/A"
	if avgSeconds != nil {
		avgStr = FormatDuration(time.Duration(*avgSeconds) * time.Second)
	}

	return &models.Overview{TotalAssigned: total, AverageResolutionTime: avgStr}, nil
}

// totalResolved counts resolved reports matching the filter set.
func (s *AnalyticsService) totalResolved(ctx context.Context, f Filters) (int, error) {
	frag, args := f.SQL(2)
	query := `SELECT COUNT(*) FROM tbl_reports WHERE status = $1` + frag

	var total int
	err := s.db.QueryRow(ctx, query, append([]any{models.StatusResolved}, args...)...).Scan(&total)
	return total, err
}

// TopLocations groups resolved reports by (city, barangay) and returns
// the top 5 by count. When both a city and barangay filter are present
// the result is a single synthetic group with the exact count.
func (s *AnalyticsService) TopLocations(ctx context.Context, f Filters) (int, []models.LocationCount, error) {
	total, err := s.totalResolved(ctx, f)
	if err != nil {
		return 0, nil, fmt.Errorf("count resolved reports: %w", err)
	}

	if f.City != "" && f.Barangay != "" {
		city, barangay := f.City, f.Barangay
		return total, []models.LocationCount{{
			City:          &city,
			Barangay:      &barangay,
			ReportCount:   total,
			ReportPercent: percent(total, total),
		}}, nil
	}

	frag, args := f.SQL(2)
	query := `
		SELECT location_city, location_barangay, COUNT(*) AS report_count
		FROM tbl_reports
		WHERE status = $1` + frag + `
		GROUP BY location_city, location_barangay
		ORDER BY report_count DESC
		LIMIT 5`

	rows, err := s.db.Query(ctx, query, append([]any{models.StatusResolved}, args...)...)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	items := []models.LocationCount{}
	for rows.Next() {
		var item models.LocationCount
		if err := rows.Scan(&item.City, &item.Barangay, &item.ReportCount); err != nil {
			continue
		}
		item.ReportPercent = percent(item.ReportCount, total)
		items = append(items, item)
	}
	return total, items, rows.Err()
}

// CategoryConcentration groups resolved reports by category and returns
// the top 5 by count, or a single synthetic group when a category filter
// is present.
func (s *AnalyticsService) CategoryConcentration(ctx context.Context, f Filters) (int, []models.CategoryCount, error) {
	total, err := s.totalResolved(ctx, f)
	if err != nil {
		return 0, nil, fmt.Errorf("count resolved reports: %w", err)
	}

	if f.Category != "" {
		return total, []models.CategoryCount{{
			Category:      f.Category,
			ReportCount:   total,
			ReportPercent: percent(total, total),
		}}, nil
	}

	frag, args := f.SQL(2)
	query := `
		SELECT category, COUNT(*) AS report_count
		FROM tbl_reports
		WHERE status = $1` + frag + `
		GROUP BY category
		ORDER BY report_count DESC
		LIMIT 5`

	rows, err := s.db.Query(ctx, query, append([]any{models.StatusResolved}, args...)...)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	items := []models.CategoryCount{}
	for rows.Next() {
		var item models.CategoryCount
		if err := rows.Scan(&item.Category, &item.ReportCount); err != nil {
			continue
		}
		item.ReportPercent = percent(item.ReportCount, total)
		items = append(items, item)
	}
	return total, items, rows.Err()
}

// TopLocationSummary returns resolved reports grouped by the full
// (city, barangay, category) triple, top 10 by count. Predates the
// shared filter set: it takes an optional category and an optional
// 30-day cutoff, defaulting to all time, and skips never-geocoded rows.
func (s *AnalyticsService) TopLocationSummary(ctx context.Context, category string, last30Days bool) ([]models.TopLocationCount, error) {
	query := `
		SELECT location_city, location_barangay, category, COUNT(*) AS report_count
		FROM tbl_reports
		WHERE status = $1 AND location_city IS NOT NULL`
	args := []any{models.StatusResolved}

	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(` AND LOWER(category) = LOWER($%d)`, len(args))
	}
	if last30Days {
		args = append(args, time.Now().Add(-30*24*time.Hour))
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}

	query += `
		GROUP BY location_city, location_barangay, category
		ORDER BY report_count DESC
		LIMIT 10`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.TopLocationCount{}
	for rows.Next() {
		var item models.TopLocationCount
		if err := rows.Scan(&item.City, &item.Barangay, &item.Category, &item.ReportCount); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// TotalReports counts every report regardless of filters. Used by the
// analytics export to express the filtered set as a share of all reports.
func (s *AnalyticsService) TotalReports(ctx context.Context) (int, error) {
	var total int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM tbl_reports`).Scan(&total)
	return total, err
}
