package pdf

import (
	"testing"
	"time"

	"github.com/crashph/crash-server/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortID(t *testing.T) {
	assert.Equal(t, "a1b2c...4e5f6", ShortID("a1b2c3d4-e5f6-7890-a1b2-c3d44e5f6"))
	assert.Equal(t, "short", ShortID("short"))
	assert.Equal(t, "exactlyten", ShortID("exactlyten"))
	assert.Equal(t, "exact...ven11", ShortID("exactlyeleven11"))
}

func TestFilenames(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			"analytics all offices no filters",
			AnalyticsFilename(30, "all", "", ""),
			"analytics_30days_all_offices.pdf",
		},
		{
			"analytics our office with category",
			AnalyticsFilename(7, "our_office", "Robbery", ""),
			"analytics_7days_our_office_robbery.pdf",
		},
		{
			"analytics with category and city",
			AnalyticsFilename(90, "all", "Theft", "Quezon City"),
			"analytics_90days_all_offices_theft_quezon_city.pdf",
		},
		{
			"resolved cases",
			ResolvedFilename(30, "all", "", "Manila"),
			"resolved_cases_30days_all_offices_manila.pdf",
		},
		{
			"case file",
			CaseFileFilename("abc-123"),
			"case_file_abc-123.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func strptr(s string) *string { return &s }

func TestAnalyticsReport(t *testing.T) {
	city, barangay := "Manila", "Tondo"

	content, err := AnalyticsReport(AnalyticsContext{
		TimeframeDays:       30,
		AuditScope:          "All Offices",
		CategoryFilterName:  "All Categories",
		TotalReports:        42,
		TotalReportsPercent: 84.0,
		AvgResolutionTime:   "2d 03:45:30",
		TopLocations: []models.LocationCount{
			{City: &city, Barangay: &barangay, ReportCount: 20, ReportPercent: 47.6},
			{City: &city, Barangay: nil, ReportCount: 10, ReportPercent: 23.8},
		},
		Categories: []models.CategoryCount{
			{Category: "Robbery", ReportCount: 25, ReportPercent: 59.5},
		},
		CategoryTotal:   42,
		OfficeName:      "Manila HQ",
		HeadOfficerName: "Cpt. Reyes",
		GeneratedAt:     time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, len(content) > 0)
	assert.Equal(t, "%PDF-", string(content[:5]))
}

func TestResolvedCasesTable(t *testing.T) {
	resolved := time.Date(2026, 8, 20, 16, 30, 0, 0, time.UTC)

	content, err := ResolvedCasesTable(ResolvedContext{
		TimeframeDays: 30,
		AuditScope:    "Our Office",
		Rows: []models.ResolvedCase{
			{
				ReportID:          uuid.New(),
				Category:          "Robbery",
				CreatedAt:         resolved.Add(-51 * time.Hour),
				UpdatedAt:         &resolved,
				LocationCity:      strptr("Manila"),
				LocationBarangay:  strptr("Tondo"),
				ResolutionTimeStr: "2d 03:00:00",
			},
			{
				ReportID:          uuid.New(),
				Category:          "Theft",
				CreatedAt:         resolved,
				ResolutionTimeStr: "N/A",
			},
		},
		OfficeName:      "Manila HQ",
		HeadOfficerName: "Cpt. Reyes",
		GeneratedAt:     time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(content[:5]))
}

func TestCaseFile(t *testing.T) {
	filed := time.Date(2026, 8, 18, 9, 0, 0, 0, time.UTC)
	resolved := filed.Add(51*time.Hour + 45*time.Minute)
	officeID := uuid.New()

	view := &models.ReportView{
		Report: models.Report{
			ID:               uuid.New(),
			AssignedOfficeID: &officeID,
			Category:         "Robbery",
			Description:      strptr("Snatching incident near the market"),
			Status:           models.StatusResolved,
			Latitude:         14.6170,
			Longitude:        120.9670,
			CreatedAt:        filed,
			UpdatedAt:        &resolved,
			Remarks:          strptr("Suspect apprehended"),
		},
		AssignedOfficeName: "Manila HQ",
		ReporterFullName:   "Juan dela Cruz",
		IncidentAddress:    "Tondo, Manila",
	}

	content, err := CaseFile(view, "2d 03:45:00", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(content[:5]))
}
