// Package pdf renders the exported case documents: the combined
// analytics report, the resolved-cases table and single case files.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/crashph/crash-server/internal/models"
	"github.com/go-pdf/fpdf"
)

// ShortID abbreviates an identifier for table display: the first and
// last five characters joined by an ellipsis.
func ShortID(id string) string {
	return shortID(id, 5, 5)
}

func shortID(id string, start, end int) string {
	if len(id) <= start+end {
		return id
	}
	return id[:start] + "..." + id[len(id)-end:]
}

func filenamePart(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", "_"))
}

func buildFilename(prefix string, days int, scope, category, city string) string {
	parts := []string{fmt.Sprintf("%s_%ddays", prefix, days)}
	if scope == "our_office" {
		parts = append(parts, "our_office")
	} else {
		parts = append(parts, "all_offices")
	}
	if category != "" {
		parts = append(parts, filenamePart(category))
	}
	if city != "" {
		parts = append(parts, filenamePart(city))
	}
	return strings.Join(parts, "_") + ".pdf"
}

// AnalyticsFilename builds the deterministic analytics export filename,
// e.g. "analytics_30days_all_offices_robbery_manila.pdf".
func AnalyticsFilename(days int, scope, category, city string) string {
	return buildFilename("analytics", days, scope, category, city)
}

// ResolvedFilename builds the deterministic resolved-cases export filename.
func ResolvedFilename(days int, scope, category, city string) string {
	return buildFilename("resolved_cases", days, scope, category, city)
}

// CaseFileFilename builds the single case-file export filename.
func CaseFileFilename(reportID string) string {
	return fmt.Sprintf("case_file_%s.pdf", reportID)
}

// AnalyticsContext carries everything the combined analytics report shows.
type AnalyticsContext struct {
	TimeframeDays       int
	AuditScope          string // "All Offices" | "Our Office"
	CategoryFilterName  string
	TotalReports        int
	TotalReportsPercent float64
	AvgResolutionTime   string
	TopLocations        []models.LocationCount
	Categories          []models.CategoryCount
	CategoryTotal       int
	OfficeName          string
	HeadOfficerName     string
	GeneratedAt         time.Time
}

func newDoc(title string) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, false)
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	doc.Ln(4)
	return doc
}

func metaLine(doc *fpdf.Fpdf, label, value string) {
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(55, 6, label, "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func sectionHeader(doc *fpdf.Fpdf, title string) {
	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	doc.Ln(1)
}

func tableHeader(doc *fpdf.Fpdf, widths []float64, headers []string) {
	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(230, 230, 230)
	for i, h := range headers {
		doc.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)
	doc.SetFont("Helvetica", "", 9)
}

func footer(doc *fpdf.Fpdf, officeName, headOfficer string, generatedAt time.Time) {
	doc.Ln(8)
	doc.SetFont("Helvetica", "I", 8)
	doc.CellFormat(0, 5, fmt.Sprintf("Office: %s    Head Officer: %s", officeName, headOfficer), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 5, "Generated: "+generatedAt.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

// AnalyticsReport renders the combined analytics deep-dive document:
// overview, top locations and category concentration.
func AnalyticsReport(ctx AnalyticsContext) ([]byte, error) {
	doc := newDoc("Crime Analytics Report")

	metaLine(doc, "Timeframe:", fmt.Sprintf("Last %d days", ctx.TimeframeDays))
	metaLine(doc, "Scope:", ctx.AuditScope)
	metaLine(doc, "Category:", ctx.CategoryFilterName)

	sectionHeader(doc, "Overview")
	metaLine(doc, "Resolved reports:", fmt.Sprintf("%d (%.1f%% of all reports)", ctx.TotalReports, ctx.TotalReportsPercent))
	metaLine(doc, "Avg. resolution time:", ctx.AvgResolutionTime)

	sectionHeader(doc, "Top Locations")
	widths := []float64{60, 60, 30, 30}
	tableHeader(doc, widths, []string{"City", "Barangay", "Reports", "Share"})
	for _, loc := range ctx.TopLocations {
		doc.CellFormat(widths[0], 6, orNA(loc.City), "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 6, orNA(loc.Barangay), "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[2], 6, fmt.Sprintf("%d", loc.ReportCount), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[3], 6, fmt.Sprintf("%.1f%%", loc.ReportPercent), "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}

	sectionHeader(doc, "Category Concentration")
	widths = []float64{120, 30, 30}
	tableHeader(doc, widths, []string{"Category", "Reports", "Share"})
	for _, cat := range ctx.Categories {
		doc.CellFormat(widths[0], 6, cat.Category, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 6, fmt.Sprintf("%d", cat.ReportCount), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[2], 6, fmt.Sprintf("%.1f%%", cat.ReportPercent), "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}

	footer(doc, ctx.OfficeName, ctx.HeadOfficerName, ctx.GeneratedAt)
	return output(doc)
}

// ResolvedContext carries the resolved-cases table and its footer data.
type ResolvedContext struct {
	TimeframeDays   int
	AuditScope      string
	Rows            []models.ResolvedCase
	OfficeName      string
	HeadOfficerName string
	GeneratedAt     time.Time
}

// ResolvedCasesTable renders the tabular resolved-cases export. Report
// identifiers are shown in shortened form.
func ResolvedCasesTable(ctx ResolvedContext) ([]byte, error) {
	doc := newDoc("Resolved Cases")

	metaLine(doc, "Timeframe:", fmt.Sprintf("Last %d days", ctx.TimeframeDays))
	metaLine(doc, "Scope:", ctx.AuditScope)
	doc.Ln(3)

	widths := []float64{28, 28, 28, 28, 40, 38}
	tableHeader(doc, widths, []string{"Case ID", "Category", "Filed", "Resolved", "Location", "Resolution Time"})
	for _, row := range ctx.Rows {
		resolved := "N/A"
		if row.UpdatedAt != nil {
			resolved = row.UpdatedAt.Format("2006-01-02")
		}
		location := "N/A"
		if row.LocationBarangay != nil && row.LocationCity != nil {
			location = *row.LocationBarangay + ", " + *row.LocationCity
		}

		doc.CellFormat(widths[0], 6, ShortID(row.ReportID.String()), "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 6, row.Category, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[2], 6, row.CreatedAt.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[3], 6, resolved, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[4], 6, location, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[5], 6, row.ResolutionTimeStr, "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}

	footer(doc, ctx.OfficeName, ctx.HeadOfficerName, ctx.GeneratedAt)
	return output(doc)
}

// CaseFile renders the detailed single-case export for a resolved report.
func CaseFile(view *models.ReportView, resolutionTime string, generatedAt time.Time) ([]byte, error) {
	doc := newDoc("Case File")

	metaLine(doc, "Case ID:", view.ID.String())
	metaLine(doc, "Category:", view.Category)
	metaLine(doc, "Status:", view.Status)
	metaLine(doc, "Filed:", view.CreatedAt.Format("2006-01-02 15:04:05"))
	if view.UpdatedAt != nil {
		metaLine(doc, "Resolved:", view.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	metaLine(doc, "Resolution time:", resolutionTime)

	sectionHeader(doc, "Incident")
	metaLine(doc, "Location:", view.IncidentAddress)
	metaLine(doc, "Coordinates:", fmt.Sprintf("%.7f, %.7f", view.Latitude, view.Longitude))
	metaLine(doc, "Description:", orNA(view.Description))
	metaLine(doc, "Remarks:", orNA(view.Remarks))

	sectionHeader(doc, "Parties")
	metaLine(doc, "Reporter:", view.ReporterFullName)
	metaLine(doc, "Assigned office:", view.AssignedOfficeName)
	if view.AssignedOfficeID != nil {
		metaLine(doc, "Office ID:", shortID(view.AssignedOfficeID.String(), 7, 7))
	}

	doc.Ln(8)
	doc.SetFont("Helvetica", "I", 8)
	doc.CellFormat(0, 5, "Generated: "+generatedAt.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")

	return output(doc)
}

func output(doc *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return buf.Bytes(), nil
}
