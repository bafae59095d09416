package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/crashph/crash-server/internal/pdf"
	"github.com/crashph/crash-server/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportHandler renders the PDF exports: the combined analytics report,
// the resolved-cases table and single case files.
type ExportHandler struct {
	analyticsSvc *services.AnalyticsService
	reportSvc    *services.ReportService
	officeSvc    *services.OfficeService
	logger       *zap.SugaredLogger
}

// NewExportHandler creates a new export handler
func NewExportHandler(as *services.AnalyticsService, rs *services.ReportService, os *services.OfficeService, logger *zap.SugaredLogger) *ExportHandler {
	return &ExportHandler{analyticsSvc: as, reportSvc: rs, officeSvc: os, logger: logger}
}

func auditScope(f services.Filters) string {
	if f.Scope == services.ScopeOurOffice {
		return "Our Office"
	}
	return "All Offices"
}

// officeFooter resolves the display name and head officer for the
// filtered office, defaulting to the all-offices footer.
func (h *ExportHandler) officeFooter(ctx context.Context, f services.Filters) (string, string) {
	name, head := "All Offices", "N/A"
	if f.OfficeID == nil {
		return name, head
	}
	office, err := h.officeSvc.Get(ctx, *f.OfficeID)
	if err != nil {
		return name, head
	}
	name = office.OfficeName
	if office.HeadOfficer != nil {
		head = *office.HeadOfficer
	}
	return name, head
}

// Analytics handles GET /api/v1/analytics/export
// Renders overview + top locations + category concentration inline.
func (h *ExportHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	f := services.ParseFilters(r.URL.Query())
	ctx := r.Context()

	overview, err := h.analyticsSvc.Overview(ctx, f)
	if err != nil {
		h.logger.Errorw("Analytics export: overview failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to render analytics export")
		return
	}

	locTotal, locations, err := h.analyticsSvc.TopLocations(ctx, f)
	if err != nil {
		h.logger.Errorw("Analytics export: top locations failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to render analytics export")
		return
	}

	catTotal, categories, err := h.analyticsSvc.CategoryConcentration(ctx, f)
	if err != nil {
		h.logger.Errorw("Analytics export: categories failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to render analytics export")
		return
	}

	allReports, err := h.analyticsSvc.TotalReports(ctx)
	if err != nil {
		h.logger.Errorw("Analytics export: total count failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to render analytics export")
		return
	}
	totalPercent := 0.0
	if allReports > 0 {
		totalPercent = float64(overview.TotalAssigned) / float64(allReports) * 100.0
	}

	categoryName := f.Category
	if categoryName == "" {
		categoryName = "All Categories"
	}
	officeName, headOfficer := h.officeFooter(ctx, f)

	content, err := pdf.AnalyticsReport(pdf.AnalyticsContext{
		TimeframeDays:       f.Days,
		AuditScope:          auditScope(f),
		CategoryFilterName:  categoryName,
		TotalReports:        locTotal,
		TotalReportsPercent: totalPercent,
		AvgResolutionTime:   overview.AverageResolutionTime,
		TopLocations:        locations,
		Categories:          categories,
		CategoryTotal:       catTotal,
		OfficeName:          officeName,
		HeadOfficerName:     headOfficer,
		GeneratedAt:         time.Now(),
	})
	if err != nil {
		h.logger.Errorw("Analytics export: rendering failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to render analytics export")
		return
	}

	respondPDF(w, pdf.AnalyticsFilename(f.Days, f.Scope, f.Category, f.City), content)
}

// Resolved handles GET /api/v1/reports/resolved/export
func (h *ExportHandler) Resolved(w http.ResponseWriter, r *http.Request) {
	f := services.ParseFilters(r.URL.Query())
	ctx := r.Context()

	cases, err := h.reportSvc.ResolvedCases(ctx, f)
	if err != nil {
		h.logger.Errorw("Resolved export: query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to render resolved-cases export")
		return
	}

	officeName, headOfficer := h.officeFooter(ctx, f)

	content, err := pdf.ResolvedCasesTable(pdf.ResolvedContext{
		TimeframeDays:   f.Days,
		AuditScope:      auditScope(f),
		Rows:            cases,
		OfficeName:      officeName,
		HeadOfficerName: headOfficer,
		GeneratedAt:     time.Now(),
	})
	if err != nil {
		h.logger.Errorw("Resolved export: rendering failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to render resolved-cases export")
		return
	}

	respondPDF(w, pdf.ResolvedFilename(f.Days, f.Scope, f.Category, f.City), content)
}

// CaseFile handles GET /api/v1/reports/{reportID}/export
// 404 unless the report exists and is Resolved.
func (h *ExportHandler) CaseFile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "reportID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	view, err := h.reportSvc.ResolvedCase(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Report not found or not resolved")
			return
		}
		h.logger.Errorw("Case-file export: query failed", "report_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to render case file")
		return
	}

	resolutionTime := "N/A"
	if view.UpdatedAt != nil {
		resolutionTime = services.FormatDuration(view.UpdatedAt.Sub(view.CreatedAt))
	}

	content, err := pdf.CaseFile(view, resolutionTime, time.Now())
	if err != nil {
		h.logger.Errorw("Case-file export: rendering failed", "report_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to render case file")
		return
	}

	respondPDF(w, pdf.CaseFileFilename(view.ID.String()), content)
}
