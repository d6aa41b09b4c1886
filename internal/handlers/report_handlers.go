package handlers

import (
	"context"
	"net/http"
	"path"
	"strconv"
	"time"

	"acmeledger/internal/common"
	"acmeledger/internal/models"
	"acmeledger/internal/services"

	"github.com/labstack/echo/v4"
)

// ReportHandlers serves the PDF report endpoints.
type ReportHandlers struct {
	reportService services.ReportService
	archiver      services.ReportArchiver
	now           func() time.Time
}

// NewReportHandlers creates the report handlers. archiver may be nil, in which
// case the archive endpoints answer 503.
func NewReportHandlers(reportService services.ReportService, archiver services.ReportArchiver) *ReportHandlers {
	return &ReportHandlers{reportService: reportService, archiver: archiver, now: time.Now}
}

type reportFunc func(ctx context.Context, r models.DateRange) (*services.Report, error)

// dateRange reads fromDate/toDate from the query string.
func dateRange(c echo.Context) (models.DateRange, error) {
	return common.ParseDateRange(c.QueryParam("fromDate"), c.QueryParam("toDate"))
}

// archivePrefix places on-demand archives under adhoc/<from>_<to>/<timestamp>,
// with "open" standing in for a missing bound.
func archivePrefix(r models.DateRange, now time.Time) string {
	day := func(t *time.Time) string {
		if t == nil {
			return "open"
		}
		return t.UTC().Format("2006-01-02")
	}
	return path.Join("adhoc", day(r.From)+"_"+day(r.To), now.UTC().Format("20060102T150405.000Z"))
}

// sendPDF writes the finished report. Headers are only set once the bytes exist.
func sendPDF(c echo.Context, report *services.Report) error {
	h := c.Response().Header()
	h.Set(echo.HeaderContentDisposition, "attachment; filename="+report.Filename)
	h.Set(echo.HeaderContentLength, strconv.Itoa(len(report.Content)))
	return c.Blob(http.StatusOK, "application/pdf", report.Content)
}

func (h *ReportHandlers) serve(c echo.Context, fn reportFunc) error {
	r, err := dateRange(c)
	if err != nil {
		return common.SendError(c, err)
	}
	report, err := fn(c.Request().Context(), r)
	if err != nil {
		return common.SendError(c, err)
	}
	return sendPDF(c, report)
}

func (h *ReportHandlers) archive(c echo.Context, fn reportFunc) error {
	if h.archiver == nil {
		return c.JSON(http.StatusServiceUnavailable, common.CreateErrorResponse("SERVICE_UNAVAILABLE", "Report archive is not configured", nil))
	}
	r, err := dateRange(c)
	if err != nil {
		return common.SendError(c, err)
	}
	ctx := c.Request().Context()
	report, err := fn(ctx, r)
	if err != nil {
		return common.SendError(c, err)
	}
	archived, err := h.archiver.Archive(ctx, report, archivePrefix(r, h.now()))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "Report archived successfully",
		"pdf_url":    archived.URL,
		"expires_in": int(archived.ExpiresIn.Seconds()),
	})
}

func (h *ReportHandlers) companyReport(c echo.Context) reportFunc {
	id := c.Param("id")
	return func(ctx context.Context, r models.DateRange) (*services.Report, error) {
		return h.reportService.CompanyReport(ctx, id, r)
	}
}

func (h *ReportHandlers) dashboardReport(c echo.Context) reportFunc {
	id := c.Param("companyId")
	return func(ctx context.Context, r models.DateRange) (*services.Report, error) {
		return h.reportService.DashboardReport(ctx, id, r)
	}
}

func (h *ReportHandlers) inventoryReport(invType models.InventoryType) reportFunc {
	return func(ctx context.Context, r models.DateRange) (*services.Report, error) {
		return h.reportService.InventoryReport(ctx, string(invType), r)
	}
}

func (h *ReportHandlers) CompanyReport(c echo.Context) error {
	return h.serve(c, h.companyReport(c))
}

func (h *ReportHandlers) AllCompaniesReport(c echo.Context) error {
	return h.serve(c, h.reportService.AllCompaniesReport)
}

func (h *ReportHandlers) DashboardReport(c echo.Context) error {
	return h.serve(c, h.dashboardReport(c))
}

func (h *ReportHandlers) FullDashboardReport(c echo.Context) error {
	return h.serve(c, h.reportService.AllDashboardsReport)
}

func (h *ReportHandlers) IncomingReport(c echo.Context) error {
	return h.serve(c, h.inventoryReport(models.InventoryIncoming))
}

func (h *ReportHandlers) OutgoingReport(c echo.Context) error {
	return h.serve(c, h.inventoryReport(models.InventoryOutgoing))
}

func (h *ReportHandlers) ArchiveDashboardReport(c echo.Context) error {
	return h.archive(c, h.dashboardReport(c))
}

func (h *ReportHandlers) ArchiveFullDashboardReport(c echo.Context) error {
	return h.archive(c, h.reportService.AllDashboardsReport)
}
