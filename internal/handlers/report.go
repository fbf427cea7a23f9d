// internal/handlers/report.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cacho-medina/luxbuy-back/internal/services"
	"github.com/cacho-medina/luxbuy-back/internal/utils"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GET /reports/products/most-bought
// Query: start, end (YYYY-MM-DD), limit, format (json|png).
func (h *ReportHandler) MostBoughtProducts(c *gin.Context) {
	filters, err := parseReportFilters(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid date filter, expected YYYY-MM-DD", nil)
		return
	}

	entries, err := h.reportService.MostBoughtProducts(filters)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	h.respond(c, "Productos más comprados", entries)
}

// GET /reports/purchases/by-month
func (h *ReportHandler) PurchasesByMonth(c *gin.Context) {
	filters, err := parseReportFilters(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid date filter, expected YYYY-MM-DD", nil)
		return
	}

	entries, err := h.reportService.PurchasesByMonth(filters)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	h.respond(c, "Compras por mes", entries)
}

func (h *ReportHandler) respond(c *gin.Context, title string, entries []services.ReportEntry) {
	if c.DefaultQuery("format", "png") == "json" {
		utils.SuccessResponse(c, gin.H{"report": entries})
		return
	}

	png, err := h.reportService.RenderBarChart(title, entries)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func parseReportFilters(c *gin.Context) (services.ReportFilters, error) {
	var filters services.ReportFilters

	if startStr := c.Query("start"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return filters, err
		}
		filters.Start = &start
	}

	if endStr := c.Query("end"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return filters, err
		}
		// Include the whole end day
		end = end.Add(24*time.Hour - time.Nanosecond)
		filters.End = &end
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filters.Limit = limit
		}
	}

	return filters, nil
}
