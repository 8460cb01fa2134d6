package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/zac-t-smith/restoration-intel/middleware"
	"github.com/zac-t-smith/restoration-intel/model"
	"github.com/zac-t-smith/restoration-intel/service"
)

type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RequireArchive answers 503 for every report route when no archive is
// configured.
func (h *ReportHandler) RequireArchive() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.reports.Enabled() {
			respondError(c, service.ErrArchiveDisabled)
			c.Abort()
			return
		}
		c.Next()
	}
}

type ExportRequest struct {
	AvailableCash *decimal.Decimal `json:"available_cash"`
	DaysForecast  int              `json:"days_forecast"`
}

// Export archives a fresh recommendation report. The body is optional.
func (h *ReportHandler) Export(c *gin.Context) {
	var req ExportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request: "+err.Error())
			return
		}
	}
	if req.DaysForecast < 0 {
		badRequest(c, "days_forecast must be a positive integer")
		return
	}

	record, err := h.reports.Export(c.Request.Context(), middleware.GetTenant(c), middleware.GetUsername(c), service.RecommendRequest{
		AvailableCash: req.AvailableCash,
		DaysForecast:  req.DaysForecast,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reportView(record))
}

func reportView(r *model.ReportRecord) gin.H {
	return gin.H{
		"id":                r.ID,
		"url":               r.URL,
		"available_cash":    r.AvailableCash,
		"total_pending":     r.TotalPending,
		"total_recommended": r.TotalRecommended,
		"recommendations":   r.Recommendations,
		"days_forecast":     r.DaysForecast,
		"created_by":        r.CreatedBy,
		"created_at":        r.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ReportHandler) List(c *gin.Context) {
	records := h.reports.List(middleware.GetTenant(c))

	result := make([]gin.H, len(records))
	for i, r := range records {
		result[i] = reportView(r)
	}
	c.JSON(http.StatusOK, gin.H{"reports": result})
}

func (h *ReportHandler) Get(c *gin.Context) {
	record, err := h.reports.Get(middleware.GetTenant(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reportView(record))
}

func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.reports.Delete(c.Request.Context(), middleware.GetTenant(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted"})
}
