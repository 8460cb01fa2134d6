package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/zac-t-smith/restoration-intel/allocator"
	"github.com/zac-t-smith/restoration-intel/middleware"
	"github.com/zac-t-smith/restoration-intel/service"
)

type PayablesHandler struct {
	payables *service.PayablesService
}

func NewPayablesHandler(payables *service.PayablesService) *PayablesHandler {
	return &PayablesHandler{payables: payables}
}

// parseRecommendQuery reads available_cash and days_forecast, both optional.
func parseRecommendQuery(c *gin.Context) (service.RecommendRequest, string) {
	var req service.RecommendRequest

	if v := c.Query("available_cash"); v != "" {
		cash, err := decimal.NewFromString(v)
		if err != nil {
			return req, "available_cash must be a number"
		}
		req.AvailableCash = &cash
	}
	if v := c.Query("days_forecast"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return req, "days_forecast must be a positive integer"
		}
		req.DaysForecast = days
	}
	return req, ""
}

// Recommendations allocates cash across the tenant's unpaid expenses
func (h *PayablesHandler) Recommendations(c *gin.Context) {
	req, msg := parseRecommendQuery(c)
	if msg != "" {
		badRequest(c, msg)
		return
	}

	report, err := h.payables.Recommend(c.Request.Context(), middleware.GetTenant(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type SimulateObligation struct {
	ID               string           `json:"id"`
	VendorName       string           `json:"vendor_name"`
	VendorID         string           `json:"vendor_id"`
	Amount           *decimal.Decimal `json:"amount"`
	DueDate          string           `json:"due_date"`
	Urgency          string           `json:"urgency"`
	Category         string           `json:"category"`
	IsCriticalVendor bool             `json:"is_critical_vendor"`
}

type SimulateRequest struct {
	AvailableCash *decimal.Decimal     `json:"available_cash" binding:"required"`
	DaysForecast  int                  `json:"days_forecast"`
	Obligations   []SimulateObligation `json:"obligations"`
}

func (o *SimulateObligation) toObligation() (allocator.Obligation, string) {
	if o.Amount == nil {
		return allocator.Obligation{}, "obligation " + strconv.Quote(o.ID) + ": amount is required"
	}
	urgency, err := allocator.ParseUrgency(o.Urgency)
	if err != nil {
		return allocator.Obligation{}, "obligation " + strconv.Quote(o.ID) + ": " + err.Error()
	}

	ob := allocator.Obligation{
		ID:               o.ID,
		VendorName:       o.VendorName,
		VendorID:         o.VendorID,
		Amount:           *o.Amount,
		Urgency:          urgency,
		Category:         o.Category,
		IsCriticalVendor: o.IsCriticalVendor,
	}
	if o.DueDate != "" {
		due, err := time.Parse(dateLayout, o.DueDate)
		if err != nil {
			return allocator.Obligation{}, "obligation " + strconv.Quote(o.ID) + ": due_date must be YYYY-MM-DD"
		}
		ob.DueDate = &due
	}
	return ob, ""
}

// Simulate runs the allocator over caller-supplied obligations. Nothing is
// read from or written to the ledger.
func (h *PayablesHandler) Simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	obligations := make([]allocator.Obligation, 0, len(req.Obligations))
	for i := range req.Obligations {
		ob, msg := req.Obligations[i].toObligation()
		if msg != "" {
			badRequest(c, msg)
			return
		}
		obligations = append(obligations, ob)
	}

	report, err := h.payables.Simulate(c.Request.Context(), *req.AvailableCash, obligations, req.DaysForecast)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
