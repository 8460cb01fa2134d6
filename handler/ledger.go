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

// LedgerHandler covers the reference data behind expenses: vendors,
// projects and cash balance snapshots.
type LedgerHandler struct {
	ledger *service.Ledger
}

func NewLedgerHandler(ledger *service.Ledger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

type CreateVendorRequest struct {
	Name                   string `json:"name" binding:"required"`
	PaymentTerms           string `json:"payment_terms"`
	PreferredPaymentMethod string `json:"preferred_payment_method"`
}

func (h *LedgerHandler) CreateVendor(c *gin.Context) {
	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	vendor := &model.Vendor{
		Tenant:                 middleware.GetTenant(c),
		Name:                   req.Name,
		PaymentTerms:           req.PaymentTerms,
		PreferredPaymentMethod: req.PreferredPaymentMethod,
	}
	if err := h.ledger.CreateVendor(c.Request.Context(), vendor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

type CreateProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *LedgerHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	project := &model.Project{Tenant: middleware.GetTenant(c), Name: req.Name}
	if err := h.ledger.CreateProject(c.Request.Context(), project); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

type RecordCashBalanceRequest struct {
	Balance  *decimal.Decimal `json:"balance" binding:"required"`
	AsOfDate string           `json:"as_of_date"` // defaults to today
}

func (h *LedgerHandler) RecordCashBalance(c *gin.Context) {
	var req RecordCashBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	if req.AsOfDate != "" {
		parsed, err := time.Parse(dateLayout, req.AsOfDate)
		if err != nil {
			badRequest(c, "as_of_date must be YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	balance := &model.CashBalance{
		Tenant:   middleware.GetTenant(c),
		Balance:  *req.Balance,
		AsOfDate: asOf,
	}
	if err := h.ledger.RecordCashBalance(c.Request.Context(), balance); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, balance)
}

func (h *LedgerHandler) LatestCashBalance(c *gin.Context) {
	balance, err := h.ledger.LatestCashBalance(c.Request.Context(), middleware.GetTenant(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}
