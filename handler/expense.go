package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/zac-t-smith/restoration-intel/allocator"
	"github.com/zac-t-smith/restoration-intel/middleware"
	"github.com/zac-t-smith/restoration-intel/model"
	"github.com/zac-t-smith/restoration-intel/service"
)

type ExpenseHandler struct {
	ledger   *service.Ledger
	payables *service.PayablesService
}

func NewExpenseHandler(ledger *service.Ledger, payables *service.PayablesService) *ExpenseHandler {
	return &ExpenseHandler{ledger: ledger, payables: payables}
}

// List returns the tenant's unpaid expenses, soonest due first
func (h *ExpenseHandler) List(c *gin.Context) {
	expenses, err := h.ledger.ListUnpaid(c.Request.Context(), middleware.GetTenant(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

type CreateExpenseRequest struct {
	VendorID    *uint            `json:"vendor_id"`
	VendorName  string           `json:"vendor_name"`
	ProjectID   *uint            `json:"project_id"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	DueDate     string           `json:"due_date"`
	Urgency     string           `json:"urgency"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		badRequest(c, "amount must be positive")
		return
	}
	urgency, err := allocator.ParseUrgency(req.Urgency)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	expense := &model.Expense{
		Tenant:      middleware.GetTenant(c),
		VendorID:    req.VendorID,
		VendorName:  req.VendorName,
		ProjectID:   req.ProjectID,
		Amount:      *req.Amount,
		Urgency:     string(urgency),
		Category:    req.Category,
		Description: req.Description,
	}
	if req.DueDate != "" {
		due, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			badRequest(c, "due_date must be YYYY-MM-DD")
			return
		}
		expense.DueDate = &due
	}

	if err := h.ledger.CreateExpense(c.Request.Context(), expense); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// Pay marks the expense paid as of now.
func (h *ExpenseHandler) Pay(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		badRequest(c, "invalid expense id")
		return
	}

	expense, err := h.ledger.MarkPaid(c.Request.Context(), middleware.GetTenant(c), uint(id), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) SummaryByCategory(c *gin.Context) {
	summary, err := h.ledger.SummaryByCategory(c.Request.Context(), middleware.GetTenant(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func (h *ExpenseHandler) SummaryByUrgency(c *gin.Context) {
	summary, err := h.ledger.SummaryByUrgency(c.Request.Context(), middleware.GetTenant(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func (h *ExpenseHandler) SummaryByDueDate(c *gin.Context) {
	summary, err := h.payables.DueDateSummary(c.Request.Context(), middleware.GetTenant(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary, "buckets": service.DueDateBuckets})
}
