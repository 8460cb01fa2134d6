package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zac-t-smith/restoration-intel/allocator"
	"github.com/zac-t-smith/restoration-intel/model"
	"github.com/zac-t-smith/restoration-intel/pkg/logger"
)

const dateLayout = "2006-01-02"

// RecommendRequest parameterizes a recommendation run. A nil AvailableCash
// means the tenant's latest recorded balance.
type RecommendRequest struct {
	AvailableCash *decimal.Decimal
	DaysForecast  int
}

// Recommendation is one allocation decision joined with the details of the
// obligation it was made for
type Recommendation struct {
	ObligationID       string          `json:"obligation_id"`
	Vendor             string          `json:"vendor"`
	Amount             decimal.Decimal `json:"amount"`
	DueDate            string          `json:"due_date"`
	DaysToDue          int             `json:"days_to_due"`
	Urgency            string          `json:"urgency"`
	Description        string          `json:"description,omitempty"`
	Project            string          `json:"project,omitempty"`
	Category           string          `json:"category"`
	Classification     string          `json:"classification"`
	PaymentStatus      string          `json:"payment_status"`
	PaymentAmount      decimal.Decimal `json:"payment_amount"`
	PaymentTerms       string          `json:"payment_terms,omitempty"`
	VendorRelationship string          `json:"vendor_relationship"`
	PriorityScore      float64         `json:"priority_score"`
	Rationale          string          `json:"rationale"`
}

type ReportSummary struct {
	AvailableCash     decimal.Decimal `json:"available_cash"`
	TotalPending      decimal.Decimal `json:"total_pending"`
	TotalRecommended  decimal.Decimal `json:"total_recommended"`
	RemainingCash     decimal.Decimal `json:"remaining_cash"`
	CashCoverageRatio float64         `json:"cash_coverage_ratio"`
}

type SkippedObligation struct {
	ObligationID string `json:"obligation_id"`
	Reason       string `json:"reason"`
}

// Report is the outcome of a recommendation run, recommendations ordered
// by descending priority score
type Report struct {
	AsOf            string              `json:"as_of"`
	DaysForecast    int                 `json:"days_forecast"`
	Summary         ReportSummary       `json:"summary"`
	Recommendations []Recommendation    `json:"recommendations"`
	Skipped         []SkippedObligation `json:"skipped"`
}

// obligationDetail carries the display-only fields the allocator ignores
type obligationDetail struct {
	Description  string
	Project      string
	PaymentTerms string
}

// PayablesService produces payment recommendations for a tenant
type PayablesService struct {
	ledger              *Ledger
	allocator           *allocator.Allocator
	defaultDaysForecast int
	now                 func() time.Time
}

func NewPayablesService(ledger *Ledger, alloc *allocator.Allocator, defaultDaysForecast int) *PayablesService {
	return &PayablesService{
		ledger:              ledger,
		allocator:           alloc,
		defaultDaysForecast: defaultDaysForecast,
		now:                 time.Now,
	}
}

// Recommend allocates cash across the tenant's unpaid expenses.
func (s *PayablesService) Recommend(ctx context.Context, tenant string, req RecommendRequest) (*Report, error) {
	var cash decimal.Decimal
	if req.AvailableCash != nil {
		cash = *req.AvailableCash
	} else {
		balance, err := s.ledger.LatestCashBalance(ctx, tenant)
		if err != nil {
			return nil, err
		}
		cash = balance.Balance
	}

	expenses, err := s.ledger.ListUnpaid(ctx, tenant)
	if err != nil {
		return nil, err
	}

	obligations := make([]allocator.Obligation, 0, len(expenses))
	details := make(map[string]obligationDetail, len(expenses))
	for i := range expenses {
		ob, detail := s.normalize(ctx, &expenses[i])
		obligations = append(obligations, ob)
		details[ob.ID] = detail
	}

	return s.run(ctx, cash, obligations, details, req.DaysForecast)
}

// Simulate allocates cash across caller-supplied obligations without
// touching the ledger.
func (s *PayablesService) Simulate(ctx context.Context, cash decimal.Decimal, obligations []allocator.Obligation, daysForecast int) (*Report, error) {
	return s.run(ctx, cash, obligations, nil, daysForecast)
}

func (s *PayablesService) run(ctx context.Context, cash decimal.Decimal, obligations []allocator.Obligation, details map[string]obligationDetail, daysForecast int) (*Report, error) {
	if daysForecast <= 0 {
		daysForecast = s.defaultDaysForecast
	}
	now := s.now()

	result, err := s.allocator.Allocate(now, cash, obligations)
	if err != nil {
		return nil, fmt.Errorf("invalid obligations: %w", err)
	}

	byID := make(map[string]*allocator.Obligation, len(obligations))
	for i := range obligations {
		byID[obligations[i].ID] = &obligations[i]
	}

	report := &Report{
		AsOf:         now.Format(dateLayout),
		DaysForecast: daysForecast,
		Summary: ReportSummary{
			AvailableCash:     result.Summary.AvailableCash,
			TotalPending:      result.Summary.TotalPending,
			TotalRecommended:  result.Summary.TotalRecommended,
			RemainingCash:     result.Summary.RemainingCash,
			CashCoverageRatio: result.Summary.CashCoverageRatio,
		},
		Recommendations: make([]Recommendation, 0, len(result.Decisions)),
		Skipped:         make([]SkippedObligation, 0, len(result.Skipped)),
	}

	for _, d := range result.Decisions {
		ob := byID[d.ObligationID]
		detail := details[d.ObligationID]

		relationship := model.RelationshipStandard
		if ob.IsCriticalVendor {
			relationship = model.RelationshipCritical
		}

		report.Recommendations = append(report.Recommendations, Recommendation{
			ObligationID:       d.ObligationID,
			Vendor:             ob.VendorName,
			Amount:             ob.Amount,
			DueDate:            allocator.DueDay(*ob.DueDate).Format(dateLayout),
			DaysToDue:          d.DaysToDue,
			Urgency:            string(ob.Urgency),
			Description:        detail.Description,
			Project:            detail.Project,
			Category:           ob.Category,
			Classification:     string(d.Class),
			PaymentStatus:      string(d.Status),
			PaymentAmount:      d.PaymentAmount,
			PaymentTerms:       detail.PaymentTerms,
			VendorRelationship: relationship,
			PriorityScore:      d.PriorityScore,
			Rationale:          d.Rationale,
		})
	}

	for _, skip := range result.Skipped {
		logger.Warn(ctx, "obligation excluded from allocation",
			"obligation_id", skip.ObligationID,
			"reason", skip.Reason,
		)
		report.Skipped = append(report.Skipped, SkippedObligation{
			ObligationID: skip.ObligationID,
			Reason:       string(skip.Reason),
		})
	}

	logger.Info(ctx, "payment recommendations computed",
		"available_cash", report.Summary.AvailableCash.String(),
		"total_pending", report.Summary.TotalPending.String(),
		"total_recommended", report.Summary.TotalRecommended.String(),
		"decisions", len(report.Recommendations),
		"skipped", len(report.Skipped),
	)
	return report, nil
}

// normalize turns a stored expense into an allocator obligation.
func (s *PayablesService) normalize(ctx context.Context, e *model.Expense) (allocator.Obligation, obligationDetail) {
	urgency, err := allocator.ParseUrgency(e.Urgency)
	if err != nil {
		logger.Warn(ctx, "unknown urgency on expense, treating as Medium",
			"expense_id", e.ID,
			"urgency", e.Urgency,
		)
		urgency = allocator.UrgencyMedium
	}

	ob := allocator.Obligation{
		ID:         strconv.FormatUint(uint64(e.ID), 10),
		VendorName: e.DisplayVendor(),
		Amount:     e.Amount,
		DueDate:    e.DueDate,
		Urgency:    urgency,
		Category:   e.Category,
	}

	detail := obligationDetail{
		Description:  e.Description,
		PaymentTerms: model.DefaultPaymentTerms,
	}
	if e.Vendor != nil {
		ob.VendorID = strconv.FormatUint(uint64(e.Vendor.ID), 10)
		ob.IsCriticalVendor = e.Vendor.IsCritical()
		detail.PaymentTerms = e.Vendor.Terms()
	}
	if e.Project != nil {
		detail.Project = e.Project.Name
	}
	return ob, detail
}

// DueDateBuckets are the labels used by DueDateSummary, in display order.
var DueDateBuckets = []string{"overdue", "due_today", "1-3_days", "4-7_days", "8-14_days", "15-30_days", "30+_days"}

// DueDateSummary totals unpaid amounts by how soon they fall due. Expenses
// without a due date are left out.
func (s *PayablesService) DueDateSummary(ctx context.Context, tenant string) (map[string]decimal.Decimal, error) {
	expenses, err := s.ledger.ListUnpaid(ctx, tenant)
	if err != nil {
		return nil, err
	}

	summary := make(map[string]decimal.Decimal, len(DueDateBuckets))
	for _, label := range DueDateBuckets {
		summary[label] = decimal.Zero
	}

	now := s.now()
	for _, e := range expenses {
		if e.DueDate == nil {
			continue
		}
		label := dueBucket(allocator.DaysUntil(now, *e.DueDate))
		summary[label] = summary[label].Add(e.Amount)
	}
	return summary, nil
}

func dueBucket(days int) string {
	switch {
	case days < 0:
		return "overdue"
	case days == 0:
		return "due_today"
	case days <= 3:
		return "1-3_days"
	case days <= 7:
		return "4-7_days"
	case days <= 14:
		return "8-14_days"
	case days <= 30:
		return "15-30_days"
	default:
		return "30+_days"
	}
}
