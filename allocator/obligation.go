package allocator

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Urgency is the urgency flag carried by an obligation
type Urgency string

const (
	UrgencyCritical Urgency = "Critical"
	UrgencyHigh     Urgency = "High"
	UrgencyMedium   Urgency = "Medium"
	UrgencyLow      Urgency = "Low"
)

// ParseUrgency maps a label to an Urgency, case-insensitively.
// An empty label is Medium.
func ParseUrgency(s string) (Urgency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return UrgencyMedium, nil
	case "critical":
		return UrgencyCritical, nil
	case "high":
		return UrgencyHigh, nil
	case "medium":
		return UrgencyMedium, nil
	case "low":
		return UrgencyLow, nil
	}
	return "", fmt.Errorf("unknown urgency %q", s)
}

// Class is the urgency class an obligation is allocated in
type Class string

const (
	ClassCritical Class = "critical"
	ClassPastDue  Class = "past_due"
	ClassUpcoming Class = "upcoming"
)

// Status is the payment recommendation for one obligation
type Status string

const (
	StatusFull    Status = "Full"
	StatusPartial Status = "Partial"
	StatusDefer   Status = "Defer"
)

// Obligation is an unpaid commitment competing for cash
type Obligation struct {
	ID               string
	VendorName       string
	VendorID         string
	Amount           decimal.Decimal
	DueDate          *time.Time
	Urgency          Urgency
	Category         string
	IsCriticalVendor bool
}

// Decision is the allocation outcome for a single obligation
type Decision struct {
	ObligationID  string
	Class         Class
	Status        Status
	PaymentAmount decimal.Decimal
	PriorityScore float64
	DaysToDue     int
	Rationale     string
}

// Summary aggregates one allocation pass
type Summary struct {
	AvailableCash     decimal.Decimal
	TotalPending      decimal.Decimal
	TotalRecommended  decimal.Decimal
	RemainingCash     decimal.Decimal
	CashCoverageRatio float64
}

// SkipReason explains why an obligation took no part in allocation
type SkipReason string

const (
	SkipMissingDueDate    SkipReason = "missing_due_date"
	SkipNonPositiveAmount SkipReason = "non_positive_amount"
)

// Skip records an obligation excluded from allocation
type Skip struct {
	ObligationID string
	Reason       SkipReason
}

// Result is the full output of Allocate. Decisions are ordered by
// descending priority score.
type Result struct {
	Summary   Summary
	Decisions []Decision
	Skipped   []Skip
}

// Decision returns the decision for the obligation with the given id.
func (r *Result) Decision(id string) (Decision, bool) {
	for _, d := range r.Decisions {
		if d.ObligationID == id {
			return d, true
		}
	}
	return Decision{}, false
}
