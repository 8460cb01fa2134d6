// Package allocator decides which unpaid obligations to pay now when cash
// is short.
//
// Obligations are split into three classes, evaluated in order: critical
// (urgency Critical or a critical vendor), past due, and upcoming. Classes
// are funded in that order and, within a class, by earliest due date. An
// obligation is paid in full when the remaining cash covers it, partially
// when it is critical, past due, or upcoming inside the partial window, and
// deferred otherwise. The priority score attached to each decision is for
// display ordering only.
package allocator

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPartialWindowDays is how close an upcoming obligation must be to
// its due date before it may receive a partial payment.
const DefaultPartialWindowDays = 7

var (
	ErrMissingID           = errors.New("obligation has no id")
	ErrDuplicateObligation = errors.New("duplicate obligation id")
)

// Policy holds the tunable thresholds of an allocation pass
type Policy struct {
	PartialWindowDays int
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{PartialWindowDays: DefaultPartialWindowDays}
}

// Allocator is safe for concurrent use; it holds no mutable state.
type Allocator struct {
	policy Policy
}

func New(policy Policy) *Allocator {
	if policy.PartialWindowDays < 0 {
		policy.PartialWindowDays = 0
	}
	return &Allocator{policy: policy}
}

// Policy returns the thresholds the allocator was built with.
func (a *Allocator) Policy() Policy {
	return a.policy
}

type group struct {
	class Class
	items []Obligation
}

// Allocate distributes availableCash across obligations as of the calendar
// day of asOf. Negative cash is treated as zero. Obligations with a
// non-positive amount or without a due date are reported in Result.Skipped
// and excluded from every total. An error is returned only for structurally
// invalid input: a missing or repeated obligation id.
func (a *Allocator) Allocate(asOf time.Time, availableCash decimal.Decimal, obligations []Obligation) (*Result, error) {
	if err := validateIDs(obligations); err != nil {
		return nil, err
	}

	if availableCash.IsNegative() {
		availableCash = decimal.Zero
	}
	today := civilDate(asOf)

	result := &Result{
		Decisions: make([]Decision, 0, len(obligations)),
	}

	groups := []*group{{class: ClassCritical}, {class: ClassPastDue}, {class: ClassUpcoming}}
	totalPending := decimal.Zero

	for _, ob := range obligations {
		if !ob.Amount.IsPositive() {
			result.Skipped = append(result.Skipped, Skip{ObligationID: ob.ID, Reason: SkipNonPositiveAmount})
			continue
		}
		if ob.DueDate == nil {
			result.Skipped = append(result.Skipped, Skip{ObligationID: ob.ID, Reason: SkipMissingDueDate})
			continue
		}
		totalPending = totalPending.Add(ob.Amount)

		g := groups[2]
		switch classify(ob, today) {
		case ClassCritical:
			g = groups[0]
		case ClassPastDue:
			g = groups[1]
		}
		g.items = append(g.items, ob)
	}

	remaining := availableCash
	totalRecommended := decimal.Zero

	for _, g := range groups {
		slices.SortStableFunc(g.items, func(x, y Obligation) int {
			return DueDay(*x.DueDate).Compare(DueDay(*y.DueDate))
		})

		for _, ob := range g.items {
			daysToDue := daysBetween(today, DueDay(*ob.DueDate))
			d := Decision{
				ObligationID:  ob.ID,
				Class:         g.class,
				PaymentAmount: decimal.Zero,
				PriorityScore: priorityScore(g.class, daysToDue, ob.Urgency),
				DaysToDue:     daysToDue,
			}

			switch {
			case remaining.GreaterThanOrEqual(ob.Amount):
				d.Status = StatusFull
				d.PaymentAmount = ob.Amount
				remaining = remaining.Sub(ob.Amount)
			case remaining.IsPositive() && a.partialAllowed(g.class, daysToDue):
				d.Status = StatusPartial
				d.PaymentAmount = remaining
				remaining = decimal.Zero
			default:
				d.Status = StatusDefer
			}

			d.Rationale = rationale(g.class, d.Status, daysToDue)
			totalRecommended = totalRecommended.Add(d.PaymentAmount)
			result.Decisions = append(result.Decisions, d)
		}
	}

	slices.SortStableFunc(result.Decisions, func(x, y Decision) int {
		return cmp.Compare(y.PriorityScore, x.PriorityScore)
	})

	result.Summary = Summary{
		AvailableCash:     availableCash,
		TotalPending:      totalPending,
		TotalRecommended:  totalRecommended,
		RemainingCash:     remaining,
		CashCoverageRatio: coverageRatio(availableCash, totalPending),
	}
	return result, nil
}

func (a *Allocator) partialAllowed(class Class, daysToDue int) bool {
	if class != ClassUpcoming {
		return true
	}
	return daysToDue <= a.policy.PartialWindowDays
}

func validateIDs(obligations []Obligation) error {
	seen := make(map[string]struct{}, len(obligations))
	for i, ob := range obligations {
		if ob.ID == "" {
			return fmt.Errorf("obligation at index %d: %w", i, ErrMissingID)
		}
		if _, dup := seen[ob.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateObligation, ob.ID)
		}
		seen[ob.ID] = struct{}{}
	}
	return nil
}

func classify(ob Obligation, today time.Time) Class {
	if ob.Urgency == UrgencyCritical || ob.IsCriticalVendor {
		return ClassCritical
	}
	if DueDay(*ob.DueDate).Before(today) {
		return ClassPastDue
	}
	return ClassUpcoming
}

func coverageRatio(cash, pending decimal.Decimal) float64 {
	if pending.IsZero() {
		return 1.0
	}
	return cash.Div(pending).InexactFloat64()
}

// civilDate drops the clock and zone, keeping the calendar day as seen in
// the value's own location.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DueDay returns the calendar day of a due date. Due dates are date-only
// values stored as UTC midnight, so the day is read in UTC no matter which
// location the driver scanned the value into.
func DueDay(due time.Time) time.Time {
	return civilDate(due.UTC())
}

// DaysUntil counts calendar days from the local day of asOf to the due day.
func DaysUntil(asOf, due time.Time) int {
	return daysBetween(civilDate(asOf), DueDay(due))
}

// daysBetween counts whole days between two civil dates; it is negative
// when to is earlier.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
