package allocator

import "fmt"

func priorityScore(class Class, daysToDue int, urgency Urgency) float64 {
	overdue := 0
	if daysToDue < 0 {
		overdue = -daysToDue
	}

	switch class {
	case ClassCritical:
		return float64(90 + min(10, overdue))
	case ClassPastDue:
		return float64(70 + min(20, overdue/5))
	}

	var base int
	switch {
	case daysToDue <= 7:
		base = 60
	case daysToDue <= 14:
		base = 50
	case daysToDue <= 30:
		base = 40
	default:
		base = 30
	}

	switch urgency {
	case UrgencyHigh:
		base += 10
	case UrgencyLow:
		base -= 10
	}
	return float64(base)
}

func rationale(class Class, status Status, daysToDue int) string {
	switch class {
	case ClassCritical:
		switch status {
		case StatusFull:
			return "Critical vendor or expense marked as critical"
		case StatusPartial:
			return "Critical expense with partial payment due to cash constraints"
		default:
			return "Critical expense deferred due to insufficient funds"
		}
	case ClassPastDue:
		switch status {
		case StatusFull:
			return fmt.Sprintf("Past due by %d days", -daysToDue)
		case StatusPartial:
			return fmt.Sprintf("Past due by %d days with partial payment due to cash constraints", -daysToDue)
		default:
			return "Past due expense deferred due to insufficient funds"
		}
	}

	switch status {
	case StatusFull:
		return fmt.Sprintf("Due in %d days, sufficient funds available", daysToDue)
	case StatusPartial:
		return fmt.Sprintf("Due in %d days, partial payment due to cash constraints", daysToDue)
	default:
		return fmt.Sprintf("Due in %d days, deferred based on timeline analysis", daysToDue)
	}
}
