package schedule

import "time"

// Status classifies an employee's compliance within the displayed week.
type Status int

const (
	// StatusNoPlan: no planned hours anywhere in the week.
	StatusNoPlan Status = iota
	// StatusPlannedLater: nothing due yet, but a future plan exists.
	StatusPlannedLater
	// StatusOnTrack: actual hours have kept up with the plan so far.
	StatusOnTrack
	// StatusBehind: actual hours trail the plan.
	StatusBehind
)

func (s Status) String() string {
	switch s {
	case StatusNoPlan:
		return "no-plan"
	case StatusPlannedLater:
		return "planned-later"
	case StatusOnTrack:
		return "on-track"
	case StatusBehind:
		return "behind"
	default:
		return "unknown"
	}
}

// Classify applies the ordered status rule to the three aggregates. Pure
// and deterministic for a fixed "today".
func Classify(plannedUntilToday, plannedFuture, actualUntilToday float64) Status {
	switch {
	case plannedUntilToday == 0 && plannedFuture == 0:
		return StatusNoPlan
	case plannedUntilToday == 0 && plannedFuture > 0:
		return StatusPlannedLater
	case actualUntilToday >= plannedUntilToday:
		return StatusOnTrack
	default:
		return StatusBehind
	}
}

// ClassifyWeek computes the three aggregates for one employee from the
// planned and actual sets and classifies them against today.
func ClassifyWeek(planned []Entry, actual []Entry, employeeKey string, week Week, today time.Time) Status {
	todayStr := today.Format(DateFormat)

	var plannedUntil, plannedFuture, actualUntil float64
	for _, e := range planned {
		if e.Employee.Key() != employeeKey || !week.Contains(e.Date) {
			continue
		}
		h, ok := e.Hours()
		if !ok {
			continue
		}
		if e.Date <= todayStr {
			plannedUntil += h
		} else {
			plannedFuture += h
		}
	}
	for _, e := range actual {
		if e.Employee.Key() != employeeKey || !week.Contains(e.Date) || e.Date > todayStr {
			continue
		}
		if h, ok := e.Hours(); ok {
			actualUntil += h
		}
	}

	return Classify(plannedUntil, plannedFuture, actualUntil)
}
