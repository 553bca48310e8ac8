package schedule

// SumHours totals the derived hours over a set of entries. Incomplete
// intervals contribute zero.
func SumHours(entries []Entry) float64 {
	var total float64
	for _, e := range entries {
		if h, ok := e.Hours(); ok {
			total += h
		}
	}
	return total
}

// DailyTotal sums hours over all entries on one date, across employees.
func DailyTotal(entries []Entry, date string) float64 {
	var total float64
	for _, e := range entries {
		if e.Date != date {
			continue
		}
		if h, ok := e.Hours(); ok {
			total += h
		}
	}
	return total
}

// WeeklyTotal sums one employee's hours across the seven dates of a week.
func WeeklyTotal(entries []Entry, employeeKey string, week Week) float64 {
	var total float64
	for _, e := range entries {
		if e.Employee.Key() != employeeKey || !week.Contains(e.Date) {
			continue
		}
		if h, ok := e.Hours(); ok {
			total += h
		}
	}
	return total
}

// DiaryEntries strips diary records down to their interval component so
// the same aggregation paths serve planned and actual sets.
func DiaryEntries(diaries []DiaryEntry) []Entry {
	entries := make([]Entry, 0, len(diaries))
	for _, d := range diaries {
		entries = append(entries, d.Entry)
	}
	return entries
}
