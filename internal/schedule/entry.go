package schedule

import (
	"math"
	"strconv"
)

// Employee identifies one grid row. Persisted employees carry the
// database ID; temporary staff added for a single session carry only a
// local key, and nothing keyed to them is ever flushed to storage.
type Employee struct {
	ID        int64
	LocalKey  string
	Name      string
	BranchID  int64
	Temporary bool
}

// Key is the grid row key. Persisted and temporary employees live in
// separate namespaces so a temporary row can never collide with a real one.
func (e Employee) Key() string {
	if e.Temporary {
		return "tmp:" + e.LocalKey
	}
	return "emp:" + strconv.FormatInt(e.ID, 10)
}

// Entry is one employee's planned working interval on one calendar date.
// Either endpoint may be empty while the user is still editing the cell.
type Entry struct {
	Employee Employee
	Date     string
	Start    string
	End      string
}

// DiaryEntry is the actual worked interval logged after the fact. It is
// read-only in this module; the reflection fields ride along for display.
type DiaryEntry struct {
	Entry
	ChecklistDone bool
	Note          string
}

// Hours derives the interval length in hours, rounded to one decimal at
// derivation time. It reports false when either endpoint is missing,
// unparseable, or the interval is not a forward same-day span. Aggregates
// are computed from these pre-rounded values, so rounding error can
// compound across days; downstream totals depend on that behavior.
func (e Entry) Hours() (float64, bool) {
	if e.Start == "" || e.End == "" {
		return 0, false
	}
	start, err := MinutesOfDay(e.Start)
	if err != nil {
		return 0, false
	}
	end, err := MinutesOfDay(e.End)
	if err != nil {
		return 0, false
	}
	if end <= start {
		// Overnight spans (end before start) are not supported.
		return 0, false
	}
	raw := float64(end-start) / 60.0
	return math.Round(raw*10) / 10, true
}

// Complete reports whether the entry is a persistable interval.
func (e Entry) Complete() bool {
	h, ok := e.Hours()
	return ok && h > 0
}
