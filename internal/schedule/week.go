package schedule

import "time"

// DateFormat is the civil-date form used for grid keys and storage.
const DateFormat = "2006-01-02"

// Week is a Monday-to-Sunday display window.
type Week struct {
	Monday time.Time
}

// WeekOf rolls any reference date back to that week's Monday.
func WeekOf(t time.Time) Week {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	return Week{Monday: monday}
}

// ParseWeek interprets a civil date string and returns its week window.
func ParseWeek(date string) (Week, error) {
	t, err := time.Parse(DateFormat, date)
	if err != nil {
		return Week{}, err
	}
	return WeekOf(t), nil
}

func (w Week) Days() [7]time.Time {
	var days [7]time.Time
	for i := range days {
		days[i] = w.Monday.AddDate(0, 0, i)
	}
	return days
}

func (w Week) DateStrings() [7]string {
	var dates [7]string
	for i, d := range w.Days() {
		dates[i] = d.Format(DateFormat)
	}
	return dates
}

func (w Week) Sunday() time.Time {
	return w.Monday.AddDate(0, 0, 6)
}

func (w Week) Contains(date string) bool {
	for _, d := range w.DateStrings() {
		if d == date {
			return true
		}
	}
	return false
}

// FetchRange is the window to request from storage: the displayed week
// padded one day on each side, tolerating entries written around a
// timezone boundary.
func (w Week) FetchRange() (string, string) {
	from := w.Monday.AddDate(0, 0, -1).Format(DateFormat)
	to := w.Monday.AddDate(0, 0, 7).Format(DateFormat)
	return from, to
}

func (w Week) Prev() Week {
	return Week{Monday: w.Monday.AddDate(0, 0, -7)}
}

func (w Week) Next() Week {
	return Week{Monday: w.Monday.AddDate(0, 0, 7)}
}
