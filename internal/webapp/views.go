package webapp

import (
	"fmt"

	"github.com/zdevbro-cpu/las-backoffice/internal/schedule"
	"github.com/zdevbro-cpu/las-backoffice/internal/store"
)

type loginData struct {
	Error string
}

// basePage is shared by every signed-in screen.
type basePage struct {
	Viewer   viewer
	CSRF     string
	Error    string
	Message  string
	Branches []store.Branch
}

type dashboardData struct {
	basePage
	Today       string
	SalesTotal  float64
	OrderCounts []orderCount
}

type orderCount struct {
	Status string
	Count  int
}

type branchesData struct {
	basePage
}

type salesData struct {
	basePage
	Sales         []store.Sale
	From, To      string
	Search        string
	ImportSkipped []string
}

type ordersData struct {
	basePage
	Orders   []store.Order
	Status   string
	Search   string
	Statuses []string
}

type eventsData struct {
	basePage
	Events []store.Event
}

type eventDetailData struct {
	basePage
	Event      store.Event
	Referrals  []store.Referral
	LandingURL string
}

type letterItem struct {
	Signup   store.LetterSignup
	Referrer string
	Due      []letterStep
	Done     bool
}

type letterStep struct {
	Number int
	Title  string
}

type lettersData struct {
	basePage
	Today string
	Items []letterItem
}

type landingData struct {
	Event    store.Event
	Referral store.Referral
}

// scheduleBar is a rendered time bar: offsets are percentages of the
// 09:00-22:00 axis, clamped only at this final rendering step.
type scheduleBar struct {
	LeftPct  float64
	WidthPct float64
}

type scheduleCell struct {
	Date       string
	Start      string
	End        string
	HoursLabel string
	Planned    *scheduleBar
	Actual     *scheduleBar
}

type scheduleRowView struct {
	Employee      schedule.Employee
	EmployeeField string // form value identifying the row
	Cells         [7]scheduleCell
	WeeklyPlanned float64
	WeeklyActual  float64
	Status        string
}

type scheduleData struct {
	basePage
	WeekStart   string
	PrevWeek    string
	NextWeek    string
	Days        [7]string
	Rows        []scheduleRowView
	DailyTotals [7]float64
	SaveErrors  []string
	Dirty       bool
	TimeOptions []string
}

// barFor converts an interval to a clamped on-axis bar, or nil when the
// interval cannot be drawn.
func barFor(start, end string) *scheduleBar {
	left, width, err := schedule.BarSpan(start, end)
	if err != nil || width <= 0 {
		return nil
	}
	right := left + width
	if left < 0 {
		left = 0
	}
	if right > 1 {
		right = 1
	}
	if right <= left {
		return nil
	}
	return &scheduleBar{LeftPct: left * 100, WidthPct: (right - left) * 100}
}

func hoursLabel(e schedule.Entry) string {
	h, ok := e.Hours()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.1f", h)
}

// timeOptions are the half-hour choices offered by the cell editor.
func timeOptions() []string {
	var out []string
	for h := 9; h <= 22; h++ {
		out = append(out, fmt.Sprintf("%02d:00", h))
		if h < 22 {
			out = append(out, fmt.Sprintf("%02d:30", h))
		}
	}
	return out
}

func scheduleEntryFromRow(row store.ScheduleRow, employees map[int64]store.Employee) schedule.Entry {
	emp := schedule.Employee{ID: row.EmployeeID, BranchID: row.BranchID}
	if e, ok := employees[row.EmployeeID]; ok {
		emp.Name = e.Name
	}
	return schedule.Entry{
		Employee: emp,
		Date:     row.WorkDate,
		Start:    row.StartTime,
		End:      row.EndTime,
	}
}

func diaryEntryFromRow(row store.DiaryRow, employees map[int64]store.Employee) schedule.DiaryEntry {
	emp := schedule.Employee{ID: row.EmployeeID, BranchID: row.BranchID}
	if e, ok := employees[row.EmployeeID]; ok {
		emp.Name = e.Name
	}
	return schedule.DiaryEntry{
		Entry: schedule.Entry{
			Employee: emp,
			Date:     row.WorkDate,
			Start:    row.StartTime,
			End:      row.EndTime,
		},
		ChecklistDone: row.ChecklistDone,
		Note:          row.Note,
	}
}

func scheduleRowFromEntry(e schedule.Entry, branchID int64) store.ScheduleRow {
	hours, _ := e.Hours()
	return store.ScheduleRow{
		BranchID:   branchID,
		EmployeeID: e.Employee.ID,
		WorkDate:   e.Date,
		StartTime:  e.Start,
		EndTime:    e.End,
		Hours:      hours,
	}
}
