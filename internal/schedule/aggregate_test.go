package schedule_test

import (
	"math"
	"testing"

	"github.com/zdevbro-cpu/las-backoffice/internal/schedule"
)

var (
	mika = schedule.Employee{ID: 1, Name: "Mika"}
	yuna = schedule.Employee{ID: 2, Name: "Yuna"}
)

func weekEntries(t *testing.T) ([]schedule.Entry, schedule.Week) {
	t.Helper()
	week, err := schedule.ParseWeek("2026-02-23")
	if err != nil {
		t.Fatalf("parse week: %v", err)
	}
	entries := []schedule.Entry{
		{Employee: mika, Date: "2026-02-23", Start: "09:00", End: "17:00"},
		{Employee: mika, Date: "2026-02-24", Start: "09:00", End: "09:50"},
		{Employee: mika, Date: "2026-02-26", Start: "13:00", End: "22:00"},
		{Employee: yuna, Date: "2026-02-23", Start: "10:00", End: "14:30"},
		{Employee: yuna, Date: "2026-02-27", Start: "12:00"}, // incomplete, counts as zero
	}
	return entries, week
}

func TestSumHoursSkipsIncomplete(t *testing.T) {
	entries, _ := weekEntries(t)
	got := schedule.SumHours(entries)
	want := 8.0 + 0.8 + 9.0 + 4.5
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("SumHours = %v, want %v", got, want)
	}
}

func TestDailyTotalAcrossEmployees(t *testing.T) {
	entries, _ := weekEntries(t)
	got := schedule.DailyTotal(entries, "2026-02-23")
	if math.Abs(got-12.5) > 1e-9 {
		t.Errorf("DailyTotal = %v, want 12.5", got)
	}
	if got := schedule.DailyTotal(entries, "2026-02-25"); got != 0 {
		t.Errorf("DailyTotal on an empty day = %v, want 0", got)
	}
}

func TestWeeklyTotalEqualsSumOfDailyTotals(t *testing.T) {
	entries, week := weekEntries(t)

	var mikaOnly []schedule.Entry
	for _, e := range entries {
		if e.Employee.Key() == mika.Key() {
			mikaOnly = append(mikaOnly, e)
		}
	}

	var daily float64
	for _, date := range week.DateStrings() {
		daily += schedule.DailyTotal(mikaOnly, date)
	}
	weekly := schedule.WeeklyTotal(entries, mika.Key(), week)
	if math.Abs(weekly-daily) > 1e-9 {
		t.Errorf("WeeklyTotal = %v, sum of DailyTotal = %v", weekly, daily)
	}
}

func TestWeeklyTotalIgnoresOtherWeeks(t *testing.T) {
	entries, week := weekEntries(t)
	entries = append(entries, schedule.Entry{
		Employee: mika, Date: "2026-03-04", Start: "09:00", End: "17:00",
	})
	got := schedule.WeeklyTotal(entries, mika.Key(), week)
	want := 8.0 + 0.8 + 9.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("WeeklyTotal = %v, want %v", got, want)
	}
}

func TestDiaryEntriesAggregateLikePlanned(t *testing.T) {
	diaries := []schedule.DiaryEntry{
		{Entry: schedule.Entry{Employee: mika, Date: "2026-02-23", Start: "09:00", End: "13:30"}, ChecklistDone: true},
		{Entry: schedule.Entry{Employee: mika, Date: "2026-02-24", Start: "10:00", End: "12:00"}, Note: "stock count"},
	}
	got := schedule.SumHours(schedule.DiaryEntries(diaries))
	if math.Abs(got-6.5) > 1e-9 {
		t.Errorf("SumHours over diaries = %v, want 6.5", got)
	}
}
