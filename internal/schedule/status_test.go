package schedule_test

import (
	"testing"
	"time"

	"github.com/zdevbro-cpu/las-backoffice/internal/schedule"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name                               string
		plannedUntil, plannedFuture, actual float64
		want                               schedule.Status
	}{
		{"no plan at all", 0, 0, 0, schedule.StatusNoPlan},
		{"only future plan", 0, 12, 0, schedule.StatusPlannedLater},
		{"exactly on plan", 8, 0, 8, schedule.StatusOnTrack},
		{"ahead of plan", 8, 4, 10, schedule.StatusOnTrack},
		{"behind plan", 8, 0, 6, schedule.StatusBehind},
		{"no plan but worked anyway", 0, 0, 5, schedule.StatusNoPlan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.Classify(tt.plannedUntil, tt.plannedFuture, tt.actual)
			if got != tt.want {
				t.Errorf("Classify(%v, %v, %v) = %v, want %v",
					tt.plannedUntil, tt.plannedFuture, tt.actual, got, tt.want)
			}
		})
	}
}

func TestClassifyWeekSplitsAroundToday(t *testing.T) {
	week, err := schedule.ParseWeek("2026-02-23")
	if err != nil {
		t.Fatalf("parse week: %v", err)
	}
	today, _ := time.Parse(schedule.DateFormat, "2026-02-25")

	planned := []schedule.Entry{
		{Employee: mika, Date: "2026-02-23", Start: "09:00", End: "17:00"}, // due
		{Employee: mika, Date: "2026-02-27", Start: "09:00", End: "17:00"}, // future
	}
	actual := []schedule.Entry{
		{Employee: mika, Date: "2026-02-23", Start: "09:00", End: "17:00"},
	}

	if got := schedule.ClassifyWeek(planned, actual, mika.Key(), week, today); got != schedule.StatusOnTrack {
		t.Errorf("ClassifyWeek = %v, want on-track", got)
	}

	// Remove the actual interval: the employee is now behind.
	if got := schedule.ClassifyWeek(planned, nil, mika.Key(), week, today); got != schedule.StatusBehind {
		t.Errorf("ClassifyWeek = %v, want behind", got)
	}

	// Only a future plan exists.
	future := []schedule.Entry{
		{Employee: mika, Date: "2026-02-27", Start: "09:00", End: "17:00"},
	}
	if got := schedule.ClassifyWeek(future, nil, mika.Key(), week, today); got != schedule.StatusPlannedLater {
		t.Errorf("ClassifyWeek = %v, want planned-later", got)
	}

	// Entries from another employee never leak into the classification.
	if got := schedule.ClassifyWeek(planned, actual, yuna.Key(), week, today); got != schedule.StatusNoPlan {
		t.Errorf("ClassifyWeek for other employee = %v, want no-plan", got)
	}
}

func TestStatusString(t *testing.T) {
	if schedule.StatusBehind.String() != "behind" || schedule.Status(99).String() != "unknown" {
		t.Errorf("unexpected status strings")
	}
}
