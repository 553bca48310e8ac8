package schedule_test

import (
	"testing"
	"time"

	"github.com/zdevbro-cpu/las-backoffice/internal/schedule"
)

func TestWeekOfRollsBackToMonday(t *testing.T) {
	tests := []struct {
		ref        string
		wantMonday string
	}{
		{"2026-02-27", "2026-02-23"}, // Friday
		{"2026-02-23", "2026-02-23"}, // Monday maps to itself
		{"2026-03-01", "2026-02-23"}, // Sunday belongs to the preceding Monday
	}
	for _, tt := range tests {
		ref, err := time.Parse(schedule.DateFormat, tt.ref)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.ref, err)
		}
		week := schedule.WeekOf(ref)
		if got := week.Monday.Format(schedule.DateFormat); got != tt.wantMonday {
			t.Errorf("WeekOf(%s).Monday = %s, want %s", tt.ref, got, tt.wantMonday)
		}
	}
}

func TestWeekDates(t *testing.T) {
	week, err := schedule.ParseWeek("2026-02-25")
	if err != nil {
		t.Fatalf("parse week: %v", err)
	}
	dates := week.DateStrings()
	if dates[0] != "2026-02-23" || dates[6] != "2026-03-01" {
		t.Fatalf("unexpected week dates: %v", dates)
	}
	if !week.Contains("2026-02-28") {
		t.Errorf("expected week to contain 2026-02-28")
	}
	if week.Contains("2026-03-02") {
		t.Errorf("did not expect week to contain 2026-03-02")
	}
}

func TestWeekFetchRangePadsOneDay(t *testing.T) {
	week, err := schedule.ParseWeek("2026-02-23")
	if err != nil {
		t.Fatalf("parse week: %v", err)
	}
	from, to := week.FetchRange()
	if from != "2026-02-22" || to != "2026-03-02" {
		t.Errorf("FetchRange = (%s, %s), want (2026-02-22, 2026-03-02)", from, to)
	}
}

func TestWeekPrevNext(t *testing.T) {
	week, _ := schedule.ParseWeek("2026-02-23")
	if got := week.Next().Monday.Format(schedule.DateFormat); got != "2026-03-02" {
		t.Errorf("Next Monday = %s", got)
	}
	if got := week.Prev().Monday.Format(schedule.DateFormat); got != "2026-02-16" {
		t.Errorf("Prev Monday = %s", got)
	}
}
