package schedule_test

import (
	"testing"

	"github.com/zdevbro-cpu/las-backoffice/internal/schedule"
)

func newTestGrid(t *testing.T) *schedule.Grid {
	t.Helper()
	week, err := schedule.ParseWeek("2026-02-23")
	if err != nil {
		t.Fatalf("parse week: %v", err)
	}
	return schedule.NewGrid(week)
}

func TestPartialEndpointUpdate(t *testing.T) {
	g := newTestGrid(t)

	g.SetStart(mika, "2026-02-24", "10:00")

	entry, ok := g.Get(mika, "2026-02-24")
	if !ok {
		t.Fatalf("expected entry after SetStart")
	}
	if entry.Start != "10:00" || entry.End != "" {
		t.Fatalf("entry = %+v, want start 10:00 and empty end", entry)
	}
	if _, ok := entry.Hours(); ok {
		t.Errorf("half-open interval must not derive hours")
	}

	upserts, deletes := g.Flush()
	if len(upserts) != 0 || len(deletes) != 0 {
		t.Errorf("incomplete entry leaked into flush: %v, %v", upserts, deletes)
	}
}

func TestEndpointsMergeIntoOneEntry(t *testing.T) {
	g := newTestGrid(t)

	g.SetEnd(mika, "2026-02-24", "18:00")
	g.SetStart(mika, "2026-02-24", "10:00")

	entry, ok := g.Get(mika, "2026-02-24")
	if !ok {
		t.Fatalf("expected entry")
	}
	if h, ok := entry.Hours(); !ok || h != 8.0 {
		t.Fatalf("Hours = %v, %v; want 8.0, true", h, ok)
	}

	upserts, _ := g.Flush()
	if len(upserts) != 1 {
		t.Fatalf("expected one flushable entry, got %d", len(upserts))
	}
}

func TestClearRemovesEntryAndRecordsDelete(t *testing.T) {
	g := newTestGrid(t)

	g.SetStart(mika, "2026-02-24", "10:00")
	g.SetEnd(mika, "2026-02-24", "18:00")
	g.Clear(mika, "2026-02-24")

	if _, ok := g.Get(mika, "2026-02-24"); ok {
		t.Fatalf("expected cell to be empty after Clear")
	}

	upserts, deletes := g.Flush()
	if len(upserts) != 0 {
		t.Errorf("cleared cell still flushed: %v", upserts)
	}
	if len(deletes) != 1 || deletes[0].Date != "2026-02-24" {
		t.Fatalf("expected one pending delete for the cell, got %v", deletes)
	}
}

func TestSetAfterClearCancelsPendingDelete(t *testing.T) {
	g := newTestGrid(t)

	g.SetStart(mika, "2026-02-24", "10:00")
	g.Clear(mika, "2026-02-24")
	g.SetStart(mika, "2026-02-24", "11:00")
	g.SetEnd(mika, "2026-02-24", "15:00")

	upserts, deletes := g.Flush()
	if len(deletes) != 0 {
		t.Errorf("re-edited cell should not carry a pending delete: %v", deletes)
	}
	if len(upserts) != 1 || upserts[0].Start != "11:00" {
		t.Fatalf("unexpected upserts: %v", upserts)
	}
}

func TestTemporaryEmployeesNeverFlush(t *testing.T) {
	g := newTestGrid(t)
	helper := schedule.Employee{LocalKey: "h1", Name: "Helper", Temporary: true}

	g.SetStart(helper, "2026-02-24", "09:00")
	g.SetEnd(helper, "2026-02-24", "17:00")
	g.Clear(helper, "2026-02-25")

	upserts, deletes := g.Flush()
	if len(upserts) != 0 || len(deletes) != 0 {
		t.Errorf("temporary staff leaked into flush: %v, %v", upserts, deletes)
	}

	// The entry still exists for display purposes.
	if _, ok := g.Get(helper, "2026-02-24"); !ok {
		t.Errorf("expected temporary entry to stay in the grid")
	}
}

func TestReplaceDropsRowsOutsideFetchWindow(t *testing.T) {
	g := newTestGrid(t)
	g.SetStart(mika, "2026-02-24", "10:00")

	g.Replace([]schedule.Entry{
		{Employee: mika, Date: "2026-02-22", Start: "09:00", End: "12:00"}, // padded day, kept
		{Employee: mika, Date: "2026-02-25", Start: "09:00", End: "17:00"},
		{Employee: mika, Date: "2026-03-10", Start: "09:00", End: "17:00"}, // out of range
	})

	if _, ok := g.Get(mika, "2026-02-24"); ok {
		t.Errorf("Replace must drop stale in-memory edits")
	}
	if _, ok := g.Get(mika, "2026-02-22"); !ok {
		t.Errorf("expected padded-day row to be kept")
	}
	if _, ok := g.Get(mika, "2026-03-10"); ok {
		t.Errorf("row outside the fetch window must be dropped")
	}
}
