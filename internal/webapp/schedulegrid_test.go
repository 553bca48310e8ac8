package webapp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/zdevbro-cpu/las-backoffice/internal/schedule"
	"github.com/zdevbro-cpu/las-backoffice/internal/store"
)

func newGridTestServer(t *testing.T) (*server, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "grid.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return &server{store: st, drafts: make(map[string]*weekDraft)}, st
}

func gridTestViewer(branch store.Branch) viewer {
	return viewer{
		User:    store.User{ID: 1, Username: "admin", IsAdmin: true},
		Session: store.Session{ID: "sess", CSRFToken: "tok"},
		Branch:  branch,
	}
}

func postForm(t *testing.T, handler func(http.ResponseWriter, *http.Request, viewer),
	target string, form url.Values, v viewer) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler(rec, req, v)
	return rec
}

func seedTwoBranches(t *testing.T, st *store.Store) (store.Branch, store.Branch, int64) {
	t.Helper()
	ctx := context.Background()
	aID, err := st.CreateBranch(ctx, store.Branch{Code: "gangnam", Name: "Gangnam"})
	if err != nil {
		t.Fatal(err)
	}
	bID, err := st.CreateBranch(ctx, store.Branch{Code: "mapo", Name: "Mapo"})
	if err != nil {
		t.Fatal(err)
	}
	empID, err := st.CreateEmployee(ctx, aID, "Mika")
	if err != nil {
		t.Fatal(err)
	}
	return store.Branch{ID: aID, Code: "gangnam", Name: "Gangnam"},
		store.Branch{ID: bID, Code: "mapo", Name: "Mapo"}, empID
}

func seededDraft(branchID, empID int64) (*weekDraft, schedule.Week) {
	week, _ := schedule.ParseWeek("2026-03-02")
	grid := schedule.NewGrid(week)
	emp := schedule.Employee{ID: empID, Name: "Mika", BranchID: branchID}
	grid.SetStart(emp, "2026-03-04", "09:00")
	grid.SetEnd(emp, "2026-03-04", "17:00")
	return &weekDraft{branchID: branchID, grid: grid}, week
}

// A draft loaded under one branch must not be saved while the viewer
// operates another branch, or its rows would be stamped with the wrong
// branch and vanish from the grid they belong to.
func TestSaveRefusesWhenOperatingBranchChanged(t *testing.T) {
	s, st := newGridTestServer(t)
	branchA, branchB, empID := seedTwoBranches(t, st)

	draft, _ := seededDraft(branchA.ID, empID)
	s.drafts["sess"] = draft

	rec := postForm(t, s.scheduleSave, "/schedule/save?week=2026-03-02",
		url.Values{"csrf": {"tok"}}, gridTestViewer(branchB))

	if rec.Code != http.StatusFound {
		t.Fatalf("got status %d, want redirect", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=") {
		t.Fatalf("expected an error redirect, got %q", loc)
	}
	if _, err := st.SelectOneSchedule(context.Background(), empID, "2026-03-04"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("nothing should have been written, got err=%v", err)
	}
	if s.draftFor("sess") == nil {
		t.Fatal("the unsaved draft should survive a refused save")
	}
}

func TestSaveStampsRowsWithEmployeeBranch(t *testing.T) {
	s, st := newGridTestServer(t)
	branchA, _, empID := seedTwoBranches(t, st)

	draft, _ := seededDraft(branchA.ID, empID)
	s.drafts["sess"] = draft

	rec := postForm(t, s.scheduleSave, "/schedule/save?week=2026-03-02",
		url.Values{"csrf": {"tok"}}, gridTestViewer(branchA))

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "message=") {
		t.Fatalf("expected a success redirect, got %q", loc)
	}
	row, err := st.SelectOneSchedule(context.Background(), empID, "2026-03-04")
	if err != nil {
		t.Fatal(err)
	}
	if row.BranchID != branchA.ID {
		t.Fatalf("row saved with branch %d, want the employee's branch %d", row.BranchID, branchA.ID)
	}
	if row.Hours != 8.0 {
		t.Fatalf("got hours %v, want 8.0", row.Hours)
	}
}

// Double-submitted cell forms arrive as concurrent requests carrying the
// same session; they must serialize on the draft instead of racing on
// its maps.
func TestConcurrentCellEditsShareOneDraft(t *testing.T) {
	s, st := newGridTestServer(t)
	branchA, _, empID := seedTwoBranches(t, st)
	v := gridTestViewer(branchA)

	week, _ := schedule.ParseWeek("2026-03-02")
	s.drafts["sess"] = &weekDraft{branchID: branchA.ID, grid: schedule.NewGrid(week)}

	var wg sync.WaitGroup
	for _, date := range week.DateStrings() {
		for _, field := range []string{"start", "end"} {
			wg.Add(1)
			go func(date, field string) {
				defer wg.Done()
				value := "09:00"
				if field == "end" {
					value = "17:00"
				}
				postForm(t, s.scheduleCell, "/schedule/cell?week=2026-03-02", url.Values{
					"csrf":     {"tok"},
					"employee": {"emp:" + strconv.FormatInt(empID, 10)},
					"date":     {date},
					"action":   {"set"},
					field:      {value},
				}, v)
			}(date, field)
		}
	}
	wg.Wait()

	draft := s.draftFor("sess")
	if draft == nil {
		t.Fatal("draft disappeared")
	}
	emp := schedule.Employee{ID: empID}
	for _, date := range week.DateStrings() {
		entry, ok := draft.grid.Get(emp, date)
		if !ok {
			t.Fatalf("no entry for %s after concurrent edits", date)
		}
		if entry.Start != "09:00" || entry.End != "17:00" {
			t.Fatalf("entry for %s is %q-%q, want 09:00-17:00", date, entry.Start, entry.End)
		}
	}
}
