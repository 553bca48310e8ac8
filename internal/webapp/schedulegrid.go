package webapp

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/zdevbro-cpu/las-backoffice/internal/excelreport"
	"github.com/zdevbro-cpu/las-backoffice/internal/schedule"
	"github.com/zdevbro-cpu/las-backoffice/internal/security"
	"github.com/zdevbro-cpu/las-backoffice/internal/store"
)

// weekDraft is one session's unsaved grid state. Edits accumulate here
// and only reach the store when the user saves. s.mu guards the drafts
// map; each draft carries its own mutex because concurrent requests on
// one session (double-submitted forms) mutate the same grid.
type weekDraft struct {
	mu         sync.Mutex
	branchID   int64
	grid       *schedule.Grid
	temps      []schedule.Employee
	dirty      bool
	saveErrors []string
}

func (s *server) draftFor(sessionID string) *weekDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drafts[sessionID]
}

func (s *server) dropDraft(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
}

func (s *server) weekFromQuery(r *http.Request) schedule.Week {
	if raw := strings.TrimSpace(r.URL.Query().Get("week")); raw != "" {
		if week, err := schedule.ParseWeek(raw); err == nil {
			return week
		}
	}
	return schedule.WeekOf(time.Now())
}

// loadDraft returns the session's draft for the requested week, loading
// from the store when there is no draft or the week changed.
func (s *server) loadDraft(r *http.Request, v viewer, week schedule.Week) *weekDraft {
	draft := s.draftFor(v.Session.ID)
	if draft != nil && draft.branchID == v.Branch.ID &&
		draft.grid.Week().Monday.Equal(week.Monday) {
		return draft
	}

	draft = &weekDraft{
		branchID: v.Branch.ID,
		grid:     schedule.NewGrid(week),
	}

	employees := s.branchEmployees(r, v)
	from, to := week.FetchRange()
	rows, err := s.store.SelectSchedules(r.Context(), v.Branch.ID, from, to)
	if err != nil {
		// Leave the grid empty; the screen still renders.
		log.Printf("select schedules: %v", err)
	}
	entries := make([]schedule.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, scheduleEntryFromRow(row, employees))
	}
	draft.grid.Replace(entries)

	// Another request for the same session may have loaded the draft
	// while this one was building; keep whichever landed first so both
	// requests edit the same grid.
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.drafts[v.Session.ID]; cur != nil && cur.branchID == v.Branch.ID &&
		cur.grid.Week().Monday.Equal(week.Monday) {
		return cur
	}
	s.drafts[v.Session.ID] = draft
	return draft
}

func (s *server) branchEmployees(r *http.Request, v viewer) map[int64]store.Employee {
	out := make(map[int64]store.Employee)
	if v.Branch.ID == 0 {
		return out
	}
	employees, err := s.store.ListBranchEmployees(r.Context(), v.Branch.ID)
	if err != nil {
		log.Printf("list employees: %v", err)
		return out
	}
	for _, e := range employees {
		out[e.ID] = e
	}
	return out
}

func (s *server) schedulePage(w http.ResponseWriter, r *http.Request, v viewer) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := scheduleData{
		basePage:    s.newBasePage(r, v),
		TimeOptions: timeOptions(),
	}
	week := s.weekFromQuery(r)
	data.WeekStart = week.Monday.Format(schedule.DateFormat)
	data.PrevWeek = week.Prev().Monday.Format(schedule.DateFormat)
	data.NextWeek = week.Next().Monday.Format(schedule.DateFormat)
	data.Days = week.DateStrings()

	if v.Branch.ID == 0 {
		data.Error = "Pick a branch first"
		s.render(w, s.scheduleTmpl, data)
		return
	}

	if r.URL.Query().Get("reload") == "1" {
		s.dropDraft(v.Session.ID)
	}
	draft := s.loadDraft(r, v, week)
	draft.mu.Lock()
	defer draft.mu.Unlock()
	data.Dirty = draft.dirty
	data.SaveErrors = draft.saveErrors
	draft.saveErrors = nil

	employees := s.branchEmployees(r, v)
	rows := make([]schedule.Employee, 0, len(employees)+len(draft.temps))
	for _, e := range employees {
		rows = append(rows, schedule.Employee{ID: e.ID, Name: e.Name, BranchID: e.BranchID})
	}
	sortEmployees(rows)
	rows = append(rows, draft.temps...)

	// Diaries are read-only actuals fetched fresh on every render.
	from, to := week.FetchRange()
	diaryRows, err := s.store.SelectDiaries(r.Context(), v.Branch.ID, from, to)
	if err != nil {
		log.Printf("select diaries: %v", err)
	}
	var actuals []schedule.Entry
	diaryByCell := make(map[schedule.CellRef]schedule.DiaryEntry)
	for _, row := range diaryRows {
		d := diaryEntryFromRow(row, employees)
		actuals = append(actuals, d.Entry)
		diaryByCell[schedule.CellRef{EmployeeKey: d.Employee.Key(), Date: d.Date}] = d
	}

	planned := draft.grid.Entries()
	today := time.Now()
	for _, emp := range rows {
		rowView := scheduleRowView{
			Employee:      emp,
			EmployeeField: emp.Key(),
			WeeklyPlanned: schedule.WeeklyTotal(planned, emp.Key(), week),
			WeeklyActual:  schedule.WeeklyTotal(actuals, emp.Key(), week),
			Status:        schedule.ClassifyWeek(planned, actuals, emp.Key(), week, today).String(),
		}
		for i, date := range week.DateStrings() {
			cell := scheduleCell{Date: date}
			if entry, ok := draft.grid.Get(emp, date); ok {
				cell.Start = entry.Start
				cell.End = entry.End
				cell.HoursLabel = hoursLabel(entry)
				cell.Planned = barFor(entry.Start, entry.End)
			}
			if d, ok := diaryByCell[schedule.CellRef{EmployeeKey: emp.Key(), Date: date}]; ok {
				cell.Actual = barFor(d.Start, d.End)
			}
			rowView.Cells[i] = cell
		}
		data.Rows = append(data.Rows, rowView)
	}

	for i, date := range week.DateStrings() {
		data.DailyTotals[i] = schedule.DailyTotal(planned, date)
	}

	s.render(w, s.scheduleTmpl, data)
}

func sortEmployees(employees []schedule.Employee) {
	sort.Slice(employees, func(i, j int) bool {
		return employees[i].Name < employees[j].Name
	})
}

// resolveGridEmployee maps a form row key back to the employee it names.
func (s *server) resolveGridEmployee(r *http.Request, v viewer, draft *weekDraft, field string) (schedule.Employee, error) {
	switch {
	case strings.HasPrefix(field, "emp:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(field, "emp:"), 10, 64)
		if err != nil || id <= 0 {
			return schedule.Employee{}, fmt.Errorf("invalid employee reference %q", field)
		}
		emp, err := s.store.GetEmployee(r.Context(), id)
		if err != nil {
			return schedule.Employee{}, fmt.Errorf("unknown employee %d", id)
		}
		if emp.BranchID != v.Branch.ID {
			return schedule.Employee{}, fmt.Errorf("employee %d belongs to another branch", id)
		}
		return schedule.Employee{ID: emp.ID, Name: emp.Name, BranchID: emp.BranchID}, nil
	case strings.HasPrefix(field, "tmp:"):
		key := strings.TrimPrefix(field, "tmp:")
		for _, temp := range draft.temps {
			if temp.LocalKey == key {
				return temp, nil
			}
		}
		return schedule.Employee{}, fmt.Errorf("unknown temporary staff %q", key)
	default:
		return schedule.Employee{}, fmt.Errorf("invalid employee reference %q", field)
	}
}

// scheduleCell applies one edit (set start, set end, or clear) to the
// session draft. Nothing touches the store until save.
func (s *server) scheduleCell(w http.ResponseWriter, r *http.Request, v viewer) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	week := s.weekFromQuery(r)
	back := "/schedule?week=" + week.Monday.Format(schedule.DateFormat)

	if err := r.ParseForm(); err != nil || !s.checkCSRF(r, v) {
		http.Redirect(w, r, back+"&error=Invalid+form+submission", http.StatusFound)
		return
	}

	date := strings.TrimSpace(r.FormValue("date"))
	if !week.Contains(date) {
		http.Redirect(w, r, back+"&error=Date+is+outside+the+displayed+week", http.StatusFound)
		return
	}

	draft := s.loadDraft(r, v, week)
	draft.mu.Lock()
	defer draft.mu.Unlock()
	emp, err := s.resolveGridEmployee(r, v, draft, r.FormValue("employee"))
	if err != nil {
		http.Redirect(w, r, back+"&error="+url.QueryEscape(err.Error()), http.StatusFound)
		return
	}

	switch r.FormValue("action") {
	case "clear":
		draft.grid.Clear(emp, date)
	case "set":
		start := strings.TrimSpace(r.FormValue("start"))
		end := strings.TrimSpace(r.FormValue("end"))
		if start == "" && end == "" {
			http.Redirect(w, r, back+"&error=Set+a+start+or+end+time", http.StatusFound)
			return
		}
		if start != "" {
			if _, err := schedule.MinutesOfDay(start); err != nil {
				http.Redirect(w, r, back+"&error=Invalid+start+time", http.StatusFound)
				return
			}
			draft.grid.SetStart(emp, date, start)
		}
		if end != "" {
			if _, err := schedule.MinutesOfDay(end); err != nil {
				http.Redirect(w, r, back+"&error=Invalid+end+time", http.StatusFound)
				return
			}
			draft.grid.SetEnd(emp, date, end)
		}
	default:
		http.Redirect(w, r, back+"&error=Unknown+action", http.StatusFound)
		return
	}

	draft.dirty = true
	http.Redirect(w, r, back, http.StatusFound)
}

// scheduleTempStaff adds a staff row: persisted when requested by an
// admin, otherwise a session-only temporary row that never flushes.
func (s *server) scheduleTempStaff(w http.ResponseWriter, r *http.Request, v viewer) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	week := s.weekFromQuery(r)
	back := "/schedule?week=" + week.Monday.Format(schedule.DateFormat)

	if err := r.ParseForm(); err != nil || !s.checkCSRF(r, v) {
		http.Redirect(w, r, back+"&error=Invalid+form+submission", http.StatusFound)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		http.Redirect(w, r, back+"&error=Name+is+required", http.StatusFound)
		return
	}
	if v.Branch.ID == 0 {
		http.Redirect(w, r, back+"&error=Pick+a+branch+first", http.StatusFound)
		return
	}

	if r.FormValue("persist") == "1" && v.User.IsAdmin {
		if _, err := s.store.CreateEmployee(r.Context(), v.Branch.ID, name); err != nil {
			log.Printf("create employee: %v", err)
			http.Redirect(w, r, back+"&error=Unable+to+add+staff", http.StatusFound)
			return
		}
		http.Redirect(w, r, back+"&message=Staff+added", http.StatusFound)
		return
	}

	key, err := security.RandomToken(6)
	if err != nil {
		http.Redirect(w, r, back+"&error=Unable+to+add+staff", http.StatusFound)
		return
	}
	draft := s.loadDraft(r, v, week)
	draft.mu.Lock()
	defer draft.mu.Unlock()
	draft.temps = append(draft.temps, schedule.Employee{
		LocalKey:  key,
		Name:      name,
		BranchID:  v.Branch.ID,
		Temporary: true,
	})
	http.Redirect(w, r, back+"&message=Temporary+staff+added", http.StatusFound)
}

// scheduleSave flushes the draft: one select-then-insert-or-update round
// trip per complete entry plus one delete per cleared cell, issued
// sequentially. A failing entry is noted and the loop keeps going, so a
// save can partially succeed.
func (s *server) scheduleSave(w http.ResponseWriter, r *http.Request, v viewer) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	week := s.weekFromQuery(r)
	back := "/schedule?week=" + week.Monday.Format(schedule.DateFormat)

	if err := r.ParseForm(); err != nil || !s.checkCSRF(r, v) {
		http.Redirect(w, r, back+"&error=Invalid+form+submission", http.StatusFound)
		return
	}

	draft := s.draftFor(v.Session.ID)
	if draft == nil || !draft.grid.Week().Monday.Equal(week.Monday) {
		http.Redirect(w, r, back+"&error=Nothing+to+save", http.StatusFound)
		return
	}
	draft.mu.Lock()
	defer draft.mu.Unlock()

	// The draft was loaded under one branch; saving it while operating
	// another would stamp the rows with the wrong branch_id and strand
	// them outside their branch's grid. The draft is kept so switching
	// back makes it saveable again.
	if draft.branchID != v.Branch.ID {
		http.Redirect(w, r, back+"&error=Branch+changed%3B+switch+back+or+reload+the+week", http.StatusFound)
		return
	}

	upserts, deletes := draft.grid.Flush()
	var failures []string
	for _, entry := range upserts {
		row := scheduleRowFromEntry(entry, entry.Employee.BranchID)
		if err := s.store.UpsertSchedule(r.Context(), row); err != nil {
			log.Printf("save schedule %d/%s: %v", row.EmployeeID, row.WorkDate, err)
			failures = append(failures,
				fmt.Sprintf("%s on %s could not be saved", entry.Employee.Name, entry.Date))
		}
	}
	for _, ref := range deletes {
		id, err := strconv.ParseInt(strings.TrimPrefix(ref.EmployeeKey, "emp:"), 10, 64)
		if err != nil {
			continue
		}
		if err := s.store.DeleteSchedule(r.Context(), id, ref.Date); err != nil {
			log.Printf("delete schedule %d/%s: %v", id, ref.Date, err)
			failures = append(failures,
				fmt.Sprintf("cleared cell %s could not be removed", ref.Date))
		}
	}

	// Reload from the store so the next render shows what actually
	// persisted; failures carry over to the reloaded draft.
	s.dropDraft(v.Session.ID)
	if len(failures) > 0 {
		fresh := s.loadDraft(r, v, week)
		fresh.mu.Lock()
		fresh.saveErrors = failures
		fresh.mu.Unlock()
		http.Redirect(w, r, back+"&error=Some+cells+were+not+saved", http.StatusFound)
		return
	}
	http.Redirect(w, r, back+"&message=Schedule+saved", http.StatusFound)
}

// scheduleDiary logs an actual worked interval. Diaries bypass the
// draft entirely; they are written immediately and shown as the second
// bar in each cell.
func (s *server) scheduleDiary(w http.ResponseWriter, r *http.Request, v viewer) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	week := s.weekFromQuery(r)
	back := "/schedule?week=" + week.Monday.Format(schedule.DateFormat)

	if err := r.ParseForm(); err != nil || !s.checkCSRF(r, v) {
		http.Redirect(w, r, back+"&error=Invalid+form+submission", http.StatusFound)
		return
	}

	draft := s.loadDraft(r, v, week)
	draft.mu.Lock()
	emp, err := s.resolveGridEmployee(r, v, draft, r.FormValue("employee"))
	draft.mu.Unlock()
	if err != nil || emp.Temporary {
		http.Redirect(w, r, back+"&error=Pick+a+rostered+staff+member", http.StatusFound)
		return
	}

	date := strings.TrimSpace(r.FormValue("date"))
	if !week.Contains(date) {
		http.Redirect(w, r, back+"&error=Date+is+outside+the+displayed+week", http.StatusFound)
		return
	}

	entry := schedule.Entry{
		Employee: emp,
		Date:     date,
		Start:    strings.TrimSpace(r.FormValue("start")),
		End:      strings.TrimSpace(r.FormValue("end")),
	}
	hours, ok := entry.Hours()
	if !ok || hours <= 0 {
		http.Redirect(w, r, back+"&error=Start+and+end+must+form+a+valid+interval", http.StatusFound)
		return
	}

	err = s.store.InsertDiary(r.Context(), store.DiaryRow{
		BranchID:      v.Branch.ID,
		EmployeeID:    emp.ID,
		WorkDate:      date,
		StartTime:     entry.Start,
		EndTime:       entry.End,
		Hours:         hours,
		ChecklistDone: r.FormValue("checklist_done") == "1",
		Note:          strings.TrimSpace(r.FormValue("note")),
	})
	if err != nil {
		log.Printf("insert diary: %v", err)
		http.Redirect(w, r, back+"&error=Unable+to+log+hours", http.StatusFound)
		return
	}
	http.Redirect(w, r, back+"&message=Hours+logged", http.StatusFound)
}

// scheduleStaffArchive takes a rostered employee off the branch. Their
// saved schedules and diaries stay in the database.
func (s *server) scheduleStaffArchive(w http.ResponseWriter, r *http.Request, v viewer) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	week := s.weekFromQuery(r)
	back := "/schedule?week=" + week.Monday.Format(schedule.DateFormat)

	if err := r.ParseForm(); err != nil || !s.checkCSRF(r, v) {
		http.Redirect(w, r, back+"&error=Invalid+form+submission", http.StatusFound)
		return
	}
	if !v.User.IsAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	draft := s.loadDraft(r, v, week)
	draft.mu.Lock()
	emp, err := s.resolveGridEmployee(r, v, draft, r.FormValue("employee"))
	draft.mu.Unlock()
	if err != nil || emp.Temporary {
		http.Redirect(w, r, back+"&error=Pick+a+rostered+staff+member", http.StatusFound)
		return
	}

	if err := s.store.ArchiveEmployee(r.Context(), emp.ID); err != nil {
		log.Printf("archive employee %d: %v", emp.ID, err)
		http.Redirect(w, r, back+"&error=Unable+to+archive+staff", http.StatusFound)
		return
	}
	s.dropDraft(v.Session.ID)
	http.Redirect(w, r, back+"&message=Staff+archived", http.StatusFound)
}

func (s *server) scheduleExport(w http.ResponseWriter, r *http.Request, v viewer) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if v.Branch.ID == 0 {
		http.Error(w, "pick a branch first", http.StatusBadRequest)
		return
	}

	week := s.weekFromQuery(r)
	employees := s.branchEmployees(r, v)
	from, to := week.FetchRange()
	rows, err := s.store.SelectSchedules(r.Context(), v.Branch.ID, from, to)
	if err != nil {
		log.Printf("select schedules for export: %v", err)
		http.Error(w, "unable to load schedules", http.StatusInternalServerError)
		return
	}

	entries := make([]schedule.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, scheduleEntryFromRow(row, employees))
	}
	list := make([]schedule.Employee, 0, len(employees))
	for _, e := range employees {
		list = append(list, schedule.Employee{ID: e.ID, Name: e.Name, BranchID: e.BranchID})
	}
	sortEmployees(list)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=schedule-%s.xlsx", week.Monday.Format(schedule.DateFormat)))
	if err := excelreport.WriteWeekScheduleReport(w, week, list, entries); err != nil {
		log.Printf("write schedule report: %v", err)
	}
}
