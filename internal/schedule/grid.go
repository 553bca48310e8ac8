package schedule

// CellRef addresses one (employee, date) cell of the grid.
type CellRef struct {
	EmployeeKey string
	Date        string
}

// Grid holds the in-memory planned intervals for one displayed week. At
// most one entry exists per (employee, date) cell. Cleared cells are
// remembered so the persistence layer can issue real deletes; an update
// with empty fields is not a substitute for a delete.
type Grid struct {
	week    Week
	entries map[CellRef]Entry
	deleted map[CellRef]Employee
}

func NewGrid(week Week) *Grid {
	return &Grid{
		week:    week,
		entries: make(map[CellRef]Entry),
		deleted: make(map[CellRef]Employee),
	}
}

func (g *Grid) Week() Week {
	return g.week
}

// Replace swaps the grid contents for rows loaded from storage. Rows
// outside the week's padded fetch window are dropped; everything else,
// including the pending-delete set, is reset.
func (g *Grid) Replace(rows []Entry) {
	from, to := g.week.FetchRange()
	g.entries = make(map[CellRef]Entry)
	g.deleted = make(map[CellRef]Employee)
	for _, row := range rows {
		if row.Date < from || row.Date > to {
			continue
		}
		g.entries[CellRef{EmployeeKey: row.Employee.Key(), Date: row.Date}] = row
	}
}

// Get returns the entry for a cell, if present.
func (g *Grid) Get(emp Employee, date string) (Entry, bool) {
	e, ok := g.entries[CellRef{EmployeeKey: emp.Key(), Date: date}]
	return e, ok
}

// SetStart updates the start endpoint for a cell, creating the entry if
// absent and keeping any existing end endpoint.
func (g *Grid) SetStart(emp Employee, date, clock string) Entry {
	return g.setEndpoint(emp, date, clock, false)
}

// SetEnd updates the end endpoint for a cell.
func (g *Grid) SetEnd(emp Employee, date, clock string) Entry {
	return g.setEndpoint(emp, date, clock, true)
}

func (g *Grid) setEndpoint(emp Employee, date, clock string, isEnd bool) Entry {
	ref := CellRef{EmployeeKey: emp.Key(), Date: date}
	entry, ok := g.entries[ref]
	if !ok {
		entry = Entry{Employee: emp, Date: date}
	}
	if isEnd {
		entry.End = clock
	} else {
		entry.Start = clock
	}
	g.entries[ref] = entry
	delete(g.deleted, ref)
	return entry
}

// Clear removes a cell's entry. For persisted employees the cell is
// recorded as pending deletion so Flush can tell storage to remove the
// row as well.
func (g *Grid) Clear(emp Employee, date string) {
	ref := CellRef{EmployeeKey: emp.Key(), Date: date}
	delete(g.entries, ref)
	if !emp.Temporary {
		g.deleted[ref] = emp
	}
}

// Entries returns every current entry, in no particular order.
func (g *Grid) Entries() []Entry {
	out := make([]Entry, 0, len(g.entries))
	for _, e := range g.entries {
		out = append(out, e)
	}
	return out
}

// Flush returns what the persistence layer should write: complete
// entries with positive hours for persisted employees, and the cells the
// user cleared since the last load. Temporary staff never appear in
// either list. Incomplete entries stay in memory but are not persisted.
func (g *Grid) Flush() (upserts []Entry, deletes []CellRef) {
	for _, e := range g.entries {
		if e.Employee.Temporary || !e.Complete() {
			continue
		}
		upserts = append(upserts, e)
	}
	for ref := range g.deleted {
		deletes = append(deletes, ref)
	}
	return upserts, deletes
}
