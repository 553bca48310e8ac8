package schedule_test

import (
	"testing"

	"github.com/zdevbro-cpu/las-backoffice/internal/schedule"
)

func TestHoursDerivation(t *testing.T) {
	tests := []struct {
		start, end string
		want       float64
		ok         bool
	}{
		{"09:00", "13:30", 4.5, true},
		{"09:00", "09:50", 0.8, true}, // round(0.8333 * 10) / 10
		{"09:00", "17:00", 8.0, true},
		{"13:15", "13:16", 0.0, true}, // rounds down to zero but is still derivable
		{"09:00", "", 0, false},
		{"", "17:00", 0, false},
		{"17:00", "09:00", 0, false}, // overnight unsupported
		{"12:00", "12:00", 0, false},
		{"junk", "17:00", 0, false},
	}
	for _, tt := range tests {
		e := schedule.Entry{Start: tt.start, End: tt.end}
		got, ok := e.Hours()
		if ok != tt.ok {
			t.Errorf("Hours(%q, %q) ok = %v, want %v", tt.start, tt.end, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("Hours(%q, %q) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestCompleteRequiresPositiveHours(t *testing.T) {
	e := schedule.Entry{Start: "13:15", End: "13:16"}
	if e.Complete() {
		t.Errorf("a zero-hour interval should not be persistable")
	}
	e = schedule.Entry{Start: "09:00", End: "12:00"}
	if !e.Complete() {
		t.Errorf("expected a three-hour interval to be complete")
	}
}

func TestEmployeeKeyNamespaces(t *testing.T) {
	persisted := schedule.Employee{ID: 7, Name: "Mika"}
	temp := schedule.Employee{LocalKey: "7", Name: "Helper", Temporary: true}
	if persisted.Key() == temp.Key() {
		t.Fatalf("temporary and persisted keys must not collide: %q", persisted.Key())
	}
}
