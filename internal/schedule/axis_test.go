package schedule_test

import (
	"math"
	"testing"

	"github.com/zdevbro-cpu/las-backoffice/internal/schedule"
)

func TestAxisFractionEndpoints(t *testing.T) {
	tests := []struct {
		clock string
		want  float64
	}{
		{"09:00", 0.0},
		{"22:00", 1.0},
		{"15:30", 0.5},
		{"10:18", 0.1},
	}
	for _, tt := range tests {
		got, err := schedule.AxisFraction(tt.clock)
		if err != nil {
			t.Fatalf("AxisFraction(%q): %v", tt.clock, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("AxisFraction(%q) = %v, want %v", tt.clock, got, tt.want)
		}
	}
}

func TestAxisFractionMonotonic(t *testing.T) {
	clocks := []string{"09:00", "09:01", "11:45", "13:00", "17:20", "21:59", "22:00"}
	prev := -1.0
	for _, clock := range clocks {
		got, err := schedule.AxisFraction(clock)
		if err != nil {
			t.Fatalf("AxisFraction(%q): %v", clock, err)
		}
		if got < prev {
			t.Fatalf("AxisFraction(%q) = %v, below previous %v", clock, got, prev)
		}
		prev = got
	}
}

func TestAxisFractionDoesNotClamp(t *testing.T) {
	before, err := schedule.AxisFraction("07:30")
	if err != nil {
		t.Fatalf("AxisFraction: %v", err)
	}
	if before >= 0 {
		t.Errorf("expected a pre-axis time to map below 0, got %v", before)
	}

	after, err := schedule.AxisFraction("23:00")
	if err != nil {
		t.Fatalf("AxisFraction: %v", err)
	}
	if after <= 1 {
		t.Errorf("expected a post-axis time to map above 1, got %v", after)
	}
}

func TestAxisFractionRejectsGarbage(t *testing.T) {
	for _, clock := range []string{"", "nine", "25:00", "12:75", "12"} {
		if _, err := schedule.AxisFraction(clock); err == nil {
			t.Errorf("AxisFraction(%q): expected error", clock)
		}
	}
}

func TestBarSpan(t *testing.T) {
	left, width, err := schedule.BarSpan("09:00", "13:30")
	if err != nil {
		t.Fatalf("BarSpan: %v", err)
	}
	if math.Abs(left-0.0) > 1e-9 {
		t.Errorf("left = %v, want 0", left)
	}
	// 4.5 hours out of a 13 hour axis.
	if math.Abs(width-4.5/13.0) > 1e-9 {
		t.Errorf("width = %v, want %v", width, 4.5/13.0)
	}
}
