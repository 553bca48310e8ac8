package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// The grid draws every bar against a fixed 09:00-22:00 axis.
const (
	axisStartMinutes = 9 * 60
	axisEndMinutes   = 22 * 60
)

// MinutesOfDay parses an HH:MM clock string into minutes since midnight.
func MinutesOfDay(clock string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	return h*60 + m, nil
}

// AxisFraction maps a clock time onto the display axis: 09:00 -> 0.0,
// 22:00 -> 1.0, linearly in between. Times outside the axis produce
// fractions outside [0,1]; callers clamp at render time, so a 07:30
// start simply draws off-axis rather than being silently moved.
func AxisFraction(clock string) (float64, error) {
	mins, err := MinutesOfDay(clock)
	if err != nil {
		return 0, err
	}
	return float64(mins-axisStartMinutes) / float64(axisEndMinutes-axisStartMinutes), nil
}

// BarSpan returns the left offset and width of an interval's bar as axis
// fractions. Width is simply AxisFraction(end) - AxisFraction(start).
func BarSpan(start, end string) (left, width float64, err error) {
	left, err = AxisFraction(start)
	if err != nil {
		return 0, 0, err
	}
	right, err := AxisFraction(end)
	if err != nil {
		return 0, 0, err
	}
	return left, right - left, nil
}
