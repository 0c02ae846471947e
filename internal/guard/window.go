// Package guard implements the impulse-purchase protection core: the
// night-window evaluator, the additive risk scorer, and the transaction
// gate with its protection state machine.
package guard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wemarques/dashboard-financeiro/internal/domain"
)

// hourRiskMultipliers is a fixed domain constant mapping hour-of-day to
// an elevated-risk multiplier. Hours outside the table score 1.0.
var hourRiskMultipliers = map[int]float64{
	0: 1.5,
	1: 1.8,
	2: 2.0, // peak
	3: 2.0, // peak
	4: 1.8,
	5: 1.5,
	6: 1.0,
}

// ClockTime is a time-of-day in minutes since midnight.
type ClockTime int

// ParseClockTime parses an HH:MM string.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: clock time %q must be HH:MM", domain.ErrInvalidInput, s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: bad hour in %q", domain.ErrInvalidInput, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: bad minute in %q", domain.ErrInvalidInput, s)
	}
	return ClockTime(hour*60 + minute), nil
}

// String formats the clock time as HH:MM.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// NightWindow is a configured clock-time range treated as elevated-risk.
// Immutable after construction. The window may wrap past midnight
// (start > end means it spans the day boundary).
type NightWindow struct {
	start ClockTime
	end   ClockTime
}

// NewNightWindow builds a window from HH:MM boundaries.
func NewNightWindow(start, end string) (NightWindow, error) {
	s, err := ParseClockTime(start)
	if err != nil {
		return NightWindow{}, err
	}
	e, err := ParseClockTime(end)
	if err != nil {
		return NightWindow{}, err
	}
	return NightWindow{start: s, end: e}, nil
}

// Start returns the window start.
func (w NightWindow) Start() ClockTime { return w.start }

// End returns the window end.
func (w NightWindow) End() ClockTime { return w.end }

// Contains reports whether t falls inside the window. Both boundaries
// are inclusive.
func (w NightWindow) Contains(t time.Time) bool {
	current := ClockTime(t.Hour()*60 + t.Minute())
	if w.start > w.end {
		// Window crosses midnight.
		return current >= w.start || current <= w.end
	}
	return current >= w.start && current <= w.end
}

// HourMultiplier returns the risk multiplier for t's hour of day.
func HourMultiplier(t time.Time) float64 {
	if m, ok := hourRiskMultipliers[t.Hour()]; ok {
		return m
	}
	return 1.0
}
