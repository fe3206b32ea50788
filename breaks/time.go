package breaks

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// TIME / COLUMN MODEL
// =============================================================================

// TimeOfDay is a zero-padded "HH:MM:SS" wall-clock label. Within one day,
// lexicographic order is chronological order.
type TimeOfDay string

const (
	SlotMinutes   = 15
	DayStartMin   = 9 * 60  // 09:00, column 0
	DayEndMin     = 21 * 60 // 21:00, exclusive
	minutesPerDay = 24 * 60
)

// ColumnCount is the number of slots between DayStart and DayEnd.
const ColumnCount = (DayEndMin - DayStartMin) / SlotMinutes

// ColumnToTime returns 09:00 + col×15min.
func ColumnToTime(col int) TimeOfDay {
	return FormatMinutes(DayStartMin + col*SlotMinutes)
}

// TimeToColumn is the inverse of ColumnToTime: floor((t-09:00)/15min).
func TimeToColumn(t TimeOfDay) int {
	delta := Minutes(t) - DayStartMin
	// floor, not truncation, for times before 09:00
	if delta < 0 {
		return -((-delta + SlotMinutes - 1) / SlotMinutes)
	}
	return delta / SlotMinutes
}

// AddMinutesToTime adds m minutes on the wall clock. The result is not
// clamped to the 09:00-21:00 window; it wraps at midnight.
func AddMinutesToTime(t TimeOfDay, m int) TimeOfDay {
	total := (Minutes(t) + m) % minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}
	return FormatMinutes(total)
}

// Minutes returns minutes since midnight. Malformed input yields 0; use
// ParseTimeOfDay where input needs checking.
func Minutes(t TimeOfDay) int {
	m, _ := parseMinutes(string(t))
	return m
}

// FormatMinutes renders minutes since midnight as "HH:MM:SS".
func FormatMinutes(m int) TimeOfDay {
	return TimeOfDay(fmt.Sprintf("%02d:%02d:00", m/60, m%60))
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS" and normalizes to "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m, err := parseMinutes(s)
	if err != nil {
		return "", err
	}
	return FormatMinutes(m), nil
}

// FloorToSlot rounds a minute count down to the slot boundary.
func FloorToSlot(m int) int {
	return m - m%SlotMinutes
}

// CeilToSlot rounds a minute count up to the slot boundary.
func CeilToSlot(m int) int {
	return FloorToSlot(m + SlotMinutes - 1)
}

// OnGrid reports whether t falls on a slot boundary.
func OnGrid(t TimeOfDay) bool {
	return Minutes(t)%SlotMinutes == 0
}

func parseMinutes(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return h*60 + mm, nil
}

// DateLayout is the schedule-date format.
const DateLayout = "2006-01-02"

// ParseDate validates a schedule date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}
