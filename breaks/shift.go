package breaks

import "fmt"

// =============================================================================
// SHIFT THIRDS - Anchors for coverage-based placement
// =============================================================================

// MinuteRange is a half-open range [Start, End) in minutes since midnight.
type MinuteRange struct {
	Start int
	End   int
}

// ShiftThirds partitions a shift into early/middle/late segments.
type ShiftThirds struct {
	Early  MinuteRange
	Middle MinuteRange
	Late   MinuteRange
}

// CalculateShiftThirds splits the shift window into three contiguous ranges
// using third = floor(duration/3). The late segment absorbs the remainder.
// Returns nil when the shift has no window.
func CalculateShiftThirds(shift ShiftType, hours ShiftHours) *ShiftThirds {
	window := hours.Window(shift)
	if window == nil {
		return nil
	}
	start := Minutes(window.Start)
	end := Minutes(window.End)
	third := (end - start) / 3
	earlyEnd := start + third
	midEnd := start + 2*third
	return &ShiftThirds{
		Early:  MinuteRange{Start: start, End: earlyEnd},
		Middle: MinuteRange{Start: earlyEnd, End: midEnd},
		Late:   MinuteRange{Start: midEnd, End: end},
	}
}

// CheckPlacement rejects break slots that are off the 15-minute grid or
// outside [window.Start, window.End). B is checked as both of its slots.
func CheckPlacement(b BreakTimes, window ShiftWindow) error {
	start, end := Minutes(window.Start), Minutes(window.End)
	for _, slot := range b.Slots() {
		if !OnGrid(slot.At) {
			return fmt.Errorf("%w: %s %s is not on a 15-minute boundary", ErrInvalidTime, slot.Status, slot.At)
		}
		if m := Minutes(slot.At); m < start || m >= end {
			return fmt.Errorf("%w: %s %s is outside shift %s-%s", ErrInvalidTime, slot.Status, slot.At, window.Start, window.End)
		}
	}
	return nil
}
