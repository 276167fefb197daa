package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Slot is the scheduling granularity in hours.
const Slot = 0.5

// MinWindowMinutes is the shortest allowed day or core window.
const MinWindowMinutes = 60

// DayWindow bounds the hours of a day in which items may be placed.
// An End of 00:00 means midnight at the close of the day (hour 24).
type DayWindow struct {
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

// DefaultDayWindow is 05:00 to 21:00.
func DefaultDayWindow() DayWindow {
	return DayWindow{Start: ClockTime{Hour: 5}, End: ClockTime{Hour: 21}}
}

// NewDayWindow parses both bounds and returns the normalized window.
func NewDayWindow(start, end string) (DayWindow, error) {
	s, err := ParseClock(start)
	if err != nil {
		return DayWindow{}, Invalid("start", "invalid clock time %q, expected HH:MM", start)
	}
	e, err := ParseClock(end)
	if err != nil {
		return DayWindow{}, Invalid("end", "invalid clock time %q, expected HH:MM", end)
	}
	return DayWindow{Start: s, End: e}.Normalize(), nil
}

func (w DayWindow) String() string {
	return fmt.Sprintf("%s–%s", w.Start, w.End)
}

// StartHour is the hour component of Start.
func (w DayWindow) StartHour() float64 {
	return float64(w.Start.Hour)
}

// NormalizedEndHour is the hour component of End, with hour 0 read as 24.
func (w DayWindow) NormalizedEndHour() float64 {
	if w.End.Hour == 0 {
		return 24
	}
	return float64(w.End.Hour)
}

// ClampToWindow bounds hour to [StartHour, NormalizedEndHour-0.5].
func (w DayWindow) ClampToWindow(hour float64) float64 {
	lo := w.StartHour()
	hi := w.NormalizedEndHour() - Slot
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(hour, lo), hi)
}

// Contains reports whether [start, start+duration) lies inside the window.
func (w DayWindow) Contains(start, duration float64) bool {
	return start >= w.StartHour() && start+duration <= w.NormalizedEndHour()
}

// Hours is the usable length of the window.
func (w DayWindow) Hours() float64 {
	return w.NormalizedEndHour() - w.StartHour()
}

func (w DayWindow) endMinutes() int {
	if w.End.IsMidnight() {
		return 24 * 60
	}
	return w.End.Minutes()
}

// Normalize enforces End - Start >= 1h by pushing End forward. When that
// would run past midnight the window becomes [23:00 or earlier, 00:00].
func (w DayWindow) Normalize() DayWindow {
	start := w.Start.Minutes()
	if w.endMinutes()-start >= MinWindowMinutes {
		return w
	}
	end := start + MinWindowMinutes
	if end >= 24*60 {
		return DayWindow{Start: ClockFromMinutes(min(start, 23*60)), End: ClockTime{}}
	}
	return DayWindow{Start: w.Start, End: ClockFromMinutes(end)}
}

// IsNormalized reports whether Normalize would leave w unchanged.
func (w DayWindow) IsNormalized() bool {
	return w.Normalize() == w
}

// ClampCoreTime fits core inside day while keeping it at least an hour long.
func ClampCoreTime(core, day DayWindow) DayWindow {
	day = day.Normalize()
	lo, hi := day.Start.Minutes(), day.endMinutes()

	s := clampInt(core.Start.Minutes(), lo, hi-MinWindowMinutes)
	e := clampInt(core.endMinutes(), s+MinWindowMinutes, hi)
	return DayWindow{Start: ClockFromMinutes(s), End: ClockFromMinutes(e)}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsHalfHourAligned reports whether v is a whole or half hour.
func IsHalfHourAligned(v float64) bool {
	doubled := v * 2
	return doubled == math.Trunc(doubled)
}

// FormatHour renders a fractional hour as "HH:MM" (24 renders as "24:00").
func FormatHour(h float64) string {
	whole := int(math.Floor(h))
	mins := int(math.Round((h - float64(whole)) * 60))
	if mins == 60 {
		whole++
		mins = 0
	}
	return fmt.Sprintf("%02d:%02d", whole, mins)
}

// ParseHour reads "9", "9.5" or "09:30" as a fractional hour. Minutes are
// not quantized here.
func ParseHour(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		if s == "24:00" {
			return 24, nil
		}
		c, err := ParseClock(s)
		if err != nil {
			return 0, err
		}
		return float64(c.Hour) + float64(c.Minute)/60, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 24 {
		return 0, Invalid("hour", "invalid hour %q, expected 0-24 or HH:MM", s)
	}
	return v, nil
}
