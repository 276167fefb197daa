// Package calendar turns calendar gestures (drag, resize, slot selection)
// into Engine calls and renders a schedule as time spans and grid rows.
package calendar

import (
	"math"
	"time"

	"github.com/alexanderramin/timebox/internal/domain"
)

// Span is a quantized interval in fractional hours.
type Span struct {
	Start    float64
	End      float64
	Duration float64
}

// Quantize snaps a wall-clock time onto the half-hour grid: minutes >= 30
// round up to the half hour, anything less rounds down to the hour.
func Quantize(t time.Time) float64 {
	h := float64(t.Hour())
	if t.Minute() >= 30 {
		h += domain.Slot
	}
	return h
}

// QuantizeEnd quantizes the end of a gesture. A result of 0 is read as
// midnight at the end of the day (24) when the minute is exactly 0 and as
// 0.5 otherwise. Schedules never cross midnight, so the asymmetry is kept.
func QuantizeEnd(t time.Time) float64 {
	h := Quantize(t)
	if h == 0 {
		if t.Minute() == 0 {
			return 24
		}
		return domain.Slot
	}
	return h
}

// SpanFromTimes quantizes a gesture's bounds. It reports false for a
// degenerate gesture whose ends quantize to the same hour; such gestures
// never reach the placement validator. The duration is at least one slot.
func SpanFromTimes(start, end time.Time) (Span, bool) {
	s := Quantize(start)
	e := QuantizeEnd(end)
	if s == e {
		return Span{}, false
	}
	return Span{Start: s, End: e, Duration: math.Max(domain.Slot, e-s)}, true
}

// DayStart is local midnight at the beginning of day.
func DayStart(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location())
}

// SlotTime converts a fractional hour on day into a wall-clock time in the
// day's location. Hour 24 lands on the following midnight. The hour is read
// off the clock face, so DST transitions do not shift it.
func SlotTime(day time.Time, hour float64) time.Time {
	y, m, d := day.Date()
	if hour >= 24 {
		return time.Date(y, m, d+1, 0, 0, 0, 0, day.Location())
	}
	minutes := int(math.Round(hour * 60))
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, day.Location())
}
