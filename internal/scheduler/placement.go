package scheduler

import (
	"fmt"

	"github.com/alexanderramin/timebox/internal/domain"
)

// MinDuration is the canonical shortest item, in hours.
const MinDuration = 0.5

// RejectReason identifies why a placement was refused.
type RejectReason string

const (
	ReasonMisaligned    RejectReason = "MISALIGNED"
	ReasonTooShort      RejectReason = "TOO_SHORT"
	ReasonOutsideWindow RejectReason = "OUTSIDE_WINDOW"
	ReasonOverlap       RejectReason = "OVERLAP"
	ReasonUnknownItem   RejectReason = "UNKNOWN_ITEM"
	ReasonInvalidType   RejectReason = "INVALID_TYPE"
)

// Placement is a candidate interval. ExcludeID names the item being moved
// or resized so it is not compared against itself.
type Placement struct {
	StartTime float64
	Duration  float64
	ExcludeID string
}

// Decision is the outcome of CheckPlacement.
type Decision struct {
	Accepted   bool
	Reason     RejectReason
	ConflictID string
	Message    string
}

func accept() Decision { return Decision{Accepted: true} }

func reject(reason RejectReason, format string, args ...any) Decision {
	return Decision{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Overlaps reports whether half-open intervals [a,b) and [c,d) intersect.
// Touching endpoints do not overlap.
func Overlaps(a, b, c, d float64) bool {
	return a < d && c < b
}

// CheckPlacement decides whether p may be placed among items inside window.
// It never mutates anything.
func CheckPlacement(items []domain.ScheduleItem, window domain.DayWindow, p Placement, minDuration float64) Decision {
	if !domain.IsHalfHourAligned(p.StartTime) || !domain.IsHalfHourAligned(p.Duration) {
		return reject(ReasonMisaligned, "%s for %gh is off the half-hour grid", domain.FormatHour(p.StartTime), p.Duration)
	}
	if p.Duration < minDuration {
		return reject(ReasonTooShort, "blocks must be at least %g hours", minDuration)
	}
	if !window.Contains(p.StartTime, p.Duration) {
		return reject(ReasonOutsideWindow, "%s–%s is outside the day window %s",
			domain.FormatHour(p.StartTime), domain.FormatHour(p.StartTime+p.Duration), window)
	}
	end := p.StartTime + p.Duration
	for _, it := range items {
		if it.ID == p.ExcludeID {
			continue
		}
		if Overlaps(p.StartTime, end, it.StartTime, it.EndTime()) {
			d := reject(ReasonOverlap, "overlaps %q (%s)", it.DisplayTitle(), it.Span())
			d.ConflictID = it.ID
			return d
		}
	}
	return accept()
}

// Conflict is a pair of overlapping items.
type Conflict struct {
	A, B string
}

// FindOverlaps returns every overlapping pair in items.
func FindOverlaps(items []domain.ScheduleItem) []Conflict {
	var out []Conflict
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			a, b := items[i], items[j]
			if Overlaps(a.StartTime, a.EndTime(), b.StartTime, b.EndTime()) {
				out = append(out, Conflict{A: a.ID, B: b.ID})
			}
		}
	}
	return out
}
