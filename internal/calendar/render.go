package calendar

import (
	"math"
	"time"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/scheduler"
)

// Event is a schedule item placed on a concrete day.
type Event struct {
	ID    string
	Title string
	Start time.Time
	End   time.Time
	Type  domain.ActivityType
	Item  domain.ScheduleItem
}

// Events places items on day. Each span is clamped into the window for
// display only; the items themselves are not changed.
func Events(items []domain.ScheduleItem, window domain.DayWindow, day time.Time) []Event {
	sorted := domain.CloneItems(items)
	domain.SortItems(sorted)

	end := window.NormalizedEndHour()
	out := make([]Event, 0, len(sorted))
	for _, it := range sorted {
		start := window.ClampToWindow(it.StartTime)
		duration := math.Min(end-start, math.Max(domain.Slot, it.Duration))
		out = append(out, Event{
			ID:    it.ID,
			Title: it.DisplayTitle(),
			Start: SlotTime(day, start),
			End:   SlotTime(day, start+duration),
			Type:  it.ActivityType,
			Item:  it,
		})
	}
	return out
}

// Slots lists the start hour of every half-hour slot in the window.
func Slots(window domain.DayWindow) []float64 {
	var out []float64
	for h := window.StartHour(); h < window.NormalizedEndHour(); h += domain.Slot {
		out = append(out, h)
	}
	return out
}

// Row is one half-hour slot of the day grid. Item is set on the slot an
// item starts in; Covered marks later slots of the same item so they are
// not drawn twice.
type Row struct {
	Hour    float64
	Item    *domain.ScheduleItem
	Covered bool
	CoverID string
}

// Grid lays the schedule out as half-hour rows across the window.
func Grid(s *scheduler.Schedule, window domain.DayWindow) []Row {
	slots := Slots(window)
	rows := make([]Row, 0, len(slots))
	for _, h := range slots {
		row := Row{Hour: h}
		if it, ok := s.ItemAt(h); ok {
			row.Item = &it
		} else if it, ok := s.ItemCovering(h); ok {
			row.Covered = true
			row.CoverID = it.ID
		}
		rows = append(rows, row)
	}
	return rows
}
