package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ScheduleItem is one timeboxed activity on a day's schedule. StartTime and
// Duration are fractional hours on the half-hour grid.
type ScheduleItem struct {
	ID           string       `json:"id"`
	StartTime    float64      `json:"startTime"`
	Duration     float64      `json:"duration"`
	Activity     string       `json:"activity"`
	ActivityType ActivityType `json:"activityType"`
}

// EndTime is StartTime + Duration.
func (i ScheduleItem) EndTime() float64 { return i.StartTime + i.Duration }

// DisplayTitle is the activity label, or "Untitled" when empty. The
// placeholder is never stored.
func (i ScheduleItem) DisplayTitle() string {
	if strings.TrimSpace(i.Activity) == "" {
		return "Untitled"
	}
	return i.Activity
}

// Span renders the item's interval as "HH:MM–HH:MM".
func (i ScheduleItem) Span() string {
	return fmt.Sprintf("%s–%s", FormatHour(i.StartTime), FormatHour(i.EndTime()))
}

// Validate checks the item against the data model without regard to any
// window or neighbour.
func (i ScheduleItem) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return Invalid("id", "must not be empty")
	}
	if !i.ActivityType.Valid() {
		return Invalid("activityType", "item %s: unknown activity type %q", i.ID, i.ActivityType)
	}
	if i.StartTime < 0 || i.StartTime >= 24 {
		return Invalid("startTime", "item %s: %v outside [0,24)", i.ID, i.StartTime)
	}
	if !IsHalfHourAligned(i.StartTime) {
		return Invalid("startTime", "item %s: %v is not on the half-hour grid", i.ID, i.StartTime)
	}
	if i.Duration <= 0 {
		return Invalid("duration", "item %s: must be positive, got %v", i.ID, i.Duration)
	}
	if !IsHalfHourAligned(i.Duration) {
		return Invalid("duration", "item %s: %v is not a multiple of half an hour", i.ID, i.Duration)
	}
	return nil
}

// SortItems orders items by start time, breaking ties by id.
func SortItems(items []ScheduleItem) {
	sort.SliceStable(items, func(a, b int) bool {
		if items[a].StartTime != items[b].StartTime {
			return items[a].StartTime < items[b].StartTime
		}
		return items[a].ID < items[b].ID
	})
}

// CloneItems returns a shallow copy of items.
func CloneItems(items []ScheduleItem) []ScheduleItem {
	if items == nil {
		return nil
	}
	out := make([]ScheduleItem, len(items))
	copy(out, items)
	return out
}
