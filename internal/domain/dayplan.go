package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar-day key format.
const DateLayout = "2006-01-02"

// DayPlan is everything the planner keeps for one calendar day.
type DayPlan struct {
	Date      string
	BrainDump string
	TopGoals  []string
	Items     []ScheduleItem

	// GenerationSeq increases each time a generation is started for the
	// day; a result carrying an older value is discarded.
	GenerationSeq int64
	UpdatedAt     time.Time
}

// NewDayPlan returns an empty plan for date.
func NewDayPlan(date string) *DayPlan {
	return &DayPlan{Date: date}
}

// ParseDate validates a YYYY-MM-DD day key.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, Invalid("date", "use YYYY-MM-DD format, got %q", s)
	}
	return t, nil
}

// CleanGoals trims goals and drops blanks.
func CleanGoals(goals []string) []string {
	out := make([]string, 0, len(goals))
	for _, g := range goals {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
