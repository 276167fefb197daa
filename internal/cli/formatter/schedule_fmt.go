package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/timebox/internal/domain"
)

// FormatSchedule renders items as a table in start order.
func FormatSchedule(items []domain.ScheduleItem) string {
	if len(items) == 0 {
		return Dim("No schedule items.")
	}
	sorted := domain.CloneItems(items)
	domain.SortItems(sorted)

	rows := make([][]string, 0, len(sorted))
	for _, it := range sorted {
		rows = append(rows, []string{
			it.Span(),
			FormatHours(it.Duration),
			ActivityStyle(it.ActivityType).Render(it.DisplayTitle()),
			ActivityBadge(it.ActivityType),
			TruncID(it.ID),
		})
	}
	return RenderTable([]string{"TIME", "LENGTH", "ACTIVITY", "TYPE", "ID"}, rows)
}

// FormatGoals renders the top goals as a numbered list.
func FormatGoals(goals []string) string {
	if len(goals) == 0 {
		return Dim("No top goals yet.")
	}
	var b strings.Builder
	for i, g := range goals {
		fmt.Fprintf(&b, "%s %s\n", StyleRed.Render(strconv.Itoa(i+1)+"."), g)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatDay renders a whole day: window, goals and schedule.
func FormatDay(plan *domain.DayPlan, window domain.DayWindow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", Header(plan.Date), Dim("day "+window.String()))
	b.WriteString(Bold("Top goals") + "\n")
	b.WriteString(FormatGoals(plan.TopGoals) + "\n\n")
	b.WriteString(Bold("Schedule") + "\n")
	b.WriteString(FormatSchedule(plan.Items))
	return b.String()
}

// FormatDays renders one row per stored day with how much of the window
// is planned.
func FormatDays(plans []*domain.DayPlan, window domain.DayWindow) string {
	if len(plans) == 0 {
		return Dim("No saved days.")
	}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		var planned float64
		for _, it := range p.Items {
			planned += it.Duration
		}
		rows = append(rows, []string{
			p.Date,
			strconv.Itoa(len(p.TopGoals)),
			strconv.Itoa(len(p.Items)),
			FormatHours(planned) + Dim(" of "+FormatHours(window.Hours())),
		})
	}
	return RenderTable([]string{"DATE", "GOALS", "BLOCKS", "PLANNED"}, rows)
}

// FormatSettings renders settings as a key/value table in key order.
func FormatSettings(s domain.Settings) string {
	values := domain.SettingsToMap(s)
	rows := make([][]string, 0, len(values))
	for _, key := range domain.SettingKeys() {
		v := values[key]
		switch key {
		case domain.SettingDayDuration:
			v = s.DayDuration.String()
		case domain.SettingCoreTime:
			if s.CoreTime != nil {
				v = s.CoreTime.String()
			}
		}
		rows = append(rows, []string{key, Placeholder(v)})
	}
	return RenderTable([]string{"KEY", "VALUE"}, rows)
}
