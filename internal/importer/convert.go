package importer

import (
	"strings"

	"github.com/google/uuid"

	"github.com/alexanderramin/timebox/internal/domain"
)

// Convert turns a validated DayFile into a DayPlan. Call ValidateDayFile
// first; Convert only reports the first problem it trips over.
func Convert(file *DayFile) (*domain.DayPlan, error) {
	if _, err := domain.ParseDate(file.Date); err != nil {
		return nil, err
	}
	items, err := convertItems(file.Schedule)
	if err != nil {
		return nil, err
	}
	plan := domain.NewDayPlan(file.Date)
	plan.BrainDump = strings.TrimSpace(file.BrainDump)
	plan.TopGoals = domain.CleanGoals(file.TopGoals)
	plan.Items = items
	return plan, nil
}

func convertItems(in []ItemImport) ([]domain.ScheduleItem, error) {
	items := make([]domain.ScheduleItem, 0, len(in))
	for _, it := range in {
		start, err := domain.ParseHour(it.Start)
		if err != nil {
			return nil, err
		}
		t := domain.ActivityDefault
		if it.ActivityType != "" {
			if t, err = domain.ParseActivityType(it.ActivityType); err != nil {
				return nil, err
			}
		}
		id := it.ID
		if id == "" {
			id = uuid.NewString()
		}
		items = append(items, domain.ScheduleItem{
			ID:           id,
			StartTime:    start,
			Duration:     it.Duration,
			Activity:     strings.TrimSpace(it.Activity),
			ActivityType: t,
		})
	}
	return items, nil
}

// FromPlan builds the exportable form of plan, items in start order.
func FromPlan(plan *domain.DayPlan) *DayFile {
	items := domain.CloneItems(plan.Items)
	domain.SortItems(items)

	file := &DayFile{
		Version:   FormatVersion,
		Date:      plan.Date,
		BrainDump: plan.BrainDump,
		TopGoals:  plan.TopGoals,
		Schedule:  make([]ItemImport, 0, len(items)),
	}
	for _, it := range items {
		file.Schedule = append(file.Schedule, ItemImport{
			ID:           it.ID,
			Start:        domain.FormatHour(it.StartTime),
			Duration:     it.Duration,
			Activity:     it.Activity,
			ActivityType: string(it.ActivityType),
		})
	}
	return file
}
