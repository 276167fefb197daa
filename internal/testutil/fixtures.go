package testutil

import (
	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/google/uuid"
)

// ItemOption customizes a fixture item.
type ItemOption func(*domain.ScheduleItem)

func WithActivity(a string) ItemOption {
	return func(i *domain.ScheduleItem) { i.Activity = a }
}

func WithType(t domain.ActivityType) ItemOption {
	return func(i *domain.ScheduleItem) { i.ActivityType = t }
}

func WithID(id string) ItemOption {
	return func(i *domain.ScheduleItem) { i.ID = id }
}

// NewItem returns a default-typed item at start for duration hours with a
// random id.
func NewItem(start, duration float64, opts ...ItemOption) domain.ScheduleItem {
	item := domain.ScheduleItem{
		ID:           uuid.NewString(),
		StartTime:    start,
		Duration:     duration,
		Activity:     "Focus block",
		ActivityType: domain.ActivityDefault,
	}
	for _, o := range opts {
		o(&item)
	}
	return item
}

// NewPlan returns a plan for date holding items.
func NewPlan(date string, items ...domain.ScheduleItem) *domain.DayPlan {
	p := domain.NewDayPlan(date)
	p.Items = items
	return p
}

// PlanningSettings returns settings complete enough for generation.
func PlanningSettings() domain.Settings {
	s := domain.DefaultSettings()
	s.Name = "Sam"
	s.NorthStar = "Write a novel this year"
	s.Profile = "Writer with a day job"
	s.Hobbies = "climbing, chess"
	return s
}
