package service

import (
	"context"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/scheduler"
)

// SettingsService reads and writes the user's planning context.
type SettingsService interface {
	// Load returns stored settings with defaults for anything unset.
	Load(ctx context.Context) (domain.Settings, error)
	// Save normalizes the day window, clamps core time and persists s.
	Save(ctx context.Context, s domain.Settings) (domain.Settings, error)
	Set(ctx context.Context, key, value string) (domain.Settings, error)
	Unset(ctx context.Context, key string) (domain.Settings, error)
}

// EditFunc mutates a day's schedule through the engine and reports whether
// anything changed.
type EditFunc func(e *scheduler.Engine) bool

// PlannerService owns per-day plans: context, goals and the schedule.
type PlannerService interface {
	// Day returns the stored plan or an empty one.
	Day(ctx context.Context, date string) (*domain.DayPlan, error)
	// Days returns up to limit stored plans, newest first.
	Days(ctx context.Context, limit int) ([]*domain.DayPlan, error)
	SetBrainDump(ctx context.Context, date, text string) error
	SetTopGoals(ctx context.Context, date string, goals []string) error

	// Edit runs fn against the day's schedule under the configured window
	// and persists the result when fn reports a change.
	Edit(ctx context.Context, date string, fn EditFunc) (*domain.DayPlan, bool, error)

	// GenerateTopGoals asks the model for goals and stores them.
	GenerateTopGoals(ctx context.Context, date, identity string) ([]string, error)
	// GenerateSchedule replaces the day's items with a generated schedule.
	GenerateSchedule(ctx context.Context, date, identity string) (*domain.DayPlan, error)

	// Classify sets the activity type of item id from its activity text.
	Classify(ctx context.Context, date, id string) (domain.ActivityType, error)
	// Import replaces the whole day with plan, fitting its items into the
	// current window.
	Import(ctx context.Context, plan *domain.DayPlan) (*domain.DayPlan, error)
	// ReconcileWindow fits the day's items into the current window and
	// returns how many changed.
	ReconcileWindow(ctx context.Context, date string) (int, error)
}
