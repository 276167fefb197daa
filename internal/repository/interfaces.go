package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/timebox/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// SettingsRepo is a flat key/value store for user settings.
type SettingsRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	All(ctx context.Context) (map[string]string, error)
}

// DayPlanRepo persists one DayPlan per calendar day.
type DayPlanRepo interface {
	// Get returns the stored plan or ErrNotFound.
	Get(ctx context.Context, date string) (*domain.DayPlan, error)
	// Save writes the plan row and replaces the day's items.
	Save(ctx context.Context, plan *domain.DayPlan) error
	// BumpGenerationSeq increments and returns the day's generation
	// sequence, creating an empty plan row when none exists.
	BumpGenerationSeq(ctx context.Context, date string) (int64, error)
	// Dates lists days that have a stored plan, newest first.
	Dates(ctx context.Context, limit int) ([]string, error)
}
