// Package intelligence turns planning context into goals, schedules and
// activity categories using a language model. Every reply is treated as
// untrusted data and validated before it reaches the scheduler.
package intelligence

import (
	"errors"
	"strings"

	"github.com/alexanderramin/timebox/internal/domain"
)

// ErrGenerationFailed wraps any failure of the model call or of its output.
// Callers leave stored state untouched when they see it.
var ErrGenerationFailed = errors.New("generation failed, please try again")

// TopGoalsRequest is the context for proposing the day's top goals.
type TopGoalsRequest struct {
	NorthStar string
	BrainDump string
	Profile   string
	Hobbies   string
}

func (r TopGoalsRequest) Validate() error {
	if strings.TrimSpace(r.NorthStar) == "" {
		return domain.Invalid("north_star", "is required")
	}
	if strings.TrimSpace(r.BrainDump) == "" {
		return domain.Invalid("brain_dump", "is required")
	}
	return nil
}

// TopGoalsResult holds the proposed goals with blanks removed.
type TopGoalsResult struct {
	TopGoals []string `json:"topGoals"`
}

// ScheduleRequest is the context for generating a full day schedule.
type ScheduleRequest struct {
	NorthStar           string
	BrainDump           string
	TopGoals            []string
	DayDuration         domain.DayWindow
	CoreTime            *domain.DayWindow
	WorkingDuration     int // minutes, 0 when unset
	Profile             string
	Hobbies             string
	IntermittentFasting bool
	Date                string // YYYY-MM-DD, optional
}

// ScheduleRequestFromSettings fills a request from stored settings and
// the day's plan.
func ScheduleRequestFromSettings(s domain.Settings, plan *domain.DayPlan) ScheduleRequest {
	return ScheduleRequest{
		NorthStar:           s.NorthStar,
		BrainDump:           plan.BrainDump,
		TopGoals:            plan.TopGoals,
		DayDuration:         s.DayDuration,
		CoreTime:            s.CoreTime,
		WorkingDuration:     s.WorkingDuration,
		Profile:             s.Profile,
		Hobbies:             s.Hobbies,
		IntermittentFasting: s.IntermittentFasting,
		Date:                plan.Date,
	}
}

func (r ScheduleRequest) Validate() error {
	if strings.TrimSpace(r.NorthStar) == "" {
		return domain.Invalid("north_star", "is required")
	}
	if strings.TrimSpace(r.BrainDump) == "" {
		return domain.Invalid("brain_dump", "is required")
	}
	if len(domain.CleanGoals(r.TopGoals)) == 0 {
		return domain.Invalid("top_goals", "at least one goal is required")
	}
	if r.WorkingDuration != 0 &&
		(r.WorkingDuration < domain.MinWorkingDuration || r.WorkingDuration > domain.MaxWorkingDuration) {
		return domain.Invalid("working_duration", "must be between %d and %d minutes",
			domain.MinWorkingDuration, domain.MaxWorkingDuration)
	}
	if r.Date != "" {
		if _, err := domain.ParseDate(r.Date); err != nil {
			return err
		}
	}
	return nil
}

// coreTime returns the core window clamped into the day, defaulting to
// the whole day when unset.
func (r ScheduleRequest) coreTime() domain.DayWindow {
	day := r.DayDuration.Normalize()
	if r.CoreTime == nil {
		return day
	}
	return domain.ClampCoreTime(*r.CoreTime, day)
}

// ScheduleResult holds a validated generated schedule.
type ScheduleResult struct {
	Schedule []domain.ScheduleItem `json:"schedule"`
}

// ClassifyRequest asks for the category of one activity.
type ClassifyRequest struct {
	Activity string
	TopGoals []string
}

func (r ClassifyRequest) Validate() error {
	if strings.TrimSpace(r.Activity) == "" {
		return domain.Invalid("activity", "must not be empty")
	}
	return nil
}

// ClassifyResult is one category from the closed set.
type ClassifyResult struct {
	Category domain.ActivityType `json:"category"`
}
