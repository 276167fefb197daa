package scheduler

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/google/uuid"
)

// Engine applies edits to a Schedule. Every placement-changing operation
// goes through CheckPlacement and is all-or-nothing: a rejected edit
// returns false and leaves the schedule untouched.
type Engine struct {
	schedule    *Schedule
	window      domain.DayWindow
	minDuration float64
	newID       func() string
	last        Decision
}

// Option configures an Engine.
type Option func(*Engine)

// WithMinDuration overrides the shortest allowed block.
func WithMinDuration(hours float64) Option {
	return func(e *Engine) { e.minDuration = hours }
}

// WithIDGenerator overrides how Create assigns ids.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// NewEngine wraps items with the given day window. Items are taken as-is.
func NewEngine(window domain.DayWindow, items []domain.ScheduleItem, opts ...Option) *Engine {
	e := &Engine{
		schedule:    NewSchedule(items),
		window:      window.Normalize(),
		minDuration: MinDuration,
		newID:       func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Schedule exposes the underlying store for read access.
func (e *Engine) Schedule() *Schedule { return e.schedule }

// Items returns a copy of the current items.
func (e *Engine) Items() []domain.ScheduleItem { return e.schedule.Items() }

// Window is the active day window.
func (e *Engine) Window() domain.DayWindow { return e.window }

// MinDuration is the shortest block this engine accepts.
func (e *Engine) MinDuration() float64 { return e.minDuration }

// LastDecision describes the most recent placement check, so callers can
// show a hint after a silent rejection.
func (e *Engine) LastDecision() Decision { return e.last }

// Check runs the placement validator against the current state.
func (e *Engine) Check(p Placement) Decision {
	return CheckPlacement(e.schedule.items, e.window, p, e.minDuration)
}

func (e *Engine) decide(p Placement) bool {
	e.last = e.Check(p)
	return e.last.Accepted
}

func (e *Engine) lookup(id string) (domain.ScheduleItem, bool) {
	it, ok := e.schedule.Get(id)
	if !ok {
		e.last = reject(ReasonUnknownItem, "no item with id %q", id)
	}
	return it, ok
}

// Create adds a new unlabeled item. An empty type means ActivityDefault.
func (e *Engine) Create(start, duration float64, t domain.ActivityType) (domain.ScheduleItem, bool) {
	if t == "" {
		t = domain.ActivityDefault
	}
	if !t.Valid() {
		e.last = reject(ReasonInvalidType, "unknown activity type %q", t)
		return domain.ScheduleItem{}, false
	}
	if !e.decide(Placement{StartTime: start, Duration: duration}) {
		return domain.ScheduleItem{}, false
	}
	item := domain.ScheduleItem{
		ID:           e.uniqueID(),
		StartTime:    start,
		Duration:     duration,
		ActivityType: t,
	}
	e.schedule.add(item)
	return item, true
}

func (e *Engine) uniqueID() string {
	for {
		id := e.newID()
		if _, taken := e.schedule.Get(id); !taken {
			return id
		}
	}
}

// Move changes an item's start time, keeping its duration.
func (e *Engine) Move(id string, start float64) bool {
	it, ok := e.lookup(id)
	if !ok {
		return false
	}
	return e.Reschedule(id, start, it.Duration)
}

// Resize changes an item's duration, keeping its start time.
func (e *Engine) Resize(id string, duration float64) bool {
	it, ok := e.lookup(id)
	if !ok {
		return false
	}
	return e.Reschedule(id, it.StartTime, duration)
}

// Reschedule sets both start and duration in a single validated step.
func (e *Engine) Reschedule(id string, start, duration float64) bool {
	it, ok := e.lookup(id)
	if !ok {
		return false
	}
	if !e.decide(Placement{StartTime: start, Duration: duration, ExcludeID: id}) {
		return false
	}
	it.StartTime = start
	it.Duration = duration
	return e.schedule.put(it)
}

// Relabel replaces the activity text. No validation applies.
func (e *Engine) Relabel(id, activity string) bool {
	it, ok := e.lookup(id)
	if !ok {
		return false
	}
	it.Activity = activity
	return e.schedule.put(it)
}

// Recategorize sets the activity type.
func (e *Engine) Recategorize(id string, t domain.ActivityType) bool {
	if !t.Valid() {
		e.last = reject(ReasonInvalidType, "unknown activity type %q", t)
		return false
	}
	it, ok := e.lookup(id)
	if !ok {
		return false
	}
	it.ActivityType = t
	return e.schedule.put(it)
}

// Delete removes an item.
func (e *Engine) Delete(id string) bool {
	if _, ok := e.lookup(id); !ok {
		return false
	}
	return e.schedule.remove(id)
}

// ReconcileWindow installs a new window and fits items to it: a start
// before the window is clamped up to its start, and an item running past
// the end is cut to max(0.5, end-start). Starts are never pulled down, so
// items at or after the end keep their place. Overlap is not re-checked.
// Returns the number of items changed.
func (e *Engine) ReconcileWindow(window domain.DayWindow) int {
	e.window = window.Normalize()
	end := e.window.NormalizedEndHour()

	changed := 0
	for i, it := range e.schedule.items {
		start := math.Max(it.StartTime, e.window.StartHour())
		duration := it.Duration
		if start+duration > end {
			duration = math.Max(MinDuration, end-start)
		}
		if start != it.StartTime || duration != it.Duration {
			e.schedule.items[i].StartTime = start
			e.schedule.items[i].Duration = duration
			changed++
		}
	}
	return changed
}

// Replace swaps in a whole new item set, e.g. a generated schedule, then
// reconciles it with the window. Items are checked against the data model
// first; any failure rejects the whole set and leaves the schedule as it
// was.
func (e *Engine) Replace(items []domain.ScheduleItem) error {
	if err := ValidateItems(items); err != nil {
		return err
	}
	e.schedule.ReplaceAll(items)
	e.ReconcileWindow(e.window)
	return nil
}

// ValidateItems checks each item against the data model and requires ids
// to be unique.
func ValidateItems(items []domain.ScheduleItem) error {
	seen := make(map[string]bool, len(items))
	for idx, it := range items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("schedule item %d: %w", idx, err)
		}
		key := strings.TrimSpace(it.ID)
		if seen[key] {
			return domain.Invalid("id", "duplicate item id %q", it.ID)
		}
		seen[key] = true
	}
	return nil
}
