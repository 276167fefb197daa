package calendar

import (
	"time"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/scheduler"
)

// Adapter translates one gesture into one Engine call. It holds no
// schedule state of its own.
type Adapter struct {
	engine *scheduler.Engine
}

// NewAdapter binds an adapter to an engine.
func NewAdapter(engine *scheduler.Engine) *Adapter {
	return &Adapter{engine: engine}
}

// Engine returns the wrapped engine.
func (a *Adapter) Engine() *scheduler.Engine { return a.engine }

// Drop handles an item dragged to [start, end).
func (a *Adapter) Drop(id string, start, end time.Time) bool {
	span, ok := SpanFromTimes(start, end)
	if !ok {
		return false
	}
	return a.engine.Reschedule(id, span.Start, span.Duration)
}

// Resize handles an item whose edge was dragged so it now spans
// [start, end). Either edge may have moved.
func (a *Adapter) Resize(id string, start, end time.Time) bool {
	span, ok := SpanFromTimes(start, end)
	if !ok {
		return false
	}
	return a.engine.Reschedule(id, span.Start, span.Duration)
}

// SelectSlot creates a default-typed, unlabeled item over the selected
// range.
func (a *Adapter) SelectSlot(start, end time.Time) (domain.ScheduleItem, bool) {
	span, ok := SpanFromTimes(start, end)
	if !ok {
		return domain.ScheduleItem{}, false
	}
	return a.engine.Create(span.Start, span.Duration, domain.ActivityDefault)
}
