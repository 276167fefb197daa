package gcal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	tbcal "github.com/alexanderramin/timebox/internal/calendar"
	"github.com/alexanderramin/timebox/internal/domain"
)

// Private extended properties stamped on exported events.
const (
	PropItemID = "timebox_id"
	PropDate   = "timebox_date"
)

// PrimaryCalendar is the signed-in user's default calendar.
const PrimaryCalendar = "primary"

// Google Calendar event color ids per activity type.
var colorIDs = map[domain.ActivityType]string{
	domain.ActivityTopGoal:  "11", // tomato
	domain.ActivityLeisure:  "3",  // grape
	domain.ActivityPhysical: "10", // basil
	domain.ActivityDefault:  "9",  // blueberry
}

// ItemToEvent converts item on date into a calendar event in loc.
func ItemToEvent(item domain.ScheduleItem, date string, loc *time.Location) (*calendar.Event, error) {
	day, err := time.ParseInLocation(domain.DateLayout, date, loc)
	if err != nil {
		return nil, domain.Invalid("date", "expected YYYY-MM-DD, got %q", date)
	}
	start := tbcal.SlotTime(day, item.StartTime)
	end := tbcal.SlotTime(day, item.EndTime())
	return &calendar.Event{
		Summary: item.DisplayTitle(),
		ColorId: colorIDs[item.ActivityType],
		Start:   &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: loc.String()},
		End:     &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: loc.String()},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{PropItemID: item.ID, PropDate: date},
		},
	}, nil
}

// sameEvent reports whether existing already matches want.
func sameEvent(existing, want *calendar.Event) bool {
	if existing.Summary != want.Summary || existing.ColorId != want.ColorId {
		return false
	}
	return sameTime(existing.Start, want.Start) && sameTime(existing.End, want.End)
}

func sameTime(a, b *calendar.EventDateTime) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, errA := time.Parse(time.RFC3339, a.DateTime)
	tb, errB := time.Parse(time.RFC3339, b.DateTime)
	return errA == nil && errB == nil && ta.Equal(tb)
}

// ExportResult counts the changes made to the calendar.
type ExportResult struct {
	Created   int
	Updated   int
	Unchanged int
	Deleted   int
}

// Exporter writes day schedules into one calendar.
type Exporter struct {
	srv        *calendar.Service
	calendarID string
}

// NewExporter creates an Exporter. An empty calendarID means the primary
// calendar.
func NewExporter(srv *calendar.Service, calendarID string) *Exporter {
	if calendarID == "" {
		calendarID = PrimaryCalendar
	}
	return &Exporter{srv: srv, calendarID: calendarID}
}

// dayEvents returns the previously exported events for date keyed by item id.
func (e *Exporter) dayEvents(ctx context.Context, date string) (map[string]*calendar.Event, error) {
	out := make(map[string]*calendar.Event)
	call := e.srv.Events.List(e.calendarID).
		PrivateExtendedProperty(PropDate + "=" + date).
		ShowDeleted(false).
		SingleEvents(true)
	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, ev := range page.Items {
			if ev.ExtendedProperties == nil {
				continue
			}
			id := ev.ExtendedProperties.Private[PropItemID]
			if id == "" {
				continue
			}
			out[id] = ev
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing exported events: %w", err)
	}
	return out, nil
}

// Export mirrors items into the calendar: events are created or updated by
// item id, and events exported earlier for date whose item is gone are
// deleted.
func (e *Exporter) Export(ctx context.Context, date string, items []domain.ScheduleItem, loc *time.Location) (ExportResult, error) {
	var res ExportResult
	if loc == nil {
		loc = time.Local
	}
	existing, err := e.dayEvents(ctx, date)
	if err != nil {
		return res, err
	}

	for _, item := range items {
		want, err := ItemToEvent(item, date, loc)
		if err != nil {
			return res, err
		}
		prev, ok := existing[item.ID]
		delete(existing, item.ID)
		switch {
		case !ok:
			if _, err := e.srv.Events.Insert(e.calendarID, want).Context(ctx).Do(); err != nil {
				return res, fmt.Errorf("creating event for %s: %w", item.ID, err)
			}
			res.Created++
		case sameEvent(prev, want):
			res.Unchanged++
		default:
			if _, err := e.srv.Events.Update(e.calendarID, prev.Id, want).Context(ctx).Do(); err != nil {
				return res, fmt.Errorf("updating event for %s: %w", item.ID, err)
			}
			res.Updated++
		}
	}

	for id, stale := range existing {
		if err := e.srv.Events.Delete(e.calendarID, stale.Id).Context(ctx).Do(); err != nil {
			return res, fmt.Errorf("deleting event for %s: %w", id, err)
		}
		res.Deleted++
	}
	return res, nil
}
