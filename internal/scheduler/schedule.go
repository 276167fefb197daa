package scheduler

import (
	"github.com/alexanderramin/timebox/internal/domain"
)

// Schedule is the ordered set of items for one day. It performs no
// validation; the Engine is the only writer that enforces placement rules.
type Schedule struct {
	items []domain.ScheduleItem
}

// NewSchedule copies items into a new Schedule.
func NewSchedule(items []domain.ScheduleItem) *Schedule {
	return &Schedule{items: domain.CloneItems(items)}
}

// Items returns a copy of the items in insertion order.
func (s *Schedule) Items() []domain.ScheduleItem {
	out := domain.CloneItems(s.items)
	if out == nil {
		return []domain.ScheduleItem{}
	}
	return out
}

// Sorted returns a copy ordered by start time.
func (s *Schedule) Sorted() []domain.ScheduleItem {
	out := s.Items()
	domain.SortItems(out)
	return out
}

func (s *Schedule) Len() int { return len(s.items) }

// Get looks up an item by id.
func (s *Schedule) Get(id string) (domain.ScheduleItem, bool) {
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return domain.ScheduleItem{}, false
}

// ItemAt returns the item whose start time equals hour exactly.
func (s *Schedule) ItemAt(hour float64) (domain.ScheduleItem, bool) {
	for _, it := range s.items {
		if it.StartTime == hour {
			return it, true
		}
	}
	return domain.ScheduleItem{}, false
}

// ItemCovering returns the item whose interval strictly contains hour,
// i.e. start < hour < end. A slot an item starts in is not "covered".
func (s *Schedule) ItemCovering(hour float64) (domain.ScheduleItem, bool) {
	for _, it := range s.items {
		if it.StartTime < hour && hour < it.EndTime() {
			return it, true
		}
	}
	return domain.ScheduleItem{}, false
}

// ReplaceAll swaps the whole item set in one step.
func (s *Schedule) ReplaceAll(items []domain.ScheduleItem) {
	s.items = domain.CloneItems(items)
}

func (s *Schedule) index(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *Schedule) add(item domain.ScheduleItem) {
	s.items = append(s.items, item)
}

func (s *Schedule) put(item domain.ScheduleItem) bool {
	i := s.index(item.ID)
	if i < 0 {
		return false
	}
	s.items[i] = item
	return true
}

func (s *Schedule) remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}
