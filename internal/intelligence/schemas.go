package intelligence

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/scheduler"
)

// JSON schemas sent as structured-output constraints. Strict mode requires
// every property to be listed in required and additionalProperties=false.
var (
	topGoalsSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "topGoals": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["topGoals"],
  "additionalProperties": false
}`)

	scheduleSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "schedule": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "startTime": {"type": "number"},
          "duration": {"type": "number"},
          "activity": {"type": "string"},
          "activityType": {"type": "string", "enum": ["top-goal", "leisure", "physical", "default"]}
        },
        "required": ["id", "startTime", "duration", "activity", "activityType"],
        "additionalProperties": false
      }
    }
  },
  "required": ["schedule"],
  "additionalProperties": false
}`)

	classifySchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "category": {"type": "string", "enum": ["top-goal", "leisure", "physical", "default"]}
  },
  "required": ["category"],
  "additionalProperties": false
}`)
)

// wireItem mirrors a generated schedule item with pointer fields so a
// missing property is distinguishable from a zero value.
type wireItem struct {
	ID           *string  `json:"id"`
	StartTime    *float64 `json:"startTime"`
	Duration     *float64 `json:"duration"`
	Activity     *string  `json:"activity"`
	ActivityType *string  `json:"activityType"`
}

type wireSchedule struct {
	Schedule []wireItem `json:"schedule"`
}

type wireGoals struct {
	TopGoals []string `json:"topGoals"`
}

type wireCategory struct {
	Category string `json:"category"`
}

func validateGoals(g wireGoals) error {
	if len(domain.CleanGoals(g.TopGoals)) == 0 {
		return domain.Invalid("topGoals", "no goals returned")
	}
	return nil
}

func validateCategory(c wireCategory) error {
	if !domain.ActivityType(c.Category).Valid() {
		return domain.Invalid("category", "%q is not a known category", c.Category)
	}
	return nil
}

// toItems converts the wire schedule, failing on the first item that
// breaks the data model. Nothing is coerced.
func (s wireSchedule) toItems() ([]domain.ScheduleItem, error) {
	items := make([]domain.ScheduleItem, 0, len(s.Schedule))
	for idx, w := range s.Schedule {
		if w.ID == nil || w.StartTime == nil || w.Duration == nil || w.Activity == nil || w.ActivityType == nil {
			return nil, domain.Invalid("schedule", "item %d is missing required fields", idx)
		}
		items = append(items, domain.ScheduleItem{
			ID:           strings.TrimSpace(*w.ID),
			StartTime:    *w.StartTime,
			Duration:     *w.Duration,
			Activity:     *w.Activity,
			ActivityType: domain.ActivityType(*w.ActivityType),
		})
	}
	if err := scheduler.ValidateItems(items); err != nil {
		return nil, err
	}
	return items, nil
}

func generationFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}
