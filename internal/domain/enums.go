package domain

import (
	"fmt"
	"strings"
)

// ActivityType is the closed category set a schedule item belongs to.
type ActivityType string

const (
	ActivityTopGoal  ActivityType = "top-goal"
	ActivityLeisure  ActivityType = "leisure"
	ActivityPhysical ActivityType = "physical"
	ActivityDefault  ActivityType = "default"
)

// activityOrder is the canonical display and cycling order.
var activityOrder = []ActivityType{
	ActivityTopGoal,
	ActivityLeisure,
	ActivityPhysical,
	ActivityDefault,
}

// ActivityTypes returns all valid activity types in canonical order.
func ActivityTypes() []ActivityType {
	out := make([]ActivityType, len(activityOrder))
	copy(out, activityOrder)
	return out
}

// Valid reports whether a is one of the four known tags.
func (a ActivityType) Valid() bool {
	switch a {
	case ActivityTopGoal, ActivityLeisure, ActivityPhysical, ActivityDefault:
		return true
	}
	return false
}

// Next returns the following type in canonical order, wrapping around.
func (a ActivityType) Next() ActivityType {
	for i, t := range activityOrder {
		if t == a {
			return activityOrder[(i+1)%len(activityOrder)]
		}
	}
	return ActivityDefault
}

// Label is the human-readable name of the type.
func (a ActivityType) Label() string {
	switch a {
	case ActivityTopGoal:
		return "Top Goal"
	case ActivityLeisure:
		return "Leisure"
	case ActivityPhysical:
		return "Physical"
	case ActivityDefault:
		return "Default"
	}
	return string(a)
}

// ParseActivityType accepts the wire tag case-insensitively. An empty
// string is not accepted; callers that want the creation default pass
// ActivityDefault explicitly.
func ParseActivityType(s string) (ActivityType, error) {
	a := ActivityType(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", &ValidationError{
			Field:   "activityType",
			Message: fmt.Sprintf("unknown activity type %q (want one of top-goal, leisure, physical, default)", s),
		}
	}
	return a, nil
}
