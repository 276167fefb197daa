package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Settings keys as stored in the key/value settings table.
const (
	SettingName                = "name"
	SettingNorthStar           = "north_star"
	SettingDayDuration         = "day_duration"
	SettingCoreTime            = "core_time"
	SettingWorkingDuration     = "working_duration"
	SettingProfile             = "profile"
	SettingHobbies             = "hobbies"
	SettingIntermittentFasting = "intermittent_fasting"
)

// Working-duration bounds in minutes.
const (
	MinWorkingDuration = 15
	MaxWorkingDuration = 120
)

// Settings is the user's planning context. DayDuration and CoreTime are
// stored as JSON; IntermittentFasting as "true"/"false".
type Settings struct {
	Name                string
	NorthStar           string
	DayDuration         DayWindow
	CoreTime            *DayWindow
	WorkingDuration     int // focus-block length in minutes, 0 when unset
	Profile             string
	Hobbies             string
	IntermittentFasting bool
}

// SettingKeys lists every known key in display order.
func SettingKeys() []string {
	return []string{
		SettingName,
		SettingNorthStar,
		SettingDayDuration,
		SettingCoreTime,
		SettingWorkingDuration,
		SettingProfile,
		SettingHobbies,
		SettingIntermittentFasting,
	}
}

// DefaultSettings returns settings with only the default day window.
func DefaultSettings() Settings {
	return Settings{DayDuration: DefaultDayWindow()}
}

// MapToSettings decodes the key/value form. Unknown keys are ignored.
func MapToSettings(data map[string]string) (Settings, error) {
	s := DefaultSettings()
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !IsSettingKey(k) {
			continue
		}
		if err := s.Apply(k, data[k]); err != nil {
			return Settings{}, err
		}
	}
	return s, nil
}

// SettingsToMap encodes s into the key/value form. Empty optional values
// are omitted.
func SettingsToMap(s Settings) map[string]string {
	day, _ := json.Marshal(s.DayDuration)
	m := map[string]string{
		SettingDayDuration:         string(day),
		SettingIntermittentFasting: strconv.FormatBool(s.IntermittentFasting),
	}
	putIfSet(m, SettingName, s.Name)
	putIfSet(m, SettingNorthStar, s.NorthStar)
	putIfSet(m, SettingProfile, s.Profile)
	putIfSet(m, SettingHobbies, s.Hobbies)
	if s.CoreTime != nil {
		core, _ := json.Marshal(s.CoreTime)
		m[SettingCoreTime] = string(core)
	}
	if s.WorkingDuration > 0 {
		m[SettingWorkingDuration] = strconv.Itoa(s.WorkingDuration)
	}
	return m
}

func putIfSet(m map[string]string, key, value string) {
	if value != "" {
		m[key] = value
	}
}

// IsSettingKey reports whether key is a known setting.
func IsSettingKey(key string) bool {
	for _, k := range SettingKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// Apply sets a single key from its string form. Window values accept
// either the stored JSON object or "HH:MM-HH:MM".
func (s *Settings) Apply(key, value string) error {
	switch key {
	case SettingName:
		s.Name = value
	case SettingNorthStar:
		s.NorthStar = value
	case SettingProfile:
		s.Profile = value
	case SettingHobbies:
		s.Hobbies = value
	case SettingDayDuration:
		w, err := parseWindowValue(key, value)
		if err != nil {
			return err
		}
		s.DayDuration = w
	case SettingCoreTime:
		w, err := parseWindowValue(key, value)
		if err != nil {
			return err
		}
		s.CoreTime = &w
	case SettingWorkingDuration:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return Invalid(key, "expected whole minutes, got %q", value)
		}
		if n < MinWorkingDuration || n > MaxWorkingDuration {
			return Invalid(key, "must be between %d and %d minutes", MinWorkingDuration, MaxWorkingDuration)
		}
		s.WorkingDuration = n
	case SettingIntermittentFasting:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return Invalid(key, "expected true or false, got %q", value)
		}
		s.IntermittentFasting = b
	default:
		return Invalid("key", "unknown setting %q", key)
	}
	return nil
}

// Clear resets a single key to its default.
func (s *Settings) Clear(key string) error {
	def := DefaultSettings()
	switch key {
	case SettingName:
		s.Name = ""
	case SettingNorthStar:
		s.NorthStar = ""
	case SettingProfile:
		s.Profile = ""
	case SettingHobbies:
		s.Hobbies = ""
	case SettingDayDuration:
		s.DayDuration = def.DayDuration
	case SettingCoreTime:
		s.CoreTime = nil
	case SettingWorkingDuration:
		s.WorkingDuration = 0
	case SettingIntermittentFasting:
		s.IntermittentFasting = false
	default:
		return Invalid("key", "unknown setting %q", key)
	}
	return nil
}

// Normalize repairs the day window and fits the core window inside it.
func (s *Settings) Normalize() {
	s.DayDuration = s.DayDuration.Normalize()
	if s.CoreTime != nil {
		core := ClampCoreTime(*s.CoreTime, s.DayDuration)
		s.CoreTime = &core
	}
}

func parseWindowValue(key, value string) (DayWindow, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "{") {
		var w DayWindow
		if err := json.Unmarshal([]byte(value), &w); err != nil {
			return DayWindow{}, Invalid(key, "invalid window JSON: %v", err)
		}
		return w, nil
	}
	start, end, ok := strings.Cut(value, "-")
	if !ok {
		return DayWindow{}, Invalid(key, "expected HH:MM-HH:MM, got %q", value)
	}
	w, err := NewDayWindow(strings.TrimSpace(start), strings.TrimSpace(end))
	if err != nil {
		return DayWindow{}, fmt.Errorf("%s: %w", key, err)
	}
	return w, nil
}
