package domain

import (
	"fmt"
	"time"
)

// ClockTime is a wall-clock "HH:MM" value with no date attached.
type ClockTime struct {
	Hour   int
	Minute int
}

const clockLayout = "15:04"

// ParseClock parses an "HH:MM" string.
func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return ClockTime{}, Invalid("time", "invalid clock time %q, expected HH:MM", s)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// MustClock is ParseClock for constants; it panics on malformed input.
func MustClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockFromMinutes builds a ClockTime from minutes since midnight.
// 1440 wraps to 00:00, the midnight sentinel.
func ClockFromMinutes(m int) ClockTime {
	m = ((m % 1440) + 1440) % 1440
	return ClockTime{Hour: m / 60, Minute: m % 60}
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Minutes returns minutes since midnight.
func (c ClockTime) Minutes() int { return c.Hour*60 + c.Minute }

// IsMidnight reports whether c is exactly 00:00.
func (c ClockTime) IsMidnight() bool { return c.Hour == 0 && c.Minute == 0 }

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
