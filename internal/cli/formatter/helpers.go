package formatter

import (
	"fmt"
	"strings"
)

// FormatHours renders a fractional hour count as "1h 30m".
func FormatHours(h float64) string {
	mins := int(h*60 + 0.5)
	if mins <= 0 {
		return "0m"
	}
	hours, rest := mins/60, mins%60
	switch {
	case hours > 0 && rest > 0:
		return fmt.Sprintf("%dh %dm", hours, rest)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", rest)
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Placeholder renders a dim "--" for empty values.
func Placeholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return StyleDim.Render("--")
	}
	return s
}
