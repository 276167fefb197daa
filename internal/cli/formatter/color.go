package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/timebox/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorBg     = lipgloss.Color("#282828")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ActivityColor is the calendar color of an activity type: red for top
// goals, purple for leisure, green for physical and blue otherwise.
func ActivityColor(t domain.ActivityType) lipgloss.Color {
	switch t {
	case domain.ActivityTopGoal:
		return ColorRed
	case domain.ActivityLeisure:
		return ColorPurple
	case domain.ActivityPhysical:
		return ColorGreen
	default:
		return ColorBlue
	}
}

// ActivityStyle returns the foreground style for t.
func ActivityStyle(t domain.ActivityType) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ActivityColor(t))
}

// ActivityBlock returns a filled block style for t, used by the day grid.
func ActivityBlock(t domain.ActivityType) lipgloss.Style {
	return lipgloss.NewStyle().Background(ActivityColor(t)).Foreground(ColorBg)
}

// ActivityBadge renders a colored "● Label" for t.
func ActivityBadge(t domain.ActivityType) string {
	return ActivityStyle(t).Render("● " + t.Label())
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
