package cli

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/timebox/internal/cli/formatter"
)

// timeboxHuhTheme matches huh forms to the formatter palette.
func timeboxHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	t.Focused.Title = fg(formatter.ColorHeader).Bold(true)
	t.Focused.Description = fg(formatter.ColorDim)
	t.Focused.SelectSelector = fg(formatter.ColorHeader)
	t.Focused.SelectedOption = fg(formatter.ColorGreen)
	t.Focused.UnselectedOption = fg(formatter.ColorFg)
	t.Focused.FocusedButton = fg(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = fg(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = fg(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = fg(formatter.ColorHeader)
	t.Focused.TextInput.Text = fg(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = fg(formatter.ColorDim)
	t.Focused.ErrorMessage = fg(formatter.ColorRed)

	t.Blurred.Title = fg(formatter.ColorDim)
	t.Blurred.SelectSelector = fg(formatter.ColorDim)
	t.Blurred.SelectedOption = fg(formatter.ColorDim)
	t.Blurred.UnselectedOption = fg(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = fg(formatter.ColorDim)
	t.Blurred.TextInput.Text = fg(formatter.ColorDim)

	return t
}
