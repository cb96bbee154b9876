package styles

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// urlInputLimit matches the longest URL most browsers accept in the bar.
const urlInputLimit = 2048

// NewURLInput creates the URL-bar text field, focused and themed.
func NewURLInput(theme *Theme) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "→ "
	ti.Placeholder = "Search or enter address"
	ti.CharLimit = urlInputLimit
	ti.PromptStyle = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	ti.PlaceholderStyle = theme.Subtle
	ti.TextStyle = theme.Normal
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(theme.Accent)
	return ti
}

// InputBox frames the rendered input; the border follows focus.
func (t *Theme) InputBox(input string, focused bool) string {
	if focused {
		return t.InputFocused.Render(input)
	}
	return t.Input.Render(input)
}
