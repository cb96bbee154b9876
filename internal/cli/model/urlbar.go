// Package model holds the Bubble Tea models behind the interactive commands.
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/wayfinder/internal/application/usecase"
	"github.com/bnema/wayfinder/internal/cli/styles"
	"github.com/bnema/wayfinder/internal/domain/autocomplete"
	"github.com/bnema/wayfinder/internal/domain/url"
	"github.com/bnema/wayfinder/internal/ui/urlbar"
)

// Suggester produces URL-bar suggestions for a state snapshot.
type Suggester interface {
	Execute(ctx context.Context, input usecase.SuggestURLBarInput) *usecase.SuggestURLBarOutput
}

// URLBarModel is a terminal URL bar: keystrokes go through the store's
// reducer and every state change re-runs the suggestion pass.
type URLBarModel struct {
	// UI components
	input textinput.Model
	help  help.Model
	keys  styles.URLBarKeyMap

	// State
	state    urlbar.State
	output   *usecase.SuggestURLBarOutput
	cursor   int
	lastSent string
	picked   *autocomplete.Action
	width    int
	err      error

	// Dependencies
	ctx       context.Context
	store     *urlbar.Store
	updates   <-chan urlbar.Update
	suggester Suggester
	theme     *styles.Theme
}

// NewURLBarModel creates the model. updates must come from store.Subscribe.
func NewURLBarModel(
	ctx context.Context,
	theme *styles.Theme,
	store *urlbar.Store,
	updates <-chan urlbar.Update,
	suggester Suggester,
) URLBarModel {
	input := styles.NewURLInput(theme)
	input.Focus()

	return URLBarModel{
		input:     input,
		help:      styles.NewStyledHelp(theme),
		keys:      styles.DefaultURLBarKeyMap(),
		ctx:       ctx,
		store:     store,
		updates:   updates,
		suggester: suggester,
		theme:     theme,
		width:     80,
	}
}

type storeUpdateMsg urlbar.Update

type suggestionsMsg struct {
	input  string
	output *usecase.SuggestURLBarOutput
}

// Init implements tea.Model.
func (m URLBarModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForUpdate)
}

func (m URLBarModel) waitForUpdate() tea.Msg {
	u, ok := <-m.updates
	if !ok {
		return nil
	}
	return storeUpdateMsg(u)
}

func (m URLBarModel) suggest(state urlbar.State) tea.Cmd {
	in, ok := urlbar.SuggestInput(state)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return suggestionsMsg{input: in.Input, output: m.suggester.Execute(m.ctx, in)}
	}
}

// Update implements tea.Model.
func (m URLBarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Accept):
			m.picked = m.selectedAction()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < m.suggestionCount()-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Clear):
			m.input.SetValue("")
			m.sendInput()

		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
			m.sendInput()
		}

	case storeUpdateMsg:
		m.state = msg.State
		cmds = append(cmds, m.suggest(m.state), m.waitForUpdate)

	case suggestionsMsg:
		// Drop passes computed for an input the user has since changed.
		if msg.input == m.lastSent {
			m.output = msg.output
			if m.cursor >= m.suggestionCount() {
				m.cursor = 0
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *URLBarModel) sendInput() {
	value := m.input.Value()
	if value == m.lastSent {
		return
	}
	m.lastSent = value
	if !m.store.Dispatch(urlbar.SetNavbarInput{Input: value}) {
		m.err = fmt.Errorf("url bar stopped")
	}
}

func (m URLBarModel) suggestionCount() int {
	if m.output == nil {
		return 0
	}
	return len(m.output.Suggestions)
}

// selectedAction picks the highlighted suggestion, or resolves the typed
// text when there is none: URL-like input is opened, anything else is
// searched with the frame's provider or the default engine.
func (m URLBarModel) selectedAction() *autocomplete.Action {
	if n := m.suggestionCount(); n > 0 && m.cursor < n {
		a := m.output.Suggestions[m.cursor].Action
		return &a
	}

	typed := m.input.Value()
	template := m.state.SearchDetail.SearchURL
	if active, ok := m.state.ActiveFrame(); ok {
		if d := active.Navbar.URLBar.SearchDetail; d != nil {
			typed = url.StripShortcut(typed, d.Shortcut)
			template = d.SearchURL
		}
	}
	location := url.ResolveInput(typed, template)
	if location == "" {
		return nil
	}
	a := autocomplete.Navigate(location)
	return &a
}

// Picked returns the action chosen with enter, nil when the user quit.
func (m URLBarModel) Picked() *autocomplete.Action {
	return m.picked
}

// Err returns the error that stopped the model, if any.
func (m URLBarModel) Err() error {
	return m.err
}

// View implements tea.Model.
func (m URLBarModel) View() string {
	var b strings.Builder

	input := m.input.View()
	if m.output != nil && m.output.Completion != "" {
		input += m.theme.Subtle.Render(m.output.Completion)
	}
	b.WriteString(m.theme.InputBox(input, true))
	b.WriteString("\n")

	if active, ok := m.state.ActiveFrame(); ok {
		if d := active.Navbar.URLBar.SearchDetail; d != nil {
			b.WriteString(m.theme.Subtle.Render("  searching with "))
			b.WriteString(m.theme.Highlight.Render(d.Name))
			b.WriteString("\n")
		}
	}

	if m.output != nil {
		for i, s := range m.output.Suggestions {
			line := m.theme.SuggestionBadge(s.Type) + " " + s.Title
			if s.Location != "" && s.Location != s.Title {
				line += " " + m.theme.ListItemDesc.Render(s.Location)
			}
			if i == m.cursor {
				b.WriteString(m.theme.ListItemSelected.Render(line))
			} else {
				b.WriteString(m.theme.ListItem.Render(line))
			}
			b.WriteString("\n")
		}
	}

	if m.err != nil {
		b.WriteString(m.theme.ErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
