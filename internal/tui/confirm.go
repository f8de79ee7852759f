package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apiprobe-dev/apiprobe/internal/tui/styles"
)

// ConfirmOptions for the confirmation dialog
type ConfirmOptions struct {
	DefaultYes  bool   // Value used when Enter is pressed
	Description string // Optional description text
	CanGoBack   bool   // Allow back navigation
}

// confirmModel is the bubbletea model for confirmation
type confirmModel struct {
	prompt   string
	opts     ConfirmOptions
	quitting bool

	result Result[bool]
}

// Confirm displays a yes/no prompt
func Confirm(prompt string, opts ...ConfirmOptions) (Result[bool], error) {
	var opt ConfirmOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	m := &confirmModel{prompt: prompt, opts: opt}

	model, err := runProgram(m)
	if err != nil {
		return Result[bool]{Action: ActionCancel}, err
	}

	return model.(*confirmModel).result, nil
}

func (m *confirmModel) Init() tea.Cmd {
	return nil
}

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("y", "Y"))):
			m.result = Result[bool]{Value: true, Action: ActionConfirm}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, key.NewBinding(key.WithKeys("n", "N"))):
			m.result = Result[bool]{Value: false, Action: ActionConfirm}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			m.result = Result[bool]{Value: m.opts.DefaultYes, Action: ActionConfirm}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, key.NewBinding(key.WithKeys("esc", "left"))):
			if m.opts.CanGoBack {
				m.result = Result[bool]{Value: false, Action: ActionBack}
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c", "q"))):
			m.result = Result[bool]{Value: false, Action: ActionCancel}
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *confirmModel) View() string {
	if m.quitting {
		return ""
	}

	var parts []string

	var yesText, noText string
	mutedStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	if m.opts.DefaultYes {
		yesText = styles.SuccessStyle.Render("Y")
		noText = mutedStyle.Render("n")
	} else {
		yesText = mutedStyle.Render("y")
		noText = styles.SuccessStyle.Render("N")
	}

	promptLine := styles.PromptStyle.Render("? "+m.prompt) + " (" + yesText + "/" + noText + ")"
	parts = append(parts, promptLine)

	if m.opts.Description != "" {
		parts = append(parts, styles.DescriptionStyle.Render("  "+m.opts.Description))
	}

	helpText := "y: Yes  n: No  Enter: Default"
	if m.opts.CanGoBack {
		helpText += "  Esc: Back"
	}
	parts = append(parts, styles.HelpStyle.Render(helpText))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
