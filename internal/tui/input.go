package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apiprobe-dev/apiprobe/internal/tui/styles"
)

// ErrRequired is shown when a required input is submitted empty
var ErrRequired = errors.New("this field is required")

// InputOptions for text input customization
type InputOptions struct {
	Placeholder string             // Placeholder text
	Initial     string             // Initial value
	Required    bool               // Whether input is required
	Validate    func(string) error // Validation function
	CanGoBack   bool               // Allow back navigation
}

// inputModel is the bubbletea model for text input
type inputModel struct {
	textInput textinput.Model
	prompt    string
	opts      InputOptions
	err       error
	quitting  bool

	result Result[string]
}

// Input displays a text input prompt
func Input(prompt string, opts ...InputOptions) (Result[string], error) {
	var opt InputOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	ti := textinput.New()
	ti.Placeholder = opt.Placeholder
	ti.SetValue(opt.Initial)
	ti.Width = 50
	ti.Focus()

	m := &inputModel{
		textInput: ti,
		prompt:    prompt,
		opts:      opt,
	}

	model, err := runProgram(m)
	if err != nil {
		return Result[string]{Action: ActionCancel}, err
	}

	return model.(*inputModel).result, nil
}

func (m *inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			value := m.textInput.Value()

			if m.opts.Required && value == "" {
				m.err = ErrRequired
				return m, nil
			}
			if m.opts.Validate != nil {
				if err := m.opts.Validate(value); err != nil {
					m.err = err
					return m, nil
				}
			}

			m.result = Result[string]{Value: value, Action: ActionConfirm}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
			if m.opts.CanGoBack {
				m.result = Result[string]{Value: m.textInput.Value(), Action: ActionBack}
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"))):
			m.result = Result[string]{Action: ActionCancel}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.err = nil // Clear error on any input
	return m, cmd
}

func (m *inputModel) View() string {
	if m.quitting {
		return ""
	}

	promptStyle := styles.PromptStyle
	if m.err != nil {
		promptStyle = styles.ErrorStyle
	}

	var parts []string
	parts = append(parts, promptStyle.Render("? "+m.prompt))

	inputView := m.textInput.View()
	if m.textInput.Focused() {
		inputView = styles.FocusedBorder.Render(inputView)
	} else {
		inputView = styles.BlurredBorder.Render(inputView)
	}
	parts = append(parts, inputView)

	if m.err != nil {
		parts = append(parts, styles.ErrorStyle.Render("  "+m.err.Error()))
	}

	helpText := "Enter: Confirm"
	if m.opts.CanGoBack {
		helpText += "  Esc: Back"
	}
	helpText += "  Ctrl+C: Cancel"
	parts = append(parts, styles.HelpStyle.Render(helpText))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
