package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary = lipgloss.Color("#7D56F4") // Purple

	Success = lipgloss.Color("#04B575") // Green
	Error   = lipgloss.Color("#FF6B6B") // Red

	Foreground = lipgloss.Color("#FAFAFA")
	Muted      = lipgloss.Color("#6C6C6C")
	Border     = lipgloss.Color("#3C3C3C")
)

// Base styles
var (
	// TitleStyle for list titles
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(0, 1)

	// PromptStyle for questions
	PromptStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// DescriptionStyle for secondary text
	DescriptionStyle = lipgloss.NewStyle().
				Foreground(Muted)

	// SuccessStyle for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// HelpStyle for keyboard hints
	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)
)

// FocusedBorder for focused inputs
var FocusedBorder = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Primary).
	Padding(0, 1)

// BlurredBorder for unfocused inputs
var BlurredBorder = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)
