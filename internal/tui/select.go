package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apiprobe-dev/apiprobe/internal/tui/styles"
)

// SelectItem represents an item in a selection list
type SelectItem[T any] struct {
	Title       string
	Description string
	Value       T
}

// SelectOptions for customization
type SelectOptions struct {
	PageSize  int  // Number of items to show (default: 8)
	CanGoBack bool // Allow back navigation
}

// selectModel is the bubbletea model for selection
type selectModel[T any] struct {
	list     list.Model
	items    []SelectItem[T]
	quitting bool
	canBack  bool

	result Result[T]
}

// Select displays a selection list and returns the selected item's value
func Select[T any](prompt string, items []SelectItem[T], opts ...SelectOptions) (Result[T], error) {
	var opt SelectOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.PageSize == 0 {
		opt.PageSize = 8
	}

	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = selectItemWrapper[T]{item: item}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(styles.Primary).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(styles.Primary)

	l := list.New(listItems, delegate, 60, min(len(items), opt.PageSize)+4)
	l.Title = prompt
	l.Styles.Title = styles.TitleStyle
	l.Styles.TitleBar = lipgloss.NewStyle()
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(len(items) > opt.PageSize)

	m := &selectModel[T]{
		list:    l,
		items:   items,
		canBack: opt.CanGoBack,
	}

	model, err := runProgram(m)
	if err != nil {
		var zero T
		return Result[T]{Value: zero, Action: ActionCancel}, err
	}

	return model.(*selectModel[T]).result, nil
}

// selectItemWrapper adapts SelectItem to the list.Item interface
type selectItemWrapper[T any] struct {
	item SelectItem[T]
}

func (i selectItemWrapper[T]) FilterValue() string { return i.item.Title }
func (i selectItemWrapper[T]) Title() string       { return i.item.Title }
func (i selectItemWrapper[T]) Description() string { return i.item.Description }

func (m *selectModel[T]) Init() tea.Cmd {
	return nil
}

func (m *selectModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if i, ok := m.list.SelectedItem().(selectItemWrapper[T]); ok {
				m.result = Result[T]{Value: i.item.Value, Action: ActionConfirm}
				m.quitting = true
			}
			return m, tea.Quit

		case key.Matches(msg, key.NewBinding(key.WithKeys("esc", "left", "backspace"))):
			if m.canBack {
				var zero T
				m.result = Result[T]{Value: zero, Action: ActionBack}
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c", "q"))):
			var zero T
			m.result = Result[T]{Value: zero, Action: ActionCancel}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *selectModel[T]) View() string {
	if m.quitting {
		return ""
	}

	helpText := "↑/↓: Navigate  Enter: Select"
	if m.canBack {
		helpText += "  Esc: Back"
	}
	helpText += "  Ctrl+C: Quit"

	return m.list.View() + "\n" + styles.HelpStyle.Render(helpText)
}
