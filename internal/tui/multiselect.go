package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apiprobe-dev/apiprobe/internal/tui/styles"
)

// MultiSelectItem represents an item in a multi-select list
type MultiSelectItem[T any] struct {
	Title       string
	Description string
	Value       T
	selected    bool
}

// MultiSelectOptions for customization
type MultiSelectOptions struct {
	PageSize  int  // Number of items to show (default: 8)
	CanGoBack bool // Allow back navigation
}

// multiSelectModel is the bubbletea model for multi-selection
type multiSelectModel[T any] struct {
	list     list.Model
	items    []MultiSelectItem[T]
	quitting bool
	canBack  bool

	result Result[[]T]
}

// MultiSelect displays a checkbox list and returns the checked values
func MultiSelect[T any](prompt string, items []MultiSelectItem[T], opts ...MultiSelectOptions) (Result[[]T], error) {
	var opt MultiSelectOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.PageSize == 0 {
		opt.PageSize = 8
	}

	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = multiItemWrapper[T]{item: item, index: i}
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

	m := &multiSelectModel[T]{
		list:    l,
		items:   items,
		canBack: opt.CanGoBack,
	}

	model, err := runProgram(m)
	if err != nil {
		return Result[[]T]{Action: ActionCancel}, err
	}

	return model.(*multiSelectModel[T]).result, nil
}

// multiItemWrapper adapts MultiSelectItem to the list.Item interface
type multiItemWrapper[T any] struct {
	item  MultiSelectItem[T]
	index int
}

func (i multiItemWrapper[T]) FilterValue() string { return i.item.Title }

func (i multiItemWrapper[T]) Title() string {
	if i.item.selected {
		return "☑ " + i.item.Title
	}
	return "☐ " + i.item.Title
}

func (i multiItemWrapper[T]) Description() string { return i.item.Description }

func (m *multiSelectModel[T]) Init() tea.Cmd {
	return nil
}

func (m *multiSelectModel[T]) refreshItems() {
	newItems := make([]list.Item, len(m.items))
	for idx, item := range m.items {
		newItems[idx] = multiItemWrapper[T]{item: item, index: idx}
	}
	m.list.SetItems(newItems)
}

func (m *multiSelectModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			var selected []T
			for _, item := range m.items {
				if item.selected {
					selected = append(selected, item.Value)
				}
			}
			m.result = Result[[]T]{Value: selected, Action: ActionConfirm}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, key.NewBinding(key.WithKeys(" "))):
			if i, ok := m.list.SelectedItem().(multiItemWrapper[T]); ok {
				m.items[i.index].selected = !m.items[i.index].selected
				m.refreshItems()
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("a"))):
			for i := range m.items {
				m.items[i].selected = true
			}
			m.refreshItems()
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("n"))):
			for i := range m.items {
				m.items[i].selected = false
			}
			m.refreshItems()
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("esc", "left", "backspace"))):
			if m.canBack {
				m.result = Result[[]T]{Action: ActionBack}
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c", "q"))):
			m.result = Result[[]T]{Action: ActionCancel}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *multiSelectModel[T]) View() string {
	if m.quitting {
		return ""
	}

	selectedCount := 0
	for _, item := range m.items {
		if item.selected {
			selectedCount++
		}
	}

	helpParts := []string{
		"↑/↓: Navigate",
		"Space: Toggle",
		"a: All",
		"n: None",
		fmt.Sprintf("(%d selected)", selectedCount),
	}
	if m.canBack {
		helpParts = append(helpParts, "Esc: Back")
	}
	helpParts = append(helpParts, "Enter: Confirm", "Ctrl+C: Quit")

	help := styles.HelpStyle.Render(strings.Join(helpParts, "  "))
	return m.list.View() + "\n" + help
}
