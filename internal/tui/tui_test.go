package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

// TestConfirmModel tests keyboard handling of the yes/no prompt.
func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name       string
		opts       ConfirmOptions
		key        tea.KeyMsg
		wantValue  bool
		wantAction Action
	}{
		{name: "y confirms yes", key: keyRunes("y"), wantValue: true, wantAction: ActionConfirm},
		{name: "n confirms no", key: keyRunes("n"), wantValue: false, wantAction: ActionConfirm},
		{name: "enter picks default yes", opts: ConfirmOptions{DefaultYes: true}, key: keyEnter, wantValue: true, wantAction: ActionConfirm},
		{name: "enter picks default no", key: keyEnter, wantValue: false, wantAction: ActionConfirm},
		{name: "esc goes back when allowed", opts: ConfirmOptions{CanGoBack: true}, key: keyEsc, wantValue: false, wantAction: ActionBack},
		{name: "ctrl+c cancels", key: keyCtrlC, wantValue: false, wantAction: ActionCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &confirmModel{prompt: "Continue?", opts: tt.opts}

			updated, cmd := m.Update(tt.key)
			result := updated.(*confirmModel).result

			if result.Value != tt.wantValue {
				t.Errorf("value = %v, want %v", result.Value, tt.wantValue)
			}
			if result.Action != tt.wantAction {
				t.Errorf("action = %v, want %v", result.Action, tt.wantAction)
			}
			if cmd == nil {
				t.Error("expected a quit command")
			}
		})
	}
}

// TestConfirmModel_EscIgnoredWithoutBack tests that esc is a no-op unless
// back navigation is enabled.
func TestConfirmModel_EscIgnoredWithoutBack(t *testing.T) {
	m := &confirmModel{prompt: "Continue?"}

	updated, cmd := m.Update(keyEsc)

	if updated.(*confirmModel).quitting {
		t.Error("esc should not quit when back navigation is disabled")
	}
	if cmd != nil {
		t.Error("expected no command")
	}
}

func newTestInput(opts InputOptions) *inputModel {
	ti := textinput.New()
	ti.SetValue(opts.Initial)
	ti.Focus()
	return &inputModel{textInput: ti, prompt: "Model ID", opts: opts}
}

// TestInputModel_Submit tests typing a value and confirming it.
func TestInputModel_Submit(t *testing.T) {
	m := newTestInput(InputOptions{})

	m.Update(keyRunes("gpt-4o"))
	updated, _ := m.Update(keyEnter)

	result := updated.(*inputModel).result
	if result.Value != "gpt-4o" {
		t.Errorf("value = %q, want %q", result.Value, "gpt-4o")
	}
	if !result.IsConfirm() {
		t.Errorf("action = %v, want confirm", result.Action)
	}
}

// TestInputModel_RequiredRejectsEmpty tests that a required input refuses an
// empty submit and recovers once text is entered.
func TestInputModel_RequiredRejectsEmpty(t *testing.T) {
	m := newTestInput(InputOptions{Required: true})

	updated, cmd := m.Update(keyEnter)
	im := updated.(*inputModel)

	if !errors.Is(im.err, ErrRequired) {
		t.Fatalf("err = %v, want ErrRequired", im.err)
	}
	if im.quitting || cmd != nil {
		t.Error("empty submit should not quit")
	}

	im.Update(keyRunes("x"))
	if im.err != nil {
		t.Errorf("typing should clear the error, got %v", im.err)
	}

	updated, _ = im.Update(keyEnter)
	if !updated.(*inputModel).result.IsConfirm() {
		t.Error("expected confirm after entering text")
	}
}

// TestInputModel_Validate tests the custom validation hook.
func TestInputModel_Validate(t *testing.T) {
	validate := func(s string) error {
		if !strings.HasPrefix(s, "gpt-") {
			return errors.New("model must start with gpt-")
		}
		return nil
	}
	m := newTestInput(InputOptions{Initial: "claude", Validate: validate})

	updated, _ := m.Update(keyEnter)
	if updated.(*inputModel).err == nil {
		t.Fatal("expected validation error")
	}

	m = newTestInput(InputOptions{Initial: "gpt-4o", Validate: validate})
	updated, _ = m.Update(keyEnter)
	if !updated.(*inputModel).result.IsConfirm() {
		t.Error("expected confirm for valid value")
	}
}

func newTestSelect(titles ...string) *selectModel[string] {
	items := make([]SelectItem[string], len(titles))
	listItems := make([]list.Item, len(titles))
	for i, title := range titles {
		items[i] = SelectItem[string]{Title: title, Value: title}
		listItems[i] = selectItemWrapper[string]{item: items[i]}
	}

	l := list.New(listItems, list.NewDefaultDelegate(), 60, 12)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return &selectModel[string]{list: l, items: items}
}

// TestSelectModel_PickSecond tests cursor movement and selection.
func TestSelectModel_PickSecond(t *testing.T) {
	m := newTestSelect("gpt-3.5-turbo", "gpt-4o")

	m.Update(keyDown)
	updated, _ := m.Update(keyEnter)

	result := updated.(*selectModel[string]).result
	if result.Value != "gpt-4o" {
		t.Errorf("value = %q, want %q", result.Value, "gpt-4o")
	}
	if !result.IsConfirm() {
		t.Errorf("action = %v, want confirm", result.Action)
	}
}

// TestSelectModel_Cancel tests that q cancels.
func TestSelectModel_Cancel(t *testing.T) {
	m := newTestSelect("gpt-3.5-turbo", "gpt-4o")

	updated, _ := m.Update(keyRunes("q"))

	result := updated.(*selectModel[string]).result
	if !result.IsCancel() {
		t.Errorf("action = %v, want cancel", result.Action)
	}
}

func newTestMultiSelect(titles ...string) *multiSelectModel[string] {
	items := make([]MultiSelectItem[string], len(titles))
	listItems := make([]list.Item, len(titles))
	for i, title := range titles {
		items[i] = MultiSelectItem[string]{Title: title, Value: title}
		listItems[i] = multiItemWrapper[string]{item: items[i], index: i}
	}

	l := list.New(listItems, list.NewDefaultDelegate(), 60, 12)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return &multiSelectModel[string]{list: l, items: items}
}

// TestMultiSelectModel_ToggleAndConfirm tests space toggling plus confirm.
func TestMultiSelectModel_ToggleAndConfirm(t *testing.T) {
	m := newTestMultiSelect("a-model", "b-model", "c-model")

	m.Update(keyRunes(" ")) // toggle a-model
	m.Update(keyDown)
	m.Update(keyRunes(" ")) // toggle b-model
	m.Update(keyRunes(" ")) // untoggle b-model
	m.Update(keyDown)
	m.Update(keyRunes(" ")) // toggle c-model
	updated, _ := m.Update(keyEnter)

	result := updated.(*multiSelectModel[string]).result
	if !result.IsConfirm() {
		t.Fatalf("action = %v, want confirm", result.Action)
	}
	want := []string{"a-model", "c-model"}
	if len(result.Value) != len(want) {
		t.Fatalf("selected = %v, want %v", result.Value, want)
	}
	for i := range want {
		if result.Value[i] != want[i] {
			t.Errorf("selected[%d] = %q, want %q", i, result.Value[i], want[i])
		}
	}
}

// TestMultiSelectModel_SelectAllAndNone tests the a and n shortcuts.
func TestMultiSelectModel_SelectAllAndNone(t *testing.T) {
	m := newTestMultiSelect("a-model", "b-model", "c-model")

	m.Update(keyRunes("a"))
	updated, _ := m.Update(keyEnter)
	if got := len(updated.(*multiSelectModel[string]).result.Value); got != 3 {
		t.Errorf("select all picked %d items, want 3", got)
	}

	m = newTestMultiSelect("a-model", "b-model", "c-model")
	m.Update(keyRunes("a"))
	m.Update(keyRunes("n"))
	updated, _ = m.Update(keyEnter)
	if got := len(updated.(*multiSelectModel[string]).result.Value); got != 0 {
		t.Errorf("select none picked %d items, want 0", got)
	}
}
