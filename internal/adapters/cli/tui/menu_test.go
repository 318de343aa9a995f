package tui

import (
	"errors"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/devbush/whisper2srt/internal/domain"
)

func press(m tea.Model, keys ...tea.KeyMsg) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestMenuModel(t *testing.T) {
	options := []MenuOption{
		{Label: "Transcribe a file", Value: "transcribe"},
		{Label: "Manage models", Value: "models"},
		{Label: "Manage cache", Value: "cache"},
	}

	m := press(NewMenuModel("What would you like to do?", options), keyDown, keyDown, keyDown, keyUp, keyEnter)
	if got := m.(MenuModel).Selected(); got != "models" {
		t.Errorf("Selected() = %q, want models", got)
	}

	m = press(NewMenuModel("title", options), keyDown, keyEsc)
	if got := m.(MenuModel).Selected(); got != "" {
		t.Errorf("cancelled menu Selected() = %q, want empty", got)
	}

	view := NewMenuModel("Pick one", options).View()
	if !strings.Contains(view, "Pick one") || !strings.Contains(view, "Manage cache") {
		t.Errorf("View() missing content: %q", view)
	}
}

func TestCheckboxModel(t *testing.T) {
	options := taskOptions([]domain.Task{domain.TaskTranscribe})

	m := press(NewCheckboxModel("Which?", options), keyDown, keySpace, keyEnter)
	cb := m.(CheckboxModel)
	if cb.Cancelled() {
		t.Fatal("checkbox should be confirmed")
	}
	want := []string{"transcribe", "translate"}
	if !slices.Equal(cb.Selected(), want) {
		t.Errorf("Selected() = %v, want %v", cb.Selected(), want)
	}
	if options[1].Checked {
		t.Error("model should not mutate the caller's options")
	}
}

func TestCheckboxModel_RequiresSelection(t *testing.T) {
	options := taskOptions(nil)

	m := press(NewCheckboxModel("Which?", options), keyEnter)
	if !m.(CheckboxModel).Cancelled() {
		t.Error("enter with nothing selected should not confirm")
	}
	if !strings.Contains(m.View(), "select at least 1") {
		t.Errorf("View() should ask for a selection: %q", m.View())
	}

	m = press(m, keyEsc)
	if m.(CheckboxModel).Selected() != nil {
		t.Error("cancel should clear the selection")
	}
}

func TestTasksFromValues(t *testing.T) {
	got := tasksFromValues([]string{"translate", "bogus", "transcribe"})
	want := []domain.Task{domain.TaskTranslate, domain.TaskTranscribe}
	if !slices.Equal(got, want) {
		t.Errorf("tasksFromValues() = %v, want %v", got, want)
	}
}

func typeText(m tea.Model, s string) tea.Model {
	return press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestPromptModel(t *testing.T) {
	m := typeText(NewPromptModel("Audio file", "talk.mp3", nil), `"/tmp/my talk.mp3"`)
	m = press(m, keyEnter)

	p := m.(PromptModel)
	if p.Cancelled() {
		t.Fatal("prompt should be confirmed")
	}
	if p.Value() != "/tmp/my talk.mp3" {
		t.Errorf("Value() = %q, want quotes stripped", p.Value())
	}
}

func TestPromptModel_Validation(t *testing.T) {
	errMissing := errors.New("file does not exist")
	validate := func(s string) error {
		if s != "ok.mp3" {
			return errMissing
		}
		return nil
	}

	m := typeText(NewPromptModel("Audio file", "", validate), "nope.mp3")
	m = press(m, keyEnter)
	if !m.(PromptModel).Cancelled() {
		t.Error("invalid input should not confirm")
	}
	if !strings.Contains(m.View(), "file does not exist") {
		t.Errorf("View() should show the validation error: %q", m.View())
	}

	m = press(m, keyEsc)
	if !m.(PromptModel).Cancelled() {
		t.Error("esc should cancel")
	}
}

func TestPromptModel_EmptyEnterIgnored(t *testing.T) {
	m := press(NewPromptModel("Audio file", "", nil), keyEnter)
	if !m.(PromptModel).Cancelled() {
		t.Error("empty input should not confirm")
	}
}
