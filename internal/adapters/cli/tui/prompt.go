package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PromptModel asks for a single line of input
type PromptModel struct {
	title     string
	input     textinput.Model
	validate  func(string) error
	err       error
	done      bool
	cancelled bool
}

// NewPromptModel creates a prompt. validate may be nil.
func NewPromptModel(title, placeholder string, validate func(string) error) PromptModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Focus()

	return PromptModel{
		title:    title,
		input:    ti,
		validate: validate,
	}
}

func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			value := m.Value()
			if value == "" {
				return m, nil
			}
			if m.validate != nil {
				if err := m.validate(value); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.err = nil
	return m, cmd
}

func (m PromptModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("? " + m.title))
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	if m.err != nil {
		sb.WriteString(errorStyle.Render(m.err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString(hintStyle.Render("(enter to confirm, esc to cancel)"))
	sb.WriteString("\n")
	return sb.String()
}

// Value returns the trimmed input, with surrounding quotes from drag and
// drop removed
func (m PromptModel) Value() string {
	v := strings.TrimSpace(m.input.Value())
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	return v
}

// Cancelled returns true if the user cancelled
func (m PromptModel) Cancelled() bool {
	return m.cancelled || !m.done
}

// RunPrompt displays the prompt and returns the entered value, or "" if
// the user cancelled
func RunPrompt(title, placeholder string, validate func(string) error) (string, error) {
	p := tea.NewProgram(NewPromptModel(title, placeholder, validate))

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	result := finalModel.(PromptModel)
	if result.Cancelled() {
		return "", nil
	}
	return result.Value(), nil
}
