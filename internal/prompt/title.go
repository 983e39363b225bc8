package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tigertag/internal/keymap"
)

var (
	titleBindings = keymap.ByContext("title")
	titleKeys     = keymap.NewMap(titleBindings)
	titleHelp     = keymap.Help(titleBindings, keymap.ActionSelect, keymap.ActionSkip, keymap.ActionAbort)
)

// titleInput asks for a replacement title. An empty answer skips the file.
type titleInput struct {
	prompt  string
	input   textinput.Model
	value   string
	aborted bool
}

func newTitleInput(prompt string) *titleInput {
	ti := textinput.New()
	ti.Placeholder = "Title..."
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	return &titleInput{prompt: prompt, input: ti}
}

func (m *titleInput) Init() tea.Cmd {
	return textinput.Blink
}

func (m *titleInput) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch titleKeys.Resolve(key.String()) {
		case keymap.ActionSelect:
			m.value = strings.TrimSpace(m.input.Value())
			return m, tea.Quit
		case keymap.ActionSkip:
			m.value = ""
			return m, tea.Quit
		case keymap.ActionAbort:
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *titleInput) View() string {
	return strings.Join([]string{
		headerStyle.Render(m.prompt),
		m.input.View(),
		dimStyle.Render(titleHelp),
	}, "\n") + "\n"
}
