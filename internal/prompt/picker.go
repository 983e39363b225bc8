package prompt

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tigertag/internal/keymap"
	"github.com/llehouerou/tigertag/internal/match"
)

var (
	pickerBindings = keymap.ByContext("picker")
	pickerKeys     = keymap.NewMap(pickerBindings)
	pickerHelp     = "[1-9] Select directly   " +
		keymap.Help(pickerBindings, keymap.ActionSelect, keymap.ActionSkip, keymap.ActionAbort)
)

// picker lets the operator choose one candidate or skip the file.
type picker struct {
	file       match.FileContext
	candidates []match.Candidate

	pos    int
	offset int
	width  int
	height int

	selection match.Selection
	aborted   bool
}

func newPicker(file match.FileContext, candidates []match.Candidate) *picker {
	return &picker{
		file:       file,
		candidates: candidates,
		width:      defaultWidth,
		selection:  match.Skip(),
	}
}

func (m *picker) Init() tea.Cmd {
	return nil
}

func (m *picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scroll()
	case tea.KeyMsg:
		key := msg.String()
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.candidates) {
				m.selection = match.Pick(i)
				return m, tea.Quit
			}
			return m, nil
		}
		switch pickerKeys.Resolve(key) {
		case keymap.ActionUp:
			m.move(-1)
		case keymap.ActionDown:
			m.move(1)
		case keymap.ActionFirst:
			m.move(-len(m.candidates))
		case keymap.ActionLast:
			m.move(len(m.candidates))
		case keymap.ActionSelect:
			m.selection = match.Pick(m.pos)
			return m, tea.Quit
		case keymap.ActionSkip:
			m.selection = match.Skip()
			return m, tea.Quit
		case keymap.ActionAbort:
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *picker) move(delta int) {
	if len(m.candidates) == 0 {
		return
	}
	m.pos = min(max(m.pos+delta, 0), len(m.candidates)-1)
	m.scroll()
}

// visible is the number of candidate rows that fit under the header.
func (m *picker) visible() int {
	if m.height <= 0 {
		return len(m.candidates)
	}
	return max(m.height-9, 3)
}

func (m *picker) scroll() {
	rows := m.visible()
	if m.pos < m.offset {
		m.offset = m.pos
	}
	if m.pos >= m.offset+rows {
		m.offset = m.pos - rows + 1
	}
}

func (m *picker) View() string {
	width := max(m.width-2, 20)

	lines := []string{
		titleStyle.Render(truncate(filepath.Base(m.file.Path), width)),
		headerStyle.Render("Title: ") + valueStyle.Render(truncate(m.file.Title, width-7)),
	}
	if m.file.Album != "" {
		lines = append(lines, headerStyle.Render("Album: ")+valueStyle.Render(truncate(m.file.Album, width-7)))
	}
	if m.file.Date != "" {
		lines = append(lines, headerStyle.Render("Date:  ")+valueStyle.Render(m.file.Date))
	}
	lines = append(lines, separator(width))

	end := min(m.offset+m.visible(), len(m.candidates))
	for i := m.offset; i < end; i++ {
		line := fit(candidateLine(m.candidates[i]), width-2)
		if i == m.pos {
			lines = append(lines, cursorStyle.Render("> ")+selectedStyle.Render(line))
		} else {
			lines = append(lines, "  "+line)
		}
	}

	lines = append(lines,
		separator(width),
		dimStyle.Render(pickerHelp),
	)
	return strings.Join(lines, "\n") + "\n"
}

// candidateLine renders "score  title  orchestra / singer  date".
func candidateLine(c match.Candidate) string {
	e := c.Entry
	who := e.Orchestra
	if e.Singer != "" {
		who += " / " + e.Singer
	}
	parts := []string{fmt.Sprintf("%2d. %s", c.Rank, scoreStyle.Render(fmt.Sprintf("%3d", c.Score))), e.Title}
	if who != "" {
		parts = append(parts, who)
	}
	if !e.Date.IsZero() {
		parts = append(parts, e.Date.String())
	}
	return strings.Join(parts, "  ")
}
