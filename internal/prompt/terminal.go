// Package prompt asks the operator to pick catalogue candidates in the
// terminal.
package prompt

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tigertag/internal/match"
)

// Terminal is a match.Decider backed by small bubbletea programs. Nil
// In and Out mean the process stdin and stdout.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

var _ match.Decider = (*Terminal)(nil)

func (t *Terminal) Present(file match.FileContext, candidates []match.Candidate) (match.Selection, error) {
	final, err := t.run(newPicker(file, candidates))
	if err != nil {
		return match.Skip(), err
	}
	p, ok := final.(*picker)
	if !ok {
		return match.Skip(), fmt.Errorf("unexpected model %T", final)
	}
	if p.aborted {
		return match.Skip(), match.ErrAborted
	}
	return p.selection, nil
}

func (t *Terminal) RequestManualTitle(prompt string) (string, error) {
	final, err := t.run(newTitleInput(prompt))
	if err != nil {
		return "", err
	}
	m, ok := final.(*titleInput)
	if !ok {
		return "", fmt.Errorf("unexpected model %T", final)
	}
	if m.aborted {
		return "", match.ErrAborted
	}
	return m.value, nil
}

func (t *Terminal) run(m tea.Model) (tea.Model, error) {
	var opts []tea.ProgramOption
	if t.In != nil {
		opts = append(opts, tea.WithInput(t.In))
	}
	if t.Out != nil {
		opts = append(opts, tea.WithOutput(t.Out))
	}
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("run prompt: %w", err)
	}
	return final, nil
}
