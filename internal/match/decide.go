package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/llehouerou/tigertag/internal/catalogue"
)

var (
	// ErrNoCandidate is returned by Choose when no pass found anything.
	ErrNoCandidate = errors.New("no matching catalogue entry")
	// ErrAborted is returned by a Decider to stop the whole run.
	ErrAborted = errors.New("aborted by user")
	// ErrInvalidSelection is returned when a Decider picks an index outside
	// the candidate list.
	ErrInvalidSelection = errors.New("selection out of range")
)

// Selection is the answer to a candidate prompt: a picked index or an
// explicit skip. The zero value is a skip.
type Selection struct {
	index  int
	picked bool
}

// Pick selects the candidate at index i (0-based).
func Pick(i int) Selection {
	return Selection{index: i, picked: true}
}

// Skip leaves the file untouched.
func Skip() Selection {
	return Selection{}
}

// Index returns the picked index, ok is false for a skip.
func (s Selection) Index() (int, bool) {
	return s.index, s.picked
}

func (s Selection) IsSkip() bool {
	return !s.picked
}

func (s Selection) String() string {
	if !s.picked {
		return "skip"
	}
	return fmt.Sprintf("pick %d", s.index)
}

// FileContext is what the operator sees about the file being matched.
type FileContext struct {
	Path  string
	Title string
	Album string
	Date  string
}

// Decider supplies the human decisions of a run. Calls are synchronous;
// returning ErrAborted stops the run.
type Decider interface {
	Present(file FileContext, candidates []Candidate) (Selection, error)
	RequestManualTitle(prompt string) (string, error)
}

// Status is the result of Choose for one file.
type Status int

const (
	StatusSelected Status = iota
	StatusSkipped
	StatusNoCandidate
)

// Outcome describes how a file was matched.
type Outcome struct {
	Status     Status
	Chosen     Candidate
	Candidates []Candidate
	// ManualTitle is set when the operator typed a replacement title.
	ManualTitle string
}

// Choose resolves query against cat and asks d to decide when needed.
// A single candidate is selected without prompting. With no candidate the
// operator is asked for a title once; if that still yields nothing the
// outcome is StatusNoCandidate with ErrNoCandidate.
func (r Resolver) Choose(file FileContext, query string, cat *catalogue.Catalogue, d Decider) (Outcome, error) {
	var out Outcome

	cands := r.Resolve(query, cat)
	if len(cands) == 0 {
		title, err := d.RequestManualTitle(fmt.Sprintf("No match for %q, enter a title (empty to skip):", query))
		if err != nil {
			return out, err
		}
		out.ManualTitle = strings.TrimSpace(title)
		if out.ManualTitle != "" {
			cands = r.ResolveManual(out.ManualTitle, cat)
		}
	}
	out.Candidates = cands

	switch len(cands) {
	case 0:
		out.Status = StatusNoCandidate
		return out, ErrNoCandidate
	case 1:
		out.Status = StatusSelected
		out.Chosen = cands[0]
		return out, nil
	}

	sel, err := d.Present(file, cands)
	if err != nil {
		return out, err
	}
	idx, ok := sel.Index()
	if !ok {
		out.Status = StatusSkipped
		return out, nil
	}
	if idx < 0 || idx >= len(cands) {
		return out, fmt.Errorf("%w: %d of %d", ErrInvalidSelection, idx, len(cands))
	}
	out.Status = StatusSelected
	out.Chosen = cands[idx]
	return out, nil
}
