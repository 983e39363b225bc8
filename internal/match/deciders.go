package match

// AutoFirst picks the best candidate and never types a title.
type AutoFirst struct{}

func (AutoFirst) Present(FileContext, []Candidate) (Selection, error) {
	return Pick(0), nil
}

func (AutoFirst) RequestManualTitle(string) (string, error) {
	return "", nil
}

// SkipAll skips every prompt.
type SkipAll struct{}

func (SkipAll) Present(FileContext, []Candidate) (Selection, error) {
	return Skip(), nil
}

func (SkipAll) RequestManualTitle(string) (string, error) {
	return "", nil
}

// Scripted replays canned answers in order. Once an answer list is
// exhausted it skips, or returns an empty title. Prompts received are
// recorded for inspection.
type Scripted struct {
	Selections []Selection
	Titles     []string

	Presented []FileContext
	Prompts   []string
}

func (s *Scripted) Present(file FileContext, _ []Candidate) (Selection, error) {
	s.Presented = append(s.Presented, file)
	if len(s.Selections) == 0 {
		return Skip(), nil
	}
	sel := s.Selections[0]
	s.Selections = s.Selections[1:]
	return sel, nil
}

func (s *Scripted) RequestManualTitle(prompt string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	if len(s.Titles) == 0 {
		return "", nil
	}
	title := s.Titles[0]
	s.Titles = s.Titles[1:]
	return title, nil
}
