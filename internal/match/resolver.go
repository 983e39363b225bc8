// Package match finds catalogue entries for an observed title and drives
// the decision between several candidates.
package match

import (
	"sort"
	"strings"

	"github.com/llehouerou/tigertag/internal/catalogue"
	"github.com/llehouerou/tigertag/internal/textnorm"
)

// Defaults used when a Resolver field is zero.
const (
	DefaultLimit           = 10
	DefaultThreshold       = 60
	DefaultManualThreshold = 30
)

// Candidate is a catalogue entry proposed for one query.
type Candidate struct {
	Entry *catalogue.Entry
	Score int // 0-100
	Rank  int // 1-based
}

// Resolver looks up candidates in a catalogue. The zero value uses the
// package defaults.
type Resolver struct {
	Limit           int
	Threshold       int
	ManualThreshold int
}

func (r Resolver) limit() int {
	if r.Limit <= 0 {
		return DefaultLimit
	}
	return r.Limit
}

func (r Resolver) threshold() int {
	if r.Threshold <= 0 {
		return DefaultThreshold
	}
	return r.Threshold
}

func (r Resolver) manualThreshold() int {
	if r.ManualThreshold <= 0 {
		return DefaultManualThreshold
	}
	return r.ManualThreshold
}

// Resolve returns the candidates for an observed title. Passes run in
// order and stop at the first that yields anything: exact match on the
// normalized title, fuzzy match, then fuzzy match on the title with its
// bracketed parts removed.
func (r Resolver) Resolve(query string, cat *catalogue.Catalogue) []Candidate {
	norm := textnorm.Normalize(strings.TrimSpace(query))

	if c := r.exact(norm, cat); len(c) > 0 {
		return c
	}
	if c := r.fuzzy(norm, cat, r.threshold()); len(c) > 0 {
		return c
	}
	if stripped := StripBrackets(norm); stripped != "" && stripped != norm {
		return r.fuzzy(stripped, cat, r.threshold())
	}
	return nil
}

// ResolveManual resolves a title typed by the operator: exact pass, then
// a fuzzy pass at the lower manual threshold.
func (r Resolver) ResolveManual(query string, cat *catalogue.Catalogue) []Candidate {
	norm := textnorm.Normalize(strings.TrimSpace(query))
	if norm == "" {
		return nil
	}
	if c := r.exact(norm, cat); len(c) > 0 {
		return c
	}
	return r.fuzzy(norm, cat, r.manualThreshold())
}

func (r Resolver) exact(norm string, cat *catalogue.Catalogue) []Candidate {
	var out []Candidate
	for _, e := range cat.Entries() {
		if e.NormTitle != norm {
			continue
		}
		out = append(out, Candidate{Entry: e, Score: 100, Rank: len(out) + 1})
		if len(out) == r.limit() {
			break
		}
	}
	return out
}

func (r Resolver) fuzzy(norm string, cat *catalogue.Catalogue, threshold int) []Candidate {
	entries := cat.Entries()
	scored := make([]Candidate, len(entries))
	for i, e := range entries {
		scored[i] = Candidate{Entry: e, Score: TokenSortRatio(norm, e.NormTitle)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	var out []Candidate
	for _, c := range scored[:min(len(scored), r.limit())] {
		if c.Score < threshold {
			break
		}
		c.Rank = len(out) + 1
		out = append(out, c)
	}
	return out
}
