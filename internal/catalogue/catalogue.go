package catalogue

import (
	"regexp"
	"strconv"
	"strings"
)

// Catalogue is an immutable, ordered snapshot of entries. It is safe to
// share between goroutines; every operation returns a new snapshot.
type Catalogue struct {
	entries []*Entry
}

// New creates a catalogue from entries, keeping their order.
func New(entries []*Entry) *Catalogue {
	cp := make([]*Entry, len(entries))
	copy(cp, entries)
	return &Catalogue{entries: cp}
}

// Union concatenates catalogues in order. Nil catalogues are ignored.
func Union(cats ...*Catalogue) *Catalogue {
	var n int
	for _, c := range cats {
		if c != nil {
			n += len(c.entries)
		}
	}
	entries := make([]*Entry, 0, n)
	for _, c := range cats {
		if c != nil {
			entries = append(entries, c.entries...)
		}
	}
	return &Catalogue{entries: entries}
}

// Len returns the number of entries.
func (c *Catalogue) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// At returns the entry at index i.
func (c *Catalogue) At(i int) *Entry {
	return c.entries[i]
}

// Entries returns a copy of the entry list.
func (c *Catalogue) Entries() []*Entry {
	if c == nil {
		return nil
	}
	cp := make([]*Entry, len(c.entries))
	copy(cp, c.entries)
	return cp
}

// Sources returns the distinct source names in first-seen order.
func (c *Catalogue) Sources() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, e := range c.entries {
		if !seen[e.Source] {
			seen[e.Source] = true
			out = append(out, e.Source)
		}
	}
	return out
}

// Filter restricts a work session to some sources and a year range.
// Zero values mean "no restriction".
type Filter struct {
	Sources  []string
	FromYear int
	ToYear   int
}

// IsZero reports whether the filter restricts nothing.
func (f Filter) IsZero() bool {
	return len(f.Sources) == 0 && f.FromYear == 0 && f.ToYear == 0
}

// Match reports whether e passes the filter. Entries without a known year
// only pass when no year bound is set.
func (f Filter) Match(e *Entry) bool {
	if len(f.Sources) > 0 {
		found := false
		for _, s := range f.Sources {
			if strings.EqualFold(s, e.Source) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.FromYear == 0 && f.ToYear == 0 {
		return true
	}
	if e.Date.IsZero() {
		return false
	}
	if f.FromYear != 0 && e.Date.Year < f.FromYear {
		return false
	}
	if f.ToYear != 0 && e.Date.Year > f.ToYear {
		return false
	}
	return true
}

// Filter returns the entries matching f, in order.
func (c *Catalogue) Filter(f Filter) *Catalogue {
	if c == nil {
		return New(nil)
	}
	if f.IsZero() {
		return c
	}
	out := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return &Catalogue{entries: out}
}

var (
	reYearRange  = regexp.MustCompile(`(?:^|\D)((?:19|20)\d{2})\s*[-–—]\s*((?:19|20)\d{2})(?:\D|$)`)
	reSingleYear = regexp.MustCompile(`(?:^|\D)((?:19|20)\d{2})(?:\D|$)`)
)

// YearsFromFolder extracts a year range from a folder name such as
// "Pugliese 1949-1951" or "(1935 - 1945)". A single year yields a range
// of that one year. ok is false when no year is present.
func YearsFromFolder(name string) (from, to int, ok bool) {
	if m := reYearRange.FindStringSubmatch(name); m != nil {
		from, _ = strconv.Atoi(m[1])
		to, _ = strconv.Atoi(m[2])
		if from > to {
			from, to = to, from
		}
		return from, to, true
	}
	if m := reSingleYear.FindStringSubmatch(name); m != nil {
		y, _ := strconv.Atoi(m[1])
		return y, y, true
	}
	return 0, 0, false
}
