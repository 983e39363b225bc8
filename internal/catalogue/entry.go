// Package catalogue holds the reference recordings that audio files are
// matched against, and the ways to load them (CSV files, the sqlite store).
package catalogue

import (
	"fmt"
	"strings"

	"github.com/llehouerou/tigertag/internal/textnorm"
)

// Fields are the raw column values of one catalogue row.
type Fields struct {
	Title      string
	Orchestra  string
	Singer     string
	Composer   string
	Author     string
	Label      string
	Master     string
	Date       string
	Pianist    string
	Bassist    string
	Bandoneons string
	Strings    string
	Genre      string
	Grouping   string
}

// Entry is one reference recording. Entries are built once and never
// modified; NormTitle is computed at construction.
type Entry struct {
	ID     string // stable row identity: "<source>#<row>"
	Source string
	Row    int

	Title     string
	NormTitle string

	Orchestra string
	Singer    string
	Composer  string
	Author    string
	Label     string
	Master    string
	Date      Date
	Year      string

	// Personnel lists, comma separated, optionally "Name (instrument)".
	Pianist    string
	Bassist    string
	Bandoneons string
	Strings    string

	Genre    string
	Grouping string
}

// NewEntry builds an entry from raw column values.
func NewEntry(source string, row int, f Fields) *Entry {
	date := ParseDate(f.Date)
	return &Entry{
		ID:         fmt.Sprintf("%s#%d", source, row),
		Source:     source,
		Row:        row,
		Title:      strings.TrimSpace(f.Title),
		NormTitle:  textnorm.Normalize(strings.TrimSpace(f.Title)),
		Orchestra:  strings.TrimSpace(f.Orchestra),
		Singer:     strings.TrimSpace(f.Singer),
		Composer:   strings.TrimSpace(f.Composer),
		Author:     strings.TrimSpace(f.Author),
		Label:      strings.TrimSpace(f.Label),
		Master:     strings.TrimSpace(f.Master),
		Date:       date,
		Year:       date.YearString(),
		Pianist:    strings.TrimSpace(f.Pianist),
		Bassist:    strings.TrimSpace(f.Bassist),
		Bandoneons: strings.TrimSpace(f.Bandoneons),
		Strings:    strings.TrimSpace(f.Strings),
		Genre:      strings.TrimSpace(f.Genre),
		Grouping:   strings.TrimSpace(f.Grouping),
	}
}

// Fields returns the raw column values the entry was built from
// (with the date in its normalized form).
func (e *Entry) Fields() Fields {
	return Fields{
		Title:      e.Title,
		Orchestra:  e.Orchestra,
		Singer:     e.Singer,
		Composer:   e.Composer,
		Author:     e.Author,
		Label:      e.Label,
		Master:     e.Master,
		Date:       e.Date.String(),
		Pianist:    e.Pianist,
		Bassist:    e.Bassist,
		Bandoneons: e.Bandoneons,
		Strings:    e.Strings,
		Genre:      e.Genre,
		Grouping:   e.Grouping,
	}
}
