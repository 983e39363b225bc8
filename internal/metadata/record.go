// Package metadata turns a catalogue entry into the canonical tag payload
// written to an audio file.
package metadata

import (
	"strings"

	"github.com/llehouerou/tigertag/internal/catalogue"
)

// Record is the canonical metadata for one file. Base fields come from a
// catalogue entry; derived fields are computed once by Synthesize and are
// only reachable through accessors, so they always agree with the base.
type Record struct {
	title      string
	orchestra  string
	singer     string
	composer   string
	author     string
	genre      string
	label      string
	master     string
	grouping   string
	date       catalogue.Date
	pianist    string
	bassist    string
	bandoneons string
	strings    string

	artist        string
	orchestraLast string
	singerLast    string
	lineup        string
	comment       string
}

// Synthesize builds the record for e. It has no failure mode: empty
// fields just drop out of the derived values.
func Synthesize(e *catalogue.Entry) *Record {
	r := &Record{
		title:      e.Title,
		orchestra:  e.Orchestra,
		singer:     e.Singer,
		composer:   e.Composer,
		author:     e.Author,
		genre:      e.Genre,
		label:      e.Label,
		master:     e.Master,
		grouping:   e.Grouping,
		date:       e.Date,
		pianist:    e.Pianist,
		bassist:    e.Bassist,
		bandoneons: e.Bandoneons,
		strings:    e.Strings,
	}
	r.artist = joinNonEmpty(r.orchestra, r.singer)
	r.orchestraLast = LastName(r.orchestra)
	r.singerLast = LastName(r.singer)
	r.lineup = Lineup(r.bandoneons, r.strings, r.pianist, r.bassist)
	r.comment = r.buildComment()
	return r
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " - ")
}

func (r *Record) Title() string             { return r.title }
func (r *Record) Orchestra() string         { return r.orchestra }
func (r *Record) Singer() string            { return r.singer }
func (r *Record) Composer() string          { return r.composer }
func (r *Record) Author() string            { return r.author }
func (r *Record) Genre() string             { return r.genre }
func (r *Record) Label() string             { return r.label }
func (r *Record) Master() string            { return r.master }
func (r *Record) Grouping() string          { return r.grouping }
func (r *Record) Date() catalogue.Date      { return r.date }
func (r *Record) Year() string              { return r.date.YearString() }
func (r *Record) Pianist() string           { return r.pianist }
func (r *Record) Bassist() string           { return r.bassist }
func (r *Record) Bandoneons() string        { return r.bandoneons }
func (r *Record) Strings() string           { return r.strings }
func (r *Record) Artist() string            { return r.artist }
func (r *Record) Lineup() string            { return r.lineup }
func (r *Record) Comment() string           { return r.comment }
func (r *Record) OrchestraLastName() string { return r.orchestraLast }
func (r *Record) SingerLastName() string    { return r.singerLast }

// ArtistLastName is the orchestra's last name, followed by the singer's
// when there is one.
func (r *Record) ArtistLastName() string {
	return joinNonEmpty(r.orchestraLast, r.singerLast)
}

func (r *Record) buildComment() string {
	fields := []struct {
		label string
		value string
	}{
		{"Orchestra", r.orchestra},
		{"Singer", r.singer},
		{"Date", r.date.String()},
		{"Grouping", r.grouping},
		{"Composer", r.composer},
		{"Author", r.author},
		{"Lineup", r.lineup},
		{"Label", r.label},
		{"Master", r.master},
		{"Pianist", r.pianist},
		{"Bassist", r.bassist},
		{"Bandoneons", r.bandoneons},
		{"Strings", r.strings},
	}

	var lines []string
	for _, f := range fields {
		if f.value != "" {
			lines = append(lines, f.label+": "+f.value)
		}
	}
	return strings.Join(lines, "\n")
}
