package catalogue

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoTitleColumn is returned when a CSV file has no Title column.
var ErrNoTitleColumn = errors.New("catalogue CSV must contain a Title column")

// column setters keyed by lowercased header name.
var columns = map[string]func(*Fields, string){
	"title":      func(f *Fields, v string) { f.Title = v },
	"orchestra":  func(f *Fields, v string) { f.Orchestra = v },
	"singer":     func(f *Fields, v string) { f.Singer = v },
	"composer":   func(f *Fields, v string) { f.Composer = v },
	"author":     func(f *Fields, v string) { f.Author = v },
	"label":      func(f *Fields, v string) { f.Label = v },
	"master":     func(f *Fields, v string) { f.Master = v },
	"date":       func(f *Fields, v string) { f.Date = v },
	"pianist":    func(f *Fields, v string) { f.Pianist = v },
	"bassist":    func(f *Fields, v string) { f.Bassist = v },
	"bandoneons": func(f *Fields, v string) { f.Bandoneons = v },
	"strings":    func(f *Fields, v string) { f.Strings = v },
	"genre":      func(f *Fields, v string) { f.Genre = v },
	"grouping":   func(f *Fields, v string) { f.Grouping = v },
}

// SourceName returns the default source name for a catalogue file:
// its base name without extension.
func SourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadCSV reads a catalogue CSV file. The source name is the file stem.
func LoadCSV(path string) (*Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cat, err := ReadCSV(f, SourceName(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return cat, nil
}

// ReadCSV parses catalogue rows from r. The first record is the header;
// header names are matched case-insensitively and unknown columns are
// ignored.
func ReadCSV(r io.Reader, source string) (*Catalogue, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoTitleColumn
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	setters := make([]func(*Fields, string), len(header))
	hasTitle := false
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		setters[i] = columns[key]
		if key == "title" {
			hasTitle = true
		}
	}
	if !hasTitle {
		return nil, ErrNoTitleColumn
	}

	var entries []*Entry
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}
		var fields Fields
		for i, v := range rec {
			if i < len(setters) && setters[i] != nil {
				setters[i](&fields, v)
			}
		}
		if strings.TrimSpace(fields.Title) == "" {
			continue
		}
		entries = append(entries, NewEntry(source, row, fields))
	}
	return &Catalogue{entries: entries}, nil
}
