package catalogue

import (
	"errors"
	"strings"
	"testing"
)

const sampleCSV = "\ufeffTitle,Orchestra,Singer,Date,Label,Extra\n" +
	"Quejas de Bandoneón,Aníbal Troilo,,1944-07-14,Victor,x\n" +
	",Nobody,,1950,,\n" +
	"La Yumba,Osvaldo Pugliese,,1946-00-00,Odeon,\n" +
	"Recuerdo,Osvaldo Pugliese,,,Odeon,\n"

func TestReadCSV(t *testing.T) {
	cat, err := ReadCSV(strings.NewReader(sampleCSV), "tango")
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if cat.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (empty title row skipped)", cat.Len())
	}

	first := cat.At(0)
	if first.Title != "Quejas de Bandoneón" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.NormTitle != "quejas de bandoneon" {
		t.Errorf("NormTitle = %q", first.NormTitle)
	}
	if first.Orchestra != "Aníbal Troilo" || first.Label != "Victor" {
		t.Errorf("Orchestra/Label = %q/%q", first.Orchestra, first.Label)
	}
	if first.Year != "1944" {
		t.Errorf("Year = %q, want 1944", first.Year)
	}
	if first.ID != "tango#0" {
		t.Errorf("ID = %q, want tango#0", first.ID)
	}

	// Row identity counts skipped rows too.
	if got := cat.At(1).ID; got != "tango#2" {
		t.Errorf("second entry ID = %q, want tango#2", got)
	}
	if got := cat.At(2).Year; got != "" {
		t.Errorf("undated entry Year = %q, want empty", got)
	}
}

func TestReadCSV_CaseInsensitiveHeaders(t *testing.T) {
	cat, err := ReadCSV(strings.NewReader("TITLE,orchestra\nRecuerdo,Osvaldo Pugliese\n"), "s")
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if cat.Len() != 1 || cat.At(0).Orchestra != "Osvaldo Pugliese" {
		t.Errorf("unexpected entries: %+v", cat.Entries())
	}
}

func TestReadCSV_NoTitleColumn(t *testing.T) {
	for _, in := range []string{"", "Orchestra,Singer\nTroilo,Fiorentino\n"} {
		_, err := ReadCSV(strings.NewReader(in), "s")
		if !errors.Is(err, ErrNoTitleColumn) {
			t.Errorf("ReadCSV(%q) error = %v, want ErrNoTitleColumn", in, err)
		}
	}
}

func TestSourceName(t *testing.T) {
	if got := SourceName("/data/Di Sarli.csv"); got != "Di Sarli" {
		t.Errorf("SourceName() = %q, want %q", got, "Di Sarli")
	}
}

func entry(source string, row int, title, date string) *Entry {
	return NewEntry(source, row, Fields{Title: title, Date: date})
}

func TestUnionAndFilter(t *testing.T) {
	a := New([]*Entry{
		entry("Troilo", 0, "Quejas de Bandoneón", "1944-07-14"),
		entry("Troilo", 1, "Sin fecha", ""),
	})
	b := New([]*Entry{
		entry("Pugliese", 0, "La Yumba", "1946-00-00"),
		entry("Pugliese", 1, "Recuerdo", "1944"),
	})

	all := Union(a, nil, b)
	if all.Len() != 4 {
		t.Fatalf("Union Len() = %d, want 4", all.Len())
	}
	if got := all.Sources(); len(got) != 2 || got[0] != "Troilo" || got[1] != "Pugliese" {
		t.Errorf("Sources() = %v", got)
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero", Filter{}, []string{"Quejas de Bandoneón", "Sin fecha", "La Yumba", "Recuerdo"}},
		{"source", Filter{Sources: []string{"troilo"}}, []string{"Quejas de Bandoneón", "Sin fecha"}},
		{"from", Filter{FromYear: 1945}, []string{"La Yumba"}},
		{"range", Filter{FromYear: 1944, ToYear: 1944}, []string{"Quejas de Bandoneón", "Recuerdo"}},
		{"source and year", Filter{Sources: []string{"Pugliese"}, ToYear: 1945}, []string{"Recuerdo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := all.Filter(tt.filter)
			if got.Len() != len(tt.want) {
				t.Fatalf("Len() = %d, want %d", got.Len(), len(tt.want))
			}
			for i, title := range tt.want {
				if got.At(i).Title != title {
					t.Errorf("At(%d) = %q, want %q", i, got.At(i).Title, title)
				}
			}
		})
	}

	// The original snapshot is unchanged.
	if all.Len() != 4 {
		t.Errorf("Filter mutated the catalogue")
	}
}

func TestYearsFromFolder(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		ok       bool
	}{
		{"Pugliese 1949-1951", 1949, 1951, true},
		{"Di Sarli (1935 - 1945)", 1935, 1945, true},
		{"1951-1949 reversed", 1949, 1951, true},
		{"Troilo 1946", 1946, 1946, true},
		{"Troilo", 0, 0, false},
		{"Disc 12345", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, ok := YearsFromFolder(tt.name)
			if from != tt.from || to != tt.to || ok != tt.ok {
				t.Errorf("YearsFromFolder(%q) = %d, %d, %v; want %d, %d, %v",
					tt.name, from, to, ok, tt.from, tt.to, tt.ok)
			}
		})
	}
}
