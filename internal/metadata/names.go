package metadata

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Surname particles that belong to the last name ("Di Sarli").
var particles = map[string]bool{
	"de": true, "di": true, "del": true, "della": true,
	"dell": true, "da": true, "dos": true,
}

// LastName returns the last name in a full name. A particle before the
// last word is kept with it.
func LastName(name string) string {
	tokens := strings.Fields(name)
	switch len(tokens) {
	case 0:
		return ""
	case 1:
		return tokens[0]
	}
	n := len(tokens)
	if particles[strings.ToLower(tokens[n-2])] {
		return tokens[n-2] + " " + tokens[n-1]
	}
	return tokens[n-1]
}

type tally struct {
	order  []string
	counts map[string]int
}

func (t *tally) add(instrument string) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, ok := t.counts[instrument]; !ok {
		t.order = append(t.order, instrument)
	}
	t.counts[instrument]++
}

// addPlayers tallies a comma separated list of players. "Name (instrument)"
// counts for that instrument, a bare name for def.
func (t *tally) addPlayers(list, def string) {
	for _, player := range strings.Split(list, ",") {
		player = strings.TrimSpace(player)
		if player == "" {
			continue
		}
		instrument := def
		if open := strings.LastIndex(player, "("); open >= 0 {
			if alt := strings.TrimSpace(strings.TrimSuffix(player[open+1:], ")")); alt != "" {
				instrument = capitalize(alt)
			}
		}
		t.add(instrument)
	}
}

func (t *tally) phrases() []string {
	out := make([]string, 0, len(t.order))
	for _, instrument := range t.order {
		n := t.counts[instrument]
		phrase := strconv.Itoa(n) + " " + instrument
		if n > 1 {
			phrase += "s"
		}
		out = append(out, phrase)
	}
	return out
}

// Lineup summarizes the personnel fields, e.g.
// "4 Bandoneons, 3 Violins, 1 Viola, Piano, Bass".
func Lineup(bandoneons, strs, pianist, bassist string) string {
	var t tally
	t.addPlayers(bandoneons, "Bandoneon")
	t.addPlayers(strs, "Violin")

	parts := t.phrases()
	if strings.TrimSpace(pianist) != "" {
		parts = append(parts, "Piano")
	}
	if strings.TrimSpace(bassist) != "" {
		parts = append(parts, "Bass")
	}
	return strings.Join(parts, ", ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
