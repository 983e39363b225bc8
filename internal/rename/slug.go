package rename

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/llehouerou/tigertag/internal/textnorm"
)

const (
	maxStemRunes = 120
	fallbackStem = "untitled"
)

var (
	reUnsafeChars = regexp.MustCompile(`[/\\?%*:|"<>.]`)
	reSeparators  = regexp.MustCompile(`[_\s]+`)
)

// Slugify makes text safe to use as a filename stem: accents are
// stripped, unsafe characters become spaces, runs of spaces collapse and
// the result is capped at 120 characters.
func Slugify(text string) string {
	s := textnorm.StripAccents(text)
	s = reUnsafeChars.ReplaceAllString(s, "_")
	s = strings.TrimSpace(reSeparators.ReplaceAllString(s, " "))
	if utf8.RuneCountInString(s) > maxStemRunes {
		s = strings.TrimSpace(string([]rune(s)[:maxStemRunes]))
	}
	if s == "" {
		return fallbackStem
	}
	return s
}
