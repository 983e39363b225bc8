package match

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// TokenSortRatio scores the similarity of a and b from 0 to 100,
// ignoring word order. Tokens are sorted and rejoined before the
// Levenshtein distance is turned into a ratio of the longer string.
func TokenSortRatio(a, b string) int {
	a = sortTokens(a)
	b = sortTokens(b)
	if a == b {
		return 100
	}

	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(maxLen))))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

var reBrackets = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)

// StripBrackets removes parenthesized and bracketed parts of s,
// e.g. "La Yumba (instrumental)" becomes "La Yumba".
func StripBrackets(s string) string {
	return strings.Join(strings.Fields(reBrackets.ReplaceAllString(s, " ")), " ")
}
