package collecting

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeTitle prepares a title for comparison: NFKC, case-folded,
// punctuation and symbols removed, whitespace collapsed.
func NormalizeTitle(title string) string {
	folded := cases.Fold().String(norm.NFKC.String(title))

	var b strings.Builder
	b.Grow(len(folded))

	pendingSpace := false
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case unicode.IsPunct(r), unicode.IsSymbol(r), unicode.IsControl(r):
			continue
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TitleSimilarity scores two titles in [0,1] as one minus the edit distance
// of their normalized forms over the longer length. Titles that normalize
// to nothing never match.
func TitleSimilarity(a, b string) float64 {
	return normalizedSimilarity(NormalizeTitle(a), NormalizeTitle(b))
}

func normalizedSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}
