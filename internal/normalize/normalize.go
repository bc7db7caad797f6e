package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Text folds case and drops diacritics so "Bolívar" and "BOLIVAR" compare
// equal.
func Text(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// Contains reports whether needle occurs in haystack after both are
// normalized. An empty needle matches everything.
func Contains(haystack, needle string) bool {
	needle = Text(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(Text(haystack), needle)
}
