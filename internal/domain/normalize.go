package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeKey lowercases, strips diacritics, and trims the input. It is the
// canonical normalization for category names and sheet enum tokens. Internal
// whitespace is preserved: "plus  size" and "plus size" are distinct keys.
func NormalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	stripped, _, err := transform.String(diacriticStripper, lowered)
	if err != nil {
		return lowered
	}
	return stripped
}

func normalizeToken(raw string) string {
	return NormalizeKey(raw)
}
