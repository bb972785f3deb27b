// Package normalize derives canonical comparison keys from display names.
// Two display names refer to the same entity iff their keys are identical.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes and removes combining marks (DUPONT, Élodie -> dupont elodie).
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// superSubDigits maps superscript/subscript digit glyphs to ASCII digits.
// Applied before decomposition: NFD leaves these glyphs alone, and names
// like "CO₂ Zero" vs "CO2 Zero" must compare equal.
var superSubDigits = strings.NewReplacer(
	"⁰", "0", "¹", "1", "²", "2", "³", "3", "⁴", "4",
	"⁵", "5", "⁶", "6", "⁷", "7", "⁸", "8", "⁹", "9",
	"₀", "0", "₁", "1", "₂", "2", "₃", "3", "₄", "4",
	"₅", "5", "₆", "6", "₇", "7", "₈", "8", "₉", "9",
)

// Key converts a display name to its canonical comparison form: digit
// glyphs folded, diacritics stripped, lowercased, every non-alphanumeric
// run collapsed to a single space, no leading or trailing space.
// Key is idempotent and never fails; empty input yields "".
func Key(text string) string {
	if text == "" {
		return ""
	}
	s := superSubDigits.Replace(text)
	s, _, _ = transform.String(stripMarks, s)
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}
