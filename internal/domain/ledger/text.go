package ledger

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonDigitRe   = regexp.MustCompile(`\D`)
	trailZeroRe  = regexp.MustCompile(`\.0+$`)

	// NFKD decomposition followed by removal of combining marks strips
	// diacritics ("Confirmação" -> "Confirmacao").
	deaccenter = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// StripAccents removes diacritical marks from text.
func StripAccents(s string) string {
	out, _, err := transform.String(deaccenter, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeText canonicalizes free text for comparison: accents stripped,
// lowercased, punctuation collapsed to single spaces.
func NormalizeText(s string) string {
	s = strings.ToLower(StripAccents(s))
	s = nonWordRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeAccount reduces an account identifier to its digits. Cells that
// arrive as "10018.0" or "10018,0" (spreadsheet float formatting) lose the
// spurious fraction before digit extraction. Returns "" when nothing usable
// remains, which invalidates the row.
func NormalizeAccount(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	s = trailZeroRe.ReplaceAllString(s, "")
	return nonDigitRe.ReplaceAllString(s, "")
}
