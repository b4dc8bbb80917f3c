package matcher

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/reconlab/wba-recon/internal/domain/ledger"
)

// Similarity scores two free-text descriptions in [0,1]. Both texts are
// normalized (accents stripped, lowercased, punctuation collapsed) and then
// compared with a longest-matching-blocks sequence ratio: 2·M/T where M is
// the total length of matching blocks and T the combined length. Symmetric
// and deterministic; 1.0 for identical normalized text.
func Similarity(a, b string) float64 {
	na := ledger.NormalizeText(a)
	nb := ledger.NormalizeText(b)
	if na == "" && nb == "" {
		return 1.0
	}
	m := difflib.NewMatcher(splitRunes(na), splitRunes(nb))
	return m.Ratio()
}

// splitRunes tokenizes a string into single-rune elements so the sequence
// matcher compares characters, not lines.
func splitRunes(s string) []string {
	return strings.Split(s, "")
}
