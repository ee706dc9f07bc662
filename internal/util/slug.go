package util

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// The suffix always opens with a letter so a slug never reads as a
// primary key.
const (
	slugSuffixPrefix = "s"
	slugSuffixLength = 6
)

// stripMarks builds a fresh chain per call; transformers keep state.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Slugify transliterates s to ASCII, lower-cases it and joins the words with
// underscores.
func Slugify(s string) string {
	folded, _, err := transform.String(stripMarks(), s)
	if err != nil {
		folded = s
	}
	folded = unidecode.Unidecode(folded)

	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// NewSlug builds a slug from name plus a random suffix, so the same name
// yields a different slug every time.
func NewSlug(name string) string {
	suffix := slugSuffixPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:slugSuffixLength-len(slugSuffixPrefix)]
	return Slugify(name + "_" + suffix)
}
