// Package textnorm canonicalizes the width and punctuation variants found in
// office-action text so the heading and citation heuristics can match a
// single form.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// fullwidthAlnum covers full-width digits and Latin letters only. Full-width
// parentheses and other punctuation stay untouched.
var fullwidthAlnum = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0xFF10, Hi: 0xFF19, Stride: 1},
		{Lo: 0xFF21, Hi: 0xFF3A, Stride: 1},
		{Lo: 0xFF41, Hi: 0xFF5A, Stride: 1},
	},
}

// dashes lists the hyphen/dash variants folded to ASCII '-'.
// U+30FC (long vowel mark) is not one of them.
const dashes = "\u2010-\u2012\u2013\u2014\u2015\uff0d\u2212"

var punctReplacer = strings.NewReplacer(
	"［", "[", "【", "[",
	"］", "]", "】", "]",
	"\u2010", "-", "\u2012", "-", "\u2013", "-", "\u2014", "-",
	"\u2015", "-", "\uff0d", "-", "\u2212", "-",
	"\u00a0", " ", "\u3000", " ",
)

// Normalize returns s with full-width digits and Latin letters narrowed,
// square-bracket variants mapped to ASCII, dash variants mapped to '-' and
// NBSP / ideographic spaces mapped to ASCII space. It is idempotent.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	// Transformers carry state, so each call builds its own chain.
	t := runes.If(runes.In(fullwidthAlnum), width.Narrow, transform.Nop)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return punctReplacer.Replace(folded)
}

// IsDash reports whether r is one of the dash variants Normalize folds.
func IsDash(r rune) bool {
	return strings.ContainsRune(dashes, r)
}

// TitleKey normalizes a reason title for keyword matching and grouping.
// OCR output often breaks the long vowel mark into a hyphen, so every dash
// becomes "ー"; all whitespace is removed.
func TitleKey(title string) string {
	title = Normalize(title)
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case IsDash(r):
			b.WriteRune('ー')
		case unicode.IsSpace(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
