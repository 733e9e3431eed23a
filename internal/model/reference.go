package model

import "sort"

// ReferenceMap maps a cited reference number to its citation title, as
// listed under ＜引用文献等一覧＞.
type ReferenceMap map[int]string

// Label renders a reference as "N:title", or just "N" when the number is not
// in the list.
func (m ReferenceMap) Label(n int) string {
	if title, ok := m[n]; ok && title != "" {
		return itoa(n) + ":" + title
	}
	return itoa(n)
}

// Numbers returns the reference numbers in ascending order.
func (m ReferenceMap) Numbers() []int {
	out := make([]int, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// UnattributedRef is the ParagraphAttribution key for tokens that precede
// any citation marker, or all tokens when there is no marker at all.
const UnattributedRef = 0

// ParagraphAttribution maps a reference number to the raw paragraph/figure
// tokens that follow its citation marker. A present key with an empty slice
// means the reference was mentioned without detail.
type ParagraphAttribution map[int][]string

// Keys returns the attributed reference numbers in ascending order.
func (a ParagraphAttribution) Keys() []int {
	out := make([]int, 0, len(a))
	for n := range a {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Tokens returns the tokens for ref and whether the key is present.
func (a ParagraphAttribution) Tokens(ref int) ([]string, bool) {
	toks, ok := a[ref]
	return toks, ok
}
