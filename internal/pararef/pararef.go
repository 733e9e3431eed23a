// Package pararef accumulates paragraph numbers and figure labels cited for
// one reference and renders them in compact "[0017]-[0020]" notation.
package pararef

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/roa/internal/ranges"
)

var (
	paraToken = regexp.MustCompile(`^\[(\d+)\](?:-\[(\d+)\])?$`)
	figToken  = regexp.MustCompile(`^FIG:\[(.+)\]$`)
)

// Set holds deduplicated paragraph numbers and figure labels. Ordering is
// imposed only when formatting.
type Set struct {
	paras map[int]bool
	figs  map[string]bool
}

// New creates an empty Set.
func New() *Set {
	return &Set{
		paras: make(map[int]bool),
		figs:  make(map[string]bool),
	}
}

// FromTokens builds a Set from raw tokens.
func FromTokens(tokens []string) *Set {
	s := New()
	for _, tok := range tokens {
		s.Add(tok)
	}
	return s
}

// Add accepts "[nnnn]", "[nnnn]-[mmmm]" or "FIG:[label]". Anything else is
// ignored.
func (s *Set) Add(token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}

	if m := figToken.FindStringSubmatch(token); m != nil {
		s.figs[m[1]] = true
		return
	}

	m := paraToken.FindStringSubmatch(token)
	if m == nil {
		return
	}
	a, err := strconv.Atoi(m[1])
	if err != nil {
		return
	}
	b := a
	if m[2] != "" {
		if b, err = strconv.Atoi(m[2]); err != nil {
			return
		}
	}
	if b < a {
		a, b = b, a
	}
	if b-a > ranges.MaxSpan {
		return
	}
	for n := a; n <= b; n++ {
		s.paras[n] = true
	}
}

// Empty reports whether nothing has been added.
func (s *Set) Empty() bool {
	return len(s.paras) == 0 && len(s.figs) == 0
}

// Paragraphs returns the paragraph numbers in ascending order.
func (s *Set) Paragraphs() []int {
	out := make([]int, 0, len(s.paras))
	for n := range s.paras {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Figures returns the figure labels in lexical order.
func (s *Set) Figures() []string {
	out := make([]string, 0, len(s.figs))
	for f := range s.figs {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Format renders the set with the given layout. A nil layout uses
// DefaultLayout.
func (s *Set) Format(l Layout) string {
	if l == nil {
		l = DefaultLayout()
	}
	return l.render(s)
}

// Pad4 zero-pads n to at least four digits.
func Pad4(n int) string {
	return fmt.Sprintf("%04d", n)
}

// PadDigits zero-pads a digit string to at least four characters.
func PadDigits(digits string) string {
	for len(digits) < 4 {
		digits = "0" + digits
	}
	return digits
}

func bracket(n int) string {
	return "[" + Pad4(n) + "]"
}

func joinParts(paras, figs []string, multiline bool) string {
	if multiline && len(paras) > 0 && len(figs) > 0 {
		return strings.Join(paras, " ") + "\n" + strings.Join(figs, " ")
	}
	return strings.Join(append(paras, figs...), " ")
}

func figParts(labels []string, reverse bool) []string {
	out := make([]string, 0, len(labels))
	for i := range labels {
		idx := i
		if reverse {
			idx = len(labels) - 1 - i
		}
		out = append(out, "FIG:["+labels[idx]+"]")
	}
	return out
}
