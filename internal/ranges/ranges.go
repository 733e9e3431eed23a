// Package ranges converts between claim/reference number notation such as
// "1-3,5,7-9" and sorted integer sets.
package ranges

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/roa/internal/textnorm"
)

// MaxSpan bounds the width of a single "a-b" token. Wider tokens are treated
// as malformed and skipped.
const MaxSpan = 10000

var (
	tokenPattern = regexp.MustCompile(`^(\d+)(?:-(\d+))?$`)
	splitPattern = regexp.MustCompile(`[\s,]+`)

	separatorReplacer = strings.NewReplacer("〜", "-", "~", "-", "，", ",", "、", ",")
)

// Parse expands notation like "1-3, 5、7〜9" into a sorted, deduplicated
// set. Tokens that do not look like "n" or "a-b" are skipped; reversed
// ranges are swapped.
func Parse(s string) []int {
	s = separatorReplacer.Replace(textnorm.Normalize(s))

	seen := make(map[int]bool)
	for _, part := range splitPattern.Split(s, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, ok := parseToken(part)
		if !ok {
			continue
		}
		for n := lo; n <= hi; n++ {
			seen[n] = true
		}
	}

	return sortedKeys(seen)
}

func parseToken(part string) (int, int, bool) {
	m := tokenPattern.FindStringSubmatch(part)
	if m == nil {
		return 0, 0, false
	}
	a, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	b := a
	if m[2] != "" {
		if b, err = strconv.Atoi(m[2]); err != nil {
			return 0, 0, false
		}
	}
	if b < a {
		a, b = b, a
	}
	if b-a > MaxSpan {
		return 0, 0, false
	}
	return a, b, true
}

// Compact renders nums as comma-joined runs ("1-3,5,7-9"). Input order and
// duplicates do not matter. An empty input yields "".
func Compact(nums []int) string {
	groups := Runs(nums)
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		if g[0] == g[1] {
			parts = append(parts, strconv.Itoa(g[0]))
			continue
		}
		parts = append(parts, strconv.Itoa(g[0])+"-"+strconv.Itoa(g[1]))
	}
	return strings.Join(parts, ",")
}

// Runs sorts and deduplicates nums and merges consecutive values into
// ascending [low, high] pairs.
func Runs(nums []int) [][2]int {
	sorted := Unique(nums)
	if len(sorted) == 0 {
		return nil
	}

	var out [][2]int
	start, prev := sorted[0], sorted[0]
	for _, n := range sorted[1:] {
		if n == prev+1 {
			prev = n
			continue
		}
		out = append(out, [2]int{start, prev})
		start, prev = n, n
	}
	return append(out, [2]int{start, prev})
}

// Unique returns the distinct values of nums in ascending order.
func Unique(nums []int) []int {
	seen := make(map[int]bool, len(nums))
	for _, n := range nums {
		seen[n] = true
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
