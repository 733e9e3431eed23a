package pararef

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/roa/internal/ranges"
)

// Order is a sort direction.
type Order int

const (
	Asc Order = iota
	Desc
)

func (o Order) String() string {
	if o == Desc {
		return "desc"
	}
	return "asc"
}

// ParseOrder accepts "asc" or "desc" (case-insensitive). Empty means Asc.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return Asc, fmt.Errorf("unknown order %q (want asc or desc)", s)
	}
}

// Layout selects how a Set is rendered. It is either Legacy or Grouped.
type Layout interface {
	render(s *Set) string
}

// Legacy sorts once in the direction given by Desc and merges consecutive
// runs in that same direction, so group order and range direction move
// together.
type Legacy struct {
	Desc      bool
	Multiline bool
}

// Grouped merges consecutive runs in ascending order first, then orders the
// groups by GroupOrder and prints each range low-high or high-low according
// to RangeDirection, independently of the group order.
type Grouped struct {
	GroupOrder     Order
	RangeDirection Order
	Multiline      bool
}

// DefaultLayout is the layout used for table rows: ascending groups,
// descending ranges, figures on their own line.
func DefaultLayout() Layout {
	return Grouped{GroupOrder: Asc, RangeDirection: Desc, Multiline: true}
}

func (l Legacy) render(s *Set) string {
	nums := s.Paragraphs()
	if l.Desc {
		sort.Sort(sort.Reverse(sort.IntSlice(nums)))
	}

	var parts []string
	if len(nums) > 0 {
		start, prev := nums[0], nums[0]
		flush := func() {
			if start == prev {
				parts = append(parts, bracket(start))
			} else {
				parts = append(parts, bracket(start)+"-"+bracket(prev))
			}
		}
		for _, n := range nums[1:] {
			diff := n - prev
			if l.Desc {
				diff = prev - n
			}
			if diff == 1 {
				prev = n
				continue
			}
			flush()
			start, prev = n, n
		}
		flush()
	}

	return joinParts(parts, figParts(s.Figures(), l.Desc), l.Multiline)
}

func (l Grouped) render(s *Set) string {
	groups := ranges.Runs(s.Paragraphs())
	if l.GroupOrder == Desc {
		sort.SliceStable(groups, func(i, j int) bool { return groups[i][0] > groups[j][0] })
	}

	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		lo, hi := g[0], g[1]
		switch {
		case lo == hi:
			parts = append(parts, bracket(lo))
		case l.RangeDirection == Desc:
			parts = append(parts, bracket(hi)+"-"+bracket(lo))
		default:
			parts = append(parts, bracket(lo)+"-"+bracket(hi))
		}
	}

	return joinParts(parts, figParts(s.Figures(), l.GroupOrder == Desc), l.Multiline)
}
