package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/roa/internal/ranges"
	"github.com/ppiankov/roa/internal/textnorm"
)

const openClaimsHeading = "拒絶の理由を発見しない請求項"

// openClaimsWindow bounds how far past the heading the claim list is searched.
const openClaimsWindow = 1200

var openClaimsRe = regexp.MustCompile(`請求項\s*[（(]?\s*(\d[\d,\- \t、，〜~]*)\s*[）)]?`)

// OpenClaims returns the claims listed under the "no rejection reason found"
// heading. ok is false when the heading is absent. A heading without a
// parseable list yields an empty, non-nil slice.
func OpenClaims(text string) (claims []int, ok bool) {
	t := textnorm.Normalize(text)
	idx := strings.Index(t, openClaimsHeading)
	if idx < 0 {
		return nil, false
	}
	m := openClaimsRe.FindStringSubmatch(headRunes(t[idx:], openClaimsWindow))
	if m == nil {
		return []int{}, true
	}
	return ranges.Parse(m[1]), true
}
