package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/roa/internal/model"
	"github.com/ppiankov/roa/internal/ranges"
	"github.com/ppiankov/roa/internal/textnorm"
)

var (
	claimItemRe   = regexp.MustCompile(`(^|\n)\s*[・●]\s*請求項\s*([^\n]+)`)
	claimNextRe   = regexp.MustCompile(`(^|\n)\s*[・●]\s*請求項\s*`)
	refLineRe     = regexp.MustCompile(`(^|\n)\s*[・●]\s*引用文献等\s*([^\n]+)`)
	remarksMarkRe = regexp.MustCompile(`(^|\n)\s*[・●]\s*備考\s*(?:\n|$)`)
)

// MiniItems splits a block body into claim-scoped items. Each item runs
// from its ・請求項 line to the next one or the end of the body.
func MiniItems(body string) []model.MiniItem {
	t := textnorm.Normalize(body)

	var out []model.MiniItem
	for _, m := range claimItemRe.FindAllStringSubmatchIndex(t, -1) {
		claimsText := strings.TrimSpace(t[m[4]:m[5]])

		start, end := m[0], len(t)
		if next := claimNextRe.FindStringIndex(t[m[1]:]); next != nil {
			end = m[1] + next[0]
		}
		chunk := t[start:end]

		refs := []int{}
		if rm := refLineRe.FindStringSubmatch(chunk); rm != nil {
			refs = ranges.Parse(rm[2])
		}

		out = append(out, model.MiniItem{
			ClaimsText: claimsText,
			Claims:     ranges.Parse(claimsText),
			Refs:       refs,
			NoteText:   noteText(chunk),
		})
	}
	return out
}

// noteText returns what follows a ・備考 line, or the whole chunk when the
// item has no remarks label.
func noteText(chunk string) string {
	loc := remarksMarkRe.FindStringIndex(chunk)
	if loc == nil {
		return chunk
	}
	return strings.TrimSpace(chunk[loc[1]:])
}
