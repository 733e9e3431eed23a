package extract

import (
	"regexp"
	"strconv"

	"github.com/ppiankov/roa/internal/model"
	"github.com/ppiankov/roa/internal/pararef"
	"github.com/ppiankov/roa/internal/textnorm"
)

var (
	citationRe  = regexp.MustCompile(`引用文献\s*(\d+)`)
	paraRangeRe = regexp.MustCompile(`\[(\d+)\]\s*-\s*\[(\d+)\]`)
	paraTokenRe = regexp.MustCompile(`\[(\d+)\]`)
	figureRe    = regexp.MustCompile(`図\s*([0-9]+)`)
)

// ParagraphTokens returns "[nnnn]-[mmmm]" tokens for every paragraph range
// followed by "[nnnn]" for every bracketed number, range ends included.
func ParagraphTokens(text string) []string {
	t := textnorm.Normalize(text)
	var out []string
	for _, m := range paraRangeRe.FindAllStringSubmatch(t, -1) {
		out = append(out, "["+pararef.PadDigits(m[1])+"]-["+pararef.PadDigits(m[2])+"]")
	}
	for _, m := range paraTokenRe.FindAllStringSubmatch(t, -1) {
		out = append(out, "["+pararef.PadDigits(m[1])+"]")
	}
	return out
}

// FigureTokens returns one "FIG:[図N]" token per distinct figure mentioned.
func FigureTokens(text string) []string {
	t := textnorm.Normalize(text)
	var out []string
	seen := make(map[string]bool)
	for _, m := range figureRe.FindAllStringSubmatch(t, -1) {
		label := "図" + m[1]
		if seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, "FIG:["+label+"]")
	}
	return out
}

func tokensIn(text string) []string {
	return append(ParagraphTokens(text), FigureTokens(text)...)
}

// AttributeParagraphs scopes the paragraph and figure tokens of a note to
// the 引用文献N marker they follow. Tokens before the first marker, or all
// tokens when there is no marker, go to model.UnattributedRef. A marker with
// no trailing tokens still gets a (possibly empty) entry.
func AttributeParagraphs(note string) model.ParagraphAttribution {
	t := textnorm.Normalize(note)
	out := model.ParagraphAttribution{}

	markers := citationRe.FindAllStringSubmatchIndex(t, -1)
	if len(markers) == 0 {
		if toks := tokensIn(t); len(toks) > 0 {
			out[model.UnattributedRef] = toks
		}
		return out
	}

	if toks := tokensIn(t[:markers[0][0]]); len(toks) > 0 {
		out[model.UnattributedRef] = toks
	}

	for i, m := range markers {
		end := len(t)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		ref, err := strconv.Atoi(t[m[2]:m[3]])
		if err != nil {
			continue
		}
		toks := tokensIn(t[m[0]:end])
		if out[ref] == nil {
			out[ref] = []string{}
		}
		out[ref] = append(out[ref], toks...)
	}
	return out
}
