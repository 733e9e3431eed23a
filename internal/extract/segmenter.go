package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/roa/internal/model"
)

// articleWindow is how many characters from a block's start are searched for
// the governing statute article.
const articleWindow = 1200

var (
	articleRe    = regexp.MustCompile(`特許法\s*第\s*\d+\s*条(?:\s*第\s*\d+\s*項)?`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	parenTitleRe = regexp.MustCompile(`（([^)）]+)）`)
)

// Segmenter slices a normalized notice into reason blocks.
type Segmenter struct {
	registry *Registry
}

// NewSegmenter creates a segmenter over the built-in detectors.
func NewSegmenter() *Segmenter {
	return &Segmenter{registry: NewRegistry()}
}

// NewSegmenterWithRegistry creates a segmenter over a custom registry.
func NewSegmenterWithRegistry(r *Registry) *Segmenter {
	return &Segmenter{registry: r}
}

// Headings runs every detector and returns the merged, ordered,
// de-duplicated headings.
func (s *Segmenter) Headings(text string) []model.Heading {
	var heads []model.Heading
	for _, d := range s.registry.Detectors() {
		heads = append(heads, d.Detect(text)...)
	}

	sort.SliceStable(heads, func(i, j int) bool {
		if heads[i].Offset != heads[j].Offset {
			return heads[i].Offset < heads[j].Offset
		}
		return heads[i].Style.Priority() > heads[j].Style.Priority()
	})

	type key struct {
		offset int
		no     int
		style  model.HeadingStyle
	}
	seen := make(map[key]bool, len(heads))
	uniq := heads[:0]
	for _, h := range heads {
		k := key{h.Offset, h.No, h.Style}
		if seen[k] {
			continue
		}
		seen[k] = true
		uniq = append(uniq, h)
	}
	return uniq
}

// Segment slices text (already normalized) into one block per heading. Each
// block runs to the next heading or the end of the text.
func (s *Segmenter) Segment(text string) []model.ReasonBlock {
	heads := s.Headings(text)
	blocks := make([]model.ReasonBlock, 0, len(heads))
	for i, h := range heads {
		end := len(text)
		if i+1 < len(heads) {
			end = heads[i+1].Offset
		}
		chunk := text[h.Offset:end]
		blocks = append(blocks, model.ReasonBlock{
			No:          h.No,
			Style:       h.Style,
			HeaderLine:  firstNonBlankLine(chunk),
			ReasonTitle: h.Title,
			Article:     ExtractArticle(chunk),
			Body:        strings.TrimSpace(chunk),
		})
	}
	return blocks
}

// ExtractArticle returns the first "特許法第N条[第M項]" in the head of chunk,
// with whitespace removed, or "".
func ExtractArticle(chunk string) string {
	m := articleRe.FindString(headRunes(chunk, articleWindow))
	if m == "" {
		return ""
	}
	return whitespaceRe.ReplaceAllString(m, "")
}

// EffectiveTitle returns the block's captured title, falling back to the
// first parenthesized text in its header line.
func EffectiveTitle(b model.ReasonBlock) string {
	if t := strings.TrimSpace(b.ReasonTitle); t != "" {
		return t
	}
	if m := parenTitleRe.FindStringSubmatch(b.HeaderLine); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func firstNonBlankLine(chunk string) string {
	for _, line := range strings.Split(chunk, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}

// headRunes returns at most n leading runes of s.
func headRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
