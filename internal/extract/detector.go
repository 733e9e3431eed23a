package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/roa/internal/model"
)

// HeadingDetector finds reason headings of one convention in normalized text.
type HeadingDetector interface {
	// Style returns the heading style this detector produces
	Style() model.HeadingStyle

	// Detect returns every heading it finds, in document order
	Detect(text string) []model.Heading
}

// Registry holds the heading detectors run by the segmenter.
type Registry struct {
	detectors []HeadingDetector
}

// NewRegistry creates a registry with the built-in detectors.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(BulletDetector{})
	r.Register(SummaryDetector{})
	r.Register(PlainDetector{})
	return r
}

// Register adds a detector.
func (r *Registry) Register(d HeadingDetector) {
	r.detectors = append(r.detectors, d)
}

// Detectors returns the registered detectors in registration order.
func (r *Registry) Detectors() []HeadingDetector {
	return r.detectors
}

var (
	// ●理由1（進歩性）について
	bulletHeadRe = regexp.MustCompile(`(^|\n)\s*[●・]\s*理由\s*(\d+)\s*（([^)）]+)）`)

	// A standalone 理由 line opens the summary; a standalone 記 line closes it.
	summaryOpenRe  = regexp.MustCompile(`(^|\n)\s*理由\s*\n`)
	summaryCloseRe = regexp.MustCompile(`(^|\n)\s*記\s*\n`)
	summaryItemRe  = regexp.MustCompile(`(^|\n)\s*(\d+)\s*[.．]\s*（([^)）]+)）`)

	// 理由1．（新規性）, all on one visual line.
	plainHeadRe = regexp.MustCompile(`(^|\n)[ \t\x{3000}]*理由[ \t\x{3000}]*(\d+)[ \t\x{3000}]*[.．][ \t\x{3000}]*（([^)）]+)）`)
)

// BulletDetector finds "●理由N（title）" headings.
type BulletDetector struct{}

// Style implements HeadingDetector.
func (BulletDetector) Style() model.HeadingStyle { return model.StyleBullet }

// Detect implements HeadingDetector.
func (d BulletDetector) Detect(text string) []model.Heading {
	return scanHeadings(bulletHeadRe, text, 0, d.Style())
}

// SummaryDetector finds "N．（title）" items in the preamble between a
// standalone 理由 line and the next standalone 記 line.
type SummaryDetector struct{}

// Style implements HeadingDetector.
func (SummaryDetector) Style() model.HeadingStyle { return model.StyleSummary }

// Detect implements HeadingDetector.
func (d SummaryDetector) Detect(text string) []model.Heading {
	open := summaryOpenRe.FindStringIndex(text)
	if open == nil {
		return nil
	}
	// The region starts at the newline that ends the 理由 line.
	base := open[1] - 1
	end := len(text)
	if loc := summaryCloseRe.FindStringIndex(text[base:]); loc != nil {
		end = base + loc[0]
	}
	return scanHeadings(summaryItemRe, text[base:end], base, d.Style())
}

// PlainDetector finds "理由N．（title）" headings whose tokens share a line.
type PlainDetector struct{}

// Style implements HeadingDetector.
func (PlainDetector) Style() model.HeadingStyle { return model.StylePlain }

// Detect implements HeadingDetector.
func (d PlainDetector) Detect(text string) []model.Heading {
	return scanHeadings(plainHeadRe, text, 0, d.Style())
}

// scanHeadings runs a heading pattern whose groups are (line break, number,
// title). The heading offset is the match start past the line break.
func scanHeadings(re *regexp.Regexp, text string, base int, style model.HeadingStyle) []model.Heading {
	var heads []model.Heading
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		no, err := strconv.Atoi(text[m[4]:m[5]])
		if err != nil {
			continue
		}
		heads = append(heads, model.Heading{
			Offset: base + m[0] + (m[3] - m[2]),
			Style:  style,
			No:     no,
			Title:  strings.TrimSpace(text[m[6]:m[7]]),
		})
	}
	return heads
}
