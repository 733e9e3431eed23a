package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/roa/internal/classify"
	"github.com/ppiankov/roa/internal/extract"
	"github.com/ppiankov/roa/internal/logging"
	"github.com/ppiankov/roa/internal/model"
	"github.com/ppiankov/roa/internal/pararef"
	"github.com/ppiankov/roa/internal/ranges"
	"github.com/ppiankov/roa/internal/textnorm"
)

// Analyzer turns the text of one notice into an AnalysisResult. It holds no
// per-call state and is safe for concurrent use.
type Analyzer struct {
	segmenter *extract.Segmenter
	layout    pararef.Layout
	debug     bool
	log       logging.Logger
	now       func() time.Time
}

// AnalyzerOption customizes an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithLayout sets the paragraph/figure layout for row labels.
func WithLayout(l pararef.Layout) AnalyzerOption {
	return func(a *Analyzer) {
		if l != nil {
			a.layout = l
		}
	}
}

// WithDebug records per-item paragraph attribution in the result.
func WithDebug(on bool) AnalyzerOption {
	return func(a *Analyzer) { a.debug = on }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) AnalyzerOption {
	return func(a *Analyzer) { a.log = l }
}

// NewAnalyzer creates an Analyzer with the default grouped layout.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		segmenter: extract.NewSegmenter(),
		layout:    pararef.DefaultLayout(),
		log:       logging.NewNop(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze never fails: anything it cannot recognize is simply absent from
// the result.
func (a *Analyzer) Analyze(raw string) *model.AnalysisResult {
	text := textnorm.Normalize(raw)

	result := &model.AnalysisResult{
		AnalyzedAt:  a.now(),
		References:  extract.ReferenceList(text),
		Blocks:      a.segmenter.Segment(text),
		RowsNovelty: []model.NoveltyRow{},
		RowsOther:   []model.OtherRow{},
	}

	propagateArticles(result.Blocks)
	sanitizeArticles(result.Blocks)

	nonSummary := make(map[int]bool)
	for i := range result.Blocks {
		b := &result.Blocks[i]
		b.EffectiveTitle = extract.EffectiveTitle(*b)
		b.Category = classify.Classify(b.EffectiveTitle, b.Article)
		if b.Style != model.StyleSummary {
			nonSummary[b.No] = true
		}
	}

	var assigned []int
	items := 0
	for _, b := range result.Blocks {
		// A summary entry only restates a reason detailed elsewhere.
		if b.Style == model.StyleSummary && nonSummary[b.No] {
			continue
		}
		for _, mi := range extract.MiniItems(b.Body) {
			items++
			assigned = append(assigned, mi.Claims...)

			if !classify.IsRowBearing(b.Category) {
				result.RowsOther = append(result.RowsOther, otherRow(b, mi))
				continue
			}

			attr := extract.AttributeParagraphs(mi.NoteText)
			if a.debug {
				result.Debug = append(result.Debug, model.AttributionDebug{
					Claims:     mi.Claims,
					Refs:       mi.Refs,
					ParaByRef:  attr,
					BlockNo:    b.No,
					BlockStyle: b.Style,
				})
			}
			result.RowsNovelty = append(result.RowsNovelty, a.noveltyRow(b, mi, attr, result.References))
		}
	}

	explicit, found := extract.OpenClaims(text)
	result.ClaimSets = resolveClaimSets(assigned, explicit, found)

	a.log.Debug("notice analyzed",
		logging.Int("blocks", len(result.Blocks)),
		logging.Int("mini_items", items),
		logging.Int("rows_novelty", len(result.RowsNovelty)),
		logging.Int("rows_other", len(result.RowsOther)),
		logging.String("open_source", string(result.OpenSource)),
	)
	return result
}

// titleKey groups blocks that describe the same reason.
func titleKey(b model.ReasonBlock) string {
	return strconv.Itoa(b.No) + ":" + textnorm.TitleKey(extract.EffectiveTitle(b))
}

// propagateArticles copies an article onto blocks that share a reason
// number and title but carry no article of their own.
func propagateArticles(blocks []model.ReasonBlock) {
	byKey := make(map[string]string)
	for _, b := range blocks {
		if b.No != 0 && b.Article != "" {
			byKey[titleKey(b)] = b.Article
		}
	}
	for i := range blocks {
		b := &blocks[i]
		if b.Article != "" || b.No == 0 {
			continue
		}
		if article, ok := byKey[titleKey(*b)]; ok {
			b.Article = article
		}
	}
}

// sanitizeArticles clears Article 29 from blocks titled as other grounds.
func sanitizeArticles(blocks []model.ReasonBlock) {
	for i := range blocks {
		b := &blocks[i]
		if classify.ShouldClearArticle(extract.EffectiveTitle(*b), b.Article) {
			b.Article = ""
		}
	}
}

func orUnknown(s string) string {
	if s == "" {
		return model.Unknown
	}
	return s
}

func otherRow(b model.ReasonBlock, mi model.MiniItem) model.OtherRow {
	return model.OtherRow{
		Claims:  ranges.Compact(mi.Claims),
		Reason:  orUnknown(b.EffectiveTitle),
		Article: orUnknown(b.Article),
	}
}

func (a *Analyzer) noveltyRow(b model.ReasonBlock, mi model.MiniItem, attr model.ParagraphAttribution, refs model.ReferenceMap) model.NoveltyRow {
	var refLabels, paraLabels []string
	fallback := attr[model.UnattributedRef]

	if len(mi.Refs) == 0 {
		if label := a.paraLabel(model.UnattributedRef, fallback); label != "" {
			paraLabels = append(paraLabels, label)
		}
	}
	for _, n := range mi.Refs {
		refLabels = append(refLabels, refs.Label(n))

		tokens := attr[n]
		if len(tokens) == 0 {
			tokens = fallback
		}
		if label := a.paraLabel(n, tokens); label != "" {
			paraLabels = append(paraLabels, label)
		}
	}

	return model.NoveltyRow{
		Claims:     ranges.Compact(mi.Claims),
		Category:   b.Category,
		Type:       b.Category.Label(),
		Article:    orUnknown(b.Article),
		References: strings.Join(refLabels, "\n"),
		Paragraphs: strings.Join(paraLabels, "\n"),
	}
}

// paraLabel renders tokens as "N:<compacted>", without prefix for the
// unattributed bucket, or "" when nothing compacts.
func (a *Analyzer) paraLabel(ref int, tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	compacted := pararef.FromTokens(tokens).Format(a.layout)
	if compacted == "" {
		return ""
	}
	if ref == model.UnattributedRef {
		return compacted
	}
	return strconv.Itoa(ref) + ":" + compacted
}

// resolveClaimSets reconciles assigned claims with the open-claims section.
// A found section is authoritative even when its list is empty.
func resolveClaimSets(assigned, explicit []int, found bool) model.ClaimSets {
	sets := model.ClaimSets{Assigned: ranges.Unique(assigned)}
	if found {
		if explicit == nil {
			explicit = []int{}
		}
		sets.ExplicitOpen = explicit
		sets.Open = explicit
		sets.OpenSource = model.OpenClaimsExplicit
		return sets
	}

	sets.OpenSource = model.OpenClaimsInferred
	sets.Open = []int{}
	if len(sets.Assigned) == 0 {
		return sets
	}
	has := make(map[int]bool, len(sets.Assigned))
	for _, n := range sets.Assigned {
		has[n] = true
	}
	maxClaim := sets.Assigned[len(sets.Assigned)-1]
	for n := 1; n <= maxClaim; n++ {
		if !has[n] {
			sets.Open = append(sets.Open, n)
		}
	}
	return sets
}
