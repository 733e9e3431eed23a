package model

import (
	"time"

	"github.com/ppiankov/roa/internal/ranges"
)

// Unknown is the placeholder for a missing article or title.
const Unknown = "(unknown)"

// NoveltyRow is one novelty / inventive-step finding for a claim group.
type NoveltyRow struct {
	Claims     string   `json:"claims" yaml:"claims"`         // Compacted claim numbers
	Category   Category `json:"category" yaml:"category"`     // novelty or inventive
	Type       string   `json:"type" yaml:"type"`             // 新規性 / 進歩性
	Article    string   `json:"article" yaml:"article"`       // Statute article or "(unknown)"
	References string   `json:"references" yaml:"references"` // Newline-joined "N:title" labels
	Paragraphs string   `json:"paragraphs" yaml:"paragraphs"` // Newline-joined "N:[....]" labels
}

// Cells returns the row in column order: claims, type, article, references,
// paragraphs/figures.
func (r NoveltyRow) Cells() []string {
	return []string{r.Claims, r.Type, r.Article, r.References, r.Paragraphs}
}

// OtherRow is one finding under a reason other than novelty/inventive step
// (support requirement, clarity, ...).
type OtherRow struct {
	Claims  string `json:"claims" yaml:"claims"`
	Reason  string `json:"reason" yaml:"reason"`   // Effective title or "(unknown)"
	Article string `json:"article" yaml:"article"` // Statute article or "(unknown)"
}

// Cells returns the row in column order: claims, reason, article.
func (r OtherRow) Cells() []string {
	return []string{r.Claims, r.Reason, r.Article}
}

// AttributionDebug records how paragraph tokens were attributed for one
// novelty/inventive mini-item.
type AttributionDebug struct {
	Claims     []int                `json:"claims" yaml:"claims"`
	Refs       []int                `json:"refs" yaml:"refs"`
	ParaByRef  ParagraphAttribution `json:"para_by_ref" yaml:"para_by_ref"`
	BlockNo    int                  `json:"block_no" yaml:"block_no"`
	BlockStyle HeadingStyle         `json:"block_style" yaml:"block_style"`
}

// AnalysisResult is everything extracted from one notice.
type AnalysisResult struct {
	Source      string        `json:"source,omitempty" yaml:"source,omitempty"`
	AnalyzedAt  time.Time     `json:"analyzed_at" yaml:"analyzed_at"`
	References  ReferenceMap  `json:"references" yaml:"references"`
	Blocks      []ReasonBlock `json:"blocks" yaml:"blocks"`
	RowsNovelty []NoveltyRow  `json:"rows_novelty" yaml:"rows_novelty"`
	RowsOther   []OtherRow    `json:"rows_other" yaml:"rows_other"`
	ClaimSets   `yaml:",inline"`

	Debug []AttributionDebug `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// HasExplicitOpen reports whether the notice carried an explicit
// "no rejection reason found" section.
func (r *AnalysisResult) HasExplicitOpen() bool {
	return r.OpenSource == OpenClaimsExplicit
}

// OpenPlaceholder is the text shown when there are no open claims. An
// explicit section means "none"; an inferred empty list may just mean the
// notice could not be parsed.
func (r *AnalysisResult) OpenPlaceholder() string {
	if r.HasExplicitOpen() {
		return "(none)"
	}
	return "(none or unknown)"
}

// OpenText renders open claims compactly, or the placeholder.
func (r *AnalysisResult) OpenText() string {
	if len(r.Open) == 0 {
		return r.OpenPlaceholder()
	}
	return ranges.Compact(r.Open)
}

// AssignedText renders assigned claims compactly, or "(none)".
func (r *AnalysisResult) AssignedText() string {
	if len(r.Assigned) == 0 {
		return "(none)"
	}
	return ranges.Compact(r.Assigned)
}
