package model

import "strconv"

// HeadingStyle identifies which heading convention introduced a reason block.
type HeadingStyle string

const (
	StyleBullet  HeadingStyle = "bullet"  // ●理由1（進歩性）について
	StyleSummary HeadingStyle = "summary" // 1．（進歩性）... inside the 理由 preamble
	StylePlain   HeadingStyle = "plain"   // 理由1．（進歩性）
)

// Priority orders styles that share a document offset: bullet wins over
// summary, summary over plain.
func (s HeadingStyle) Priority() int {
	switch s {
	case StyleBullet:
		return 3
	case StyleSummary:
		return 2
	case StylePlain:
		return 1
	default:
		return 0
	}
}

// Category is the destination of a reason block's rows.
type Category string

const (
	CategoryNovelty   Category = "novelty"
	CategoryInventive Category = "inventive"
	CategoryOther     Category = "other"
)

// Label returns the Japanese display label for novelty and inventive step.
func (c Category) Label() string {
	switch c {
	case CategoryNovelty:
		return "新規性"
	case CategoryInventive:
		return "進歩性"
	default:
		return string(c)
	}
}

// Heading is a detected reason heading before the document is sliced.
type Heading struct {
	Offset int          // Byte offset of the heading line in the normalized text
	Style  HeadingStyle // Detector that produced it
	No     int          // Reason number
	Title  string       // Parenthesized title, trimmed
}

// ReasonBlock is one contiguous span governed by a single rejection reason.
// No is not unique across blocks.
type ReasonBlock struct {
	No          int          `json:"no" yaml:"no"`
	Style       HeadingStyle `json:"style" yaml:"style"`
	HeaderLine  string       `json:"header_line" yaml:"header_line"`
	ReasonTitle string       `json:"reason_title" yaml:"reason_title"`
	Article     string       `json:"article" yaml:"article"`
	Body        string       `json:"body" yaml:"body"`

	// Filled by the analyzer for the debug view.
	EffectiveTitle string   `json:"effective_title,omitempty" yaml:"effective_title,omitempty"`
	Category       Category `json:"category,omitempty" yaml:"category,omitempty"`
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
