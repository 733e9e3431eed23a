package model

// MiniItem is one claim-group → references → note triple inside a reason
// block.
type MiniItem struct {
	ClaimsText string `json:"claims_text" yaml:"claims_text"` // Raw text after 請求項 (e.g., "1-3")
	Claims     []int  `json:"claims" yaml:"claims"`           // Parsed claim numbers, ascending
	Refs       []int  `json:"refs" yaml:"refs"`               // Cited reference numbers, ascending
	NoteText   string `json:"note_text" yaml:"note_text"`     // Remarks body, or the whole item when unlabeled
}

// OpenClaimsSource tells where the open-claim list came from.
type OpenClaimsSource string

const (
	OpenClaimsExplicit OpenClaimsSource = "explicit" // ＜拒絶の理由を発見しない請求項＞ section
	OpenClaimsInferred OpenClaimsSource = "inferred" // Complement of assigned claims
)

// ClaimSets reconciles claims that received a rejection reason with those
// that did not.
type ClaimSets struct {
	Assigned []int `json:"assigned_claims" yaml:"assigned_claims"`
	// ExplicitOpen is nil when the notice has no explicit section, and
	// non-nil (possibly empty) when it does.
	ExplicitOpen []int            `json:"explicit_open" yaml:"explicit_open"`
	Open         []int            `json:"open_claims" yaml:"open_claims"`
	OpenSource   OpenClaimsSource `json:"open_source" yaml:"open_source"`
}
