// Package classify decides whether a reason block is a novelty,
// inventive-step or other ground.
package classify

import (
	"strings"

	"github.com/ppiankov/roa/internal/model"
	"github.com/ppiankov/roa/internal/textnorm"
)

// otherKeywords mark grounds that never produce novelty rows: support
// requirement, clarity, description requirement, enablement and new matter.
var otherKeywords = []string{"サポート", "明確", "記載要件", "実施可能", "拡張"}

const (
	noveltyTerm   = "新規性"
	inventiveTerm = "進歩性"

	article29     = "特許法第29条"
	article29Par1 = "特許法第29条第1項"
	article29Par2 = "特許法第29条第2項"
)

// IsOtherTitle reports whether a reason title names a non-novelty ground.
func IsOtherTitle(title string) bool {
	key := textnorm.TitleKey(title)
	for _, kw := range otherKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// Classify labels a reason by its effective title, then by its article.
func Classify(title, article string) model.Category {
	if IsOtherTitle(title) {
		return model.CategoryOther
	}

	key := textnorm.TitleKey(title)
	switch {
	case strings.Contains(key, noveltyTerm):
		return model.CategoryNovelty
	case strings.Contains(key, inventiveTerm):
		return model.CategoryInventive
	case strings.Contains(article, article29Par1):
		return model.CategoryNovelty
	case strings.Contains(article, article29Par2):
		return model.CategoryInventive
	}
	return model.CategoryOther
}

// IsRowBearing reports whether c produces novelty/inventive rows.
func IsRowBearing(c model.Category) bool {
	return c == model.CategoryNovelty || c == model.CategoryInventive
}

// ShouldClearArticle reports whether a block's article is a misattributed
// Article 29 match under an other-ground title.
func ShouldClearArticle(title, article string) bool {
	return IsOtherTitle(title) && strings.Contains(article, article29)
}
