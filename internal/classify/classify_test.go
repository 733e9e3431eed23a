package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/roa/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		article string
		want    model.Category
	}{
		{"novelty title", "新規性", "", model.CategoryNovelty},
		{"inventive title", "進歩性", "特許法第29条第1項", model.CategoryInventive},
		{"article first paragraph", "", "特許法第29条第1項", model.CategoryNovelty},
		{"article second paragraph", "", "特許法第29条第2項", model.CategoryInventive},
		{"support beats article", "サポート要件", "特許法第29条第2項", model.CategoryOther},
		{"clarity", "明確性", "特許法第36条第6項", model.CategoryOther},
		{"enablement", "実施可能要件", "", model.CategoryOther},
		{"new matter", "拡張", "", model.CategoryOther},
		{"description requirement spaced", "記載 要件", "", model.CategoryOther},
		{"nothing known", "", "", model.CategoryOther},
		{"unrelated article", "その他", "特許法第17条の2第3項", model.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.title, tt.article))
		})
	}
}

func TestIsOtherTitle_HyphenatedLongVowel(t *testing.T) {
	// OCR output splits ー into a dash.
	assert.True(t, IsOtherTitle("サポ-ト要件"))
	assert.True(t, IsOtherTitle("サポ－ト要件"))
	assert.False(t, IsOtherTitle("進歩性"))
}

func TestShouldClearArticle(t *testing.T) {
	assert.True(t, ShouldClearArticle("サポート要件", "特許法第29条第2項"))
	assert.False(t, ShouldClearArticle("サポート要件", "特許法第36条第6項第1号"))
	assert.False(t, ShouldClearArticle("進歩性", "特許法第29条第2項"))
}

func TestIsRowBearing(t *testing.T) {
	assert.True(t, IsRowBearing(model.CategoryNovelty))
	assert.True(t, IsRowBearing(model.CategoryInventive))
	assert.False(t, IsRowBearing(model.CategoryOther))
}
