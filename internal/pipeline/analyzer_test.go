package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ppiankov/roa/internal/logging"
	"github.com/ppiankov/roa/internal/model"
	"github.com/ppiankov/roa/internal/pararef"
)

const inventiveNotice = "＜引用文献等一覧＞\n" +
	"１．特開2004-064133号公報\n" +
	"２．特開2019-103077号公報\n" +
	"３．特開2015-167284号公報\n\n" +
	"●理由1（進歩性）について\n" +
	"特許法第29条第2項の規定により特許を受けることができない。\n\n" +
	"・請求項 ６\n" +
	"・引用文献等 １－３\n" +
	"・備考\n" +
	"　引用文献１（段落［００２１］、図８）には、信号の強さを視覚化して矢印で\n" +
	"表わす場合、障害のない理想的な空間において理論的に算出される受信電力（信\n" +
	"号の強さ）と比べて、減衰率が小さい（所定の範囲内）の場合には実線の矢印で\n" +
	"表わし、減衰率が大きい場合には破線の矢印で表わすものとすることと、実線と\n" +
	"破線の２種類の矢印で表わしているが、より細分化して多種の矢印等を用いて表\n" +
	"わしても良いことが記載されている。\n\n" +
	"　したがって、引用文献１に記載された発明に引用文献２及び引用文献３に記載\n" +
	"された発明を適用し、本願の請求項６に係る発明の構成に至ることは、当業者が\n" +
	"容易に想到し得ることである。\n"

func TestAnalyze_InventiveStepEndToEnd(t *testing.T) {
	res := NewAnalyzer(WithDebug(true)).Analyze(inventiveNotice)

	require.Len(t, res.RowsNovelty, 1)
	assert.Empty(t, res.RowsOther)

	row := res.RowsNovelty[0]
	assert.Equal(t, "6", row.Claims)
	assert.Equal(t, model.CategoryInventive, row.Category)
	assert.Equal(t, "進歩性", row.Type)
	assert.Equal(t, "特許法第29条第2項", row.Article)
	assert.Equal(t,
		"1:特開2004-064133号公報\n2:特開2019-103077号公報\n3:特開2015-167284号公報",
		row.References)
	assert.Equal(t, "1:[0021]\nFIG:[図8]", row.Paragraphs)
	assert.NotContains(t, row.Paragraphs, "2:")
	assert.NotContains(t, row.Paragraphs, "3:")

	require.Len(t, res.Debug, 1)
	assert.Equal(t, []int{1, 2, 3}, res.Debug[0].ParaByRef.Keys())

	assert.Equal(t, []int{6}, res.Assigned)
	assert.Nil(t, res.ExplicitOpen)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, res.Open)
	assert.Equal(t, model.OpenClaimsInferred, res.OpenSource)
	assert.Equal(t, "1-5", res.OpenText())
}

func TestAnalyze_EmptyInput(t *testing.T) {
	res := NewAnalyzer().Analyze("")
	assert.Empty(t, res.Blocks)
	assert.Empty(t, res.RowsNovelty)
	assert.Empty(t, res.RowsOther)
	assert.Empty(t, res.Assigned)
	assert.Empty(t, res.Open)
	assert.Equal(t, "(none or unknown)", res.OpenText())
	assert.Equal(t, "(none)", res.AssignedText())
	assert.Nil(t, res.Debug)
}

func TestAnalyze_SanitizesArticle29UnderSupportTitle(t *testing.T) {
	text := "●理由1（サポート要件）について\n" +
		"（特許法第29条第2項の判断とは別に）\n" +
		"・請求項 1-2\n" +
		"・備考\n記載不備。\n"

	res := NewAnalyzer().Analyze(text)
	require.Len(t, res.Blocks, 1)
	assert.Equal(t, "", res.Blocks[0].Article)
	assert.Equal(t, model.CategoryOther, res.Blocks[0].Category)

	require.Len(t, res.RowsOther, 1)
	assert.Equal(t, model.OtherRow{Claims: "1-2", Reason: "サポート要件", Article: model.Unknown}, res.RowsOther[0])
	assert.Empty(t, res.RowsNovelty)
}

const summaryNotice = `この出願は、次の理由によって拒絶をすべきものです。

理由

１．（新規性）この出願の請求項に係る発明は、特許法第29条第1項第3号に該当し、特許を受けることができない。
２．（明確性）この出願は、特許請求の範囲の記載が不備のため、要件を満たしていない。

記

●理由1（新規性）について
・請求項 1、2
・引用文献等 1
・備考
引用文献1の段落[0011]、[0017]-[0020]、[0023]、[0027]。

●理由2（明確性）について
・請求項 3
・備考
「略」の範囲が不明確。

＜拒絶の理由を発見しない請求項＞
請求項（４－５）に係る発明については、現時点では、拒絶の理由を発見しない。

＜引用文献等一覧＞
１．特開2001-000001号公報
`

func TestAnalyze_SummarySkippedAndArticlePropagated(t *testing.T) {
	res := NewAnalyzer().Analyze(summaryNotice)

	require.Len(t, res.Blocks, 4)
	// The detailed bullet block inherits the article found in the summary.
	assert.Equal(t, model.StyleBullet, res.Blocks[2].Style)
	assert.Equal(t, "特許法第29条第1項", res.Blocks[2].Article)

	require.Len(t, res.RowsNovelty, 1)
	row := res.RowsNovelty[0]
	assert.Equal(t, "1-2", row.Claims)
	assert.Equal(t, "新規性", row.Type)
	assert.Equal(t, "特許法第29条第1項", row.Article)
	assert.Equal(t, "1:特開2001-000001号公報", row.References)
	assert.Equal(t, "1:[0011] [0020]-[0017] [0023] [0027]", row.Paragraphs)

	require.Len(t, res.RowsOther, 1)
	assert.Equal(t, "3", res.RowsOther[0].Claims)
	assert.Equal(t, "明確性", res.RowsOther[0].Reason)

	assert.Equal(t, []int{1, 2, 3}, res.Assigned)
	assert.Equal(t, []int{4, 5}, res.ExplicitOpen)
	assert.Equal(t, []int{4, 5}, res.Open)
	assert.True(t, res.HasExplicitOpen())
}

func TestAnalyze_SummaryOnlyReasonIsKept(t *testing.T) {
	text := "理由\n1．（進歩性）特許法第29条第2項\n・請求項 2\n・引用文献等 1\n・備考\n段落[0005]\n記\n" +
		"\n＜引用文献等一覧＞\n1．特開2010-000010号公報\n"
	res := NewAnalyzer().Analyze(text)

	require.Len(t, res.RowsNovelty, 1)
	row := res.RowsNovelty[0]
	assert.Equal(t, "2", row.Claims)
	assert.Equal(t, "1:特開2010-000010号公報", row.References)
	// No marker: bucket 0 stands in for reference 1.
	assert.Equal(t, "1:[0005]", row.Paragraphs)
}

func TestAnalyze_ExplicitEmptyOpenClaims(t *testing.T) {
	text := "●理由1（新規性）について\n・請求項 2\n\n＜拒絶の理由を発見しない請求項＞\n現時点では、ありません。\n"
	res := NewAnalyzer().Analyze(text)

	assert.Equal(t, []int{2}, res.Assigned)
	require.NotNil(t, res.ExplicitOpen)
	assert.Empty(t, res.ExplicitOpen)
	assert.Empty(t, res.Open)
	assert.Equal(t, model.OpenClaimsExplicit, res.OpenSource)
	assert.Equal(t, "(none)", res.OpenText())
}

func TestAnalyze_NoRefsUsesUnprefixedLabel(t *testing.T) {
	text := "●理由1（新規性）について\n・請求項 1\n・備考\n段落[0003]-[0001]及び図2\n"
	res := NewAnalyzer().Analyze(text)

	require.Len(t, res.RowsNovelty, 1)
	assert.Equal(t, "", res.RowsNovelty[0].References)
	assert.Equal(t, "[0003]-[0001]\nFIG:[図2]", res.RowsNovelty[0].Paragraphs)
	assert.Equal(t, model.Unknown, res.RowsNovelty[0].Article)
}

func TestAnalyze_LegacyLayout(t *testing.T) {
	text := "●理由1（新規性）について\n・請求項 1\n・引用文献等 1\n・備考\n引用文献1の[0001]-[0003]、[0005]、図1\n"
	res := NewAnalyzer(WithLayout(pararef.Legacy{Desc: true})).Analyze(text)

	require.Len(t, res.RowsNovelty, 1)
	assert.Equal(t, "1:[0005] [0003]-[0001] FIG:[図1]", res.RowsNovelty[0].Paragraphs)
}

func TestAnalyze_ConcurrentCallsAreIndependent(t *testing.T) {
	a := NewAnalyzer()
	done := make(chan *model.AnalysisResult, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- a.Analyze(inventiveNotice) }()
	}
	for i := 0; i < 8; i++ {
		res := <-done
		require.Len(t, res.RowsNovelty, 1)
		assert.Equal(t, "6", res.RowsNovelty[0].Claims)
	}
}

func TestAnalyze_LogsSummary(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := NewAnalyzer(WithLogger(logging.NewFromCore(core)))
	a.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	res := a.Analyze(inventiveNotice)
	assert.Equal(t, 2024, res.AnalyzedAt.Year())

	entries := logs.FilterMessage("notice analyzed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["rows_novelty"])
	assert.True(t, strings.HasPrefix(string(res.OpenSource), "inferred"))
}

func TestResolveClaimSets(t *testing.T) {
	sets := resolveClaimSets([]int{5, 3, 3, 1}, nil, false)
	assert.Equal(t, []int{1, 3, 5}, sets.Assigned)
	assert.Equal(t, []int{2, 4}, sets.Open)

	sets = resolveClaimSets(nil, nil, false)
	assert.Empty(t, sets.Open)
	assert.NotNil(t, sets.Open)

	sets = resolveClaimSets([]int{1}, nil, true)
	assert.Equal(t, []int{}, sets.ExplicitOpen)
}

func TestPropagateArticles(t *testing.T) {
	blocks := []model.ReasonBlock{
		{No: 1, ReasonTitle: "進歩性", Article: "特許法第29条第2項"},
		{No: 1, ReasonTitle: "進 歩 性"},
		{No: 2, ReasonTitle: "進歩性"},
		{No: 0, ReasonTitle: "進歩性"},
	}
	propagateArticles(blocks)
	assert.Equal(t, "特許法第29条第2項", blocks[1].Article)
	assert.Equal(t, "", blocks[2].Article)
	assert.Equal(t, "", blocks[3].Article)
}
