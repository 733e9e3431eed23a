package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_WidthFolding(t *testing.T) {
	assert.Equal(t, "0123456789", Normalize("０１２３４５６７８９"))
	assert.Equal(t, "ABCxyz", Normalize("ＡＢＣｘｙｚ"))
}

func TestNormalize_Brackets(t *testing.T) {
	assert.Equal(t, "段落[0021]", Normalize("段落［００２１］"))
	assert.Equal(t, "[1]", Normalize("【１】"))
}

func TestNormalize_KeepsParenthesesAndKana(t *testing.T) {
	in := "理由１（進歩性）について"
	assert.Equal(t, "理由1（進歩性）について", Normalize(in))
}

func TestNormalize_Dashes(t *testing.T) {
	assert.Equal(t, "1-3", Normalize("１－３"))
	assert.Equal(t, "1-3-5-7", Normalize("1–3—5−7"))
	assert.Equal(t, "サポート", Normalize("サポート"), "long vowel mark must survive")
}

func TestNormalize_Spaces(t *testing.T) {
	assert.Equal(t, "a b c", Normalize("a b　c"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"●理由１（進歩性）について\n特許法第２９条第２項",
		"・引用文献等　１－３\n・備考\n　引用文献１（段落［００２１］、図８）",
		"already normal [0001]-[0003] 図1",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestTitleKey(t *testing.T) {
	assert.Equal(t, "サポート要件", TitleKey("サポ－ト 要件"))
	assert.Equal(t, "進歩性", TitleKey(" 進歩性　"))
	assert.Equal(t, "新規性", TitleKey("新規性"))
}
