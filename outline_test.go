package docfill

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/javajack/docfill/grid"
)

func TestOutline(t *testing.T) {
	blank := grid.NewMemTable(grid.Row(grid.C(""), grid.C(" ")))
	doc := grid.NewMemDocument(resumeTable(), blank, evaluationTable())
	doc.Body = []string{"个人简历", "  ", "（请如实填写）"}

	want := "【表格区_0】\n" +
		"姓名 | 性别\n" +
		"政治面貌 | 党员：是□ 否□\n" +
		"奖惩情况\n" +
		"奖惩情况\n" +
		"备注\n\n" +
		"【表格区_2】\n" +
		"姓名\n" +
		"自我评价\n\n" +
		"【正文区】\n" +
		"个人简历\n" +
		"（请如实填写）"
	assert.Equal(t, want, Outline(doc))
}

func TestOutline_Empty(t *testing.T) {
	assert.Empty(t, Outline(grid.NewMemDocument()))
}
