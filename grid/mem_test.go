package grid

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sidebar is a 5-row table whose label column is merged over rows 1-3.
func sidebar() *MemTable {
	return NewMemTable(
		Row(C("姓名"), C(""), C("性别"), C("")),
		Row(C("学习经历"), C("2019"), C("一中")),
		Row(Cont(), C(""), C("")),
		Row(Cont(), C(""), C("")),
		Row(C("备注"), Span("", 2)),
	)
}

func TestMemTable_Merges(t *testing.T) {
	tbl := sidebar()
	assert.Equal(t, 5, tbl.NumRows())
	assert.Equal(t, 4, tbl.NumCols(1))

	start, end := MergeRange(tbl, 1, 0)
	assert.Equal(t, 1, start)
	assert.Equal(t, 3, end)
	assert.True(t, VerticallyMerged(tbl, 1, 0))
	assert.False(t, VerticallyMerged(tbl, 3, 0))
	assert.True(t, IsContinuation(tbl, 2, 0))
	assert.False(t, IsContinuation(tbl, 1, 0))
	assert.False(t, IsContinuation(tbl, 0, 0))

	assert.Equal(t, tbl.CellID(4, 1), tbl.CellID(4, 2))
	assert.Equal(t, 2, DistinctCells(tbl, 4))
	assert.Equal(t, 1, FilledCells(tbl, 4))
	assert.Equal(t, 3, FilledCells(tbl, 1))
}

func TestMemTable_WriteAppendSetText(t *testing.T) {
	tbl := sidebar()
	id := tbl.CellID(0, 1)

	require.NoError(t, tbl.Write(id, "张三", AlignCenter))
	assert.Equal(t, []Paragraph{{Text: "张三", Align: AlignCenter}}, tbl.Paragraphs(id))

	require.NoError(t, tbl.Append(id, "李四", AlignLeft))
	assert.Equal(t, "张三\n李四", tbl.Text(id))

	require.NoError(t, tbl.SetText(id, "王五"))
	assert.Equal(t, []Paragraph{{Text: "王五", Align: AlignCenter}}, tbl.Paragraphs(id))

	require.NoError(t, tbl.Clear(id))
	assert.Equal(t, "", tbl.Text(id))
	assert.Error(t, tbl.Write(NoCell, "x", AlignLeft))
}

func TestMemTable_InsertRowAfter(t *testing.T) {
	tbl := sidebar()
	label := tbl.CellID(1, 0)
	require.NoError(t, tbl.InsertRowAfter(3))
	assert.Equal(t, 6, tbl.NumRows())
	// the clone of a continuation row extends the merge
	assert.Equal(t, label, tbl.CellID(4, 0))
	assert.NotEqual(t, tbl.CellID(3, 1), tbl.CellID(4, 1))
	assert.Equal(t, "备注", tbl.Text(tbl.CellID(5, 0)))

	require.NoError(t, tbl.InsertRowAfter(0))
	assert.Equal(t, "姓名", tbl.Text(tbl.CellID(1, 0)))
	assert.NotEqual(t, tbl.CellID(0, 0), tbl.CellID(1, 0))

	assert.Error(t, tbl.InsertRowAfter(7))
}

func TestMemTable_MarkContinuation(t *testing.T) {
	tbl := sidebar()
	require.NoError(t, tbl.MarkContinuation(4, 0))
	assert.Equal(t, tbl.CellID(1, 0), tbl.CellID(4, 0))
	assert.Error(t, tbl.MarkContinuation(4, 5))
	assert.Error(t, tbl.MarkContinuation(9, 0))
}

func TestNextWritable(t *testing.T) {
	tbl := NewMemTable(
		Row(Span("籍贯", 2), C("填写"), C(""), C("")),
		Row(C("电话"), C("")),
		Row(C("邮箱"), C("x")),
	)
	id, ok := NextWritable(tbl, 0, 0)
	require.True(t, ok)
	assert.Equal(t, tbl.CellID(0, 3), id)

	id, ok = NextWritable(tbl, 1, 0)
	require.True(t, ok)
	assert.Equal(t, tbl.CellID(1, 1), id)

	_, ok = NextWritable(tbl, 2, 0)
	assert.False(t, ok)
}

func TestRowText(t *testing.T) {
	tbl := NewMemTable(Row(Span("课程", 2), C("成绩")))
	assert.Equal(t, "课程成绩", RowText(tbl, 0))
	assert.Equal(t, []string{"课程", "成绩"}, RowTexts(tbl, 0))
	assert.Equal(t, [][]string{{"课程", "课程", "成绩"}}, Texts(tbl))
}

func TestWalk(t *testing.T) {
	doc := NewMemDocument(
		NewMemTable(Row(C("a"), C("b"))),
		NewMemTable(Row(C("c"))),
	)
	var seen []Location
	Walk(doc, func(loc Location, tbl Table, id CellID) bool {
		seen = append(seen, loc)
		return tbl.Text(id) != "b"
	})
	assert.Equal(t, []Location{{0, 0, 0}, {0, 0, 1}}, seen)
}

func TestMemDocument_Write(t *testing.T) {
	doc := NewMemDocument(NewMemTable(Row(C("a"), Span("b", 2))))
	doc.Body = []string{"标题"}
	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))

	var got struct {
		Body   []string     `json:"body"`
		Tables [][][]string `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []string{"标题"}, got.Body)
	assert.Equal(t, [][][]string{{{"a", "b", "b"}}}, got.Tables)
	assert.NoError(t, doc.Close())
}

func TestNextWritable_SkipsHoles(t *testing.T) {
	tbl := NewMemTable(
		Row(C("a"), C("b"), C("c")),
		Row(C("姓名")),
	)
	require.Equal(t, 3, tbl.NumCols(1))
	_, ok := NextWritable(tbl, 1, 0)
	assert.False(t, ok)
	assert.Equal(t, 1, DistinctCells(tbl, 1))
}
