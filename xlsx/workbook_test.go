package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/javajack/docfill/grid"
)

// resumeSheet builds:
//
//	row1: 姓名 | (blank) | 性别 | (blank)
//	row2: 奖惩情况 (A2:A3) | B2:C2 | 备注
//	row3: (merged)       | B3:C3 | 乙
func resumeSheet(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	const sh = "Sheet1"
	require.NoError(t, f.SetCellStr(sh, "A1", "姓名"))
	require.NoError(t, f.SetCellStr(sh, "C1", "性别"))
	require.NoError(t, f.SetCellStr(sh, "A2", "奖惩情况"))
	require.NoError(t, f.SetCellStr(sh, "D2", "备注"))
	require.NoError(t, f.SetCellStr(sh, "D3", "乙"))
	require.NoError(t, f.MergeCell(sh, "A2", "A3"))
	require.NoError(t, f.MergeCell(sh, "B2", "C2"))
	require.NoError(t, f.MergeCell(sh, "B3", "C3"))
	return f
}

func openResume(t *testing.T) *Workbook {
	t.Helper()
	wb, err := New(resumeSheet(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

func TestNew_ResolvesMerges(t *testing.T) {
	wb := openResume(t)
	require.Len(t, wb.Tables(), 1)
	tbl := wb.Tables()[0]

	assert.Equal(t, 3, tbl.NumRows())
	// D holds text, so a blank E is added for values
	for r := 0; r < tbl.NumRows(); r++ {
		assert.Equal(t, 5, tbl.NumCols(r))
	}
	assert.Equal(t, tbl.CellID(1, 0), tbl.CellID(2, 0))
	assert.Equal(t, tbl.CellID(1, 1), tbl.CellID(1, 2))
	assert.NotEqual(t, tbl.CellID(1, 1), tbl.CellID(2, 1))
	assert.Equal(t, "奖惩情况", tbl.Text(tbl.CellID(2, 0)))
	assert.Equal(t, 4, grid.DistinctCells(tbl, 1))
	assert.Nil(t, wb.Paragraphs())
}

func TestNew_LabelColumnGetsValueColumn(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellStr("Sheet1", "A1", "姓名"))
	require.NoError(t, f.SetCellStr("Sheet1", "A2", "性别"))
	wb, err := New(f)
	require.NoError(t, err)
	defer wb.Close()

	tbl := wb.Tables()[0]
	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumCols(0))
	assert.Equal(t, 2, tbl.NumCols(1))
	id, ok := grid.NextWritable(tbl, 0, 0)
	require.True(t, ok)
	assert.Equal(t, tbl.CellID(0, 1), id)
}

func TestNew_StyledBlankCellsCount(t *testing.T) {
	f := excelize.NewFile()
	const sh = "Sheet1"
	require.NoError(t, f.SetCellStr(sh, "A1", "姓名"))
	require.NoError(t, f.SetCellStr(sh, "A2", "奖惩情况"))
	border, err := f.NewStyle(&excelize.Style{Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}}})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sh, "B1", "C4", border))
	require.NoError(t, f.SetSheetDimension(sh, "A1:C4"))

	wb, err := New(f)
	require.NoError(t, err)
	defer wb.Close()

	tbl := wb.Tables()[0]
	assert.Equal(t, 4, tbl.NumRows())
	for r := 0; r < tbl.NumRows(); r++ {
		assert.Equal(t, 3, tbl.NumCols(r), "row %d", r)
	}
	assert.Equal(t, 0, grid.FilledCells(tbl, 3))
}

func TestWrite_SetsValueAndAlignment(t *testing.T) {
	wb := openResume(t)
	tbl := wb.Tables()[0]
	require.NoError(t, tbl.Write(tbl.CellID(0, 1), "张三", grid.AlignCenter))
	require.NoError(t, tbl.Append(tbl.CellID(1, 0), "2023 三好学生", grid.AlignLeft))

	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))
	out, err := OpenReader(&buf)
	require.NoError(t, err)
	defer out.Close()

	got := out.Tables()[0]
	assert.Equal(t, "张三", got.Text(got.CellID(0, 1)))
	assert.Equal(t, "奖惩情况\n2023 三好学生", got.Text(got.CellID(1, 0)))

	styleID, err := out.File().GetCellStyle("Sheet1", "B1")
	require.NoError(t, err)
	style, err := out.File().GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Alignment)
	assert.Equal(t, "center", style.Alignment.Horizontal)
	assert.True(t, style.Alignment.WrapText)
}

func TestSetTextAndClear(t *testing.T) {
	wb := openResume(t)
	tbl := wb.Tables()[0]
	id := tbl.CellID(0, 2)
	require.NoError(t, tbl.SetText(id, "性别 男☑"))
	assert.Equal(t, "性别 男☑", tbl.Text(id))
	require.NoError(t, tbl.Clear(id))
	assert.Equal(t, "", tbl.Text(id))
}

func TestInsertRowAfter_ExtendsMerge(t *testing.T) {
	wb := openResume(t)
	tbl := wb.Tables()[0]
	label := tbl.CellID(1, 0)

	require.NoError(t, tbl.InsertRowAfter(2))
	assert.Equal(t, 4, tbl.NumRows())
	assert.Equal(t, "乙", tbl.Text(tbl.CellID(3, 3)))
	// single-row merges are copied with the row
	assert.Equal(t, tbl.CellID(3, 1), tbl.CellID(3, 2))
	assert.NotEqual(t, tbl.CellID(1, 0), tbl.CellID(3, 0))

	require.NoError(t, tbl.MarkContinuation(3, 0))
	assert.Equal(t, tbl.Text(label), tbl.Text(tbl.CellID(3, 0)))
	assert.Equal(t, tbl.CellID(1, 0), tbl.CellID(3, 0))
	start, end := grid.MergeRange(tbl, 3, 0)
	assert.Equal(t, 1, start)
	assert.Equal(t, 3, end)

	cells, err := wb.File().GetMergeCells("Sheet1")
	require.NoError(t, err)
	var refs []string
	for _, mc := range cells {
		refs = append(refs, mc.GetStartAxis()+":"+mc.GetEndAxis())
	}
	assert.Contains(t, refs, "A2:A4")
}

func TestMarkContinuation_SingleCell(t *testing.T) {
	wb := openResume(t)
	tbl := wb.Tables()[0]
	require.NoError(t, tbl.MarkContinuation(1, 3))
	assert.Equal(t, tbl.CellID(0, 3), tbl.CellID(1, 3))

	assert.Error(t, tbl.MarkContinuation(0, 0))
	assert.Error(t, tbl.MarkContinuation(1, 9))
}

func TestInsertRowAfter_OutOfRange(t *testing.T) {
	wb := openResume(t)
	assert.Error(t, wb.Tables()[0].InsertRowAfter(3))
	assert.Error(t, wb.Tables()[0].InsertRowAfter(-1))
}

func TestOpenReader_Invalid(t *testing.T) {
	_, err := OpenReader(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}
