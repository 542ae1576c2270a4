package docfill

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/javajack/docfill/grid"
)

// testdataDir returns a scratch directory removed after the test.
func testdataDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// resumeTable is the layout most tests run against:
//
//	row0: 姓名 | (blank) | 性别 | (blank)
//	row1: 政治面貌 | 党员：是□ 否□ (span 3)
//	row2: 奖惩情况 (merged down) | (blank) | (blank) | (blank)
//	row3: (continued)            | (blank) | (blank) | (blank)
//	row4: 备注 | (blank, span 3)
func resumeTable() *grid.MemTable {
	return grid.NewMemTable(
		grid.Row(grid.C("姓名"), grid.C(""), grid.C("性别"), grid.C("")),
		grid.Row(grid.C("政治面貌"), grid.Span("党员：是□ 否□", 3)),
		grid.Row(grid.C("奖惩情况"), grid.C(""), grid.C(""), grid.C("")),
		grid.Row(grid.Cont(), grid.C(""), grid.C(""), grid.C("")),
		grid.Row(grid.C("备注"), grid.Span("", 3)),
	)
}

func cellText(tbl grid.Table, row, col int) string {
	return tbl.Text(tbl.CellID(row, col))
}

// Minimal WordprocessingML builders.

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

func wPara(text string) string {
	if text == "" {
		return `<w:p/>`
	}
	return fmt.Sprintf(`<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, text)
}

func wCell(text string) string { return `<w:tc>` + wPara(text) + `</w:tc>` }

func wSpan(text string, n int) string {
	return fmt.Sprintf(`<w:tc><w:tcPr><w:gridSpan w:val="%d"/></w:tcPr>%s</w:tc>`, n, wPara(text))
}

func wRestart(text string) string {
	return `<w:tc><w:tcPr><w:vMerge w:val="restart"/></w:tcPr>` + wPara(text) + `</w:tc>`
}

func wCont() string { return `<w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc>` }

func wRow(cells ...string) string { return `<w:tr>` + strings.Join(cells, "") + `</w:tr>` }

func wTable(rows ...string) string { return `<w:tbl>` + strings.Join(rows, "") + `</w:tbl>` }

// resumeDocxBody mirrors resumeTable, preceded by a title paragraph.
func resumeDocxBody() string {
	return wPara("个人简历") + wTable(
		wRow(wCell("姓名"), wCell(""), wCell("性别"), wCell("")),
		wRow(wCell("政治面貌"), wSpan("党员：是□ 否□", 3)),
		wRow(wRestart("奖惩情况"), wCell(""), wCell(""), wCell("")),
		wRow(wCont(), wCell(""), wCell(""), wCell("")),
		wRow(wCell("备注"), wSpan("", 3)),
	)
}

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`))
	require.NoError(t, err)
	w, err = zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="` + wordNS + `"><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeDocx(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(testdataDir(t), name)
	require.NoError(t, os.WriteFile(path, buildDocx(t, body), 0o644))
	return path
}

// writeResumeXLSX saves a workbook shaped like resumeTable without the
// checkbox row:
//
//	row1: 姓名 | (blank) | 性别 | (blank) | 照片
//	row2: 奖惩情况 (A2:A3) | ...
//	row4: 备注
func writeResumeXLSX(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	const sh = "Sheet1"
	require.NoError(t, f.SetCellStr(sh, "A1", "姓名"))
	require.NoError(t, f.SetCellStr(sh, "C1", "性别"))
	require.NoError(t, f.SetCellStr(sh, "E1", "照片"))
	require.NoError(t, f.SetCellStr(sh, "A2", "奖惩情况"))
	require.NoError(t, f.MergeCell(sh, "A2", "A3"))
	require.NoError(t, f.SetCellStr(sh, "A4", "备注"))

	path := filepath.Join(testdataDir(t), "resume.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}
