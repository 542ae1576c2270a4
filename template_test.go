package docfill

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajack/docfill/docx"
	"github.com/javajack/docfill/xlsx"
)

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"a.docx":      FormatDocx,
		"dir/B.DOCX":  FormatDocx,
		"report.xlsx": FormatXLSX,
		"macro.xlsm":  FormatXLSX,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("old.doc")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "legacy")

	_, err = FormatFromPath("notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat(buildDocx(t, resumeDocxBody()))
	require.NoError(t, err)
	assert.Equal(t, FormatDocx, f)

	data, err := os.ReadFile(writeResumeXLSX(t))
	require.NoError(t, err)
	f, err = DetectFormat(data)
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = DetectFormat([]byte("PK? not really"))
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err = zw.Create("mimetype")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	_, err = DetectFormat(buf.Bytes())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpenTemplate(t *testing.T) {
	doc, err := OpenTemplate(writeDocx(t, "resume.docx", resumeDocxBody()), nil)
	require.NoError(t, err)
	defer doc.Close()
	assert.IsType(t, &docx.Document{}, doc)
	require.Len(t, doc.Tables(), 1)
	assert.Equal(t, []string{"个人简历"}, doc.Paragraphs())

	wb, err := OpenTemplate(writeResumeXLSX(t), nil)
	require.NoError(t, err)
	defer wb.Close()
	assert.IsType(t, &xlsx.Workbook{}, wb)
	assert.Equal(t, 4, wb.Tables()[0].NumRows())
}

func TestOpenTemplate_Errors(t *testing.T) {
	dir := testdataDir(t)

	_, err := OpenTemplate(filepath.Join(dir, "missing.docx"), nil)
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	bad := filepath.Join(dir, "bad.docx")
	require.NoError(t, os.WriteFile(bad, []byte("plain text"), 0o644))
	_, err = OpenTemplate(bad, nil)
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	_, err = OpenTemplate(filepath.Join(dir, "legacy.xls"), nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpenTemplateBytes_ForcedFormat(t *testing.T) {
	data := buildDocx(t, resumeDocxBody())
	doc, err := OpenTemplateBytes(data, FormatDocx, nil)
	require.NoError(t, err)
	require.NoError(t, doc.Close())

	_, err = OpenTemplateBytes(data, FormatXLSX, nil)
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	_, err = OpenTemplateBytes(data, Format("pdf"), nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCheckTemplate(t *testing.T) {
	assert.NoError(t, CheckTemplate(writeDocx(t, "ok.docx", resumeDocxBody())))
	assert.ErrorIs(t, CheckTemplate(testdataDir(t)), ErrInvalidTemplate)
	assert.ErrorIs(t, CheckTemplate(filepath.Join(testdataDir(t), "none.docx")), ErrInvalidTemplate)
}
