// Package xlsx exposes the worksheets of an Excel workbook as grid tables,
// one table per sheet, with merged ranges resolved to shared cell ids.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/javajack/docfill/grid"
)

// Workbook is an opened .xlsx file.
type Workbook struct {
	file   *excelize.File
	sheets []*Sheet
	styles map[styleKey]int
}

type styleKey struct {
	base  int
	align grid.Align
}

// New wraps an excelize file.
func New(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{file: f, styles: make(map[styleKey]int)}
	for _, name := range f.GetSheetList() {
		s := &Sheet{wb: wb, name: name}
		if err := s.resolve(); err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb.sheets = append(wb.sheets, s)
	}
	return wb, nil
}

// OpenReader opens a workbook from r.
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	wb, err := New(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return wb, nil
}

// OpenFile opens a workbook from disk.
func OpenFile(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	wb, err := New(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return wb, nil
}

// File returns the underlying excelize file.
func (wb *Workbook) File() *excelize.File { return wb.file }

// Tables returns one table per worksheet in sheet order.
func (wb *Workbook) Tables() []grid.Table {
	out := make([]grid.Table, len(wb.sheets))
	for i, s := range wb.sheets {
		out[i] = s
	}
	return out
}

// Paragraphs is always empty; worksheets have no body text.
func (wb *Workbook) Paragraphs() []string { return nil }

func (wb *Workbook) Write(w io.Writer) error {
	if err := wb.file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (wb *Workbook) Close() error { return wb.file.Close() }

// alignedStyle derives a style from base with the requested horizontal
// alignment and wrapping enabled.
func (wb *Workbook) alignedStyle(base int, align grid.Align) (int, error) {
	key := styleKey{base: base, align: align}
	if id, ok := wb.styles[key]; ok {
		return id, nil
	}
	style := &excelize.Style{}
	if base > 0 {
		if st, err := wb.file.GetStyle(base); err == nil && st != nil {
			style = st
		}
	}
	alignment := excelize.Alignment{}
	if style.Alignment != nil {
		alignment = *style.Alignment
	}
	alignment.Horizontal = align.String()
	alignment.Vertical = "center"
	alignment.WrapText = true
	style.Alignment = &alignment

	id, err := wb.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("create style: %w", err)
	}
	wb.styles[key] = id
	return id, nil
}
