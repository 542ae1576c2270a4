package docfill

import (
	"fmt"
	"strings"

	"github.com/javajack/docfill/grid"
)

// Describe opens a template and returns a human-readable tree of its tables:
// rows with their distinct cells and the vertical merges found in each row.
// Useful for checking how anchors will resolve while authoring a plan.
func Describe(templatePath string, opts ...Option) (string, error) {
	allOpts := append([]Option{WithTemplate(templatePath)}, opts...)
	return NewFiller(allOpts...).Describe()
}

// Describe opens the template and describes its table structure.
func (f *Filler) Describe() (string, error) {
	doc, err := f.openTemplate()
	if err != nil {
		return "", err
	}
	defer doc.Close()

	name := f.opts.templatePath
	if name == "" {
		name = "<reader>"
	}
	return DescribeDocument(doc, name), nil
}

// DescribeDocument renders the structure of doc.
func DescribeDocument(doc grid.Document, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Template: %s\n", name)

	tables := doc.Tables()
	if len(tables) == 0 {
		b.WriteString("  (no tables)\n")
	}
	for ti, t := range tables {
		fmt.Fprintf(&b, "Table %d (%d rows)\n", ti, t.NumRows())
		for r := 0; r < t.NumRows(); r++ {
			describeRow(&b, t, r)
		}
	}
	if n := countNonEmpty(doc.Paragraphs()); n > 0 {
		fmt.Fprintf(&b, "Paragraphs: %d\n", n)
	}
	return b.String()
}

// describeRow writes "  row 2 [3 cells]: 奖惩情况* | | 备注" where * marks a
// cell continued from the row above, followed by any merge starting here.
func describeRow(b *strings.Builder, t grid.Table, r int) {
	var parts []string
	var merges []string
	seen := make(map[grid.CellID]bool)
	for c := 0; c < t.NumCols(r); c++ {
		id := t.CellID(r, c)
		if id == grid.NoCell || seen[id] {
			continue
		}
		seen[id] = true
		text := strings.ReplaceAll(strings.TrimSpace(t.Text(id)), "\n", "⏎")
		if grid.IsContinuation(t, r, c) {
			text += "*"
		} else if start, end := grid.MergeRange(t, r, c); end > start {
			merges = append(merges, fmt.Sprintf("col %d rows %d-%d", c, start, end))
		}
		parts = append(parts, text)
	}
	fmt.Fprintf(b, "  row %d [%d cells]: %s\n", r, len(parts), strings.Join(parts, " | "))
	for _, m := range merges {
		fmt.Fprintf(b, "    merged %s\n", m)
	}
}

func countNonEmpty(lines []string) int {
	n := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			n++
		}
	}
	return n
}

// PreviewLimits bounds a Preview.
type PreviewLimits struct {
	Paragraphs int
	Tables     int
	Rows       int
}

// DefaultPreviewLimits shows 20 paragraphs and the first 8 rows of 5 tables.
var DefaultPreviewLimits = PreviewLimits{Paragraphs: 20, Tables: 5, Rows: 8}

// PreviewData is a bounded snapshot of a document's content.
type PreviewData struct {
	Paragraphs []string     `json:"paragraphs"`
	Tables     [][][]string `json:"tables"`
}

// Preview returns the first non-empty paragraphs and the leading rows of the
// first tables, one trimmed string per cell reference.
func Preview(doc grid.Document, limits PreviewLimits) PreviewData {
	out := PreviewData{Paragraphs: []string{}, Tables: [][][]string{}}
	for _, p := range doc.Paragraphs() {
		if len(out.Paragraphs) >= limits.Paragraphs {
			break
		}
		if p = strings.TrimSpace(p); p != "" {
			out.Paragraphs = append(out.Paragraphs, p)
		}
	}
	for ti, t := range doc.Tables() {
		if ti >= limits.Tables {
			break
		}
		rows := [][]string{}
		for r := 0; r < t.NumRows() && r < limits.Rows; r++ {
			row := make([]string, t.NumCols(r))
			for c := range row {
				row[c] = strings.TrimSpace(t.Text(t.CellID(r, c)))
			}
			rows = append(rows, row)
		}
		out.Tables = append(out.Tables, rows)
	}
	return out
}
