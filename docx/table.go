package docx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/javajack/docfill/grid"
)

// Table is a w:tbl element viewed as a grid. Cell ids are keyed by the
// w:tc element, so they survive row insertion.
type Table struct {
	doc   *Document
	el    *etree.Element
	arena grid.Arena
}

func (t *Table) rows() []*etree.Element {
	return t.el.SelectElements("w:tr")
}

// resolve rebuilds the merge map from w:gridSpan and w:vMerge. Grid columns
// skipped by w:gridBefore and w:gridAfter become holes.
func (t *Table) resolve() {
	rows := t.rows()
	layout := make([][]grid.Slot, len(rows))
	for r, tr := range rows {
		if n := rowSkip(tr, "w:gridBefore"); n > 0 {
			layout[r] = append(layout[r], grid.Slot{Span: n})
		}
		for _, tc := range tr.SelectElements("w:tc") {
			layout[r] = append(layout[r], grid.Slot{
				Key:      tc,
				Span:     gridSpan(tc),
				Continue: continuesMerge(tc),
			})
		}
		if n := rowSkip(tr, "w:gridAfter"); n > 0 {
			layout[r] = append(layout[r], grid.Slot{Span: n})
		}
	}
	t.arena.Resolve(layout)
}

func gridSpan(tc *etree.Element) int {
	n := valInt(tc.SelectElement("w:tcPr"), "w:gridSpan")
	if n < 1 {
		return 1
	}
	return n
}

// rowSkip reads w:gridBefore or w:gridAfter from the row properties.
func rowSkip(tr *etree.Element, tag string) int {
	return max(valInt(tr.SelectElement("w:trPr"), tag), 0)
}

// valInt returns the integer w:val of the child tag of pr, or 0.
func valInt(pr *etree.Element, tag string) int {
	if pr == nil {
		return 0
	}
	el := pr.SelectElement(tag)
	if el == nil {
		return 0
	}
	n, err := strconv.Atoi(el.SelectAttrValue("w:val", "0"))
	if err != nil {
		return 0
	}
	return n
}

// continuesMerge reports a w:vMerge without val or with val="continue".
func continuesMerge(tc *etree.Element) bool {
	tcPr := tc.SelectElement("w:tcPr")
	if tcPr == nil {
		return false
	}
	vm := tcPr.SelectElement("w:vMerge")
	if vm == nil {
		return false
	}
	return vm.SelectAttrValue("w:val", "continue") == "continue"
}

func (t *Table) tc(id grid.CellID) (*etree.Element, error) {
	tc, ok := t.arena.Key(id).(*etree.Element)
	if !ok {
		return nil, fmt.Errorf("unknown cell id %d", id)
	}
	return tc, nil
}

func (t *Table) NumRows() int                    { return t.arena.NumRows() }
func (t *Table) NumCols(row int) int             { return t.arena.NumCols(row) }
func (t *Table) CellID(row, col int) grid.CellID { return t.arena.At(row, col) }

func (t *Table) Text(id grid.CellID) string {
	tc, err := t.tc(id)
	if err != nil {
		return ""
	}
	return cellText(tc)
}

func (t *Table) Write(id grid.CellID, text string, align grid.Align) error {
	tc, err := t.tc(id)
	if err != nil {
		return err
	}
	clearContent(tc)
	t.addParagraph(tc, text, align)
	return nil
}

func (t *Table) Append(id grid.CellID, text string, align grid.Align) error {
	tc, err := t.tc(id)
	if err != nil {
		return err
	}
	t.addParagraph(tc, text, align)
	return nil
}

// SetText rewrites the cell as one paragraph, reusing the paragraph and run
// properties of the first paragraph so the checkbox glyphs keep their font.
func (t *Table) SetText(id grid.CellID, text string) error {
	tc, err := t.tc(id)
	if err != nil {
		return err
	}
	var pPr, rPr *etree.Element
	if p := tc.SelectElement("w:p"); p != nil {
		if e := p.SelectElement("w:pPr"); e != nil {
			pPr = e.Copy()
		}
		if r := p.FindElement(".//w:r"); r != nil {
			if e := r.SelectElement("w:rPr"); e != nil {
				rPr = e.Copy()
			}
		}
	}
	clearContent(tc)
	p := tc.CreateElement("w:p")
	if pPr != nil {
		p.AddChild(pPr)
	}
	r := p.CreateElement("w:r")
	if rPr != nil {
		r.AddChild(rPr)
	}
	writeLines(r, text)
	return nil
}

// Clear leaves the cell with a single empty paragraph; a w:tc must end in a
// block-level element.
func (t *Table) Clear(id grid.CellID) error {
	tc, err := t.tc(id)
	if err != nil {
		return err
	}
	clearContent(tc)
	tc.CreateElement("w:p")
	return nil
}

func (t *Table) InsertRowAfter(row int) error {
	rows := t.rows()
	if row < 0 || row >= len(rows) {
		return fmt.Errorf("insert after row %d: out of range (rows=%d)", row, len(rows))
	}
	src := rows[row]
	src.Parent().InsertChildAt(src.Index()+1, src.Copy())
	t.resolve()
	return nil
}

// MarkContinuation sets a bare w:vMerge on the physical cell covering col,
// which Word reads as "continue the merge above".
func (t *Table) MarkContinuation(row, col int) error {
	rows := t.rows()
	if row < 0 || row >= len(rows) {
		return fmt.Errorf("mark continuation at row %d: out of range", row)
	}
	tc := physicalCell(rows[row], col)
	if tc == nil {
		return fmt.Errorf("mark continuation at row %d col %d: out of range", row, col)
	}

	tcPr := tc.SelectElement("w:tcPr")
	if tcPr == nil {
		tcPr = etree.NewElement("w:tcPr")
		tc.InsertChildAt(0, tcPr)
	}
	vm := tcPr.SelectElement("w:vMerge")
	if vm == nil {
		vm = etree.NewElement("w:vMerge")
		tcPr.InsertChildAt(vMergeIndex(tcPr), vm)
	}
	vm.RemoveAttr("w:val")
	t.resolve()
	return nil
}

// vMergeIndex keeps CT_TcPr ordering: vMerge follows cnfStyle, tcW,
// gridSpan and hMerge.
func vMergeIndex(tcPr *etree.Element) int {
	idx := 0
	for i, tok := range tcPr.Child {
		el, ok := tok.(*etree.Element)
		if !ok {
			continue
		}
		switch el.Tag {
		case "cnfStyle", "tcW", "gridSpan", "hMerge":
			idx = i + 1
		}
	}
	return idx
}

func physicalCell(tr *etree.Element, col int) *etree.Element {
	start := rowSkip(tr, "w:gridBefore")
	for _, tc := range tr.SelectElements("w:tc") {
		span := gridSpan(tc)
		if col >= start && col < start+span {
			return tc
		}
		start += span
	}
	return nil
}

// clearContent removes everything but the cell properties.
func clearContent(tc *etree.Element) {
	for _, ch := range tc.ChildElements() {
		if ch.Space == "w" && ch.Tag == "tcPr" {
			continue
		}
		tc.RemoveChild(ch)
	}
}

func (t *Table) addParagraph(tc *etree.Element, text string, align grid.Align) {
	p := tc.CreateElement("w:p")
	pPr := p.CreateElement("w:pPr")
	pPr.CreateElement("w:jc").CreateAttr("w:val", align.String())

	r := p.CreateElement("w:r")
	style := t.doc.style
	rPr := r.CreateElement("w:rPr")
	if style.Font != "" {
		fonts := rPr.CreateElement("w:rFonts")
		fonts.CreateAttr("w:ascii", style.Font)
		fonts.CreateAttr("w:hAnsi", style.Font)
		fonts.CreateAttr("w:eastAsia", style.Font)
	}
	if style.Color != "" {
		rPr.CreateElement("w:color").CreateAttr("w:val", style.Color)
	}
	if style.HalfPoints > 0 {
		sz := strconv.Itoa(style.HalfPoints)
		rPr.CreateElement("w:sz").CreateAttr("w:val", sz)
		rPr.CreateElement("w:szCs").CreateAttr("w:val", sz)
	}
	writeLines(r, text)
}

// writeLines writes text into run r, turning newlines into w:br.
func writeLines(r *etree.Element, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			r.CreateElement("w:br")
		}
		wt := r.CreateElement("w:t")
		wt.CreateAttr("xml:space", "preserve")
		wt.SetText(line)
	}
}

// cellText joins the text of the cell's direct paragraphs with newlines.
func cellText(tc *etree.Element) string {
	paras := tc.SelectElements("w:p")
	lines := make([]string, len(paras))
	for i, p := range paras {
		lines[i] = paragraphText(p)
	}
	return strings.Join(lines, "\n")
}

func paragraphText(p *etree.Element) string {
	var b strings.Builder
	collectText(p, &b)
	return b.String()
}

func collectText(el *etree.Element, b *strings.Builder) {
	for _, ch := range el.ChildElements() {
		if ch.Space != "w" {
			collectText(ch, b)
			continue
		}
		switch ch.Tag {
		case "t":
			b.WriteString(ch.Text())
		case "tab":
			b.WriteByte('\t')
		case "br", "cr":
			b.WriteByte('\n')
		case "p", "tbl", "rPr", "pPr", "delText", "instrText":
		default:
			collectText(ch, b)
		}
	}
}
