package docfill

import (
	"fmt"
	"strings"

	"github.com/javajack/docfill/grid"
)

// Outline renders the target structure handed to the plan generator. Each
// table becomes a "【表格区_i】" block with one line per row, the non-empty
// distinct cells joined by " | "; body paragraphs follow under "【正文区】". Empty
// tables and rows are left out.
func Outline(doc grid.Document) string {
	var blocks []string
	for ti, t := range doc.Tables() {
		var lines []string
		for r := 0; r < t.NumRows(); r++ {
			var cells []string
			for _, id := range grid.RowIDs(t, r) {
				if text := strings.TrimSpace(t.Text(id)); text != "" {
					cells = append(cells, text)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " | "))
			}
		}
		if len(lines) > 0 {
			blocks = append(blocks, fmt.Sprintf("【表格区_%d】\n%s", ti, strings.Join(lines, "\n")))
		}
	}

	var paras []string
	for _, p := range doc.Paragraphs() {
		if p = strings.TrimSpace(p); p != "" {
			paras = append(paras, p)
		}
	}
	if len(paras) > 0 {
		blocks = append(blocks, "【正文区】\n"+strings.Join(paras, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}
