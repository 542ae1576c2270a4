// Package docfill fills human-authored office document templates (.docx
// and .xlsx) from a fill plan of key/value facts, checkbox states and
// repeating list records.
//
// The engine locates where each fact belongs by matching anchor labels
// against cell text, writes next to the label without overwriting header
// text, flips checkbox glyphs and grows repeating sections by cloning rows
// while keeping vertical merges intact. Entries that find no place in the
// template are skipped, never reported as errors; only an unreadable
// template fails a fill.
//
// Basic usage:
//
//	plan, err := docfill.LoadPlan("plan.json")
//	if err != nil { ... }
//	err = docfill.Fill("template.docx", "output.docx", plan)
//
// Tables are accessed through the grid package, so every phase also runs
// against grid.MemDocument in tests.
package docfill
