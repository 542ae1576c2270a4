package docfill

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/javajack/docfill/grid"
)

// Report summarizes what a fill wrote. Entries that found no place in the
// template are counted as skipped; they are never errors.
type Report struct {
	RunID             string
	Reclassified      []string // list keywords moved to kv by normalization
	KVWritten         int
	KVSkipped         int
	CheckboxesChanged int
	ListsWritten      int
	ListsSkipped      int
	RowsInserted      int
}

// Fill processes a template file and writes the filled document to outputPath.
func Fill(templatePath, outputPath string, plan Plan, opts ...Option) error {
	allOpts := append([]Option{WithTemplate(templatePath)}, opts...)
	return NewFiller(allOpts...).Fill(plan, outputPath)
}

// FillBytes processes a template file and returns the filled document as bytes.
func FillBytes(templatePath string, plan Plan, opts ...Option) ([]byte, error) {
	allOpts := append([]Option{WithTemplate(templatePath)}, opts...)
	return NewFiller(allOpts...).FillBytes(plan)
}

// FillReader processes a template from r and writes the filled document to w.
func FillReader(r io.Reader, format Format, w io.Writer, plan Plan, opts ...Option) error {
	allOpts := append([]Option{WithTemplateReader(r), WithFormat(format)}, opts...)
	_, err := NewFiller(allOpts...).FillWriter(plan, w)
	return err
}

// Filler runs the fill phases against one template.
type Filler struct {
	opts *Options
	cfg  *Config
	log  *slog.Logger
}

// NewFiller creates a Filler with the given options.
func NewFiller(opts ...Option) *Filler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	cfg := o.config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := o.logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Filler{opts: o, cfg: cfg, log: log}
}

// Config returns the configuration in use.
func (f *Filler) Config() *Config { return f.cfg }

// Fill fills the template and writes it to outputPath. The output file is
// removed when the fill fails.
func (f *Filler) Fill(plan Plan, outputPath string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", outputPath, err)
	}
	defer out.Close()

	if _, err := f.FillWriter(plan, out); err != nil {
		os.Remove(outputPath)
		return err
	}
	return nil
}

// FillBytes fills the template and returns the serialized document.
func (f *Filler) FillBytes(plan Plan) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.FillWriter(plan, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FillWriter fills the template and serializes the document to w.
func (f *Filler) FillWriter(plan Plan, w io.Writer) (*Report, error) {
	doc, err := f.openTemplate()
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	report, err := f.FillDocument(doc, plan)
	if err != nil {
		return report, err
	}
	if f.opts.preWrite != nil {
		if err := f.opts.preWrite(doc); err != nil {
			return report, fmt.Errorf("pre-write callback: %w", err)
		}
	}
	if err := doc.Write(w); err != nil {
		return report, fmt.Errorf("write output: %w", err)
	}
	f.progress(100, "done")
	return report, nil
}

// FillDocument runs normalization and the kv, checkbox and list phases on an
// opened document in place. Progress is reported up to 80; the caller
// reports completion once the document is written.
func (f *Filler) FillDocument(doc grid.Document, plan Plan) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	log := f.log.With("run", report.RunID)

	plan = plan.Clone()
	plan.NormalizeRows()
	if f.opts.normalize {
		plan, report.Reclassified = normalizePlan(plan, doc, f.cfg)
		for _, kw := range report.Reclassified {
			log.Info("list reclassified as kv", "keyword", kw)
		}
	}
	log.Info("fill started",
		"tables", len(doc.Tables()),
		"kv", len(plan.KV),
		"checkbox", len(plan.Checkbox),
		"lists", len(plan.Lists))

	rule, err := CompileHeaderRule(f.cfg.HeaderRowRule)
	if err != nil {
		return report, err
	}
	w := &writer{
		doc:      doc,
		cfg:      f.cfg,
		rule:     rule,
		log:      log,
		report:   report,
		progress: f.progress,
	}
	if err := w.writeKV(plan.KV); err != nil {
		return report, fmt.Errorf("kv phase: %w", err)
	}
	if err := w.writeCheckboxes(plan.Checkbox); err != nil {
		return report, fmt.Errorf("checkbox phase: %w", err)
	}
	if err := w.writeLists(plan.Lists); err != nil {
		return report, fmt.Errorf("list phase: %w", err)
	}
	log.Info("fill finished",
		"kv_written", report.KVWritten,
		"kv_skipped", report.KVSkipped,
		"checkboxes", report.CheckboxesChanged,
		"lists", report.ListsWritten,
		"rows_inserted", report.RowsInserted)
	return report, nil
}

func (f *Filler) progress(percent int, message string) {
	if f.opts.progress != nil {
		f.opts.progress(percent, message)
	}
}

// openTemplate opens the template from file path or reader.
func (f *Filler) openTemplate() (grid.Document, error) {
	if f.opts.templateReader != nil {
		return OpenTemplateReader(f.opts.templateReader, f.opts.format, f.cfg)
	}
	if f.opts.templatePath != "" {
		if f.opts.format != FormatAuto {
			data, err := os.ReadFile(f.opts.templatePath)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
			}
			return OpenTemplateBytes(data, f.opts.format, f.cfg)
		}
		return OpenTemplate(f.opts.templatePath, f.cfg)
	}
	return nil, fmt.Errorf("no template specified: use WithTemplate or WithTemplateReader")
}

// writer carries the state shared by the fill phases of one run.
type writer struct {
	doc      grid.Document
	cfg      *Config
	rule     *HeaderRule
	log      *slog.Logger
	report   *Report
	progress func(int, string)
}

// cellKey identifies a cell record across the tables of a document.
type cellKey struct {
	table int
	id    grid.CellID
}
