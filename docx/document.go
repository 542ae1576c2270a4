// Package docx reads and writes the tables of a Word (.docx) document
// through beevik/etree and exposes them as grid tables.
//
// Only word/document.xml is parsed; every other part of the package is kept
// byte for byte and written back unchanged.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/beevik/etree"

	"github.com/javajack/docfill/grid"
)

const documentPart = "word/document.xml"

// ErrNotDocx is returned when the input is not a zip container holding a
// Word main document part.
var ErrNotDocx = errors.New("not a docx document")

// RunStyle is the character formatting applied to text the engine writes.
type RunStyle struct {
	Font       string // applied to ascii, hAnsi and eastAsia
	HalfPoints int    // font size in half points (21 = 10.5pt)
	Color      string // hex RGB without '#'
}

// DefaultRunStyle is 10.5pt black 宋体.
var DefaultRunStyle = RunStyle{Font: "宋体", HalfPoints: 21, Color: "000000"}

// Option configures a Document.
type Option func(*Document)

// WithRunStyle sets the formatting of written runs.
func WithRunStyle(s RunStyle) Option {
	return func(d *Document) { d.style = s }
}

type part struct {
	name     string
	modified time.Time
	data     []byte
}

// Document is an opened .docx package.
type Document struct {
	parts  []part
	xml    *etree.Document
	body   *etree.Element
	tables []*Table
	style  RunStyle
}

// Open parses a .docx package from raw bytes.
func Open(data []byte, opts ...Option) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	d := &Document{style: DefaultRunStyle}
	for _, opt := range opts {
		opt(d)
	}

	var main []byte
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %q: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read part %q: %w", f.Name, err)
		}
		d.parts = append(d.parts, part{name: f.Name, modified: f.Modified, data: b})
		if f.Name == documentPart {
			main = b
		}
	}
	if main == nil {
		return nil, fmt.Errorf("%w: %s not found", ErrNotDocx, documentPart)
	}

	d.xml = etree.NewDocument()
	if err := d.xml.ReadFromBytes(main); err != nil {
		return nil, fmt.Errorf("parse %s: %w", documentPart, err)
	}
	root := d.xml.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: empty %s", ErrNotDocx, documentPart)
	}
	d.body = root.SelectElement("w:body")
	if d.body == nil {
		return nil, fmt.Errorf("%w: %s has no body", ErrNotDocx, documentPart)
	}

	for _, tbl := range d.body.SelectElements("w:tbl") {
		t := &Table{doc: d, el: tbl}
		t.resolve()
		d.tables = append(d.tables, t)
	}
	return d, nil
}

// OpenReader reads the whole package from r and parses it.
func OpenReader(r io.Reader, opts ...Option) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	return Open(data, opts...)
}

// OpenFile opens a .docx file from disk.
func OpenFile(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return Open(data, opts...)
}

// Tables returns the top-level body tables in document order.
func (d *Document) Tables() []grid.Table {
	out := make([]grid.Table, len(d.tables))
	for i, t := range d.tables {
		out[i] = t
	}
	return out
}

// Paragraphs returns the text of every top-level body paragraph.
func (d *Document) Paragraphs() []string {
	var out []string
	for _, p := range d.body.SelectElements("w:p") {
		out = append(out, paragraphText(p))
	}
	return out
}

// Write serializes the package, replacing the main document part with the
// edited XML.
func (d *Document) Write(w io.Writer) error {
	main, err := d.xml.WriteToBytes()
	if err != nil {
		return fmt.Errorf("serialize %s: %w", documentPart, err)
	}

	zw := zip.NewWriter(w)
	for _, p := range d.parts {
		data := p.data
		if p.name == documentPart {
			data = main
		}
		hdr := &zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: p.modified}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("write part %q: %w", p.name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("write part %q: %w", p.name, err)
		}
	}
	return zw.Close()
}

// Close is a no-op; the package is held in memory.
func (d *Document) Close() error { return nil }
