package docfill

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// KV places a single value next to the cell labelled Anchor.
type KV struct {
	Anchor string `json:"anchor" yaml:"anchor"`
	Val    string `json:"val" yaml:"val"`
}

// Checkbox flips the glyph qualified by Status in cells containing Keyword.
type Checkbox struct {
	Keyword string `json:"keyword" yaml:"keyword"`
	Status  string `json:"status" yaml:"status"`
}

// List is a repeating section: one record per Data row, columns ordered as
// Headers.
type List struct {
	Keyword string     `json:"keyword" yaml:"keyword"`
	Headers []string   `json:"headers" yaml:"headers"`
	Data    [][]string `json:"data" yaml:"data"`
}

// Plan is the fill instruction set produced by the plan generator.
type Plan struct {
	KV       []KV       `json:"kv" yaml:"kv"`
	Checkbox []Checkbox `json:"checkbox" yaml:"checkbox"`
	Lists    []List     `json:"lists" yaml:"lists"`
}

// Empty reports whether the plan has nothing to write.
func (p Plan) Empty() bool {
	return len(p.KV) == 0 && len(p.Checkbox) == 0 && len(p.Lists) == 0
}

// Clone returns a deep copy of p.
func (p Plan) Clone() Plan {
	out := Plan{
		KV:       append([]KV(nil), p.KV...),
		Checkbox: append([]Checkbox(nil), p.Checkbox...),
	}
	for _, l := range p.Lists {
		c := List{Keyword: l.Keyword, Headers: append([]string(nil), l.Headers...)}
		for _, row := range l.Data {
			c.Data = append(c.Data, append([]string(nil), row...))
		}
		out.Lists = append(out.Lists, c)
	}
	return out
}

// NormalizeRows pads or truncates every data row of every list to the
// number of headers. Lists without headers or without data are left alone.
func (p *Plan) NormalizeRows() {
	for i := range p.Lists {
		p.Lists[i].normalizeRows()
	}
}

func (l *List) normalizeRows() {
	n := len(l.Headers)
	if n == 0 || len(l.Data) == 0 {
		return
	}
	for i, row := range l.Data {
		switch {
		case len(row) > n:
			l.Data[i] = row[:n:n]
		case len(row) < n:
			padded := make([]string, n)
			copy(padded, row)
			l.Data[i] = padded
		}
	}
}

// JSON returns the plan as indented JSON.
func (p Plan) JSON() ([]byte, error) {
	out := p
	if out.KV == nil {
		out.KV = []KV{}
	}
	if out.Checkbox == nil {
		out.Checkbox = []Checkbox{}
	}
	if out.Lists == nil {
		out.Lists = []List{}
	}
	return json.MarshalIndent(out, "", "  ")
}

var fenceRe = regexp.MustCompile("```(?:json|JSON)?\\s*|\\s*```")

// ParsePlan decodes a plan from raw generator output. Markdown code fences
// are stripped and list rows are normalized to the header width. Values may
// be strings, numbers, booleans or null; a scalar data row is treated as a
// one-column row.
func ParsePlan(raw []byte) (Plan, error) {
	body := bytes.TrimSpace(fenceRe.ReplaceAll(raw, nil))
	if len(body) == 0 {
		return Plan{}, fmt.Errorf("%w: empty input", ErrInvalidPlan)
	}
	var p Plan
	if err := json.Unmarshal(body, &p); err != nil {
		return Plan{}, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	p.NormalizeRows()
	return p, nil
}

// LoadPlan reads a plan file. Files ending in .yaml or .yml are decoded as
// YAML, everything else as generator output.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan %q: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Plan{}, fmt.Errorf("%w: %s: %w", ErrInvalidPlan, path, err)
		}
		// YAML goes through the JSON decoder so both share the lenient value rules.
		js, err := json.Marshal(doc)
		if err != nil {
			return Plan{}, fmt.Errorf("%w: %s: %w", ErrInvalidPlan, path, err)
		}
		data = js
	}
	p, err := ParsePlan(data)
	if err != nil {
		return Plan{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// looseString is a string that also accepts JSON numbers, booleans and null.
type looseString string

func (t *looseString) UnmarshalJSON(b []byte) error {
	s, err := scalarString(b)
	if err != nil {
		return err
	}
	*t = looseString(s)
	return nil
}

func scalarString(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return "", nil
	}
	switch b[0] {
	case '"':
		var s string
		err := json.Unmarshal(b, &s)
		return s, err
	case '{', '[':
		return "", fmt.Errorf("expected a scalar value, got %s", truncate(string(b), 40))
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch x := v.(type) {
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	}
	return fmt.Sprint(v), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func (k *KV) UnmarshalJSON(b []byte) error {
	var aux struct {
		Anchor looseString `json:"anchor"`
		Val    looseString `json:"val"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return fmt.Errorf("kv entry: %w", err)
	}
	*k = KV{Anchor: string(aux.Anchor), Val: string(aux.Val)}
	return nil
}

func (c *Checkbox) UnmarshalJSON(b []byte) error {
	var aux struct {
		Keyword looseString `json:"keyword"`
		Status  looseString `json:"status"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return fmt.Errorf("checkbox entry: %w", err)
	}
	*c = Checkbox{Keyword: string(aux.Keyword), Status: string(aux.Status)}
	return nil
}

func (l *List) UnmarshalJSON(b []byte) error {
	var aux struct {
		Keyword looseString       `json:"keyword"`
		Headers []looseString     `json:"headers"`
		Data    []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return fmt.Errorf("list entry: %w", err)
	}
	out := List{Keyword: string(aux.Keyword)}
	for _, h := range aux.Headers {
		out.Headers = append(out.Headers, string(h))
	}
	for i, raw := range aux.Data {
		row, err := decodeRow(raw)
		if err != nil {
			return fmt.Errorf("list %q row %d: %w", out.Keyword, i, err)
		}
		out.Data = append(out.Data, row)
	}
	*l = out
	return nil
}

func decodeRow(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var cells []looseString
		if err := json.Unmarshal(raw, &cells); err != nil {
			return nil, err
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = string(c)
		}
		return row, nil
	}
	s, err := scalarString(raw)
	if err != nil {
		return nil, err
	}
	return []string{s}, nil
}
