package docfill

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/javajack/docfill/docx"
)

// DefaultHeaderRowRule recognizes an unmatched row below a list anchor as a
// header row when it carries one of the usual column captions.
const DefaultHeaderRowRule = `len(text) > 2 && (text contains "课程" || text contains "名称" || text contains "成绩" || text contains "Date")`

const defaultConfigYAML = `# docfill configuration
thresholds:
  # minimum fuzzy score for locating a list anchor during plan normalization
  classify: 0.85
  # a kv anchor matches a cell when the fuzzy score is strictly above this
  kv: 0.9
  # anchors up to this many characters must match by containment
  short_anchor: 8
  # shorter targets holding ':' are header labels and never overwritten
  header_label: 10
  # single-line values shorter than this are centered
  center_align: 15
  # rows sampled when counting the distinct columns of a table
  sample_rows: 6

checkbox:
  unchecked: "□"
  checked: "☑"
  affirmative: [有, "Yes", 是, "Have", 通过, "True"]
  negative: [无, "No", 否, "None", 未通过, "False"]

header_row_rule: '` + DefaultHeaderRowRule + `'

font:
  name: 宋体
  size: 10.5
  color: "000000"
`

// Thresholds holds the matching limits used by the writer phases.
type Thresholds struct {
	Classify    float64 `yaml:"classify"`
	KV          float64 `yaml:"kv"`
	ShortAnchor int     `yaml:"short_anchor"`
	HeaderLabel int     `yaml:"header_label"`
	CenterAlign int     `yaml:"center_align"`
	SampleRows  int     `yaml:"sample_rows"`
}

// CheckboxConfig declares the glyphs and the status synonyms of each
// polarity class.
type CheckboxConfig struct {
	Unchecked   string   `yaml:"unchecked"`
	Checked     string   `yaml:"checked"`
	Affirmative []string `yaml:"affirmative"`
	Negative    []string `yaml:"negative"`
}

// FontConfig is the run formatting of text written into docx cells.
type FontConfig struct {
	Name  string  `yaml:"name"`
	Size  float64 `yaml:"size"` // points
	Color string  `yaml:"color"`
}

// Config tunes the fill engine. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	Thresholds    Thresholds     `yaml:"thresholds"`
	Checkbox      CheckboxConfig `yaml:"checkbox"`
	HeaderRowRule string         `yaml:"header_row_rule"`
	Font          FontConfig     `yaml:"font"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	var cfg Config
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &cfg); err != nil {
		panic(fmt.Sprintf("docfill: default config: %v", err))
	}
	return &cfg
}

// DefaultConfigYAML returns the commented default configuration file.
func DefaultConfigYAML() string { return defaultConfigYAML }

// ParseConfig reads YAML over the defaults, so a file only needs the keys it
// changes, and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and compiles the header row rule.
func (c *Config) Validate() error {
	t := c.Thresholds
	if t.Classify <= 0 || t.Classify > 1 {
		return fmt.Errorf("thresholds.classify must be in (0, 1], got %v", t.Classify)
	}
	if t.KV < 0 || t.KV >= 1 {
		return fmt.Errorf("thresholds.kv must be in [0, 1), got %v", t.KV)
	}
	for name, v := range map[string]int{
		"short_anchor": t.ShortAnchor,
		"header_label": t.HeaderLabel,
		"center_align": t.CenterAlign,
		"sample_rows":  t.SampleRows,
	} {
		if v < 0 {
			return fmt.Errorf("thresholds.%s must not be negative, got %d", name, v)
		}
	}
	if t.SampleRows == 0 {
		return fmt.Errorf("thresholds.sample_rows must be positive")
	}
	if c.Checkbox.Unchecked == "" || c.Checkbox.Checked == "" {
		return fmt.Errorf("checkbox glyphs must not be empty")
	}
	if c.Checkbox.Unchecked == c.Checkbox.Checked {
		return fmt.Errorf("checkbox glyphs must differ, both are %q", c.Checkbox.Checked)
	}
	for _, a := range c.Checkbox.Affirmative {
		for _, n := range c.Checkbox.Negative {
			if a == n {
				return fmt.Errorf("checkbox status %q is both affirmative and negative", a)
			}
		}
	}
	if c.Font.Size < 0 {
		return fmt.Errorf("font.size must not be negative, got %v", c.Font.Size)
	}
	if _, err := CompileHeaderRule(c.HeaderRowRule); err != nil {
		return err
	}
	return nil
}

// RunStyle converts the font settings to docx run formatting.
func (c *Config) RunStyle() docx.RunStyle {
	return docx.RunStyle{
		Font:       c.Font.Name,
		HalfPoints: int(c.Font.Size*2 + 0.5),
		Color:      c.Font.Color,
	}
}
