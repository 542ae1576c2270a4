package docfill

import (
	"fmt"

	"github.com/javajack/docfill/grid"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Entry cannot be executed as written
	SeverityWarning                 // Entry will be skipped or corrected silently
)

// ValidationIssue represents a single problem found in a plan.
type ValidationIssue struct {
	Severity Severity
	Entry    string // "kv[0]", "checkbox[2]", "lists[1]" or "config"
	Message  string
}

// String formats the issue as "[ERROR] checkbox[0]: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.Entry, v.Message)
}

// Validate checks a plan against a template without writing anything. A
// non-nil error indicates the template could not be opened.
func Validate(templatePath string, plan Plan, opts ...Option) ([]ValidationIssue, error) {
	allOpts := append([]Option{WithTemplate(templatePath)}, opts...)
	return NewFiller(allOpts...).Validate(plan)
}

// Validate opens the template and reports plan entries that would be skipped,
// corrected or rejected.
func (f *Filler) Validate(plan Plan) ([]ValidationIssue, error) {
	doc, err := f.openTemplate()
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return ValidatePlan(plan, doc, f.cfg), nil
}

// ValidatePlan reports plan problems against an opened template.
func ValidatePlan(plan Plan, doc grid.Document, cfg *Config) []ValidationIssue {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	var issues []ValidationIssue
	issues = append(issues, validateConfig(cfg)...)
	issues = append(issues, validateKV(plan.KV, doc, cfg)...)
	issues = append(issues, validateCheckboxes(plan.Checkbox, doc, cfg)...)
	issues = append(issues, validateLists(plan.Lists, doc, cfg)...)
	return issues
}

func validateConfig(cfg *Config) []ValidationIssue {
	if _, err := CompileHeaderRule(cfg.HeaderRowRule); err != nil {
		return []ValidationIssue{{
			Severity: SeverityError,
			Entry:    "config",
			Message:  err.Error(),
		}}
	}
	return nil
}

func validateKV(entries []KV, doc grid.Document, cfg *Config) []ValidationIssue {
	var issues []ValidationIssue
	for i, e := range entries {
		entry := fmt.Sprintf("kv[%d]", i)
		switch {
		case e.Anchor == "":
			issues = append(issues, ValidationIssue{SeverityError, entry, "empty anchor"})
		case e.Val == "":
			issues = append(issues, ValidationIssue{SeverityWarning, entry, fmt.Sprintf("anchor %q has no value and will be skipped", e.Anchor)})
		default:
			if _, ok := LocateAny(doc, e.Anchor, cfg.Thresholds.KV); !ok {
				issues = append(issues, ValidationIssue{SeverityWarning, entry, fmt.Sprintf("anchor %q not found in template", e.Anchor)})
			}
		}
	}
	return issues
}

func validateCheckboxes(entries []Checkbox, doc grid.Document, cfg *Config) []ValidationIssue {
	var issues []ValidationIssue
	for i, e := range entries {
		entry := fmt.Sprintf("checkbox[%d]", i)
		if e.Keyword == "" {
			issues = append(issues, ValidationIssue{SeverityError, entry, "empty keyword"})
			continue
		}
		if cfg.Checkbox.Polarity(e.Status) == PolarityUnknown {
			issues = append(issues, ValidationIssue{SeverityError, entry,
				fmt.Sprintf("status %q is neither affirmative %v nor negative %v", e.Status, cfg.Checkbox.Affirmative, cfg.Checkbox.Negative)})
		}
		if _, ok := Locate(doc, e.Keyword); !ok {
			issues = append(issues, ValidationIssue{SeverityWarning, entry, fmt.Sprintf("keyword %q not found in template", e.Keyword)})
		}
	}
	return issues
}

func validateLists(lists []List, doc grid.Document, cfg *Config) []ValidationIssue {
	var issues []ValidationIssue
	for i, l := range lists {
		entry := fmt.Sprintf("lists[%d]", i)
		if l.Keyword == "" {
			issues = append(issues, ValidationIssue{SeverityError, entry, "empty keyword"})
			continue
		}
		if len(l.Headers) == 0 {
			issues = append(issues, ValidationIssue{SeverityWarning, entry, fmt.Sprintf("list %q has no headers, records are written by position", l.Keyword)})
		}
		if len(l.Data) == 0 {
			issues = append(issues, ValidationIssue{SeverityWarning, entry, fmt.Sprintf("list %q has no data and will be skipped", l.Keyword)})
		}
		for r, row := range l.Data {
			if len(l.Headers) > 0 && len(row) != len(l.Headers) {
				issues = append(issues, ValidationIssue{SeverityWarning, entry,
					fmt.Sprintf("row %d has %d values for %d headers and will be padded or truncated", r, len(row), len(l.Headers))})
			}
		}
		if _, ok := Locate(doc, l.Keyword); !ok {
			issues = append(issues, ValidationIssue{SeverityWarning, entry, fmt.Sprintf("keyword %q not found in template", l.Keyword)})
		}
	}
	for _, kw := range Reclassified(Plan{Lists: lists}, doc, cfg) {
		issues = append(issues, ValidationIssue{SeverityWarning, "lists",
			fmt.Sprintf("list %q sits in a single-value section and will be written as kv", kw)})
	}
	return issues
}
