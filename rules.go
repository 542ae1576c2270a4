package docfill

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// HeaderRowEnv is the environment a header row rule is evaluated against.
type HeaderRowEnv struct {
	Text  string   `expr:"text"`  // concatenated text of the row, trimmed
	Cells []string `expr:"cells"` // text of each distinct cell
}

// HeaderRule decides whether a table row that matched none of a list's
// headers should still be treated as its header row.
type HeaderRule struct {
	source  string
	program *vm.Program
}

var ruleCache sync.Map // source → *HeaderRule

// CompileHeaderRule compiles an expr-lang boolean expression over
// HeaderRowEnv. Compiled rules are cached by source. An empty source yields a
// rule that never matches.
func CompileHeaderRule(source string) (*HeaderRule, error) {
	source = strings.TrimSpace(source)
	if cached, ok := ruleCache.Load(source); ok {
		return cached.(*HeaderRule), nil
	}
	rule := &HeaderRule{source: source}
	if source != "" {
		program, err := expr.Compile(source, expr.Env(HeaderRowEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile header row rule %q: %w", source, err)
		}
		rule.program = program
	}
	ruleCache.Store(source, rule)
	return rule, nil
}

// String returns the rule source.
func (r *HeaderRule) String() string { return r.source }

// Match evaluates the rule for a row.
func (r *HeaderRule) Match(text string, cells []string) (bool, error) {
	if r == nil || r.program == nil {
		return false, nil
	}
	out, err := expr.Run(r.program, HeaderRowEnv{Text: strings.TrimSpace(text), Cells: cells})
	if err != nil {
		return false, fmt.Errorf("evaluate header row rule %q: %w", r.source, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("header row rule %q evaluated to %T, expected bool", r.source, out)
	}
	return b, nil
}
