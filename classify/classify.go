package classify

import (
	"github.com/wippyai/wasmlang/catalog"
	"github.com/wippyai/wasmlang/wasm"
)

// Result is the outcome of classifying one module.
type Result struct {
	Label Label `json:"label"`
	// Rule is the ID of the rule that fired, empty on fallback.
	Rule string `json:"rule,omitempty"`
	// Evidence names the marker and the symbol that fired, empty on fallback.
	Evidence string `json:"evidence,omitempty"`
}

// Matched reports whether a rule fired.
func (r Result) Matched() bool {
	return r.Rule != ""
}

// Classifier maps module views to labels through an ordered rule chain:
// the compression filter, then the toolchain rules in label priority, then
// the Unknown fallback. A Classifier is immutable and safe for concurrent
// use.
type Classifier struct {
	rules []Rule
}

// New compiles cat into a classifier. Every problem in the catalog is
// reported in the returned error.
func New(cat *catalog.Catalog) (*Classifier, error) {
	rules, err := compile(cat)
	if err != nil {
		return nil, err
	}
	return NewWithRules(rules...), nil
}

// NewWithRules builds a classifier from rules evaluated in the given order,
// after the compression filter.
func NewWithRules(rules ...Rule) *Classifier {
	chain := make([]Rule, 0, len(rules)+1)
	chain = append(chain, compressionRule{})
	chain = append(chain, rules...)
	return &Classifier{rules: chain}
}

// Default returns a classifier for the built-in catalog.
func Default() *Classifier {
	c, err := New(catalog.Default())
	if err != nil {
		panic("classify: built-in catalog does not compile: " + err.Error())
	}
	return c
}

// Rules returns the rule chain in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Classify labels v. It never fails: views that match no rule, including
// undecodable input without compression framing, are Unknown.
func (c *Classifier) Classify(v *wasm.View) Result {
	s := NewSubject(v)
	for _, r := range c.rules {
		if evidence, ok := r.Match(s); ok {
			return Result{Label: r.Label(), Rule: r.ID(), Evidence: evidence}
		}
	}
	return Result{Label: Unknown}
}

// ClassifyBytes parses data and classifies the result.
func (c *Classifier) ClassifyBytes(data []byte) Result {
	return c.Classify(wasm.Parse(data))
}
