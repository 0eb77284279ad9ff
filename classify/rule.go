package classify

import (
	"fmt"

	"github.com/wippyai/wasmlang/sniff"
	"github.com/wippyai/wasmlang/wasm"
)

// Rule is one predicate in the classification chain.
type Rule interface {
	// ID identifies the rule in results and diagnostics.
	ID() string
	// Label is assigned when the rule matches.
	Label() Label
	// Match reports whether the rule fires, with a short description of
	// the evidence that made it fire.
	Match(s *Subject) (evidence string, ok bool)
}

// Subject is the view under classification plus per-call caches for
// payloads that only some rules need. A Subject belongs to one Classify
// call and must not be shared.
type Subject struct {
	View *wasm.View

	producers     []wasm.ProducerField
	producersDone bool

	functions     []string
	functionsDone bool
}

// NewSubject wraps v for rule evaluation.
func NewSubject(v *wasm.View) *Subject {
	if v == nil {
		v = &wasm.View{}
	}
	return &Subject{View: v}
}

// Producers returns the fields of every producers section, decoded on
// first use. A malformed section contributes the fields read before the
// error.
func (s *Subject) Producers() []wasm.ProducerField {
	if !s.producersDone {
		s.producersDone = true
		for _, data := range s.View.Custom(wasm.CustomSectionProducers) {
			p, _ := wasm.ParseProducers(data)
			s.producers = append(s.producers, p.Fields...)
		}
	}
	return s.producers
}

// FunctionNames returns the debug names from every name section, decoded on
// first use. A malformed section contributes the names read before the
// error.
func (s *Subject) FunctionNames() []string {
	if !s.functionsDone {
		s.functionsDone = true
		for _, data := range s.View.Custom(wasm.CustomSectionName) {
			n, _ := wasm.ParseNames(data)
			for _, fn := range n.Functions {
				s.functions = append(s.functions, fn.Name)
			}
		}
	}
	return s.functions
}

// CompressedRuleID identifies the built-in compression filter.
const CompressedRuleID = "compressed"

// compressionRule labels input that failed the magic check but starts with
// recognizable compression or archive framing.
type compressionRule struct{}

func (compressionRule) ID() string   { return CompressedRuleID }
func (compressionRule) Label() Label { return UnknownCompressed }

func (compressionRule) Match(s *Subject) (string, bool) {
	if s.View.Status != wasm.StatusInvalidMagic {
		return "", false
	}
	f := sniff.Detect(s.View.Leading)
	if f == sniff.None {
		return "", false
	}
	return fmt.Sprintf("%s framing", f), true
}
