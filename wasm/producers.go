package wasm

import (
	"fmt"

	"github.com/wippyai/wasmlang/wasm/internal/binary"
)

// Producers is the decoded "producers" custom section from the
// WebAssembly tool-conventions: a list of fields ("language",
// "processed-by", "sdk"), each naming tools and their versions.
type Producers struct {
	Fields []ProducerField
}

// ProducerField is one field of a producers section.
type ProducerField struct {
	Name   string
	Values []ProducerValue
}

// ProducerValue names a tool and its version string.
type ProducerValue struct {
	Name    string
	Version string
}

// Producer field names defined by tool-conventions.
const (
	ProducerLanguage    = "language"
	ProducerProcessedBy = "processed-by"
	ProducerSDK         = "sdk"
)

// ParseProducers decodes a producers section payload.
func ParseProducers(data []byte) (Producers, error) {
	r := binary.NewReader(data)
	var p Producers

	count, err := r.ReadU32()
	if err != nil {
		return p, r.WrapError(CustomSectionProducers, err)
	}
	for i := uint32(0); i < count; i++ {
		name, err := r.ReadName()
		if err != nil {
			return p, r.WrapError(CustomSectionProducers, fmt.Errorf("field %d: %w", i, err))
		}
		n, err := r.ReadU32()
		if err != nil {
			return p, r.WrapError(CustomSectionProducers, fmt.Errorf("field %q: %w", name, err))
		}
		field := ProducerField{Name: name}
		for j := uint32(0); j < n; j++ {
			tool, err := r.ReadName()
			if err != nil {
				return p, r.WrapError(CustomSectionProducers, fmt.Errorf("field %q value %d: %w", name, j, err))
			}
			version, err := r.ReadName()
			if err != nil {
				return p, r.WrapError(CustomSectionProducers, fmt.Errorf("field %q value %d: %w", name, j, err))
			}
			field.Values = append(field.Values, ProducerValue{Name: tool, Version: version})
		}
		p.Fields = append(p.Fields, field)
	}
	return p, nil
}

// Values returns every value of the named field across all occurrences.
func (p Producers) Values(field string) []ProducerValue {
	var out []ProducerValue
	for _, f := range p.Fields {
		if f.Name == field {
			out = append(out, f.Values...)
		}
	}
	return out
}
