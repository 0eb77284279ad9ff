package wasmtest

import (
	"github.com/wippyai/wasmlang/wasm"
	"github.com/wippyai/wasmlang/wasm/internal/binary"
)

// Producers encodes a producers section payload.
func Producers(fields ...wasm.ProducerField) []byte {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(fields)))
	for _, f := range fields {
		w.WriteName(f.Name)
		w.WriteU32(uint32(len(f.Values)))
		for _, v := range f.Values {
			w.WriteName(v.Name)
			w.WriteName(v.Version)
		}
	}
	return w.Bytes()
}

// Language is shorthand for a producers "language" field.
func Language(name, version string) wasm.ProducerField {
	return wasm.ProducerField{
		Name:   wasm.ProducerLanguage,
		Values: []wasm.ProducerValue{{Name: name, Version: version}},
	}
}

// ProcessedBy is shorthand for a producers "processed-by" field.
func ProcessedBy(name, version string) wasm.ProducerField {
	return wasm.ProducerField{
		Name:   wasm.ProducerProcessedBy,
		Values: []wasm.ProducerValue{{Name: name, Version: version}},
	}
}

// NameSection encodes a name section payload with an optional module name
// and function names for indices 0..len(funcs)-1.
func NameSection(module string, funcs ...string) []byte {
	w := binary.NewWriter()
	if module != "" {
		sub := binary.NewWriter()
		sub.WriteName(module)
		w.WriteSection(0, sub.Bytes())
	}
	if len(funcs) > 0 {
		sub := binary.NewWriter()
		sub.WriteU32(uint32(len(funcs)))
		for i, name := range funcs {
			sub.WriteU32(uint32(i))
			sub.WriteName(name)
		}
		w.WriteSection(1, sub.Bytes())
	}
	return w.Bytes()
}

// Truncate returns a copy of data cut to n bytes.
func Truncate(data []byte, n int) []byte {
	if n > len(data) {
		n = len(data)
	}
	out := make([]byte, n)
	copy(out, data[:n])
	return out
}
