package classify

import "github.com/wippyai/wasmlang/errors"

// Label is the toolchain a module was attributed to. The set is closed.
type Label string

const (
	Rust              Label = "Rust"
	AssemblyScript    Label = "AssemblyScript"
	Go                Label = "Go"
	Emscripten        Label = "Emscripten"
	UnknownCompressed Label = "UnknownCompressed"
	Unknown           Label = "Unknown"
)

var labels = []Label{Rust, AssemblyScript, Go, Emscripten, UnknownCompressed, Unknown}

// Toolchain labels in evaluation priority, highest first.
var priority = map[Label]int{
	Emscripten:     0,
	Go:             1,
	AssemblyScript: 2,
	Rust:           3,
}

// Labels returns every label in report order.
func Labels() []Label {
	out := make([]Label, len(labels))
	copy(out, labels)
	return out
}

// ParseLabel returns the label named s. Names are case sensitive.
func ParseLabel(s string) (Label, error) {
	for _, l := range labels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", errors.Unsupported(errors.PhaseValidate, nil, "label", s)
}

// Unclassified reports whether l is one of the two fallback labels.
func (l Label) Unclassified() bool {
	return l == Unknown || l == UnknownCompressed
}

func (l Label) String() string {
	return string(l)
}
