package wasm

import "fmt"

// View is the structural, language-agnostic view of a module that the
// classifier consumes. It is built once by Parse and never mutated after.
//
// A View is well-formed only when Status is StatusOK. Every other status
// carries whatever was decoded before the problem was hit.
type View struct {
	Imports        []Import
	Exports        []Export
	CustomSections []CustomSection

	// Leading holds up to LeadingBytes of the input when Status is
	// StatusInvalidMagic, so callers can look for foreign framing
	// (compression, archives). It aliases the input buffer.
	Leading []byte

	// Issues lists every decode problem in the order it was encountered.
	Issues []Issue

	// Version is the header version word, zero if it could not be read.
	Version uint32

	Status DecodeStatus
}

// Import is an imported entry.
type Import struct {
	Module string
	Name   string
	Kind   ExternKind
}

// Export is an exported entry.
type Export struct {
	Name string
	Kind ExternKind
}

// CustomSection is a custom section kept verbatim. Names are not unique.
type CustomSection struct {
	Name string
	Data []byte
}

// Issue records one decode problem.
type Issue struct {
	Err     error
	Offset  int
	Section byte
}

func (i Issue) String() string {
	return fmt.Sprintf("%s at offset %d: %v", sectionName(i.Section), i.Offset, i.Err)
}

// ExternKind identifies the kind of an imported or exported item.
type ExternKind byte

// Import/Export descriptor kinds.
const (
	KindFunc    ExternKind = 0 // Function import/export
	KindTable   ExternKind = 1 // Table import/export
	KindMemory  ExternKind = 2 // Memory import/export
	KindGlobal  ExternKind = 3 // Global import/export
	KindTag     ExternKind = 4 // Tag import/export (exception handling)
	KindUnknown ExternKind = 0xFF
)

func (k ExternKind) String() string {
	switch k {
	case KindFunc:
		return "func"
	case KindTable:
		return "table"
	case KindMemory:
		return "memory"
	case KindGlobal:
		return "global"
	case KindTag:
		return "tag"
	default:
		return "unknown"
	}
}

func externKind(b byte) ExternKind {
	if b <= byte(KindTag) {
		return ExternKind(b)
	}
	return KindUnknown
}

// DecodeStatus summarizes how far decoding got.
type DecodeStatus int

const (
	StatusOK DecodeStatus = iota
	StatusTruncated
	StatusInvalidMagic
	StatusUnsupportedVersion
	StatusSectionParseError
)

func (s DecodeStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTruncated:
		return "truncated"
	case StatusInvalidMagic:
		return "invalid_magic"
	case StatusUnsupportedVersion:
		return "unsupported_version"
	case StatusSectionParseError:
		return "section_parse_error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Custom returns the payloads of every custom section called name, in order.
func (v *View) Custom(name string) [][]byte {
	var out [][]byte
	for _, cs := range v.CustomSections {
		if cs.Name == name {
			out = append(out, cs.Data)
		}
	}
	return out
}
