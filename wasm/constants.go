package wasm

// WebAssembly binary format magic number and version.
const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the supported WebAssembly binary format version.
	Version uint32 = 0x01
)

// magicBytes is Magic as it appears on disk.
var magicBytes = [4]byte{0x00, 0x61, 0x73, 0x6D}

// LeadingBytes is how much of an unrecognized input is kept in View.Leading.
const LeadingBytes = 4096

// Section IDs define the binary identifiers for each module section.
const (
	SectionCustom    byte = 0  // Custom section (can appear anywhere)
	SectionType      byte = 1  // Type section (function signatures)
	SectionImport    byte = 2  // Import section
	SectionFunction  byte = 3  // Function section (type indices)
	SectionTable     byte = 4  // Table section
	SectionMemory    byte = 5  // Memory section
	SectionGlobal    byte = 6  // Global section
	SectionExport    byte = 7  // Export section
	SectionStart     byte = 8  // Start section
	SectionElement   byte = 9  // Element section
	SectionCode      byte = 10 // Code section (function bodies)
	SectionData      byte = 11 // Data section
	SectionDataCount byte = 12 // Data count section (bulk memory)
	SectionTag       byte = 13 // Tag section (exception handling)
)

// sectionHeader tags issues raised while reading the preamble.
const sectionHeader byte = 0xFF

// Well-known custom section names.
const (
	CustomSectionName      = "name"
	CustomSectionProducers = "producers"
)

// Reference type encodings that carry a trailing heap type immediate.
const (
	valRefNull byte = 0x63 // (ref null ht)
	valRef     byte = 0x64 // (ref ht)
)

// Limits flags
const (
	limitsHasMax   byte = 0x01
	limitsPageSize byte = 0x08 // custom-page-sizes proposal
)

// sectionName returns a human-readable name for diagnostics.
func sectionName(id byte) string {
	switch id {
	case SectionCustom:
		return "custom section"
	case SectionType:
		return "type section"
	case SectionImport:
		return "import section"
	case SectionFunction:
		return "function section"
	case SectionTable:
		return "table section"
	case SectionMemory:
		return "memory section"
	case SectionGlobal:
		return "global section"
	case SectionExport:
		return "export section"
	case SectionStart:
		return "start section"
	case SectionElement:
		return "element section"
	case SectionCode:
		return "code section"
	case SectionData:
		return "data section"
	case SectionDataCount:
		return "data count section"
	case SectionTag:
		return "tag section"
	case sectionHeader:
		return "header"
	default:
		return "unknown section"
	}
}
