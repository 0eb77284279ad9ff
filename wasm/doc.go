// Package wasm reads the toolchain-relevant parts of WebAssembly binaries.
//
// Parse walks the section table of a core module and keeps the pieces that
// carry a producer's fingerprint: import entries, export entries and custom
// sections. Everything else is skipped by its declared size. The walk never
// reads past a section boundary and never fails:
//
//	view := wasm.Parse(data)
//	switch view.Status {
//	case wasm.StatusOK:
//	    // fully decoded
//	case wasm.StatusInvalidMagic:
//	    // not wasm at all; view.Leading holds the first bytes
//	default:
//	    // partial: imports/exports/custom sections decoded so far are kept
//	}
//
// # Statuses
//
//	StatusOK                 every section decoded
//	StatusTruncated          input ended inside the header or a section
//	StatusInvalidMagic       first bytes are not "\0asm"
//	StatusUnsupportedVersion header version is not 1 (e.g. components)
//	StatusSectionParseError  a section body was malformed; walk continued
//
// # Custom Section Payloads
//
// Custom section payloads are stored verbatim. ParseProducers and ParseNames
// decode the two payload formats that identify compilers, and are meant to
// be called lazily by whoever needs them.
package wasm
