// Package classify attributes a WebAssembly module to the toolchain that
// produced it.
//
// Classification is a first-match walk over an ordered rule chain:
//
//  1. The compression filter fires when the input failed the magic check
//     but begins with gzip, zip, zstd or Brotli-wrapped wasm, yielding
//     UnknownCompressed.
//  2. Toolchain rules compiled from a catalog.Catalog, ordered Emscripten,
//     Go, AssemblyScript, Rust. Catalog order only breaks ties between
//     rules with the same label. Rules run on partial views too, so a
//     truncated module still classifies on whatever was decoded.
//  3. Otherwise the module is Unknown.
//
// Producers and name sections are decoded only when a rule asks for them,
// at most once per call. Classify is pure and total: every view, however
// broken, gets exactly one label.
package classify
