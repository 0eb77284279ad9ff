// Package wasmlang identifies the toolchain that compiled a WebAssembly
// module using only what the binary carries.
//
// A module is attributed to Rust, AssemblyScript, Go or Emscripten from its
// imports, exports, custom sections and the producers and name metadata
// embedded in them. Modules that cannot be decoded are labelled Unknown, or
// UnknownCompressed when they are still wrapped in gzip, zip, zstd or Brotli.
//
// # Architecture Overview
//
//	wasmlang/
//	├── wasm/          Tolerant module reader and producers/name decoders
//	├── sniff/         Compression framing detection
//	├── catalog/       Signature catalog format, validation, built-in default
//	├── classify/      Labels, rule chain, catalog compilation
//	├── batch/         Concurrent file classification, tally, report writers
//	├── inspect/       Single module report with a wazero cross-check
//	├── errors/        Structured error types for the driver and config
//	└── cmd/wasmlang/  Command line interface
//
// # Quick Start
//
// Classify one module:
//
//	data, _ := os.ReadFile("app.wasm")
//	res := classify.Default().ClassifyBytes(data)
//	fmt.Println(res.Label, res.Evidence)
//
// Classify a tree of files with a custom catalog:
//
//	cat, err := catalog.LoadFile("signatures.yaml")
//	if err != nil {
//	    return err
//	}
//	c, err := classify.New(cat)
//	if err != nil {
//	    return err
//	}
//	paths, err := batch.Collect([]string{"./modules"}, []string{".wasm"})
//	if err != nil {
//	    return err
//	}
//	var tally batch.Tally
//	r := &batch.Runner{Classifier: c}
//	err = r.Run(ctx, paths, func(rec batch.Record) {
//	    tally.Add(rec)
//	})
//
// # Reading Modules
//
// wasm.Parse never fails. Problems are reported through View.Status and
// View.Issues, and everything decoded before a problem is kept so the
// classifier can still use it.
//
// # Rules
//
// The classifier runs the compression filter first, then catalog rules
// ordered by label priority (Emscripten, Go, AssemblyScript, Rust). The
// first matching rule decides the label and records the marker and symbol
// that fired as evidence.
package wasmlang
