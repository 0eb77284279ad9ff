// Package catalog defines the toolchain signature catalog: the data that
// tells the classifier which imports, exports, custom sections and embedded
// metadata identify each toolchain.
//
// A catalog is a list of rules. Each rule carries a label and a list of
// markers; the rule fires when any marker matches. Markers say where to look
// (import_module, import_name, export_name, custom_name, custom_payload,
// producer, function_name) and how to compare (equals, prefix, suffix,
// contains, regex, rust_mangled).
//
// Catalogs are written in YAML, or TOML when the file ends in .toml:
//
//	version: 1
//	rules:
//	  - id: go
//	    label: Go
//	    markers:
//	      - {where: import_module, match: equals, value: gojs}
//	      - {where: function_name, match: prefix, value: runtime.}
//
// Default returns the catalog compiled into the binary. Load, LoadTOML and
// LoadFile decode and validate user catalogs; Validate reports every problem
// at once rather than stopping at the first.
package catalog
