// Package batch drives classification over many files: it expands input
// paths, reads and classifies files on a bounded worker pool, hashes their
// content, tallies labels and renders records as text, CSV or JSON lines.
//
// Reading happens here; the wasm and classify packages never touch the
// filesystem. A file that cannot be read becomes an Unknown record with
// Err set, so one bad input never aborts a batch.
package batch
