// Package inspect gathers a detailed report on a single module: its decoded
// view, producers and name metadata, the classification with its evidence,
// and optionally a wazero compile used as an independent check on what the
// tolerant reader decoded.
package inspect
