// Package errors provides structured error types for wasmlang's driver and
// configuration layers.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries a dotted path into the offending input,
// a detail message and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseValidate, errors.KindInvalidData).
//		Path("rules", "3", "markers", "0").
//		Detail("regex %q: %v", value, cause).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Load(path, cause)
//	err := errors.Duplicate(errors.PhaseValidate, path, "rule id", id)
//
// Decode problems inside modules are not errors: they are reported through
// wasm.View.Status and folded into classification labels.
package errors
