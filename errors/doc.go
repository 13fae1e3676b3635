// Package errors provides structured error types for nantag.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending value, the Go type involved, a detail
// message and an optional cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindTypeMismatch).
//		GoType("*string").
//		Value(addr).
//		Detail("address holds *int").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.DoubleFree(addr)
//	err := errors.OutOfBounds(errors.PhaseLoad, nil, 10, 5)
//
// The same values are used as panic payloads for defects such as a double
// free, so a recovered panic can be inspected with errors.As.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
