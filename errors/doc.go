// Package errors provides structured error types for the clr-metadata library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: field path, the entity
// concerned, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMutate, errors.KindOwnership).
//		Entity("TypeDef").
//		Path("module", "types").
//		Detail("type already owned by another module").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Ownership("MyType", "declaring type already set")
//	err := errors.AlreadySet("PdbState")
//
// Absence is not an error in this library. Token resolution, type lookup and
// similar operations report a miss with a (value, ok) pair; the Error type is
// reserved for invalid arguments and invariant violations, which are hard
// failures at the call that introduced them.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
