// Package clrmetadata provides an in-memory object model for .NET (ECMA-335)
// module metadata.
//
// The library is the facade layer between a low-level metadata reader and
// code that wants to inspect or rewrite a module: it owns the module's type
// graph, resource set and identity fields, materializes them lazily from a
// previously-parsed binary, and hands the whole model to a writer for
// re-serialization. Parsing raw tables and heaps, computing file layout, and
// resolving types across module boundaries are external collaborators
// consumed through narrow interfaces; they are not implemented here.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	clr-metadata/        Root package (documentation only)
//	├── metadata/        Module facade, type graph, token resolution
//	├── token/           Token encoding and per-table row-id allocation
//	├── lazy/            Once-initialized cells and hook-notified lists
//	├── cor/             COR20 header flags and pointer-size selection
//	├── pe/              COFF machine and characteristics words
//	├── version/         Runtime-version string classification (WinMD)
//	├── errors/          Structured error types for debugging
//	└── cmd/mdview/      CLI inspector with an interactive table browser
//
// # Quick Start
//
// Create a module from scratch:
//
//	mod := metadata.New("hello.exe")
//	mod.Types().Add(myType)
//
// Or wrap an already-parsed binary and let fields materialize on demand:
//
//	mod, err := metadata.NewFromReader(reader, "hello.exe")
//	if err != nil {
//		return err
//	}
//	ent, ok := mod.Resolve(token.NewToken(token.TableTypeDef, 1), nil)
//
// # Thread Safety
//
// A module supports two scheduling modes. Under single-threaded use no
// synchronization is assumed. Under shared use, lazy fields initialize at
// most once (first writer wins), row-id allocation is linearizable per
// table, and COR20 flag updates never lose concurrent toggles. The
// runtime-version caches are the documented exception: they assume a single
// writer for the RuntimeVersion field.
//
// # Failure Model
//
// Lookups that can legitimately miss (token resolution, type lookup) report
// absence with an (value, ok) pair, never an error. Ownership and
// single-assignment violations are hard failures surfaced as structured
// errors at the mutating call.
package clrmetadata
