// Package metadata implements the module facade: the root object owning a
// managed module's identity, type graph, resources and token space.
//
// # Module Variants
//
// A module comes in two flavors picked at construction:
//
//	mod := metadata.New("app.exe")               // user-authored
//	mod, err := metadata.NewFromReader(r, path)  // backed by a parsed binary
//
// A user-authored module starts with documented defaults and a synthetic
// <Module> global type; its tokens never resolve. A reader-backed module
// leaves identity fields untouched until the Module row is decoded on first
// access, and resolves tokens through the RowReader collaborator.
//
// # Lazy Materialization
//
// Every owned collection (Types, ExportedTypes, Resources,
// CustomAttributes, CustomDebugInfos) is created on first access and cached
// for the module's lifetime. Concurrent first accesses race safely: exactly
// one materialization wins and all callers observe it.
//
// # Token Resolution
//
// Resolve dispatches a 32-bit token to its entity; a miss is an ordinary
// (nil, false), never an error. EnumerateTokens derives "all rows of table
// T" by probing consecutive row ids and stopping at the first miss. A gap
// mid-table truncates the scan, which is the documented sharp edge of this
// derivation.
//
// # Ownership
//
// The type list claims ownership on insert: a type that already has a
// declaring type or belongs to another module is rejected with a structured
// error at the Add call. The assembly back-reference is set only by
// Assembly.Modules(); the module never assigns it itself.
package metadata
