// Package lazy provides the deferred-initialization primitives behind every
// on-demand field in the metadata model.
//
// # Cell
//
// Cell is a thread-safe, once-initialized slot:
//
//	var ctx lazy.Cell[*Context]
//
//	shared := ctx.GetOrInit(NewContext)
//
// The first value installed wins; concurrent initializers all observe the
// winning value and a losing candidate is simply discarded. A present slot
// never becomes absent again except through an explicit Reset, which is
// reserved for disposal and cache-invalidation paths. Because a losing
// candidate is still computed, factories must be side-effect free; slots
// whose initialization mutates shared state are guarded with sync.Once at
// the call site instead.
//
// # List
//
// List is an ordered collection with add/remove hooks that run at the single
// mutation boundary. The module's type collection uses the add hook to
// enforce ownership invariants (no declaring type, no foreign module) before
// an element becomes visible:
//
//	types := lazy.NewList(func(i int, t *TypeDef) error {
//		return claimOwnership(t)
//	}, nil)
package lazy
