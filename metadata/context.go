package metadata

// TypeResolver resolves a type reference to its definition. Returning false
// is the expected outcome for anything the resolver does not know;
// resolution policy beyond that belongs to the implementation.
type TypeResolver interface {
	ResolveType(ref *TypeRef, source *Module) (*TypeDef, bool)
}

// AssemblyResolver locates the assembly behind a reference.
type AssemblyResolver interface {
	ResolveAssembly(ref *AssemblyRef, source *Module) (*Assembly, bool)
}

// Context carries the resolvers shared by a set of modules. A module
// initializes its context lazily if one was never assigned, but the context
// is deliberately shareable: many modules typically point at the same
// instance, so a module never mutates it beyond that first assignment.
type Context struct {
	Resolver         TypeResolver
	AssemblyResolver AssemblyResolver
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{}
}
