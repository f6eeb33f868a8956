package metadata

import (
	"strings"

	"github.com/halcyonlab/clr-metadata/errors"
	"github.com/halcyonlab/clr-metadata/token"
)

// ReflectionNestedSeparator joins nesting levels in reflection-style full
// names; plain full names use '.'.
const ReflectionNestedSeparator = '+'

// TypeDef is a type definition row: a named type owned by exactly one
// module, optionally nested in a declaring type.
type TypeDef struct {
	Namespace  string
	Name       string
	Attributes uint32

	rid     token.RID
	origRid token.RID

	module    *Module
	declaring *TypeDef
	nested    []*TypeDef
}

// NewTypeDef creates an unattached type definition.
func NewTypeDef(namespace, name string) *TypeDef {
	return &TypeDef{Namespace: namespace, Name: name}
}

func (t *TypeDef) MDTable() token.Table { return token.TableTypeDef }
func (t *TypeDef) Rid() token.RID       { return t.rid }
func (t *TypeDef) SetRid(r token.RID)   { t.rid = r }

// OrigRid is the row id the type had in the source binary, 0 for
// user-created types.
func (t *TypeDef) OrigRid() token.RID { return t.origRid }

// Module returns the owning module, nil while unattached.
func (t *TypeDef) Module() *Module { return t.module }

// DeclaringType returns the enclosing type, nil for non-nested types.
// Every direct member of a module's type list has a nil declaring type.
func (t *TypeDef) DeclaringType() *TypeDef { return t.declaring }

// NestedTypes returns the directly nested types in insertion order.
func (t *TypeDef) NestedTypes() []*TypeDef {
	out := make([]*TypeDef, len(t.nested))
	copy(out, t.nested)
	return out
}

// AddNestedType attaches nested under t. The nested type must not already
// have a declaring type or a module of its own.
func (t *TypeDef) AddNestedType(nested *TypeDef) error {
	if nested == nil {
		return errors.InvalidArgument(errors.PhaseMutate, "TypeDef", "nil nested type")
	}
	if nested.declaring != nil {
		return errors.Ownership(nested.Name, "declaring type already set")
	}
	if nested.module != nil {
		return errors.Ownership(nested.Name, "type already owned by a module")
	}
	nested.declaring = t
	nested.module = t.module
	t.nested = append(t.nested, nested)
	return nil
}

// FullName is the dotted full name: "Namespace.Name" with nested types
// joined by '.'.
func (t *TypeDef) FullName() string {
	return t.fullName('.')
}

// ReflectionFullName joins nesting levels with '+' the way reflection
// spells nested type names.
func (t *TypeDef) ReflectionFullName() string {
	return t.fullName(ReflectionNestedSeparator)
}

func (t *TypeDef) fullName(nestedSep byte) string {
	var b strings.Builder
	t.writeFullName(&b, nestedSep)
	return b.String()
}

func (t *TypeDef) writeFullName(b *strings.Builder, nestedSep byte) {
	if t.declaring != nil {
		t.declaring.writeFullName(b, nestedSep)
		b.WriteByte(nestedSep)
	} else if t.Namespace != "" {
		b.WriteString(t.Namespace)
		b.WriteByte('.')
	}
	b.WriteString(t.Name)
}

// IsGlobalModuleType reports whether t is the synthetic <Module> type that
// holds module-level fields and methods.
func (t *TypeDef) IsGlobalModuleType() bool {
	return t.Namespace == "" && t.Name == GlobalTypeName
}

// GlobalTypeName is the name of the synthetic global type at Types[0].
const GlobalTypeName = "<Module>"

// TypeRef is a reference to a type in another scope, resolved by name.
type TypeRef struct {
	Namespace string
	Name      string

	rid    token.RID
	module *Module
}

// NewTypeRef creates a type reference registered into m's token space.
func NewTypeRef(m *Module, namespace, name string) *TypeRef {
	r := &TypeRef{Namespace: namespace, Name: name, module: m}
	if m != nil {
		m.alloc.Assign(r)
	}
	return r
}

func (r *TypeRef) MDTable() token.Table { return token.TableTypeRef }
func (r *TypeRef) Rid() token.RID       { return r.rid }
func (r *TypeRef) SetRid(rid token.RID) { r.rid = rid }

// Module returns the module that owns the reference's token.
func (r *TypeRef) Module() *Module { return r.module }

// FullName is "Namespace.Name".
func (r *TypeRef) FullName() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}

// TypeSpec is a type specification: a signature wrapping an underlying
// definition or reference (an instantiated generic, an array, ...).
type TypeSpec struct {
	// Underlying is the TypeDef or TypeRef the signature ultimately names,
	// nil when the signature has no such element type.
	Underlying TypeOrRef

	rid    token.RID
	module *Module
}

// NewTypeSpec creates a type specification registered into m's token space.
func NewTypeSpec(m *Module, underlying TypeOrRef) *TypeSpec {
	s := &TypeSpec{Underlying: underlying, module: m}
	if m != nil {
		m.alloc.Assign(s)
	}
	return s
}

func (s *TypeSpec) MDTable() token.Table { return token.TableTypeSpec }
func (s *TypeSpec) Rid() token.RID       { return s.rid }
func (s *TypeSpec) SetRid(r token.RID)   { s.rid = r }

// FullName is the underlying type's full name, empty if unwrappable.
func (s *TypeSpec) FullName() string {
	if s.Underlying == nil {
		return ""
	}
	return s.Underlying.FullName()
}
