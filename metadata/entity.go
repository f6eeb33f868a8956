package metadata

import "github.com/halcyonlab/clr-metadata/token"

// Entity is any metadata element addressable by a token: it knows its table
// and carries a 1-based row id, 0 while unassigned.
type Entity interface {
	token.RowIdentity
}

// TokenOf returns the entity's full metadata token.
func TokenOf(e Entity) token.Token {
	return token.NewToken(e.MDTable(), e.Rid())
}

// GenericParamContext disambiguates resolution of signatures that reference
// open generic parameters. Either field may be nil.
type GenericParamContext struct {
	Type   *TypeDef
	Method *MethodDef
}

// TypeOrRef is a type definition, a type reference, or a type specification.
// It is the input shape accepted by identity-aware type lookup.
type TypeOrRef interface {
	Entity
	// FullName is the type's dotted full name, nested types separated
	// with '.'.
	FullName() string
}

// MethodDef is a method row. Only the identity the module facade needs is
// modeled; bodies, signatures and parameters belong to other layers.
type MethodDef struct {
	Name   string
	rid    token.RID
	module *Module
}

func (m *MethodDef) MDTable() token.Table { return token.TableMethod }
func (m *MethodDef) Rid() token.RID       { return m.rid }
func (m *MethodDef) SetRid(r token.RID)   { m.rid = r }

// Module returns the module the method belongs to, nil if unattached.
func (m *MethodDef) Module() *Module { return m.module }

// MemberRef is a reference to a field or method owned by another scope.
type MemberRef struct {
	Name      string
	Declaring TypeOrRef

	rid    token.RID
	module *Module
}

// NewMemberRef creates a member reference registered into m's token space.
func NewMemberRef(m *Module, declaring TypeOrRef, name string) *MemberRef {
	r := &MemberRef{Name: name, Declaring: declaring, module: m}
	if m != nil {
		m.alloc.Assign(r)
	}
	return r
}

func (r *MemberRef) MDTable() token.Table { return token.TableMemberRef }
func (r *MemberRef) Rid() token.RID       { return r.rid }
func (r *MemberRef) SetRid(rid token.RID) { r.rid = rid }

// Module returns the module that owns the reference's token.
func (r *MemberRef) Module() *Module { return r.module }

// FullName is "DeclaringFullName::Name".
func (r *MemberRef) FullName() string {
	if r.Declaring == nil {
		return r.Name
	}
	return r.Declaring.FullName() + "::" + r.Name
}
