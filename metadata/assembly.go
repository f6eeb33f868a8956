package metadata

import (
	"fmt"

	"github.com/halcyonlab/clr-metadata/errors"
	"github.com/halcyonlab/clr-metadata/lazy"
	"github.com/halcyonlab/clr-metadata/token"
)

// Version is a four-part assembly version.
type Version struct {
	Major    uint16
	Minor    uint16
	Build    uint16
	Revision uint16
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// Compare orders versions lexicographically by part.
func (v Version) Compare(o Version) int {
	pairs := [4][2]uint16{
		{v.Major, o.Major},
		{v.Minor, o.Minor},
		{v.Build, o.Build},
		{v.Revision, o.Revision},
	}
	for _, p := range pairs {
		if p[0] != p[1] {
			if p[0] < p[1] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// compareOptional orders possibly-missing versions: a missing version is
// smaller than any present one.
func compareOptional(a, b *Version) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

// AssemblyRef is a reference to an external assembly.
type AssemblyRef struct {
	Name    string
	Version *Version
	Culture string

	rid    token.RID
	module *Module
}

// NewAssemblyRef creates an assembly reference registered into m's token
// space.
func NewAssemblyRef(m *Module, name string, ver *Version) *AssemblyRef {
	r := &AssemblyRef{Name: name, Version: ver, module: m}
	if m != nil {
		m.alloc.Assign(r)
	}
	return r
}

func (r *AssemblyRef) MDTable() token.Table { return token.TableAssemblyRef }
func (r *AssemblyRef) Rid() token.RID       { return r.rid }
func (r *AssemblyRef) SetRid(rid token.RID) { r.rid = rid }

// Assembly is the assembly container owning one or more modules. The module
// at index 0 of Modules is the manifest module.
type Assembly struct {
	Name    string
	Version Version
	Culture string

	rid     token.RID
	modules *lazy.List[*Module]
}

// NewAssembly creates an empty assembly.
func NewAssembly(name string, ver Version) *Assembly {
	a := &Assembly{Name: name, Version: ver}
	a.modules = lazy.NewList(
		func(_ int, m *Module) error {
			if m == nil {
				return errors.InvalidArgument(errors.PhaseMutate, "Assembly", "nil module")
			}
			if m.assembly != nil && m.assembly != a {
				return errors.Ownership(m.Name(), "module already owned by another assembly")
			}
			m.assembly = a
			return nil
		},
		func(_ int, m *Module) {
			m.assembly = nil
		},
	)
	return a
}

func (a *Assembly) MDTable() token.Table { return token.TableAssembly }
func (a *Assembly) Rid() token.RID       { return a.rid }
func (a *Assembly) SetRid(r token.RID)   { a.rid = r }

// Modules is the assembly's module list. Adding a module sets its assembly
// back-reference; the module never sets it itself.
func (a *Assembly) Modules() *lazy.List[*Module] { return a.modules }

// ManifestModule returns the module owning the assembly-level identity.
func (a *Assembly) ManifestModule() (*Module, bool) {
	return a.modules.At(0)
}
