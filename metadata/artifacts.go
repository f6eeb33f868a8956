package metadata

import "github.com/halcyonlab/clr-metadata/token"

// ResourceKind says where a manifest resource's data lives.
type ResourceKind uint8

const (
	// ResourceEmbedded data is stored in this module.
	ResourceEmbedded ResourceKind = iota
	// ResourceAssemblyLinked data lives in another assembly.
	ResourceAssemblyLinked
	// ResourceLinked data lives in a standalone file.
	ResourceLinked
)

// Resource is a manifest resource row.
type Resource struct {
	Name  string
	Flags uint32
	Kind  ResourceKind

	// Data holds the bytes for embedded resources.
	Data []byte
	// FileName names the external file for linked resources.
	FileName string
	// Assembly references the owner for assembly-linked resources.
	Assembly *AssemblyRef

	rid token.RID
}

func (r *Resource) MDTable() token.Table { return token.TableManifestResource }
func (r *Resource) Rid() token.RID       { return r.rid }
func (r *Resource) SetRid(rid token.RID) { r.rid = rid }

// CustomAttribute is one custom attribute row: the full name of the
// attribute type and the raw value blob. Decoding the blob is the reader's
// concern.
type CustomAttribute struct {
	TypeFullName string
	Raw          []byte

	rid token.RID
}

func (c *CustomAttribute) MDTable() token.Table { return token.TableCustomAttribute }
func (c *CustomAttribute) Rid() token.RID       { return c.rid }
func (c *CustomAttribute) SetRid(r token.RID)   { c.rid = r }

// CustomDebugInfo is an opaque custom-debug-information record produced by
// the debug-info subsystem.
type CustomDebugInfo struct {
	KindGUID [16]byte
	Data     []byte

	rid token.RID
}

func (c *CustomDebugInfo) MDTable() token.Table { return token.TableCustomDebugInformation }
func (c *CustomDebugInfo) Rid() token.RID       { return c.rid }
func (c *CustomDebugInfo) SetRid(r token.RID)   { c.rid = r }

// ExportedType is an exported-type row in the manifest.
type ExportedType struct {
	Namespace string
	Name      string
	Flags     uint32

	rid token.RID
}

func (e *ExportedType) MDTable() token.Table { return token.TableExportedType }
func (e *ExportedType) Rid() token.RID       { return e.rid }
func (e *ExportedType) SetRid(r token.RID)   { e.rid = r }

// FullName is "Namespace.Name".
func (e *ExportedType) FullName() string {
	if e.Namespace == "" {
		return e.Name
	}
	return e.Namespace + "." + e.Name
}

// Win32Resources holds the module's native resource directory. The decoded
// structure is owned by the Win32 resource subsystem; the facade only keeps
// and re-serializes it.
type Win32Resources struct {
	Raw []byte
}

// VTableFixups describes the image's vtable fixup directory.
type VTableFixups struct {
	RVA   uint32
	Slots []VTableSlot
}

// VTableSlot is one fixup entry.
type VTableSlot struct {
	RVA   uint32
	Count uint16
	Flags uint16
}

// PdbState is the module's attached debug-info state. It is set at most
// once and released on module disposal.
type PdbState struct {
	FileName string
	// Age and GUID tie the PDB to the image.
	Age  uint32
	GUID [16]byte
}
