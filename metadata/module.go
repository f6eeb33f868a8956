package metadata

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/halcyonlab/clr-metadata/cor"
	"github.com/halcyonlab/clr-metadata/errors"
	"github.com/halcyonlab/clr-metadata/lazy"
	"github.com/halcyonlab/clr-metadata/pe"
	"github.com/halcyonlab/clr-metadata/token"
	"github.com/halcyonlab/clr-metadata/version"
)

// ModuleKind is the image kind the module serializes as.
type ModuleKind uint8

const (
	ModuleKindWindows ModuleKind = iota
	ModuleKindConsole
	ModuleKindDll
	ModuleKindNetModule
)

func (k ModuleKind) String() string {
	switch k {
	case ModuleKindWindows:
		return "Windows"
	case ModuleKindConsole:
		return "Console"
	case ModuleKindDll:
		return "Dll"
	case ModuleKindNetModule:
		return "NetModule"
	default:
		return "ModuleKind(?)"
	}
}

// Module is the in-memory facade for one module of a managed image: its
// identity fields, type graph, resources and token space. A module is
// either user-authored (New) or materialized lazily from a parsed binary
// (NewFromReader); the two differ only in how tokens resolve and where
// field values originate.
type Module struct {
	// Tag is an opaque user payload, never touched by the library.
	Tag any

	rid     token.RID
	origRid token.RID

	generation uint16
	name       string
	mvid       *uuid.UUID
	encID      *uuid.UUID
	encBaseID  *uuid.UUID

	machine             pe.Machine
	characteristics     pe.Characteristics
	dllCharacteristics  pe.DLLCharacteristics
	comFlags            cor.FlagSet
	cor20Version        *uint32
	tablesHeaderVersion *uint16
	runtime             *version.Cache
	kind                ModuleKind
	location            string

	alloc token.Allocator

	// The type list is guarded by a Once, not a racing cell: its factory
	// adopts types (sets back-references, consumes row ids), so a losing
	// factory would leave shared state mutated.
	typesOnce sync.Once
	typesList *lazy.List[*TypeDef]

	exportedTypes lazy.Cell[*lazy.List[*ExportedType]]
	resources     lazy.Cell[*lazy.List[*Resource]]
	customAttrs   lazy.Cell[*lazy.List[*CustomAttribute]]
	debugInfos    lazy.Cell[*lazy.List[*CustomDebugInfo]]

	ctx      lazy.Cell[*Context]
	assembly *Assembly

	// Entry-point duality group: the RVA, the managed reference and the
	// NativeEntryPoint flag bit change together under one lock.
	epMu      sync.Mutex
	epLoaded  bool
	nativeEP  uint32
	managedEP *MethodDef

	// Win32 resources / vtable fixups group.
	resMu        sync.Mutex
	win32        *Win32Resources
	vtableFixups *VTableFixups

	pdbMu sync.Mutex
	pdb   *PdbState

	cacheMu      sync.Mutex
	cacheEnabled bool
	typeIdx      *typeIndex

	reader   RowReader
	resolver entityResolver
	rowOnce  sync.Once

	disposed atomic.Bool
}

// New creates a user-authored module with documented defaults: an x86
// IL-only console image targeting CLR 2.0, a fresh Mvid, and a synthetic
// <Module> global type at Types[0] holding row id 1.
func New(name string) *Module {
	mvid := uuid.New()
	m := &Module{
		name:               name,
		mvid:               &mvid,
		machine:            pe.MachineI386,
		characteristics:    pe.CharacteristicExecutableImage | pe.CharacteristicBit32Machine,
		dllCharacteristics: pe.DLLCharacteristicDynamicBase | pe.DLLCharacteristicNoSEH | pe.DLLCharacteristicNXCompat | pe.DLLCharacteristicTerminalServerAware,
		runtime:            version.NewCache(version.CLR20),
		kind:               ModuleKindConsole,
	}
	m.comFlags.Store(cor.FlagILOnly)
	m.rid = m.alloc.Next(token.TableModule) // always 1
	m.resolver = noResolver{}
	return m
}

// NewFromReader creates a module over a previously-parsed binary. Identity
// fields stay at binary-compatible defaults until the Module row is decoded
// on first access; token resolution delegates to the reader.
func NewFromReader(r RowReader, location string) (*Module, error) {
	if r == nil {
		return nil, errors.InvalidArgument(errors.PhaseMaterialize, "RowReader", "nil reader")
	}
	m := &Module{
		runtime:  version.NewCache(""),
		location: location,
		kind:     ModuleKindConsole,
	}
	m.rid = 1 // the manifest module row
	m.origRid = 1
	m.reader = r
	m.resolver = &readerResolver{reader: r}
	return m, nil
}

// ensureRow decodes the Module table row on first identity access of a
// reader-backed module. Heap misses leave defaults in place; a fully
// range-checked source is the reader's concern.
func (m *Module) ensureRow() {
	if m.reader == nil {
		return
	}
	m.rowOnce.Do(func() {
		row, ok := m.reader.TryModuleRow(m.origRid)
		if !ok {
			Logger().Warn("module row missing", zap.Uint32("rid", uint32(m.origRid)))
			return
		}
		m.generation = row.Generation
		if s, ok := m.reader.String(row.Name); ok {
			m.name = s
		}
		if g, ok := m.reader.GUID(row.Mvid); ok {
			m.mvid = &g
		}
		if g, ok := m.reader.GUID(row.EncID); ok {
			m.encID = &g
		}
		if g, ok := m.reader.GUID(row.EncBaseID); ok {
			m.encBaseID = &g
		}
		// The manifest module also resolves its owning assembly.
		if m.origRid == 1 && m.assembly == nil {
			if asm, ok := m.reader.ResolveAssembly(1); ok {
				m.assembly = asm
			}
		}
		Logger().Debug("module row materialized",
			zap.String("name", m.name),
			zap.Uint16("generation", m.generation))
	})
}

func (m *Module) MDTable() token.Table { return token.TableModule }
func (m *Module) Rid() token.RID       { return m.rid }
func (m *Module) SetRid(r token.RID)   { m.rid = r }

// OrigRid is the row id the module had in the source binary, 0 for
// user-authored modules.
func (m *Module) OrigRid() token.RID { return m.origRid }

// Name is the module name, byte-for-byte as stored.
func (m *Module) Name() string {
	m.ensureRow()
	return m.name
}

func (m *Module) SetName(name string) {
	m.ensureRow()
	m.name = name
}

// Generation is the edit-and-continue generation.
func (m *Module) Generation() uint16 {
	m.ensureRow()
	return m.generation
}

func (m *Module) SetGeneration(g uint16) {
	m.ensureRow()
	m.generation = g
}

// Mvid is the module version id, nil if the #GUID index was 0.
func (m *Module) Mvid() *uuid.UUID {
	m.ensureRow()
	return m.mvid
}

func (m *Module) SetMvid(id *uuid.UUID) {
	m.ensureRow()
	m.mvid = id
}

// EncID is the edit-and-continue id.
func (m *Module) EncID() *uuid.UUID {
	m.ensureRow()
	return m.encID
}

func (m *Module) SetEncID(id *uuid.UUID) {
	m.ensureRow()
	m.encID = id
}

// EncBaseID is the edit-and-continue base id.
func (m *Module) EncBaseID() *uuid.UUID {
	m.ensureRow()
	return m.encBaseID
}

func (m *Module) SetEncBaseID(id *uuid.UUID) {
	m.ensureRow()
	m.encBaseID = id
}

// Machine is the COFF machine the image declares.
func (m *Module) Machine() pe.Machine     { return m.machine }
func (m *Module) SetMachine(v pe.Machine) { m.machine = v }

func (m *Module) Characteristics() pe.Characteristics     { return m.characteristics }
func (m *Module) SetCharacteristics(v pe.Characteristics) { m.characteristics = v }

func (m *Module) DLLCharacteristics() pe.DLLCharacteristics     { return m.dllCharacteristics }
func (m *Module) SetDLLCharacteristics(v pe.DLLCharacteristics) { m.dllCharacteristics = v }

// ComImageFlags is the COR20 flags word as a live atomic bitset.
func (m *Module) ComImageFlags() *cor.FlagSet { return &m.comFlags }

// Kind is the image kind used when the module is re-serialized.
func (m *Module) Kind() ModuleKind     { return m.kind }
func (m *Module) SetKind(k ModuleKind) { m.kind = k }

// Location is the origin path of the module, empty for in-memory modules.
func (m *Module) Location() string       { return m.location }
func (m *Module) SetLocation(loc string) { m.location = loc }

// Cor20HeaderRuntimeVersion is the stored COR20 header version
// (major<<16|minor), absent if the writer should pick a default.
func (m *Module) Cor20HeaderRuntimeVersion() (uint32, bool) {
	if m.cor20Version == nil {
		return 0, false
	}
	return *m.cor20Version, true
}

func (m *Module) SetCor20HeaderRuntimeVersion(v uint32) {
	m.cor20Version = &v
}

// TablesHeaderVersion is the stored tables stream version, absent if the
// writer should pick a default.
func (m *Module) TablesHeaderVersion() (uint16, bool) {
	if m.tablesHeaderVersion == nil {
		return 0, false
	}
	return *m.tablesHeaderVersion, true
}

func (m *Module) SetTablesHeaderVersion(v uint16) {
	m.tablesHeaderVersion = &v
}

// RuntimeVersion is the metadata header runtime-version string.
func (m *Module) RuntimeVersion() string { return m.runtime.Version() }

// SetRuntimeVersion reassigns the runtime-version string, invalidating the
// WinMD-derived caches as a unit. Single writer assumed; see version.Cache.
func (m *Module) SetRuntimeVersion(s string) { m.runtime.Set(s) }

// WinMDKind classifies the runtime-version string.
func (m *Module) WinMDKind() version.WinMDKind { return m.runtime.Kind() }

// IsWinMD reports Windows Runtime metadata of either flavor.
func (m *Module) IsWinMD() bool { return m.runtime.IsWinMD() }

// IsManagedWinMD reports WinMD with an embedded CLR version.
func (m *Module) IsManagedWinMD() bool { return m.runtime.IsManagedWinMD() }

// IsPureWinMD reports WinMD without an embedded CLR version.
func (m *Module) IsPureWinMD() bool { return m.runtime.IsPureWinMD() }

// WinMDCLRVersion is the CLR version embedded in a managed WinMD string.
func (m *Module) WinMDCLRVersion() (string, bool) { return m.runtime.CLRVersion() }

// WinMDVersion is the WinMD substring of the runtime-version string.
func (m *Module) WinMDVersion() (string, bool) { return m.runtime.WinMDVersion() }

// EffectiveCor20RuntimeVersion is the stored COR20 header version if set,
// else the era default derived from the runtime-version string.
func (m *Module) EffectiveCor20RuntimeVersion() uint32 {
	if v, ok := m.Cor20HeaderRuntimeVersion(); ok {
		return v
	}
	if m.runtime.IsCLR1xEra() {
		return cor.RuntimeVersionCLR1x
	}
	return cor.RuntimeVersion2_5
}

// PointerSize is the native pointer size the platform loader would assume
// for this image, with explicit ambiguity defaults.
func (m *Module) PointerSize(defaultSize, prefer32Size int) int {
	return cor.PointerSize(m.machine, m.comFlags.Value(), m.EffectiveCor20RuntimeVersion(), defaultSize, prefer32Size)
}

// Assembly is the owning assembly, nil for netmodules that were never added
// to an assembly. The back-reference is set only by Assembly.Modules().
func (m *Module) Assembly() *Assembly {
	m.ensureRow()
	return m.assembly
}

// Context returns the shared resolution context, creating an empty one if
// none was ever assigned. The context is shared state: many modules may
// point at the same instance and the module never mutates it.
func (m *Module) Context() *Context {
	return m.ctx.GetOrInit(NewContext)
}

// SetContext installs ctx if no context has been assigned yet and reports
// whether this call won.
func (m *Module) SetContext(ctx *Context) bool {
	return m.ctx.Set(ctx)
}

// NextFreeRID mints a fresh row id for table in this module's token space.
func (m *Module) NextFreeRID(t token.Table) token.RID {
	return m.alloc.Next(t)
}

// UpdateRowID assigns e a fresh row id only if it has none yet.
func (m *Module) UpdateRowID(e Entity) {
	m.alloc.Assign(e)
}

// ForceUpdateRowID reassigns e's row id unconditionally.
func (m *Module) ForceUpdateRowID(e Entity) {
	m.alloc.ForceAssign(e)
}

// Types is the module's owned type list: non-nested types in insertion
// order, with the synthetic global type at index 0 when present. Adding a
// type claims ownership; a type that already has a declaring type or a
// module is rejected.
func (m *Module) Types() *lazy.List[*TypeDef] {
	m.typesOnce.Do(func() {
		list := lazy.NewList(m.adoptType, m.releaseType)
		if m.reader != nil {
			m.EnumerateTokens(token.TableTypeDef, func(e Entity) bool {
				if t, ok := e.(*TypeDef); ok && t.declaring == nil {
					if err := list.Add(t); err != nil {
						Logger().Warn("skipping unadoptable type",
							zap.String("type", t.FullName()), zap.Error(err))
					}
				}
				return true
			})
		} else {
			global := NewTypeDef("", GlobalTypeName)
			if err := list.Add(global); err == nil {
				m.alloc.Assign(global) // rid 1
			}
		}
		m.typesList = list
	})
	return m.typesList
}

func (m *Module) adoptType(_ int, t *TypeDef) error {
	if t == nil {
		return errors.InvalidArgument(errors.PhaseMutate, "TypeDef", "nil type")
	}
	if t.declaring != nil {
		return errors.Ownership(t.Name, "nested type cannot be a direct module member")
	}
	if t.module != nil {
		return errors.Ownership(t.Name, "type already owned by a module")
	}
	setModuleRecursive(t, m)
	return nil
}

func (m *Module) releaseType(_ int, t *TypeDef) {
	setModuleRecursive(t, nil)
}

func setModuleRecursive(t *TypeDef, m *Module) {
	t.module = m
	for _, n := range t.nested {
		setModuleRecursive(n, m)
	}
}

// GlobalType is the synthetic <Module> type at Types[0], absent if the
// module has none.
func (m *Module) GlobalType() (*TypeDef, bool) {
	t, ok := m.Types().At(0)
	if !ok || !t.IsGlobalModuleType() {
		return nil, false
	}
	return t, true
}

// ExportedTypes is the module's exported-type list.
func (m *Module) ExportedTypes() *lazy.List[*ExportedType] {
	return m.exportedTypes.GetOrInit(func() *lazy.List[*ExportedType] {
		list := lazy.NewList[*ExportedType](nil, nil)
		m.EnumerateTokens(token.TableExportedType, func(e Entity) bool {
			if et, ok := e.(*ExportedType); ok {
				list.Add(et)
			}
			return true
		})
		return list
	})
}

// Resources is the module's manifest resource list.
func (m *Module) Resources() *lazy.List[*Resource] {
	return m.resources.GetOrInit(func() *lazy.List[*Resource] {
		list := lazy.NewList[*Resource](nil, nil)
		m.EnumerateTokens(token.TableManifestResource, func(e Entity) bool {
			if r, ok := e.(*Resource); ok {
				list.Add(r)
			}
			return true
		})
		return list
	})
}

// CustomAttributes is the module's own custom attribute list.
func (m *Module) CustomAttributes() *lazy.List[*CustomAttribute] {
	return m.customAttrs.GetOrInit(func() *lazy.List[*CustomAttribute] {
		list := lazy.NewList[*CustomAttribute](nil, nil)
		if m.reader != nil {
			for _, rid := range m.reader.CustomAttributeRIDs(token.TableModule, m.origRid) {
				if e, ok := m.Resolve(token.NewToken(token.TableCustomAttribute, rid), nil); ok {
					if ca, ok := e.(*CustomAttribute); ok {
						list.Add(ca)
					}
				}
			}
		}
		return list
	})
}

// CustomDebugInfos is the module's custom-debug-information list.
func (m *Module) CustomDebugInfos() *lazy.List[*CustomDebugInfo] {
	return m.debugInfos.GetOrInit(func() *lazy.List[*CustomDebugInfo] {
		list := lazy.NewList[*CustomDebugInfo](nil, nil)
		if m.reader != nil {
			for _, cdi := range m.reader.CustomDebugInfos(TokenOf(m), nil) {
				list.Add(cdi)
			}
		}
		return list
	})
}

// NativeEntryPointRVA is the native entry point, 0 if the managed entry
// point (or none) is active.
func (m *Module) NativeEntryPointRVA() uint32 {
	m.epMu.Lock()
	defer m.epMu.Unlock()
	m.loadEntryPointLocked()
	return m.nativeEP
}

// ManagedEntryPoint is the managed entry point, nil if the native entry
// point (or none) is active.
func (m *Module) ManagedEntryPoint() *MethodDef {
	m.epMu.Lock()
	defer m.epMu.Unlock()
	m.loadEntryPointLocked()
	return m.managedEP
}

// SetNativeEntryPoint records rva, drops any managed entry point and sets
// the NativeEntryPoint flag, as one guarded operation.
func (m *Module) SetNativeEntryPoint(rva uint32) {
	m.epMu.Lock()
	defer m.epMu.Unlock()
	m.epLoaded = true
	m.nativeEP = rva
	m.managedEP = nil
	m.comFlags.Set(cor.FlagNativeEntryPoint)
}

// SetManagedEntryPoint records method, zeroes any native entry point RVA
// and clears the NativeEntryPoint flag, as one guarded operation.
func (m *Module) SetManagedEntryPoint(method *MethodDef) {
	m.epMu.Lock()
	defer m.epMu.Unlock()
	m.epLoaded = true
	m.nativeEP = 0
	m.managedEP = method
	m.comFlags.Clear(cor.FlagNativeEntryPoint)
}

func (m *Module) loadEntryPointLocked() {
	if m.epLoaded {
		return
	}
	m.epLoaded = true
	if m.reader == nil {
		return
	}
	if rva := m.reader.NativeEntryPointRVA(); rva != 0 {
		m.nativeEP = rva
		return
	}
	m.managedEP = m.reader.ManagedEntryPoint()
}

// Win32Resources is the native resource directory, nil if the module has
// none.
func (m *Module) Win32Resources() *Win32Resources {
	m.resMu.Lock()
	defer m.resMu.Unlock()
	return m.win32
}

func (m *Module) SetWin32Resources(w *Win32Resources) {
	m.resMu.Lock()
	defer m.resMu.Unlock()
	m.win32 = w
}

// VTableFixups is the vtable fixup directory, nil if the module has none.
func (m *Module) VTableFixups() *VTableFixups {
	m.resMu.Lock()
	defer m.resMu.Unlock()
	return m.vtableFixups
}

func (m *Module) SetVTableFixups(v *VTableFixups) {
	m.resMu.Lock()
	defer m.resMu.Unlock()
	m.vtableFixups = v
}

// PdbState is the attached debug-info state, nil if none was assigned.
func (m *Module) PdbState() *PdbState {
	m.pdbMu.Lock()
	defer m.pdbMu.Unlock()
	return m.pdb
}

// SetPdbState assigns the debug-info state. It can be set at most once.
func (m *Module) SetPdbState(p *PdbState) error {
	if p == nil {
		return errors.InvalidArgument(errors.PhaseMutate, "PdbState", "nil state")
	}
	m.pdbMu.Lock()
	defer m.pdbMu.Unlock()
	if m.disposed.Load() {
		return errors.Disposed("module")
	}
	if m.pdb != nil {
		return errors.AlreadySet("PdbState")
	}
	m.pdb = p
	return nil
}

// Dispose releases the type-lookup cache and the PDB state. Owned
// collections keep their contents; Dispose is idempotent.
func (m *Module) Dispose() {
	if !m.disposed.CompareAndSwap(false, true) {
		return
	}
	m.cacheMu.Lock()
	m.typeIdx = nil
	m.cacheEnabled = false
	m.cacheMu.Unlock()

	m.pdbMu.Lock()
	m.pdb = nil
	m.pdbMu.Unlock()

	Logger().Debug("module disposed", zap.String("name", m.name))
}
