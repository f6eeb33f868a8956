package metadata

import (
	"github.com/google/uuid"

	"github.com/halcyonlab/clr-metadata/token"
)

// RawModuleRow is the undecoded Module table row: heap indexes, not values.
type RawModuleRow struct {
	Generation uint16
	Name       uint32
	Mvid       uint32
	EncID      uint32
	EncBaseID  uint32
}

// RowReader is the narrow interface to the low-level binary reader a
// materialized module pulls rows and heap values through. Implementations
// must memoize resolved entities: the facade promises that resolving the
// same token twice yields observably-equal results.
//
// All methods report a miss with a false ok; they never fail hard. A reader
// backed by an inconsistent binary may return stale data in release use;
// range checking is the reader's concern.
type RowReader interface {
	// TryModuleRow reads the raw Module table row at rid.
	TryModuleRow(rid token.RID) (RawModuleRow, bool)

	// GUID reads the #GUID heap at a 1-based index. Index 0 is the
	// conventional "no guid" and must report a miss.
	GUID(index uint32) (uuid.UUID, bool)

	// String reads the #Strings heap at the given offset.
	String(index uint32) (string, bool)

	// CustomAttributeRIDs lists the CustomAttribute rows attached to the
	// entity at (table, rid).
	CustomAttributeRIDs(table token.Table, rid token.RID) []token.RID

	// ResolveAssembly resolves the Assembly table row at rid.
	ResolveAssembly(rid token.RID) (*Assembly, bool)

	// NativeEntryPointRVA returns the COR20 native entry point RVA, 0 if
	// the image has none.
	NativeEntryPointRVA() uint32

	// ManagedEntryPoint returns the managed entry-point method, nil if the
	// image has none.
	ManagedEntryPoint() *MethodDef

	// Resolve decodes the row behind a token into its entity. The generic
	// parameter context disambiguates signatures referencing open generic
	// parameters and may be nil.
	Resolve(tok token.Token, gp *GenericParamContext) (Entity, bool)

	// CustomDebugInfos collects the custom-debug-information records
	// attached to the entity behind tok.
	CustomDebugInfos(tok token.Token, gp *GenericParamContext) []*CustomDebugInfo
}
