package main

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/halcyonlab/clr-metadata/metadata"
	"github.com/halcyonlab/clr-metadata/token"
)

// sampleReader is an in-memory metadata.RowReader over a small fixed image,
// enough to exercise every facade surface the subcommands touch.
type sampleReader struct {
	row      metadata.RawModuleRow
	strs     map[uint32]string
	guids    map[uint32]uuid.UUID
	entities map[token.Token]metadata.Entity
	memo     map[token.Token]metadata.Entity
	assembly *metadata.Assembly
	caRIDs   []token.RID
	managed  *metadata.MethodDef
}

func newSampleReader() *sampleReader {
	r := &sampleReader{
		row: metadata.RawModuleRow{Generation: 0, Name: 1, Mvid: 1},
		strs: map[uint32]string{
			1: "Sample.Core.dll",
		},
		guids: map[uint32]uuid.UUID{
			1: uuid.MustParse("6f1a2b3c-4d5e-6789-abcd-ef0123456789"),
		},
		entities: make(map[token.Token]metadata.Entity),
		memo:     make(map[token.Token]metadata.Entity),
		assembly: metadata.NewAssembly("Sample.Core", metadata.Version{Major: 1, Minor: 2}),
		managed:  &metadata.MethodDef{Name: "Main"},
	}

	global := metadata.NewTypeDef("", metadata.GlobalTypeName)
	parser := metadata.NewTypeDef("Sample.Core", "Parser")
	state := metadata.NewTypeDef("", "State")
	if err := parser.AddNestedType(state); err != nil {
		panic(fmt.Sprintf("sample image: %v", err))
	}
	r.addRows(token.TableTypeDef,
		global,
		parser,
		state,
		metadata.NewTypeDef("Sample.Core", "Lexer"),
		metadata.NewTypeDef("Sample.Core.Text", "Cursor"),
	)

	r.addRows(token.TableTypeRef,
		metadata.NewTypeRef(nil, "System", "Object"),
		metadata.NewTypeRef(nil, "System", "String"),
		metadata.NewTypeRef(nil, "System", "IDisposable"),
	)

	r.addRows(token.TableAssemblyRef,
		&metadata.AssemblyRef{Name: "mscorlib", Version: &metadata.Version{Major: 4}},
		&metadata.AssemblyRef{Name: "System.Core", Version: &metadata.Version{Major: 4}},
	)

	r.addRows(token.TableCustomAttribute,
		&metadata.CustomAttribute{TypeFullName: "System.Reflection.AssemblyTitleAttribute"},
		&metadata.CustomAttribute{TypeFullName: "System.Runtime.Versioning.TargetFrameworkAttribute"},
	)
	r.caRIDs = []token.RID{1, 2}

	return r
}

func (r *sampleReader) addRows(table token.Table, rows ...metadata.Entity) {
	for i, e := range rows {
		rid := token.RID(i + 1)
		e.SetRid(rid)
		r.entities[token.NewToken(table, rid)] = e
	}
}

func (r *sampleReader) TryModuleRow(rid token.RID) (metadata.RawModuleRow, bool) {
	if rid != 1 {
		return metadata.RawModuleRow{}, false
	}
	return r.row, true
}

func (r *sampleReader) GUID(index uint32) (uuid.UUID, bool) {
	g, ok := r.guids[index]
	return g, ok
}

func (r *sampleReader) String(index uint32) (string, bool) {
	s, ok := r.strs[index]
	return s, ok
}

func (r *sampleReader) CustomAttributeRIDs(table token.Table, rid token.RID) []token.RID {
	if table == token.TableModule && rid == 1 {
		return r.caRIDs
	}
	return nil
}

func (r *sampleReader) ResolveAssembly(rid token.RID) (*metadata.Assembly, bool) {
	if rid != 1 {
		return nil, false
	}
	return r.assembly, true
}

func (r *sampleReader) NativeEntryPointRVA() uint32            { return 0 }
func (r *sampleReader) ManagedEntryPoint() *metadata.MethodDef { return r.managed }

func (r *sampleReader) Resolve(tok token.Token, _ *metadata.GenericParamContext) (metadata.Entity, bool) {
	if e, ok := r.memo[tok]; ok {
		return e, true
	}
	e, ok := r.entities[tok]
	if ok {
		r.memo[tok] = e
	}
	return e, ok
}

func (r *sampleReader) CustomDebugInfos(token.Token, *metadata.GenericParamContext) []*metadata.CustomDebugInfo {
	return nil
}

// openSample materializes the built-in image behind a fresh facade.
func openSample() (*metadata.Module, error) {
	m, err := metadata.NewFromReader(newSampleReader(), "sample://Sample.Core.dll")
	if err != nil {
		return nil, fmt.Errorf("open sample image: %w", err)
	}
	m.SetRuntimeVersion("v4.0.30319")
	return m, nil
}
