package metadata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	clrerrors "github.com/halcyonlab/clr-metadata/errors"
	"github.com/halcyonlab/clr-metadata/lazy"
	"github.com/halcyonlab/clr-metadata/token"
)

// fakeReader is an in-memory RowReader over fixed rows.
type fakeReader struct {
	row       RawModuleRow
	rowOK     bool
	strs      map[uint32]string
	guids     map[uint32]uuid.UUID
	entities  map[token.Token]Entity
	assembly  *Assembly
	caRIDs    []token.RID
	nativeRVA uint32
	managed   *MethodDef
	cdis      []*CustomDebugInfo

	mu           sync.Mutex
	resolveCalls map[token.Token]int
	onResolve    func()
}

func (f *fakeReader) TryModuleRow(rid token.RID) (RawModuleRow, bool) {
	if rid != 1 || !f.rowOK {
		return RawModuleRow{}, false
	}
	return f.row, true
}

func (f *fakeReader) GUID(index uint32) (uuid.UUID, bool) {
	g, ok := f.guids[index]
	return g, ok
}

func (f *fakeReader) String(index uint32) (string, bool) {
	s, ok := f.strs[index]
	return s, ok
}

func (f *fakeReader) CustomAttributeRIDs(table token.Table, rid token.RID) []token.RID {
	if table == token.TableModule && rid == 1 {
		return f.caRIDs
	}
	return nil
}

func (f *fakeReader) ResolveAssembly(rid token.RID) (*Assembly, bool) {
	if rid == 1 && f.assembly != nil {
		return f.assembly, true
	}
	return nil, false
}

func (f *fakeReader) NativeEntryPointRVA() uint32   { return f.nativeRVA }
func (f *fakeReader) ManagedEntryPoint() *MethodDef { return f.managed }

func (f *fakeReader) Resolve(tok token.Token, _ *GenericParamContext) (Entity, bool) {
	f.mu.Lock()
	if f.resolveCalls == nil {
		f.resolveCalls = make(map[token.Token]int)
	}
	f.resolveCalls[tok]++
	f.mu.Unlock()
	if f.onResolve != nil {
		f.onResolve()
	}
	e, ok := f.entities[tok]
	return e, ok
}

func (f *fakeReader) CustomDebugInfos(token.Token, *GenericParamContext) []*CustomDebugInfo {
	return f.cdis
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		row:   RawModuleRow{Generation: 2, Name: 10, Mvid: 1, EncID: 0, EncBaseID: 0},
		rowOK: true,
		strs:  map[uint32]string{10: "fixture.dll"},
		guids: map[uint32]uuid.UUID{
			1: uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		},
		entities: make(map[token.Token]Entity),
	}
}

func (f *fakeReader) addRows(table token.Table, rows ...Entity) {
	for i, e := range rows {
		rid := token.RID(i + 1)
		e.SetRid(rid)
		f.entities[token.NewToken(table, rid)] = e
	}
}

func TestNewFromReader_NilReader(t *testing.T) {
	if _, err := NewFromReader(nil, ""); err == nil {
		t.Fatal("nil reader must be rejected")
	}
}

func TestNewFromReader_IdentityMaterialization(t *testing.T) {
	f := newFakeReader()
	f.assembly = NewAssembly("Fixture", Version{4, 0, 0, 0})

	m, err := NewFromReader(f, "/tmp/fixture.dll")
	if err != nil {
		t.Fatalf("NewFromReader: %v", err)
	}

	if m.Location() != "/tmp/fixture.dll" {
		t.Errorf("Location = %q", m.Location())
	}
	if m.Rid() != 1 || m.OrigRid() != 1 {
		t.Errorf("rid/origRid = %d/%d", m.Rid(), m.OrigRid())
	}

	// First identity access decodes the row.
	if m.Name() != "fixture.dll" {
		t.Errorf("Name = %q", m.Name())
	}
	if m.Generation() != 2 {
		t.Errorf("Generation = %d", m.Generation())
	}
	if m.Mvid() == nil || m.Mvid().String() != "11111111-2222-3333-4444-555555555555" {
		t.Errorf("Mvid = %v", m.Mvid())
	}
	if m.EncID() != nil {
		t.Error("guid index 0 must stay absent")
	}
	if m.Assembly() == nil || m.Assembly().Name != "Fixture" {
		t.Error("manifest module should resolve its owning assembly")
	}
}

func TestResolve_IdempotentThroughMemo(t *testing.T) {
	f := newFakeReader()
	f.addRows(token.TableTypeDef, NewTypeDef("Lib", "A"))

	m, _ := NewFromReader(f, "")
	tok := token.NewToken(token.TableTypeDef, 1)

	e1, ok1 := m.Resolve(tok, nil)
	e2, ok2 := m.Resolve(tok, nil)
	if !ok1 || !ok2 || e1 != e2 {
		t.Fatal("repeated resolution must return the same entity")
	}
	if f.resolveCalls[tok] != 1 {
		t.Fatalf("reader resolved %d times, want 1", f.resolveCalls[tok])
	}

	// Nil tokens never resolve and never hit the reader.
	if _, ok := m.Resolve(token.NewToken(token.TableTypeDef, 0), nil); ok {
		t.Fatal("nil token resolved")
	}
}

func TestEnumerateTokens_OrderAndGapTruncation(t *testing.T) {
	f := newFakeReader()
	f.addRows(token.TableTypeRef,
		NewTypeRef(nil, "System", "Object"),
		NewTypeRef(nil, "System", "String"),
		NewTypeRef(nil, "System", "Int32"),
	)
	m, _ := NewFromReader(f, "")

	var seen []token.RID
	m.EnumerateTokens(token.TableTypeRef, func(e Entity) bool {
		seen = append(seen, e.Rid())
		return true
	})
	if len(seen) != 3 || seen[0] != 1 || seen[1] != 2 || seen[2] != 3 {
		t.Fatalf("seen = %v, want [1 2 3]", seen)
	}

	// A gap at row 2 truncates enumeration after row 1.
	delete(f.entities, token.NewToken(token.TableTypeRef, 2))
	m2, _ := NewFromReader(f, "")
	seen = nil
	m2.EnumerateTokens(token.TableTypeRef, func(e Entity) bool {
		seen = append(seen, e.Rid())
		return true
	})
	if len(seen) != 1 || seen[0] != 1 {
		t.Fatalf("seen = %v, want [1]", seen)
	}
}

func TestEnumerateTokens_WrongTypeStops(t *testing.T) {
	f := newFakeReader()
	f.addRows(token.TableTypeRef, NewTypeRef(nil, "System", "Object"))
	// Row 2 resolves, but to an entity of a different table.
	stray := NewTypeDef("Lib", "Stray")
	stray.SetRid(2)
	f.entities[token.NewToken(token.TableTypeRef, 2)] = stray

	m, _ := NewFromReader(f, "")
	var count int
	m.EnumerateTokens(token.TableTypeRef, func(Entity) bool {
		count++
		return true
	})
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestTypes_MaterializedFromReader(t *testing.T) {
	f := newFakeReader()
	outer := NewTypeDef("Lib", "Outer")
	inner := NewTypeDef("", "Inner")
	if err := outer.AddNestedType(inner); err != nil {
		t.Fatalf("AddNestedType: %v", err)
	}
	global := NewTypeDef("", GlobalTypeName)
	f.addRows(token.TableTypeDef, global, outer, inner)

	m, _ := NewFromReader(f, "")
	types := m.Types()

	// Only non-nested types are direct members; insertion order preserved.
	if types.Len() != 2 {
		t.Fatalf("Len = %d, want 2", types.Len())
	}
	first, _ := types.At(0)
	if !first.IsGlobalModuleType() {
		t.Errorf("Types[0] = %q, want global type", first.Name)
	}
	second, _ := types.At(1)
	if second != outer {
		t.Errorf("Types[1] = %v", second)
	}
	if inner.Module() != m {
		t.Error("nested type should be owned through its root")
	}

	// Same list instance on every access.
	if m.Types() != types {
		t.Error("Types list must be stable")
	}
}

func TestTypes_ConcurrentFirstAccess(t *testing.T) {
	f := newFakeReader()
	f.addRows(token.TableTypeDef,
		NewTypeDef("", GlobalTypeName),
		NewTypeDef("Lib", "A"),
		NewTypeDef("Lib", "B"),
		NewTypeDef("Lib", "C"),
	)
	// Slow resolution widens the window between racing first accesses.
	f.onResolve = func() { time.Sleep(200 * time.Microsecond) }

	m, _ := NewFromReader(f, "")

	const goroutines = 8
	lists := make([]*lazy.List[*TypeDef], goroutines)
	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer done.Done()
			start.Wait()
			lists[i] = m.Types()
		}(i)
	}
	start.Done()
	done.Wait()

	// The list materializes exactly once: every caller sees the same
	// instance with every top-level type adopted.
	for i, l := range lists {
		if l != lists[0] {
			t.Fatalf("goroutine %d got a different list", i)
		}
	}
	if got := lists[0].Len(); got != 4 {
		t.Fatalf("Len = %d, want 4", got)
	}
	lists[0].Each(func(td *TypeDef) bool {
		if td.Module() != m {
			t.Errorf("%s not adopted", td.FullName())
		}
		return true
	})
}

func TestCustomAttributes_FromReader(t *testing.T) {
	f := newFakeReader()
	f.addRows(token.TableCustomAttribute,
		&CustomAttribute{TypeFullName: "System.CLSCompliantAttribute"},
		&CustomAttribute{TypeFullName: "System.Reflection.AssemblyTitleAttribute"},
	)
	f.caRIDs = []token.RID{1, 2}

	m, _ := NewFromReader(f, "")
	cas := m.CustomAttributes()
	if cas.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cas.Len())
	}
	ca, _ := cas.At(0)
	if ca.TypeFullName != "System.CLSCompliantAttribute" {
		t.Errorf("first attribute = %q", ca.TypeFullName)
	}
}

func TestEntryPoint_FromReader(t *testing.T) {
	native := newFakeReader()
	native.nativeRVA = 0x4000
	m1, _ := NewFromReader(native, "")
	if m1.NativeEntryPointRVA() != 0x4000 || m1.ManagedEntryPoint() != nil {
		t.Fatal("native entry point not materialized")
	}

	managed := newFakeReader()
	managed.managed = &MethodDef{Name: "Main"}
	m2, _ := NewFromReader(managed, "")
	if m2.ManagedEntryPoint() == nil || m2.NativeEntryPointRVA() != 0 {
		t.Fatal("managed entry point not materialized")
	}
}

func TestFindAssemblyRef_GreatestVersionWins(t *testing.T) {
	f := newFakeReader()
	f.addRows(token.TableAssemblyRef,
		&AssemblyRef{Name: "mscorlib", Version: &Version{2, 0, 0, 0}},
		&AssemblyRef{Name: "mscorlib", Version: nil},
		&AssemblyRef{Name: "mscorlib", Version: &Version{4, 0, 0, 0}},
		&AssemblyRef{Name: "System.Core", Version: &Version{9, 9, 9, 9}},
	)
	m, _ := NewFromReader(f, "")

	ref, ok := m.FindAssemblyRef("mscorlib")
	if !ok {
		t.Fatal("ref not found")
	}
	if ref.Version == nil || ref.Version.Major != 4 {
		t.Fatalf("kept version %v, want 4.0.0.0", ref.Version)
	}

	if _, ok := m.FindAssemblyRef("nope"); ok {
		t.Fatal("unexpected match")
	}
}

func TestFindAssemblyRef_TieKeepsFirst(t *testing.T) {
	f := newFakeReader()
	first := &AssemblyRef{Name: "lib", Version: &Version{1, 2, 3, 4}}
	second := &AssemblyRef{Name: "lib", Version: &Version{1, 2, 3, 4}}
	f.addRows(token.TableAssemblyRef, first, second)
	m, _ := NewFromReader(f, "")

	ref, _ := m.FindAssemblyRef("lib")
	if ref != first {
		t.Fatal("tie must keep the first row")
	}

	// All-missing versions also keep the first.
	f2 := newFakeReader()
	a := &AssemblyRef{Name: "lib"}
	b := &AssemblyRef{Name: "lib"}
	f2.addRows(token.TableAssemblyRef, a, b)
	m2, _ := NewFromReader(f2, "")
	if ref, _ := m2.FindAssemblyRef("lib"); ref != a {
		t.Fatal("tie between missing versions must keep the first row")
	}
}

func TestLoadEverything(t *testing.T) {
	f := newFakeReader()
	f.addRows(token.TableTypeDef, NewTypeDef("Lib", "A"), NewTypeDef("Lib", "B"))
	f.addRows(token.TableAssemblyRef, &AssemblyRef{Name: "mscorlib", Version: &Version{4, 0, 0, 0}})
	m, _ := NewFromReader(f, "")

	if err := m.LoadEverything(context.Background()); err != nil {
		t.Fatalf("LoadEverything: %v", err)
	}
	if m.Name() != "fixture.dll" {
		t.Error("identity row not loaded")
	}
	if m.Types().Len() != 2 {
		t.Error("types not loaded")
	}
}

func TestLoadEverything_Canceled(t *testing.T) {
	f := newFakeReader()
	f.addRows(token.TableTypeDef, NewTypeDef("Lib", "A"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, _ := NewFromReader(f, "")
	err := m.LoadEverything(ctx)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	var structured *clrerrors.Error
	if !errors.As(err, &structured) || structured.Kind != clrerrors.KindCanceled {
		t.Fatalf("err = %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatal("cause chain should carry context.Canceled")
	}
}

func TestLoadEverything_CanceledMidway(t *testing.T) {
	f := newFakeReader()
	rows := make([]Entity, 50)
	for i := range rows {
		rows[i] = NewTypeRef(nil, "Lib", "T")
	}
	f.addRows(token.TableTypeRef, rows...)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	f.onResolve = func() {
		calls++
		if calls == 10 {
			cancel()
		}
	}

	m, _ := NewFromReader(f, "")
	if err := m.LoadEverything(ctx); err == nil {
		t.Fatal("expected cancellation error")
	}
}
