package metadata

import "testing"

func newTypeFixture(t *testing.T) (*Module, *TypeDef, *TypeDef) {
	t.Helper()
	m := New("types.dll")

	outer := NewTypeDef("Lib", "Outer")
	inner := NewTypeDef("", "Inner")
	if err := outer.AddNestedType(inner); err != nil {
		t.Fatalf("AddNestedType: %v", err)
	}
	if err := m.Types().Add(outer); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := m.Types().Add(NewTypeDef("Lib", "Other")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return m, outer, inner
}

func TestFindType_Linear(t *testing.T) {
	m, outer, inner := newTypeFixture(t)

	got, ok := m.FindType("Lib.Outer")
	if !ok || got != outer {
		t.Fatalf("FindType(Lib.Outer) = %v, %v", got, ok)
	}

	// Nested types use the dotted spelling in the normal form.
	got, ok = m.FindType("Lib.Outer.Inner")
	if !ok || got != inner {
		t.Fatalf("FindType(Lib.Outer.Inner) = %v, %v", got, ok)
	}

	// The reflection spelling joins nesting with '+'.
	got, ok = m.FindTypeReflection("Lib.Outer+Inner")
	if !ok || got != inner {
		t.Fatalf("FindTypeReflection = %v, %v", got, ok)
	}
	if _, ok := m.FindTypeReflection("Lib.Outer.Inner"); ok {
		t.Fatal("dotted spelling must not match the reflection form of a nested type")
	}
	if _, ok := m.FindType("Lib.Missing"); ok {
		t.Fatal("unexpected match")
	}
}

func TestFindType_CachedMatchesLinear(t *testing.T) {
	m, outer, inner := newTypeFixture(t)
	names := []string{"Lib.Outer", "Lib.Outer.Inner", "Lib.Other", GlobalTypeName, "Lib.Missing"}

	linear := make(map[string]*TypeDef)
	for _, n := range names {
		linear[n], _ = m.FindType(n)
	}
	if linear["Lib.Outer"] != outer || linear["Lib.Outer.Inner"] != inner {
		t.Fatal("linear baseline is wrong")
	}

	m.EnableTypeCache(true)
	for _, n := range names {
		got, _ := m.FindType(n)
		if got != linear[n] {
			t.Errorf("FindType(%q): cached %v, linear %v", n, got, linear[n])
		}
	}
	if got, ok := m.FindTypeReflection("Lib.Outer+Inner"); !ok || got != inner {
		t.Errorf("cached reflection lookup = %v, %v", got, ok)
	}
}

func TestTypeCache_StaleUntilReset(t *testing.T) {
	m, outer, _ := newTypeFixture(t)
	m.EnableTypeCache(true)

	if _, ok := m.FindType("Lib.Outer"); !ok {
		t.Fatal("warm-up lookup failed")
	}

	outer.Name = "Renamed"

	// The index is stale: the old name still resolves, the new one does not.
	if got, ok := m.FindType("Lib.Outer"); !ok || got != outer {
		t.Fatal("stale cache should keep answering under the old name")
	}
	if _, ok := m.FindType("Lib.Renamed"); ok {
		t.Fatal("stale cache should not know the new name yet")
	}

	m.ResetTypeCache()
	if _, ok := m.FindType("Lib.Outer"); ok {
		t.Fatal("old name must be gone after reset")
	}
	if got, ok := m.FindType("Lib.Renamed"); !ok || got != outer {
		t.Fatal("new name must resolve after reset")
	}

	// Disabling the cache falls back to linear search immediately.
	outer.Name = "Again"
	m.EnableTypeCache(false)
	if _, ok := m.FindType("Lib.Again"); !ok {
		t.Fatal("linear lookup must see the rename without a reset")
	}
}

func TestFindDef(t *testing.T) {
	m, outer, _ := newTypeFixture(t)
	other := New("other.dll")
	foreign := NewTypeDef("Lib", "Foreign")
	if err := other.Types().Add(foreign); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if got, ok := m.FindDef(outer); !ok || got != outer {
		t.Error("own def must match")
	}
	if _, ok := m.FindDef(foreign); ok {
		t.Error("a def owned by another module must miss")
	}

	ref := NewTypeRef(m, "Lib", "Outer")
	if got, ok := m.FindDef(ref); !ok || got != outer {
		t.Error("ref must resolve by name")
	}

	spec := &TypeSpec{Underlying: ref}
	if got, ok := m.FindDef(spec); !ok || got != outer {
		t.Error("spec must unwrap to its underlying ref")
	}
	if _, ok := m.FindDef(&TypeSpec{}); ok {
		t.Error("spec without an underlying type must miss")
	}
}
