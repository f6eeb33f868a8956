package metadata

// typeIndex is the name->type mapping behind cached lookups, built over the
// whole type forest including nested types, in both spellings.
type typeIndex struct {
	normal     map[string]*TypeDef
	reflection map[string]*TypeDef
}

func (m *Module) buildTypeIndex() *typeIndex {
	idx := &typeIndex{
		normal:     make(map[string]*TypeDef),
		reflection: make(map[string]*TypeDef),
	}
	m.walkTypes(func(t *TypeDef) bool {
		// First registration wins so lookups agree with linear search.
		n := t.FullName()
		if _, dup := idx.normal[n]; !dup {
			idx.normal[n] = t
		}
		r := t.ReflectionFullName()
		if _, dup := idx.reflection[r]; !dup {
			idx.reflection[r] = t
		}
		return true
	})
	return idx
}

// walkTypes visits every type in the module, nested included, in preorder.
func (m *Module) walkTypes(fn func(*TypeDef) bool) {
	var walk func(t *TypeDef) bool
	walk = func(t *TypeDef) bool {
		if !fn(t) {
			return false
		}
		for _, n := range t.nested {
			if !walk(n) {
				return false
			}
		}
		return true
	}
	m.Types().Each(walk)
}

// EnableTypeCache switches between O(n) linear lookups (the default) and an
// O(1) name index. The index is only correct while no type is added,
// removed or renamed; after such a change call ResetTypeCache, or lookups
// may return stale results (they will not crash).
func (m *Module) EnableTypeCache(enabled bool) {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	m.cacheEnabled = enabled
	m.typeIdx = nil // built on next lookup when enabled
}

// ResetTypeCache drops the name index; the next cached lookup rebuilds it.
func (m *Module) ResetTypeCache() {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	m.typeIdx = nil
}

func (m *Module) lookupIndex() *typeIndex {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	if !m.cacheEnabled {
		return nil
	}
	if m.typeIdx == nil {
		m.typeIdx = m.buildTypeIndex()
	}
	return m.typeIdx
}

// FindType looks a type up by its dotted full name (nested levels joined
// with '.').
func (m *Module) FindType(fullName string) (*TypeDef, bool) {
	if idx := m.lookupIndex(); idx != nil {
		t, ok := idx.normal[fullName]
		return t, ok
	}
	return m.findLinear(func(t *TypeDef) bool { return t.FullName() == fullName })
}

// FindTypeReflection looks a type up by its reflection full name (nested
// levels joined with '+').
func (m *Module) FindTypeReflection(fullName string) (*TypeDef, bool) {
	if idx := m.lookupIndex(); idx != nil {
		t, ok := idx.reflection[fullName]
		return t, ok
	}
	return m.findLinear(func(t *TypeDef) bool { return t.ReflectionFullName() == fullName })
}

func (m *Module) findLinear(match func(*TypeDef) bool) (*TypeDef, bool) {
	var found *TypeDef
	m.walkTypes(func(t *TypeDef) bool {
		if match(t) {
			found = t
			return false
		}
		return true
	})
	return found, found != nil
}

// FindDef resolves a definition, reference or specification to this
// module's own TypeDef. A definition matches only if it already belongs to
// this module; a reference resolves by name; a specification unwraps to its
// underlying def-or-ref and recurses, missing if there is nothing to
// unwrap.
func (m *Module) FindDef(t TypeOrRef) (*TypeDef, bool) {
	switch v := t.(type) {
	case *TypeDef:
		if v.module == m {
			return v, true
		}
		return nil, false
	case *TypeRef:
		return m.FindType(v.FullName())
	case *TypeSpec:
		if v.Underlying == nil {
			return nil, false
		}
		return m.FindDef(v.Underlying)
	default:
		return nil, false
	}
}
