package metadata

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/halcyonlab/clr-metadata/errors"
	"github.com/halcyonlab/clr-metadata/token"
)

// entityResolver is the per-variant token resolution strategy, selected at
// module construction. User-authored modules have no backing store, so
// every token misses; reader-backed modules delegate to the binary reader.
type entityResolver interface {
	resolve(tok token.Token, gp *GenericParamContext) (Entity, bool)
}

type noResolver struct{}

func (noResolver) resolve(token.Token, *GenericParamContext) (Entity, bool) {
	return nil, false
}

type readerResolver struct {
	reader RowReader

	// memo keeps context-free resolutions so repeated calls with the same
	// token return the same entity. Context-dependent calls go straight to
	// the reader; the context changes what a signature means.
	memo sync.Map // token.Token -> Entity
}

func (r *readerResolver) resolve(tok token.Token, gp *GenericParamContext) (Entity, bool) {
	if gp != nil {
		return r.reader.Resolve(tok, gp)
	}
	if e, ok := r.memo.Load(tok); ok {
		return e.(Entity), true
	}
	e, ok := r.reader.Resolve(tok, nil)
	if !ok {
		return nil, false
	}
	actual, _ := r.memo.LoadOrStore(tok, e)
	return actual.(Entity), true
}

// Resolve dispatches a metadata token to its entity. A miss is an expected
// outcome (user-authored modules resolve nothing; readers miss on gaps) and
// is reported with a false ok, never an error.
func (m *Module) Resolve(tok token.Token, gp *GenericParamContext) (Entity, bool) {
	if tok.IsNil() {
		return nil, false
	}
	return m.resolver.resolve(tok, gp)
}

// EnumerateTokens probes table's rows at rid 1, 2, 3, ... and calls fn for
// each resolved, correctly-typed entity, stopping at the first row that
// misses or resolves to a different table, or when fn returns false.
//
// A removed row mid-table therefore truncates enumeration at the gap. This
// is deliberate: the facade does not know table sizes, only whether a row
// resolves.
func (m *Module) EnumerateTokens(table token.Table, fn func(Entity) bool) {
	for rid := token.RID(1); rid <= token.RIDMax; rid++ {
		e, ok := m.Resolve(token.NewToken(table, rid), nil)
		if !ok || e.MDTable() != table {
			return
		}
		if !fn(e) {
			return
		}
	}
}

// FindAssemblyRef returns the AssemblyRef row with the given name carrying
// the greatest version. A missing version orders below any present version;
// ties keep the first row found.
func (m *Module) FindAssemblyRef(name string) (*AssemblyRef, bool) {
	var best *AssemblyRef
	m.EnumerateTokens(token.TableAssemblyRef, func(e Entity) bool {
		ref, ok := e.(*AssemblyRef)
		if !ok || ref.Name != name {
			return true
		}
		if best == nil || compareOptional(ref.Version, best.Version) > 0 {
			best = ref
		}
		return true
	})
	return best, best != nil
}

// LoadEverything materializes the whole module eagerly: the identity row,
// every owned collection, and every resolvable row of every table. The
// context is checked between entities; cancellation aborts with a
// cancellation error instead of reporting partial success.
func (m *Module) LoadEverything(ctx context.Context) error {
	m.ensureRow()

	if err := ctx.Err(); err != nil {
		return errors.Canceled(err)
	}

	// Owned collections first so their hookups run even for tables the
	// probe below cannot see.
	m.Types()
	m.ExportedTypes()
	m.Resources()
	m.CustomAttributes()
	m.CustomDebugInfos()
	m.lookupIndex() // warms the name index when the cache is enabled

	var loaded int
	for t := token.Table(0); t < token.NumTables; t++ {
		canceled := false
		m.EnumerateTokens(t, func(Entity) bool {
			loaded++
			if ctx.Err() != nil {
				canceled = true
				return false
			}
			return true
		})
		if canceled || ctx.Err() != nil {
			return errors.Canceled(ctx.Err())
		}
	}

	Logger().Debug("module fully loaded",
		zap.String("name", m.name),
		zap.Int("entities", loaded))
	return nil
}
