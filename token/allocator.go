package token

import "sync/atomic"

// RowIdentity is implemented by entities that live in a metadata table.
type RowIdentity interface {
	// MDTable is the table the entity belongs to.
	MDTable() Table
	// Rid returns the entity's row id, 0 if unassigned.
	Rid() RID
	// SetRid assigns the entity's row id.
	SetRid(RID)
}

// Allocator mints fresh row ids for entities destined for a module, one
// monotonic counter per table. It never inspects rows already occupied in a
// source binary; keeping freshly-allocated ids from colliding with
// binary-sourced ones is the caller's concern.
type Allocator struct {
	counters [NumTables]atomic.Uint32
}

// Next returns the next free row id for table, or 0 if the table tag is out
// of range. Increments are linearizable per table: N sequential calls yield
// 1..N, and concurrent callers never observe a duplicate.
func (a *Allocator) Next(table Table) RID {
	if int(table) >= NumTables {
		return 0
	}
	return RID(a.counters[table].Add(1)) & RIDMax
}

// Assign gives e a fresh row id only if it does not have one yet.
func (a *Allocator) Assign(e RowIdentity) {
	if e.Rid() == 0 {
		e.SetRid(a.Next(e.MDTable()))
	}
}

// ForceAssign gives e a fresh row id unconditionally.
func (a *Allocator) ForceAssign(e RowIdentity) {
	e.SetRid(a.Next(e.MDTable()))
}
