package token

import (
	"sync"
	"testing"
)

func TestToken_Encoding(t *testing.T) {
	tests := []struct {
		table Table
		rid   RID
		want  uint32
	}{
		{TableModule, 1, 0x00000001},
		{TableTypeDef, 1, 0x02000001},
		{TableTypeDef, 0xFFFFFF, 0x02FFFFFF},
		{TableAssemblyRef, 7, 0x23000007},
		{TableCustomDebugInformation, 3, 0x37000003},
	}
	for _, tt := range tests {
		tok := NewToken(tt.table, tt.rid)
		if uint32(tok) != tt.want {
			t.Errorf("NewToken(%s, %d) = 0x%08X, want 0x%08X", tt.table, tt.rid, uint32(tok), tt.want)
		}
		if tok.Table() != tt.table {
			t.Errorf("Table() = %s, want %s", tok.Table(), tt.table)
		}
		if tok.RID() != tt.rid {
			t.Errorf("RID() = %d, want %d", tok.RID(), tt.rid)
		}
	}
}

func TestToken_RIDMasked(t *testing.T) {
	// A rid wider than 24 bits must not leak into the table tag.
	tok := NewToken(TableMethod, RID(0x12FFFFFF))
	if tok.Table() != TableMethod {
		t.Fatalf("table corrupted: %s", tok.Table())
	}
	if tok.RID() != 0x00FFFFFF {
		t.Fatalf("rid = 0x%X, want 0x00FFFFFF", tok.RID())
	}
}

func TestToken_IsNil(t *testing.T) {
	if !NewToken(TableTypeDef, 0).IsNil() {
		t.Error("rid 0 should be nil")
	}
	if NewToken(TableTypeDef, 1).IsNil() {
		t.Error("rid 1 should not be nil")
	}
}

func TestAllocator_Sequential(t *testing.T) {
	var a Allocator

	const n = 100
	for i := RID(1); i <= n; i++ {
		if got := a.Next(TableTypeDef); got != i {
			t.Fatalf("Next = %d, want %d", got, i)
		}
	}

	// Independent counter per table.
	if got := a.Next(TableMethod); got != 1 {
		t.Fatalf("Next(Method) = %d, want 1", got)
	}
}

func TestAllocator_OutOfRangeTable(t *testing.T) {
	var a Allocator
	if got := a.Next(Table(NumTables)); got != 0 {
		t.Fatalf("Next(out of range) = %d, want 0", got)
	}
	if got := a.Next(Table(0xFF)); got != 0 {
		t.Fatalf("Next(0xFF) = %d, want 0", got)
	}
}

func TestAllocator_Concurrent(t *testing.T) {
	var a Allocator

	const workers = 8
	const perWorker = 1000

	results := make([][]RID, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			rids := make([]RID, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				rids = append(rids, a.Next(TableField))
			}
			results[w] = rids
		}(w)
	}
	wg.Wait()

	seen := make(map[RID]bool, workers*perWorker)
	for _, rids := range results {
		for _, r := range rids {
			if seen[r] {
				t.Fatalf("duplicate rid %d", r)
			}
			seen[r] = true
		}
	}
	for i := RID(1); i <= workers*perWorker; i++ {
		if !seen[i] {
			t.Fatalf("rid %d never allocated", i)
		}
	}
}

type fakeEntity struct {
	rid   RID
	table Table
}

func (f *fakeEntity) MDTable() Table { return f.table }
func (f *fakeEntity) Rid() RID       { return f.rid }
func (f *fakeEntity) SetRid(r RID)   { f.rid = r }

func TestAllocator_Assign(t *testing.T) {
	var a Allocator
	e := &fakeEntity{table: TableTypeDef}

	a.Assign(e)
	if e.rid != 1 {
		t.Fatalf("rid = %d, want 1", e.rid)
	}

	// Idempotent: already assigned, no change.
	a.Assign(e)
	if e.rid != 1 {
		t.Fatalf("rid = %d after second Assign, want 1", e.rid)
	}

	a.ForceAssign(e)
	if e.rid != 2 {
		t.Fatalf("rid = %d after ForceAssign, want 2", e.rid)
	}
}

func TestTable_String(t *testing.T) {
	if TableTypeDef.String() != "TypeDef" {
		t.Errorf("TypeDef name: %s", TableTypeDef)
	}
	if Table(0x3E).String() != "Table(0x3E)" {
		t.Errorf("reserved tag name: %s", Table(0x3E))
	}
}
