package lazy

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestCell_Basic(t *testing.T) {
	var c Cell[int]

	if _, ok := c.Get(); ok {
		t.Fatal("fresh cell should be absent")
	}
	if c.Present() {
		t.Fatal("fresh cell should not be present")
	}

	got := c.GetOrInit(func() int { return 42 })
	if got != 42 {
		t.Fatalf("GetOrInit = %d, want 42", got)
	}

	// Second init must be a no-op.
	got = c.GetOrInit(func() int { return 99 })
	if got != 42 {
		t.Fatalf("second GetOrInit = %d, want 42", got)
	}

	v, ok := c.Get()
	if !ok || v != 42 {
		t.Fatalf("Get = (%d, %v), want (42, true)", v, ok)
	}
}

func TestCell_SetFirstWriterWins(t *testing.T) {
	var c Cell[string]

	if !c.Set("a") {
		t.Fatal("first Set should win")
	}
	if c.Set("b") {
		t.Fatal("second Set should lose")
	}
	if v, _ := c.Get(); v != "a" {
		t.Fatalf("value = %q, want %q", v, "a")
	}
}

func TestCell_Reset(t *testing.T) {
	var c Cell[int]
	c.Set(1)
	c.Reset()
	if c.Present() {
		t.Fatal("reset cell should be absent")
	}
	if got := c.GetOrInit(func() int { return 2 }); got != 2 {
		t.Fatalf("after reset GetOrInit = %d, want 2", got)
	}
}

func TestCell_RacingFactories(t *testing.T) {
	var c Cell[int]
	var calls atomic.Int32

	const goroutines = 32
	results := make([]int, goroutines)

	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer done.Done()
			start.Wait()
			results[id] = c.GetOrInit(func() int {
				calls.Add(1)
				return id + 1
			})
		}(i)
	}
	start.Done()
	done.Wait()

	winner := results[0]
	for i, r := range results {
		if r != winner {
			t.Fatalf("goroutine %d observed %d, others observed %d", i, r, winner)
		}
	}
	if v, _ := c.Get(); v != winner {
		t.Fatalf("final value %d != observed %d", v, winner)
	}
	if calls.Load() < 1 {
		t.Fatal("factory never ran")
	}
}

func TestList_Hooks(t *testing.T) {
	var added, removed []int
	reject := false

	l := NewList(
		func(i int, v int) error {
			if reject {
				return errRejected
			}
			added = append(added, v)
			return nil
		},
		func(i int, v int) {
			removed = append(removed, v)
		},
	)

	if err := l.Add(1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := l.Add(2); err != nil {
		t.Fatalf("Add: %v", err)
	}

	reject = true
	if err := l.Add(3); err == nil {
		t.Fatal("Add should have been rejected by hook")
	}
	if l.Len() != 2 {
		t.Fatalf("Len = %d after rejected add, want 2", l.Len())
	}

	v, ok := l.RemoveAt(0)
	if !ok || v != 1 {
		t.Fatalf("RemoveAt = (%d, %v)", v, ok)
	}
	if len(removed) != 1 || removed[0] != 1 {
		t.Fatalf("remove hook saw %v", removed)
	}
	if len(added) != 2 {
		t.Fatalf("add hook saw %v", added)
	}
}

func TestList_InsertAndIndex(t *testing.T) {
	l := NewList[string](nil, nil)
	l.Add("a")
	l.Add("c")
	if err := l.Insert(1, "b"); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	want := []string{"a", "b", "c"}
	got := l.Slice()
	if len(got) != len(want) {
		t.Fatalf("Slice = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Slice[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if idx := l.Index(func(s string) bool { return s == "b" }); idx != 1 {
		t.Fatalf("Index = %d, want 1", idx)
	}
	if idx := l.Index(func(s string) bool { return s == "z" }); idx != -1 {
		t.Fatalf("Index = %d, want -1", idx)
	}
}

var errRejected = errorString("rejected")

type errorString string

func (e errorString) Error() string { return string(e) }
